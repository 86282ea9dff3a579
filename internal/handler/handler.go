package handler

import (
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/config"
	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/service"
	"salestrack-bot/internal/store"
	"salestrack-bot/internal/tracker"
)

// Sender - часть tgbotapi.BotAPI, которой пользуется обработчик
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot      Sender
	services *service.Services
	trackers *tracker.Manager
	config   *config.Config
	logger   *logrus.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[int64]string // chat id -> id сотрудника, вошедшего из этого чата

	notifyMu       sync.Mutex
	lastNotifiedID string
}

func NewHandler(
	bot Sender,
	services *service.Services,
	trackers *tracker.Manager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		bot:      bot,
		services: services,
		trackers: trackers,
		config:   cfg,
		logger:   logger.GetLogger("bot"),
		now:      time.Now,
		sessions: make(map[int64]string),
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	h.logger.Infof("[%s] %s", username, message.Text)

	h.recordActivity(chatID, tracker.KeyPress)

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.reply(chatID, "🤖 Я понимаю только команды. Используйте /help для списка команд.")
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.WithError(err).Warn("Failed to answer callback query")
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}

	chatID := callback.Message.Chat.ID
	h.recordActivity(chatID, tracker.PointerDown)

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.send(editMsg)

	action, id, ok := strings.Cut(callback.Data, ":")
	if !ok || id == "" {
		h.logger.WithField("data", callback.Data).Warn("Unknown callback data")
		return
	}

	switch action {
	case callbackApprove:
		h.approveLeave(chatID, id)
	case callbackReject:
		h.rejectLeave(chatID, id, "")
	default:
		h.logger.WithField("data", callback.Data).Warn("Unknown callback action")
	}
}

// recordActivity передает событие ввода трекеру сотрудника, вошедшего из чата
func (h *Handler) recordActivity(chatID int64, event tracker.Event) {
	employeeID, ok := h.sessionOf(chatID)
	if !ok {
		return
	}
	if err := h.trackers.RecordActivity(employeeID, event); err != nil {
		h.logger.WithError(err).WithField("employee_id", employeeID).Warn("Failed to record activity")
	}
}

func (h *Handler) sessionOf(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.sessions[chatID]
	return id, ok
}

func (h *Handler) setSession(chatID int64, employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if employeeID == "" {
		delete(h.sessions, chatID)
		return
	}
	h.sessions[chatID] = employeeID
}

// currentEmployee - сотрудник, вошедший из чата. Сообщает пользователю, если входа нет.
func (h *Handler) currentEmployee(chatID int64) (*models.Employee, bool) {
	id, ok := h.sessionOf(chatID)
	if !ok {
		h.reply(chatID, "🔒 Сначала войдите: /login <email> <пароль>")
		return nil, false
	}

	employee, err := h.services.Employees.GetEmployee(id)
	if err != nil {
		h.setSession(chatID, "")
		h.reply(chatID, "❌ Ваш профиль удален. Войдите снова: /login <email> <пароль>")
		return nil, false
	}
	return employee, true
}

func (h *Handler) currentAdmin(chatID int64) (*models.Employee, bool) {
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return nil, false
	}
	if !employee.IsAdmin() {
		h.reply(chatID, "⛔ Эта команда доступна только администраторам.")
		return nil, false
	}
	return employee, true
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.WithError(err).Warn("Failed to send message")
	}
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

// replyError показывает ошибку пользователю, отделяя ожидаемые ошибки от сбоев
func (h *Handler) replyError(chatID int64, err error) {
	var storageErr *store.StorageError

	switch {
	case service.IsValidationError(err):
		h.reply(chatID, "⚠️ "+err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.reply(chatID, "❌ Неверный email или пароль.")
	case errors.Is(err, service.ErrNothingToExport):
		h.reply(chatID, "📭 Нет данных для выгрузки.")
	case errors.Is(err, repository.ErrNotCheckedIn):
		h.reply(chatID, "❌ Сегодня нет отметки о приходе. Сначала используйте /in")
	case errors.Is(err, repository.ErrLeaveRequestNotFound),
		errors.Is(err, repository.ErrEmployeeNotFound),
		errors.Is(err, repository.ErrLeaveAlreadyReviewed):
		h.reply(chatID, "❌ "+err.Error())
	case errors.As(err, &storageErr):
		h.logger.WithError(err).Error("Storage failure")
		h.reply(chatID, "❌ Не удалось сохранить данные, попробуйте позже.")
	default:
		h.logger.WithError(err).Error("Command failed")
		h.reply(chatID, "❌ Ошибка: "+err.Error())
	}
}
