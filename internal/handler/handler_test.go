package handler

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/config"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/service"
	"salestrack-bot/internal/store"
	"salestrack-bot/internal/tracker"
)

const (
	sellerChat   int64 = 100
	adminChat    int64 = 200
	forwardChat  int64 = 500
	sellerEmail        = "jane@x.com"
	adminEmail         = "admin@glowlogics.com"
	testPassword       = "pw"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// textsTo - тексты сообщений, отправленных в чат
func (s *fakeSender) textsTo(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var texts []string
	for _, c := range s.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func (s *fakeSender) lastTo(chatID int64) string {
	texts := s.textsTo(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (s *fakeSender) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range s.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

func (s *fakeSender) documents() []tgbotapi.DocumentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tgbotapi.DocumentConfig
	for _, c := range s.sent {
		if doc, ok := c.(tgbotapi.DocumentConfig); ok {
			out = append(out, doc)
		}
	}
	return out
}

type botFixture struct {
	handler  *Handler
	sender   *fakeSender
	services *service.Services
	repos    *repository.Repositories
	store    *store.Store
	trackers *tracker.Manager
	seller   *models.Employee
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	st, err := store.OpenStore(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	repos := repository.New(st, repository.DefaultNotificationLimit)
	services := service.New(repos, st, service.TargetDefaults{Conversions: 50, Revenue: 10000})
	require.NoError(t, services.Employees.InitializeAdmin(repository.AdminSeed{
		Name:     "Admin User",
		Email:    adminEmail,
		Password: testPassword,
	}))
	seller, err := services.Employees.AddEmployee(service.EmployeeInput{
		Name:       "Jane",
		Email:      sellerEmail,
		Department: "Sales",
		Password:   testPassword,
	})
	require.NoError(t, err)

	trackers := tracker.NewManager(repos.Activity, tracker.SystemClock(), tracker.Config{})
	t.Cleanup(trackers.CloseAll)

	sender := &fakeSender{}
	h := NewHandler(sender, services, trackers, &config.Config{AdminChatID: forwardChat})
	t.Cleanup(h.WatchNotifications(st))

	return &botFixture{
		handler:  h,
		sender:   sender,
		services: services,
		repos:    repos,
		store:    st,
		trackers: trackers,
		seller:   seller,
	}
}

func commandMessage(chatID int64, text string) *tgbotapi.Message {
	command := text
	if i := strings.Index(text, " "); i >= 0 {
		command = text[:i]
	}
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID, UserName: "tester", FirstName: "Tester"},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}
}

func (f *botFixture) run(updates ...tgbotapi.Update) {
	ch := make(chan tgbotapi.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	close(ch)
	f.handler.HandleUpdates(ch)
}

func (f *botFixture) command(chatID int64, text string) string {
	f.run(tgbotapi.Update{Message: commandMessage(chatID, text)})
	return f.sender.lastTo(chatID)
}

func (f *botFixture) loginSeller() {
	f.command(sellerChat, "/login "+sellerEmail+" "+testPassword)
}

func (f *botFixture) loginAdmin() {
	f.command(adminChat, "/login "+adminEmail+" "+testPassword+" admin")
}

func TestLogin(t *testing.T) {
	f := newBotFixture(t)

	assert.Contains(t, f.command(sellerChat, "/login "+sellerEmail+" wrong"), "Неверный email или пароль")
	assert.Contains(t, f.command(sellerChat, "/login "+sellerEmail), "Формат")
	assert.Contains(t, f.command(sellerChat, "/login "+sellerEmail+" "+testPassword+" boss"), "admin")

	assert.Contains(t, f.command(sellerChat, "/login "+sellerEmail+" "+testPassword), "Вы вошли как Jane")
	id, ok := f.handler.sessionOf(sellerChat)
	require.True(t, ok)
	assert.Equal(t, f.seller.ID, id)

	// сообщения с паролем удаляются
	assert.NotEmpty(t, f.sender.requests)

	assert.Contains(t, f.command(sellerChat, "/logout"), "вышли")
	_, ok = f.handler.sessionOf(sellerChat)
	assert.False(t, ok)
}

func TestCommandsRequireLogin(t *testing.T) {
	f := newBotFixture(t)

	assert.Contains(t, f.command(sellerChat, "/in"), "Сначала войдите")
	assert.Contains(t, f.command(sellerChat, "/stats"), "Сначала войдите")
	assert.Contains(t, f.command(sellerChat, "/unknown"), "Неизвестная команда")
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()

	for _, cmd := range []string{"/team", "/pending", "/notifications", "/export employees", "/approve x"} {
		assert.Contains(t, f.command(sellerChat, cmd), "только администраторам", cmd)
	}
}

func TestCheckInAndOut(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()

	assert.Contains(t, f.command(sellerChat, "/out"), "нет отметки о приходе")

	assert.Contains(t, f.command(sellerChat, "/in"), "Рабочий день начат")
	assert.True(t, f.trackers.For(f.seller.ID).IsTracking())

	forwarded := f.sender.textsTo(forwardChat)
	require.Len(t, forwarded, 1)
	assert.Contains(t, forwarded[0], "Jane checked in at")

	reply := f.command(sellerChat, "/out")
	assert.Contains(t, reply, "Рабочий день завершен")
	assert.Contains(t, reply, "Продуктивное время")
	assert.False(t, f.trackers.For(f.seller.ID).IsTracking())

	forwarded = f.sender.textsTo(forwardChat)
	require.Len(t, forwarded, 2)
	assert.Contains(t, forwarded[1], "Jane checked out after")
}

func TestLogPerformanceAndStats(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()

	assert.Contains(t, f.command(sellerChat, "/log today 10 5"), "нужно 6 параметров")
	assert.Contains(t, f.command(sellerChat, "/log today ten 5 2 1500 0"), "не является целым числом")
	assert.Contains(t, f.command(sellerChat, "/log today 10 2 5 1500 0"), "конверсий не может быть больше")

	reply := f.command(sellerChat, "/log today 40 20 5 12500 3000")
	assert.Contains(t, reply, "40 calls, 5 conversions, ₹12,500 revenue recorded.")

	stats := f.command(sellerChat, "/stats")
	assert.Contains(t, stats, "Звонки: 40")
	assert.Contains(t, stats, "Конверсии: 5 (25%, average)")
	assert.Contains(t, stats, "Конверсии: 5/50 (10%)")
	assert.Contains(t, stats, "above the typical target of 25%")
}

func TestLeaveApprovalByCallback(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()
	f.loginAdmin()

	assert.Contains(t, f.command(sellerChat, "/leave vacation 2024-06-10 2024-06-12 Trip"), "⚠️")
	assert.Contains(t, f.command(sellerChat, "/leave sick 2024-06-12 2024-06-10 Cold"), "раньше даты начала")
	assert.Contains(t, f.command(sellerChat, "/leave sick 2024-06-10 2024-06-12 Bad cold"), "Заявка отправлена")

	pending := f.services.Leave.Pending()
	require.Len(t, pending, 1)

	f.command(adminChat, "/pending")
	messages := f.sender.messagesTo(adminChat)
	last := messages[len(messages)-1]
	assert.Contains(t, last.Text, "Bad cold")
	keyboard, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, keyboard.InlineKeyboard[0], 2)

	f.run(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: adminChat}},
		Data:    callbackApprove + ":" + pending[0].ID,
	}})
	assert.Contains(t, f.sender.lastTo(adminChat), "Заявка одобрена")

	assert.Contains(t, f.command(adminChat, "/approve "+pending[0].ID), "уже рассмотрена")
	assert.Contains(t, f.command(sellerChat, "/myleaves"), "✅ sick: 2024-06-10 - 2024-06-12 (approved)")

	june := f.repos.Attendance.GetByEmployee(f.seller.ID, "2024-06")
	require.Len(t, june, 3)
	for _, a := range june {
		assert.Equal(t, models.AttendanceLeave, a.Status)
	}

	forwarded := f.sender.textsTo(forwardChat)
	require.NotEmpty(t, forwarded)
	assert.Contains(t, forwarded[len(forwarded)-1], "Leave request approved for Jane")
}

func TestRejectWithNote(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()
	f.loginAdmin()

	f.command(sellerChat, "/leave casual 2024-06-10 2024-06-10 Errands")
	req := f.services.Leave.Pending()[0]

	assert.Contains(t, f.command(adminChat, "/reject "+req.ID+" Busy week"), "Busy week")
	assert.Contains(t, f.command(adminChat, "/reject nope"), "не найдена")
	assert.Contains(t, f.sender.lastTo(forwardChat), "Leave request rejected for Jane: Busy week")
}

func TestTeamAndNotifications(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()
	f.loginAdmin()
	f.command(sellerChat, "/in")
	f.command(sellerChat, "/log today 10 4 2 5000 0")

	team := f.command(adminChat, "/team")
	assert.Contains(t, team, "Звонки: 10")
	assert.Contains(t, team, "Лучший: Jane (50%)")
	assert.Contains(t, team, "🟢 Jane")
	assert.Contains(t, team, "Непрочитанных уведомлений: 1")

	notes := f.command(adminChat, "/notifications")
	assert.Contains(t, notes, "🆕")
	assert.Contains(t, notes, "Jane checked in at")
	assert.Zero(t, f.services.Notifications.UnreadCount())

	assert.Contains(t, f.command(adminChat, "/notifications"), "Новых уведомлений нет")
	assert.Contains(t, f.command(adminChat, "/notifications all"), "Jane checked in at")
}

func TestExportSendsDocument(t *testing.T) {
	f := newBotFixture(t)
	f.loginAdmin()

	assert.Contains(t, f.command(adminChat, "/export attendance"), "Нет данных для выгрузки")
	assert.Contains(t, f.command(adminChat, "/export salaries"), "⚠️")

	f.command(adminChat, "/export employees xlsx")
	docs := f.sender.documents()
	require.Len(t, docs, 1)
	assert.Equal(t, adminChat, docs[0].ChatID)

	file, ok := docs[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "employees.xlsx", file.Name)
	assert.NotEmpty(t, file.Bytes)
}

func TestDeletedEmployeeIsLoggedOut(t *testing.T) {
	f := newBotFixture(t)
	f.loginSeller()

	require.NoError(t, f.services.Employees.DeleteEmployee(f.seller.ID))

	assert.Contains(t, f.command(sellerChat, "/stats"), "профиль удален")
	_, ok := f.handler.sessionOf(sellerChat)
	assert.False(t, ok)
}
