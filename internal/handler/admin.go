package handler

import (
	"bytes"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/export"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/service"
)

const (
	callbackApprove = "leave_approve"
	callbackReject  = "leave_reject"
)

var attendanceIcons = map[string]string{
	models.AttendancePresent: "🟢",
	models.AttendanceAbsent:  "⚪",
	models.AttendanceLeave:   "🏖",
	models.AttendanceHalfDay: "🌓",
}

func (h *Handler) showTeam(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, ok := h.currentAdmin(chatID); !ok {
		return
	}

	d := h.services.Dashboard.ForAdmin()

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Команда за %s\n\n", d.Month)
	fmt.Fprintf(&b, "📞 Звонки: %d\n", d.Team.TotalTeamCalls)
	fmt.Fprintf(&b, "🎯 Конверсии: %d (в среднем %d%%)\n", d.Team.TotalTeamConversions, d.Team.AverageConversionRate)
	fmt.Fprintf(&b, "💰 Выручка: %s\n", models.FormatRevenue(d.Team.TotalTeamRevenue))
	fmt.Fprintf(&b, "⏳ Ожидается: %s\n", models.FormatRevenue(d.Team.TotalTeamPending))
	if d.Team.TopPerformer != nil {
		fmt.Fprintf(&b, "🏆 Лучший: %s (%d%%)\n", d.Team.TopPerformer.Employee.Name, d.Team.TopPerformer.ConversionRate)
	}

	if len(d.Team.Employees) > 0 {
		b.WriteString("\n📊 По сотрудникам:\n")
		for _, e := range d.Team.Employees {
			fmt.Fprintf(&b, "• %s: %d звонков, %d конверсий (%d%%), %s\n",
				e.Employee.Name, e.TotalCalls, e.TotalLeadsConverted, e.ConversionRate, models.FormatRevenue(e.TotalRevenue))
		}
	}

	if len(d.Active) > 0 {
		b.WriteString("\n🗓 Сегодня:\n")
		for _, a := range d.Active {
			line := fmt.Sprintf("%s %s", attendanceIcons[a.Status], a.Employee.Name)
			switch {
			case a.IsCheckedOut:
				line += fmt.Sprintf(" %s-%s (%v ч)", a.CheckInTime, a.CheckOutTime, a.WorkingHours)
			case a.IsCheckedIn:
				line += " с " + a.CheckInTime
			}
			b.WriteString(line + "\n")
		}
	}

	fmt.Fprintf(&b, "\n📨 Заявок на рассмотрении: %d\n🔔 Непрочитанных уведомлений: %d",
		len(d.PendingLeaves), d.UnreadNotifications)
	h.reply(chatID, b.String())
}

func (h *Handler) showPendingLeaves(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, ok := h.currentAdmin(chatID); !ok {
		return
	}

	pending := h.services.Leave.Pending()
	if len(pending) == 0 {
		h.reply(chatID, "✅ Нет заявок на рассмотрении.")
		return
	}

	for _, r := range pending {
		name := "Unknown"
		if e, err := h.services.Employees.GetEmployee(r.EmployeeID); err == nil {
			name = e.Name
		}

		text := fmt.Sprintf("📨 %s\n🏖 %s: %s - %s\n📝 %s\n📅 Подана: %s\n🆔 %s",
			name, r.LeaveType, r.StartDate, r.EndDate, r.Reason, r.AppliedOn, r.ID)

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", callbackApprove+":"+r.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", callbackReject+":"+r.ID),
			),
		)
		h.send(msg)
	}
}

func (h *Handler) approveLeaveCommand(message *tgbotapi.Message, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		h.reply(message.Chat.ID, "❌ Формат: /approve <id>")
		return
	}
	h.approveLeave(message.Chat.ID, id)
}

// rejectLeaveCommand: /reject <id> [комментарий]
func (h *Handler) rejectLeaveCommand(message *tgbotapi.Message, args string) {
	id, note, _ := strings.Cut(strings.TrimSpace(args), " ")
	if id == "" {
		h.reply(message.Chat.ID, "❌ Формат: /reject <id> [комментарий]")
		return
	}
	h.rejectLeave(message.Chat.ID, id, note)
}

func (h *Handler) approveLeave(chatID int64, id string) {
	admin, ok := h.currentAdmin(chatID)
	if !ok {
		return
	}

	req, err := h.services.Leave.Approve(id, admin)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("✅ Заявка одобрена: %s - %s", req.StartDate, req.EndDate))
}

func (h *Handler) rejectLeave(chatID int64, id, note string) {
	admin, ok := h.currentAdmin(chatID)
	if !ok {
		return
	}

	req, err := h.services.Leave.Reject(id, admin, note)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("❌ Заявка отклонена: %s - %s\n💬 %s", req.StartDate, req.EndDate, req.ReviewNote))
}

// showNotifications показывает непрочитанные уведомления (или все с параметром all) и отмечает их прочитанными
func (h *Handler) showNotifications(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentAdmin(chatID); !ok {
		return
	}

	all := strings.TrimSpace(args) == "all"
	list := h.services.Notifications.List(!all)
	if len(list) == 0 {
		h.reply(chatID, "🔕 Новых уведомлений нет.")
		return
	}

	var b strings.Builder
	b.WriteString("🔔 Уведомления:\n")
	for _, n := range list {
		mark := ""
		if !n.Read {
			mark = "🆕 "
		}
		fmt.Fprintf(&b, "\n%s%s %s", mark, n.Timestamp.Format("02.01 15:04"), n.Message)
	}
	h.reply(chatID, b.String())

	if err := h.services.Notifications.MarkAllRead(); err != nil {
		h.logger.WithError(err).Warn("Failed to mark notifications as read")
	}
}

// exportData: /export <набор> [csv|xlsx] - отправляет файл документом
func (h *Handler) exportData(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	if _, ok := h.currentAdmin(chatID); !ok {
		return
	}

	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		h.reply(chatID, "❌ Формат: /export <employees|performances|attendance|leave> [csv|xlsx]")
		return
	}

	kind, err := service.ParseExportKind(parts[0])
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	formatName := ""
	if len(parts) == 2 {
		formatName = parts[1]
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		h.reply(chatID, "❌ "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.services.Export.Export(&buf, kind, format); err != nil {
		h.replyError(chatID, err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  kind.FileName(format),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📎 Выгрузка: %s", kind)
	h.send(doc)

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"kind":    kind,
		"bytes":   buf.Len(),
	}).Info("Export sent")
}
