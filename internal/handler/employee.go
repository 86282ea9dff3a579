package handler

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/service"
	"salestrack-bot/pkg/dates"
)

var leaveStatusIcons = map[string]string{
	models.LeavePending:  "⏳",
	models.LeaveApproved: "✅",
	models.LeaveRejected: "❌",
}

// login: /login <email> <пароль> [admin]
func (h *Handler) login(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	// сообщение с паролем не оставляем в истории чата
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, message.MessageID)); err != nil {
		h.logger.WithError(err).Debug("Failed to delete login message")
	}

	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		h.reply(chatID, "❌ Формат: /login <email> <пароль> [admin]")
		return
	}

	role := models.RoleEmployee
	if len(parts) == 3 {
		if parts[2] != models.RoleAdmin {
			h.reply(chatID, "❌ Третьим параметром можно указать только admin")
			return
		}
		role = models.RoleAdmin
	}

	employee, err := h.services.Auth.Authenticate(parts[0], parts[1], role)
	if err != nil {
		h.logger.WithField("chat_id", chatID).Warn("Login failed")
		h.replyError(chatID, err)
		return
	}

	h.setSession(chatID, employee.ID)
	h.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"employee_id": employee.ID,
		"role":        employee.Role,
	}).Info("Employee logged in")

	text := fmt.Sprintf("✅ Вы вошли как %s (%s)\n\n💡 Отметьте начало рабочего дня командой /in", employee.Name, employee.Role)
	if employee.IsAdmin() {
		text = fmt.Sprintf("✅ Вы вошли как администратор %s\n\n💡 Статистика команды: /team", employee.Name)
	}
	h.reply(chatID, text)
}

func (h *Handler) logout(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	employeeID, ok := h.sessionOf(chatID)
	if !ok {
		h.reply(chatID, "ℹ️ Вы не вошли в систему.")
		return
	}

	if err := h.trackers.Stop(employeeID); err != nil {
		h.logger.WithError(err).WithField("employee_id", employeeID).Warn("Failed to stop tracker on logout")
	}
	h.setSession(chatID, "")

	h.reply(chatID, "👋 Вы вышли из системы.")
}

// checkIn отмечает приход и запускает учет активности
func (h *Handler) checkIn(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	record, err := h.services.Attendance.CheckIn(employee)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	if err := h.trackers.Start(employee.ID); err != nil {
		h.logger.WithError(err).WithField("employee_id", employee.ID).Error("Failed to start activity tracking")
	}

	response := fmt.Sprintf(`✅ Рабочий день начат!

⏰ Время прихода: %s
📅 Дата: %s

💡 Не забудьте отметить уход командой /out`, record.CheckIn, record.Date)
	h.reply(chatID, response)
}

// checkOut отмечает уход и завершает учет активности
func (h *Handler) checkOut(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	record, err := h.services.Attendance.CheckOut(employee)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	if err := h.trackers.Stop(employee.ID); err != nil {
		h.logger.WithError(err).WithField("employee_id", employee.ID).Error("Failed to stop activity tracking")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏁 Рабочий день завершен!\n\n")
	fmt.Fprintf(&b, "⏰ Приход: %s | Уход: %s\n", record.CheckIn, record.CheckOut)
	fmt.Fprintf(&b, "⏳ Отработано: %v ч\n", record.WorkingHours)
	if session, ok := h.trackers.For(employee.ID).Session(); ok {
		fmt.Fprintf(&b, "💻 Продуктивное время: %s\n", models.FormatMinutes(session.ProductiveMinutes))
		fmt.Fprintf(&b, "💤 Простой: %s\n", models.FormatMinutes(session.TotalIdleMinutes))
	}
	h.reply(chatID, b.String())
}

// logPerformance: /log <дата|today> <звонки> <контакты> <конверсии> <выручка> <ожидается>
func (h *Handler) logPerformance(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	input, err := h.parsePerformance(employee.ID, strings.Fields(args))
	if err != nil {
		h.reply(chatID, "❌ "+err.Error()+"\nФормат: /log <дата|today> <звонки> <контакты> <конверсии> <выручка> <ожидается>")
		return
	}

	saved, err := h.services.Performance.LogDaily(input)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("✅ Данные за %s сохранены: %d calls, %d conversions, %s revenue recorded.",
		saved.Date, saved.CallsMade, saved.LeadsConverted, models.FormatRevenue(saved.RevenueGenerated)))
}

func (h *Handler) parsePerformance(employeeID string, parts []string) (service.PerformanceInput, error) {
	input := service.PerformanceInput{EmployeeID: employeeID}
	if len(parts) != 6 {
		return input, fmt.Errorf("нужно 6 параметров, передано %d", len(parts))
	}

	input.Date = parts[0]
	if strings.EqualFold(input.Date, "today") {
		input.Date = dates.Day(h.now())
	}

	counts := []*int{&input.CallsMade, &input.LeadsContacted, &input.LeadsConverted}
	for i, dst := range counts {
		v, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return input, fmt.Errorf("%q не является целым числом", parts[i+1])
		}
		*dst = v
	}

	amounts := []*float64{&input.RevenueGenerated, &input.RevenuePending}
	for i, dst := range amounts {
		v, err := strconv.ParseFloat(parts[i+4], 64)
		if err != nil {
			return input, fmt.Errorf("%q не является суммой", parts[i+4])
		}
		*dst = v
	}

	return input, nil
}

func (h *Handler) showStats(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	d := h.services.Dashboard.ForEmployee(employee)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика: %s\n\n", employee.Name)

	fmt.Fprintf(&b, "📅 Последние 7 записей:\n")
	fmt.Fprintf(&b, "📞 Звонки: %d (в среднем %d в день)\n", d.Weekly.TotalCalls, d.Weekly.AvgCallsPerDay)
	fmt.Fprintf(&b, "👥 Контакты: %d\n", d.Weekly.TotalLeadsContacted)
	fmt.Fprintf(&b, "🎯 Конверсии: %d (%d%%, %s)\n", d.Weekly.TotalLeadsConverted, d.Weekly.ConversionRate, d.Level)
	fmt.Fprintf(&b, "💰 Выручка: %s\n", models.FormatRevenue(d.Weekly.TotalRevenue))
	fmt.Fprintf(&b, "⏳ Ожидается: %s\n\n", models.FormatRevenue(d.Weekly.TotalPending))

	if d.Target != nil {
		fmt.Fprintf(&b, "🏆 План на %s:\n", d.Month)
		fmt.Fprintf(&b, "Конверсии: %d/%d (%d%%)\n", d.Target.AchievedValue, d.Target.TargetValue, d.TargetProgress)
		fmt.Fprintf(&b, "Выручка: %s/%s (%d%%)\n\n",
			models.FormatRevenue(d.Target.RevenueAchieved), models.FormatRevenue(d.Target.RevenueTarget), d.RevenueProgress)
	}

	fmt.Fprintf(&b, "🗓 Посещаемость за месяц: присутствие %d, отпуск %d, полдня %d, %v ч\n",
		d.Attendance.Present, d.Attendance.Leave, d.Attendance.HalfDay, d.Attendance.TotalHours)
	if d.Activity != nil {
		fmt.Fprintf(&b, "%s\n💻 Продуктивно: %s, простой: %s\n",
			d.Activity.FormatTime(),
			models.FormatMinutes(d.Activity.ProductiveMinutes),
			models.FormatMinutes(d.Activity.TotalIdleMinutes))
	}

	fmt.Fprintf(&b, "\n💡 %s", d.Insight)
	h.reply(chatID, b.String())
}

// applyLeave: /leave <тип> <начало> <конец> <причина>
func (h *Handler) applyLeave(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	parts := strings.SplitN(strings.TrimSpace(args), " ", 4)
	if len(parts) < 4 {
		h.reply(chatID, "❌ Формат: /leave <тип> <начало> <конец> <причина>\nПример: /leave sick 2024-06-10 2024-06-12 Простуда")
		return
	}

	req, err := h.services.Leave.Apply(employee, service.LeaveInput{
		LeaveType: parts[0],
		StartDate: parts[1],
		EndDate:   parts[2],
		Reason:    parts[3],
	})
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	h.reply(chatID, fmt.Sprintf("📨 Заявка отправлена на рассмотрение.\n\n🏖 %s: %s - %s\n🆔 %s",
		req.LeaveType, req.StartDate, req.EndDate, req.ID))
}

func (h *Handler) showMyLeaves(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	employee, ok := h.currentEmployee(chatID)
	if !ok {
		return
	}

	requests := h.services.Leave.MyRequests(employee.ID)
	if len(requests) == 0 {
		h.reply(chatID, "📭 У вас нет заявок на отпуск.")
		return
	}

	var b strings.Builder
	b.WriteString("🏖 Мои заявки:\n")
	for _, r := range requests {
		fmt.Fprintf(&b, "\n%s %s: %s - %s (%s)", leaveStatusIcons[r.Status], r.LeaveType, r.StartDate, r.EndDate, r.Status)
		if r.ReviewNote != "" {
			fmt.Fprintf(&b, "\n   💬 %s", r.ReviewNote)
		}
	}
	h.reply(chatID, b.String())
}
