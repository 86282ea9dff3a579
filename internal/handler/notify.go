package handler

import (
	"fmt"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
)

var notificationIcons = map[string]string{
	models.NotificationLogin:         "🟢",
	models.NotificationLogout:        "🔴",
	models.NotificationLeaveRequest:  "📨",
	models.NotificationLeaveApproved: "✅",
	models.NotificationLeaveRejected: "❌",
}

// WatchNotifications пересылает новые уведомления в чат администратора.
// Уже существующие на момент подписки не отправляются. Возвращает функцию отписки.
func (h *Handler) WatchNotifications(st *store.Store) func() {
	h.notifyMu.Lock()
	h.lastNotifiedID = ""
	if list := h.services.Notifications.List(false); len(list) > 0 {
		h.lastNotifiedID = list[0].ID
	}
	h.notifyMu.Unlock()

	return st.Subscribe(h.onNotificationsChanged, store.KeyNotifications)
}

func (h *Handler) onNotificationsChanged(change store.Change) {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	if change.Cleared {
		h.lastNotifiedID = ""
		return
	}

	// список хранится от новых к старым
	list := h.services.Notifications.List(false)
	var fresh []models.Notification
	for _, n := range list {
		if n.ID == h.lastNotifiedID {
			break
		}
		fresh = append(fresh, n)
	}
	if len(fresh) == 0 {
		return
	}
	h.lastNotifiedID = list[0].ID

	if h.config.AdminChatID == 0 {
		return
	}
	for i := len(fresh) - 1; i >= 0; i-- {
		n := fresh[i]
		h.reply(h.config.AdminChatID, fmt.Sprintf("%s %s", notificationIcons[n.Type], n.Message))
	}
}
