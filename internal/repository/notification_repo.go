package repository

import (
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
)

// DefaultNotificationLimit - сколько последних уведомлений хранится
const DefaultNotificationLimit = 100

type NotificationRepository interface {
	Add(notification models.Notification, now time.Time) (*models.Notification, error)
	MarkRead(id string) error
	MarkAllRead() error
	UnreadCount() int
	GetAll() []models.Notification
	GetUnread() []models.Notification
}

type StoreNotificationRepository struct {
	store  *store.Store
	limit  int
	logger *logrus.Logger
}

func NewStoreNotificationRepository(st *store.Store, limit int) *StoreNotificationRepository {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &StoreNotificationRepository{
		store:  st,
		limit:  limit,
		logger: logger.GetLogger("repository"),
	}
}

func (r *StoreNotificationRepository) load() []models.Notification {
	return store.LoadList[models.Notification](r.store, store.KeyNotifications)
}

// Add добавляет уведомление в начало списка, самые старые сверх лимита отбрасываются
func (r *StoreNotificationRepository) Add(notification models.Notification, now time.Time) (*models.Notification, error) {
	notification.ID = store.NewID()
	notification.Timestamp = now
	notification.Read = false

	err := store.Update(r.store, store.KeyNotifications, func(notifications []models.Notification) ([]models.Notification, error) {
		notifications = append([]models.Notification{notification}, notifications...)
		if len(notifications) > r.limit {
			notifications = notifications[:r.limit]
		}
		return notifications, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"type":        notification.Type,
		"employee_id": notification.EmployeeID,
	}).Debug("Notification added")

	return &notification, nil
}

func (r *StoreNotificationRepository) MarkRead(id string) error {
	return store.Update(r.store, store.KeyNotifications, func(notifications []models.Notification) ([]models.Notification, error) {
		idx := store.IndexOf(notifications, func(n models.Notification) bool { return n.ID == id })
		if idx == -1 {
			return nil, ErrNotificationNotFound
		}
		if notifications[idx].Read {
			return nil, store.SkipWrite
		}
		notifications[idx].Read = true
		return notifications, nil
	})
}

func (r *StoreNotificationRepository) MarkAllRead() error {
	return store.Update(r.store, store.KeyNotifications, func(notifications []models.Notification) ([]models.Notification, error) {
		for i := range notifications {
			notifications[i].Read = true
		}
		return notifications, nil
	})
}

func (r *StoreNotificationRepository) UnreadCount() int {
	return len(r.GetUnread())
}

// GetAll - уведомления, новые первыми
func (r *StoreNotificationRepository) GetAll() []models.Notification {
	return r.load()
}

func (r *StoreNotificationRepository) GetUnread() []models.Notification {
	return store.Filter(r.load(), func(n models.Notification) bool { return !n.Read })
}
