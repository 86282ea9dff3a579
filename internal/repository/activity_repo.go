package repository

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
	"salestrack-bot/pkg/dates"
)

type ActivityRepository interface {
	Find(employeeID, date string) *models.ActivitySession
	Upsert(session models.ActivitySession) (*models.ActivitySession, error)
	GetByEmployee(employeeID, date string) []models.ActivitySession
	TodaySummary(employeeID string, now time.Time) *models.ActivitySession
}

type StoreActivityRepository struct {
	store  *store.Store
	logger *logrus.Logger
}

func NewStoreActivityRepository(st *store.Store) *StoreActivityRepository {
	return &StoreActivityRepository{
		store:  st,
		logger: logger.GetLogger("repository"),
	}
}

func keyOfSession(s models.ActivitySession) dayKey {
	return dayKey{employeeID: s.EmployeeID, date: s.Date}
}

func (r *StoreActivityRepository) load() []models.ActivitySession {
	return store.LoadList[models.ActivitySession](r.store, store.KeyScreenActivity)
}

// Find - сессия сотрудника за день или nil
func (r *StoreActivityRepository) Find(employeeID, date string) *models.ActivitySession {
	sessions := r.load()
	idx := store.IndexOf(sessions, func(s models.ActivitySession) bool {
		return s.EmployeeID == employeeID && s.Date == date
	})
	if idx == -1 {
		return nil
	}
	return &sessions[idx]
}

// Upsert сохраняет сессию целиком: одна сессия на сотрудника в день
func (r *StoreActivityRepository) Upsert(session models.ActivitySession) (*models.ActivitySession, error) {
	var saved models.ActivitySession
	err := store.Update(r.store, store.KeyScreenActivity, func(sessions []models.ActivitySession) ([]models.ActivitySession, error) {
		sessions, idx, _ := store.UpsertByKey(sessions, keyOfSession, session,
			func(existing *models.ActivitySession, incoming models.ActivitySession) {
				id := existing.ID
				*existing = incoming
				existing.ID = id
			},
			func(s *models.ActivitySession) {
				if s.ID == "" {
					s.ID = store.NewID()
				}
			},
		)
		saved = sessions[idx]
		return sessions, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": session.EmployeeID,
		"date":        session.Date,
		"productive":  session.ProductiveMinutes,
	}).Debug("Activity session saved")

	return &saved, nil
}

// GetByEmployee - сессии сотрудника (за день, если date задан), свежие первыми
func (r *StoreActivityRepository) GetByEmployee(employeeID, date string) []models.ActivitySession {
	sessions := store.Filter(r.load(), func(s models.ActivitySession) bool {
		return s.EmployeeID == employeeID && (date == "" || s.Date == date)
	})
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date > sessions[j].Date })
	return sessions
}

// TodaySummary - сегодняшняя сессия с минутами, пересчитанными на момент now
func (r *StoreActivityRepository) TodaySummary(employeeID string, now time.Time) *models.ActivitySession {
	session := r.Find(employeeID, dates.Day(now))
	if session == nil {
		return nil
	}
	session.Recalculate(now)
	return session
}
