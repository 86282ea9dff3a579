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

type AttendanceRepository interface {
	CheckIn(employeeID string, now time.Time) (*models.Attendance, error)
	CheckOut(employeeID string, now time.Time) (*models.Attendance, error)
	GetToday(employeeID string, now time.Time) *models.Attendance
	GetByDate(date string) []models.Attendance
	GetByEmployee(employeeID, month string) []models.Attendance
	GetAll() []models.Attendance
	MarkLeave(employeeID, startDate, endDate, status string) (int, error)
	DeleteByEmployeeID(employeeID string) (int, error)
}

type StoreAttendanceRepository struct {
	store  *store.Store
	logger *logrus.Logger
}

func NewStoreAttendanceRepository(st *store.Store) *StoreAttendanceRepository {
	return &StoreAttendanceRepository{
		store:  st,
		logger: logger.GetLogger("repository"),
	}
}

func keyOfAttendance(a models.Attendance) dayKey {
	return dayKey{employeeID: a.EmployeeID, date: a.Date}
}

func newAttendanceID(a *models.Attendance) { a.ID = store.NewID() }

func (r *StoreAttendanceRepository) load() []models.Attendance {
	return store.LoadList[models.Attendance](r.store, store.KeyAttendance)
}

func (r *StoreAttendanceRepository) update(fn func([]models.Attendance) ([]models.Attendance, error)) error {
	return store.Update(r.store, store.KeyAttendance, fn)
}

// CheckIn отмечает приход: находит или создает запись за сегодня, статус present
func (r *StoreAttendanceRepository) CheckIn(employeeID string, now time.Time) (*models.Attendance, error) {
	incoming := models.Attendance{
		EmployeeID: employeeID,
		Date:       dates.Day(now),
		CheckIn:    dates.Clock(now),
		Status:     models.AttendancePresent,
	}

	var saved models.Attendance
	err := r.update(func(rows []models.Attendance) ([]models.Attendance, error) {
		rows, idx, _ := store.UpsertByKey(rows, keyOfAttendance, incoming,
			func(existing *models.Attendance, incoming models.Attendance) {
				existing.CheckIn = incoming.CheckIn
				existing.Status = models.AttendancePresent
			},
			newAttendanceID,
		)
		saved = rows[idx]
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"date":        incoming.Date,
		"check_in":    incoming.CheckIn,
	}).Info("Checked in")

	return &saved, nil
}

// CheckOut отмечает уход и считает отработанные часы. Статус не меняется.
func (r *StoreAttendanceRepository) CheckOut(employeeID string, now time.Time) (*models.Attendance, error) {
	today := dates.Day(now)

	var saved models.Attendance
	err := r.update(func(rows []models.Attendance) ([]models.Attendance, error) {
		idx := store.IndexOf(rows, func(a models.Attendance) bool {
			return a.EmployeeID == employeeID && a.Date == today
		})
		if idx == -1 || !rows[idx].IsCheckedIn() {
			return nil, ErrNotCheckedIn
		}

		a := &rows[idx]
		a.CheckOut = dates.Clock(now)
		hours, err := dates.HoursBetween(a.CheckIn, a.CheckOut)
		if err != nil {
			r.logger.WithError(err).WithField("employee_id", employeeID).Warn("Unparseable check-in time")
			hours = 0
		}
		a.WorkingHours = hours
		saved = *a
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id":   employeeID,
		"date":          today,
		"working_hours": saved.WorkingHours,
	}).Info("Checked out")

	return &saved, nil
}

// GetToday - запись сотрудника за сегодня или nil
func (r *StoreAttendanceRepository) GetToday(employeeID string, now time.Time) *models.Attendance {
	rows := r.load()
	today := dates.Day(now)
	idx := store.IndexOf(rows, func(a models.Attendance) bool {
		return a.EmployeeID == employeeID && a.Date == today
	})
	if idx == -1 {
		return nil
	}
	return &rows[idx]
}

func (r *StoreAttendanceRepository) GetByDate(date string) []models.Attendance {
	return store.Filter(r.load(), func(a models.Attendance) bool { return a.Date == date })
}

// GetByEmployee - записи сотрудника за месяц (пустой месяц - за все время), свежие первыми
func (r *StoreAttendanceRepository) GetByEmployee(employeeID, month string) []models.Attendance {
	rows := store.Filter(r.load(), func(a models.Attendance) bool {
		return a.EmployeeID == employeeID && dates.InMonth(a.Date, month)
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

func (r *StoreAttendanceRepository) GetAll() []models.Attendance {
	return r.load()
}

// MarkLeave проставляет статус на каждый день периода включительно.
// Существующие записи меняют только статус, время прихода и ухода сохраняется.
func (r *StoreAttendanceRepository) MarkLeave(employeeID, startDate, endDate, status string) (int, error) {
	days, err := dates.Range(startDate, endDate)
	if err != nil {
		return 0, ErrInvalidDateRange
	}

	err = r.update(func(rows []models.Attendance) ([]models.Attendance, error) {
		for _, day := range days {
			rows, _, _ = store.UpsertByKey(rows, keyOfAttendance,
				models.Attendance{EmployeeID: employeeID, Date: day, Status: status},
				func(existing *models.Attendance, incoming models.Attendance) {
					existing.Status = incoming.Status
				},
				newAttendanceID,
			)
		}
		return rows, nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"start_date":  startDate,
		"end_date":    endDate,
		"status":      status,
		"days":        len(days),
	}).Info("Attendance marked")

	return len(days), nil
}

func (r *StoreAttendanceRepository) DeleteByEmployeeID(employeeID string) (int, error) {
	removed := 0
	err := r.update(func(rows []models.Attendance) ([]models.Attendance, error) {
		filtered := store.Filter(rows, func(a models.Attendance) bool { return a.EmployeeID != employeeID })
		removed = len(rows) - len(filtered)
		if removed == 0 {
			return nil, store.SkipWrite
		}
		return filtered, nil
	})
	return removed, err
}
