package repository

import (
	"sort"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
)

type PerformanceRepository interface {
	Add(performance models.DailyPerformance) (*models.DailyPerformance, error)
	Update(id string, patch PerformancePatch) (*models.DailyPerformance, error)
	Delete(id string) error
	GetByID(id string) (*models.DailyPerformance, error)
	GetByEmployee(employeeID string) []models.DailyPerformance
	GetAll() []models.DailyPerformance
	DeleteByEmployeeID(employeeID string) (int, error)
}

// PerformancePatch - частичное обновление дневных результатов
type PerformancePatch struct {
	Date             *string
	CallsMade        *int
	LeadsContacted   *int
	LeadsConverted   *int
	RevenueGenerated *float64
	RevenuePending   *float64
}

// Apply применяет непустые поля к записи
func (p PerformancePatch) Apply(perf *models.DailyPerformance) {
	if p.Date != nil {
		perf.Date = *p.Date
	}
	if p.CallsMade != nil {
		perf.CallsMade = *p.CallsMade
	}
	if p.LeadsContacted != nil {
		perf.LeadsContacted = *p.LeadsContacted
	}
	if p.LeadsConverted != nil {
		perf.LeadsConverted = *p.LeadsConverted
	}
	if p.RevenueGenerated != nil {
		perf.RevenueGenerated = *p.RevenueGenerated
	}
	if p.RevenuePending != nil {
		perf.RevenuePending = *p.RevenuePending
	}
}

type StorePerformanceRepository struct {
	store   *store.Store
	targets TargetRepository
	logger  *logrus.Logger
}

// NewStorePerformanceRepository: каждая запись пересчитывает план через targets
func NewStorePerformanceRepository(st *store.Store, targets TargetRepository) *StorePerformanceRepository {
	return &StorePerformanceRepository{
		store:   st,
		targets: targets,
		logger:  logger.GetLogger("repository"),
	}
}

type dayKey struct {
	employeeID string
	date       string
}

func keyOfPerformance(p models.DailyPerformance) dayKey {
	return dayKey{employeeID: p.EmployeeID, date: p.Date}
}

func (r *StorePerformanceRepository) load() []models.DailyPerformance {
	return store.LoadList[models.DailyPerformance](r.store, store.KeyPerformances)
}

func (r *StorePerformanceRepository) update(fn func([]models.DailyPerformance) ([]models.DailyPerformance, error)) error {
	return store.Update(r.store, store.KeyPerformances, fn)
}

func (r *StorePerformanceRepository) recompute(employeeID string, months ...string) error {
	seen := make(map[string]bool, len(months))
	for _, month := range months {
		if month == "" || seen[month] {
			continue
		}
		seen[month] = true
		if err := r.targets.Recompute(employeeID, month); err != nil {
			return err
		}
	}
	return nil
}

// Add создает запись за день или перезаписывает существующую (id сохраняется)
func (r *StorePerformanceRepository) Add(performance models.DailyPerformance) (*models.DailyPerformance, error) {
	var (
		saved   models.DailyPerformance
		created bool
	)
	err := r.update(func(rows []models.DailyPerformance) ([]models.DailyPerformance, error) {
		var idx int
		rows, idx, created = store.UpsertByKey(rows, keyOfPerformance, performance,
			func(existing *models.DailyPerformance, incoming models.DailyPerformance) {
				id := existing.ID
				*existing = incoming
				existing.ID = id
			},
			func(p *models.DailyPerformance) { p.ID = store.NewID() },
		)
		saved = rows[idx]
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": saved.EmployeeID,
		"date":        saved.Date,
		"created":     created,
	}).Info("Performance saved")

	if err := r.recompute(saved.EmployeeID, saved.Month()); err != nil {
		return &saved, err
	}
	return &saved, nil
}

// Update меняет запись по id. Перенос на дату, где уже есть запись, запрещен.
func (r *StorePerformanceRepository) Update(id string, patch PerformancePatch) (*models.DailyPerformance, error) {
	var (
		updated  models.DailyPerformance
		oldMonth string
	)
	err := r.update(func(rows []models.DailyPerformance) ([]models.DailyPerformance, error) {
		idx := store.IndexOf(rows, func(p models.DailyPerformance) bool { return p.ID == id })
		if idx == -1 {
			return nil, ErrPerformanceNotFound
		}

		oldMonth = rows[idx].Month()
		patch.Apply(&rows[idx])

		updated = rows[idx]
		clash := store.IndexOf(rows, func(p models.DailyPerformance) bool {
			return p.ID != id && keyOfPerformance(p) == keyOfPerformance(updated)
		})
		if clash != -1 {
			return nil, ErrPerformanceExists
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"performance_id": id,
		"date":           updated.Date,
	}).Info("Performance updated")

	if err := r.recompute(updated.EmployeeID, oldMonth, updated.Month()); err != nil {
		return &updated, err
	}
	return &updated, nil
}

func (r *StorePerformanceRepository) Delete(id string) error {
	var removed models.DailyPerformance
	err := r.update(func(rows []models.DailyPerformance) ([]models.DailyPerformance, error) {
		idx := store.IndexOf(rows, func(p models.DailyPerformance) bool { return p.ID == id })
		if idx == -1 {
			return nil, ErrPerformanceNotFound
		}
		removed = rows[idx]
		return append(rows[:idx], rows[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	r.logger.WithField("performance_id", id).Info("Performance deleted")
	return r.recompute(removed.EmployeeID, removed.Month())
}

func (r *StorePerformanceRepository) GetByID(id string) (*models.DailyPerformance, error) {
	rows := r.load()
	idx := store.IndexOf(rows, func(p models.DailyPerformance) bool { return p.ID == id })
	if idx == -1 {
		return nil, ErrPerformanceNotFound
	}
	return &rows[idx], nil
}

// GetByEmployee - записи сотрудника, свежие первыми
func (r *StorePerformanceRepository) GetByEmployee(employeeID string) []models.DailyPerformance {
	rows := store.Filter(r.load(), func(p models.DailyPerformance) bool { return p.EmployeeID == employeeID })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

func (r *StorePerformanceRepository) GetAll() []models.DailyPerformance {
	return r.load()
}

// DeleteByEmployeeID удаляет записи сотрудника. Планы пересчитывать не нужно:
// они удаляются тем же каскадом.
func (r *StorePerformanceRepository) DeleteByEmployeeID(employeeID string) (int, error) {
	removed := 0
	err := r.update(func(rows []models.DailyPerformance) ([]models.DailyPerformance, error) {
		filtered := store.Filter(rows, func(p models.DailyPerformance) bool { return p.EmployeeID != employeeID })
		removed = len(rows) - len(filtered)
		if removed == 0 {
			return nil, store.SkipWrite
		}
		return filtered, nil
	})
	return removed, err
}
