package repository

import (
	"sort"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
)

type TargetRepository interface {
	Upsert(target models.Target) (*models.Target, error)
	Update(id string, patch TargetPatch) (*models.Target, error)
	Get(employeeID, month string) *models.Target
	GetByEmployee(employeeID string) []models.Target
	Recompute(employeeID, month string) error
	DeleteByEmployeeID(employeeID string) (int, error)
}

// TargetPatch меняет только плановые значения. Фактические всегда пересчитываются.
type TargetPatch struct {
	Month         *string
	TargetValue   *int
	RevenueTarget *float64
}

type StoreTargetRepository struct {
	store  *store.Store
	logger *logrus.Logger
}

func NewStoreTargetRepository(st *store.Store) *StoreTargetRepository {
	return &StoreTargetRepository{
		store:  st,
		logger: logger.GetLogger("repository"),
	}
}

type targetKey struct {
	employeeID string
	month      string
}

func keyOfTarget(t models.Target) targetKey {
	return targetKey{employeeID: t.EmployeeID, month: t.Month}
}

func (r *StoreTargetRepository) load() []models.Target {
	return store.LoadList[models.Target](r.store, store.KeyTargets)
}

func (r *StoreTargetRepository) update(fn func([]models.Target) ([]models.Target, error)) error {
	return store.Update(r.store, store.KeyTargets, fn)
}

// monthTotals суммирует конверсии и выручку сотрудника за месяц
func (r *StoreTargetRepository) monthTotals(employeeID, month string) (int, float64) {
	converted := 0
	revenue := 0.0
	for _, p := range store.LoadList[models.DailyPerformance](r.store, store.KeyPerformances) {
		if p.EmployeeID == employeeID && p.Month() == month {
			converted += p.LeadsConverted
			revenue += p.RevenueGenerated
		}
	}
	return converted, revenue
}

// Upsert создает план на месяц или меняет плановые значения существующего
func (r *StoreTargetRepository) Upsert(target models.Target) (*models.Target, error) {
	var (
		saved   models.Target
		created bool
	)
	err := r.update(func(targets []models.Target) ([]models.Target, error) {
		var idx int
		targets, idx, created = store.UpsertByKey(targets, keyOfTarget, target,
			func(existing *models.Target, incoming models.Target) {
				existing.TargetValue = incoming.TargetValue
				existing.RevenueTarget = incoming.RevenueTarget
			},
			func(t *models.Target) { t.ID = store.NewID() },
		)
		targets[idx].UpdateAchieved(r.monthTotals(target.EmployeeID, target.Month))
		saved = targets[idx]
		return targets, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": target.EmployeeID,
		"month":       target.Month,
		"created":     created,
	}).Info("Target saved")

	return &saved, nil
}

// Update меняет план по id. Перенос на месяц, где у сотрудника уже есть план, запрещен.
func (r *StoreTargetRepository) Update(id string, patch TargetPatch) (*models.Target, error) {
	var updated models.Target
	err := r.update(func(targets []models.Target) ([]models.Target, error) {
		idx := store.IndexOf(targets, func(t models.Target) bool { return t.ID == id })
		if idx == -1 {
			return nil, ErrTargetNotFound
		}

		t := &targets[idx]
		if patch.Month != nil {
			t.Month = *patch.Month
		}
		if patch.TargetValue != nil {
			t.TargetValue = *patch.TargetValue
		}
		if patch.RevenueTarget != nil {
			t.RevenueTarget = *patch.RevenueTarget
		}

		clash := store.IndexOf(targets, func(other models.Target) bool {
			return other.ID != id && keyOfTarget(other) == keyOfTarget(*t)
		})
		if clash != -1 {
			return nil, ErrTargetExists
		}

		t.UpdateAchieved(r.monthTotals(t.EmployeeID, t.Month))
		updated = *t
		return targets, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("target_id", id).Info("Target updated")
	return &updated, nil
}

// Get возвращает план сотрудника на месяц или nil
func (r *StoreTargetRepository) Get(employeeID, month string) *models.Target {
	targets := r.load()
	idx := store.IndexOf(targets, func(t models.Target) bool {
		return t.EmployeeID == employeeID && t.Month == month
	})
	if idx == -1 {
		return nil
	}
	return &targets[idx]
}

// GetByEmployee - планы сотрудника, новые месяцы первыми
func (r *StoreTargetRepository) GetByEmployee(employeeID string) []models.Target {
	targets := store.Filter(r.load(), func(t models.Target) bool { return t.EmployeeID == employeeID })
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Month > targets[j].Month })
	return targets
}

// Recompute пересчитывает фактические показатели плана из результатов за месяц.
// Если плана на месяц нет, ничего не делает.
func (r *StoreTargetRepository) Recompute(employeeID, month string) error {
	var converted int
	var revenue float64
	err := r.update(func(targets []models.Target) ([]models.Target, error) {
		idx := store.IndexOf(targets, func(t models.Target) bool {
			return t.EmployeeID == employeeID && t.Month == month
		})
		if idx == -1 {
			return nil, store.SkipWrite
		}

		converted, revenue = r.monthTotals(employeeID, month)
		t := &targets[idx]
		if t.AchievedValue == converted && t.RevenueAchieved == revenue {
			return nil, store.SkipWrite
		}
		t.UpdateAchieved(converted, revenue)
		return targets, nil
	})
	if err != nil {
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"month":       month,
		"achieved":    converted,
		"revenue":     revenue,
	}).Debug("Target recomputed")
	return nil
}

func (r *StoreTargetRepository) DeleteByEmployeeID(employeeID string) (int, error) {
	removed := 0
	err := r.update(func(targets []models.Target) ([]models.Target, error) {
		filtered := store.Filter(targets, func(t models.Target) bool { return t.EmployeeID != employeeID })
		removed = len(targets) - len(filtered)
		if removed == 0 {
			return nil, store.SkipWrite
		}
		return filtered, nil
	})
	return removed, err
}
