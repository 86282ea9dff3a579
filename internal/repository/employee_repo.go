package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/store"
	"salestrack-bot/pkg/dates"
)

// Owned - набор записей, принадлежащих сотруднику. Удаляется вместе с ним.
type Owned interface {
	DeleteByEmployeeID(employeeID string) (int, error)
}

type EmployeeRepository interface {
	Add(employee models.Employee) (*models.Employee, error)
	Update(id string, patch EmployeePatch) (*models.Employee, error)
	Delete(id string) error
	GetByID(id string) (*models.Employee, error)
	GetByEmail(email string) (*models.Employee, error)
	GetAll() []models.Employee
	GetSalesEmployees() []models.Employee
	Authenticate(email, password, role string) (*models.Employee, bool)
	EnsureDefaultAdmin(seed AdminSeed, now time.Time) (bool, error)
}

// EmployeePatch - частичное обновление, nil-поля не меняются
type EmployeePatch struct {
	Name       *string
	Email      *string
	Role       *string
	Department *string
	JoinDate   *string
	Password   *string
}

func (p EmployeePatch) apply(e *models.Employee) {
	if p.Name != nil {
		e.Name = *p.Name
		e.Avatar = models.AvatarURL(e.Name)
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Role != nil {
		e.Role = *p.Role
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.JoinDate != nil {
		e.JoinDate = *p.JoinDate
	}
	if p.Password != nil {
		e.Password = *p.Password
	}
}

// AdminSeed - учетная запись администратора, создаваемая при первом запуске
type AdminSeed struct {
	Name        string
	Email       string
	Password    string
	LegacyEmail string
}

type StoreEmployeeRepository struct {
	store  *store.Store
	owned  []Owned
	logger *logrus.Logger
}

// NewStoreEmployeeRepository создает репозиторий сотрудников.
// owned - наборы, которые удаляются каскадно вместе с сотрудником.
func NewStoreEmployeeRepository(st *store.Store, owned ...Owned) *StoreEmployeeRepository {
	return &StoreEmployeeRepository{
		store:  st,
		owned:  owned,
		logger: logger.GetLogger("repository"),
	}
}

func (r *StoreEmployeeRepository) load() []models.Employee {
	return store.LoadList[models.Employee](r.store, store.KeyEmployees)
}

func (r *StoreEmployeeRepository) update(fn func([]models.Employee) ([]models.Employee, error)) error {
	return store.Update(r.store, store.KeyEmployees, fn)
}

func prepareNew(employee models.Employee) models.Employee {
	employee.ID = store.NewID()
	employee.Avatar = models.AvatarURL(employee.Name)
	if employee.Role == "" {
		employee.Role = models.RoleEmployee
	}
	return employee
}

func (r *StoreEmployeeRepository) Add(employee models.Employee) (*models.Employee, error) {
	employee = prepareNew(employee)

	err := r.update(func(employees []models.Employee) ([]models.Employee, error) {
		return append(employees, employee), nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"role":        employee.Role,
	}).Info("Employee created")

	return &employee, nil
}

func (r *StoreEmployeeRepository) Update(id string, patch EmployeePatch) (*models.Employee, error) {
	var updated models.Employee
	err := r.update(func(employees []models.Employee) ([]models.Employee, error) {
		idx := store.IndexOf(employees, func(e models.Employee) bool { return e.ID == id })
		if idx == -1 {
			return nil, ErrEmployeeNotFound
		}
		patch.apply(&employees[idx])
		updated = employees[idx]
		return employees, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("employee_id", id).Info("Employee updated")
	return &updated, nil
}

// Delete удаляет сотрудника и все принадлежащие ему записи
func (r *StoreEmployeeRepository) Delete(id string) error {
	err := r.update(func(employees []models.Employee) ([]models.Employee, error) {
		filtered := store.Filter(employees, func(e models.Employee) bool { return e.ID != id })
		if len(filtered) == len(employees) {
			return nil, ErrEmployeeNotFound
		}
		return filtered, nil
	})
	if err != nil {
		return err
	}

	removed := 0
	for _, owned := range r.owned {
		n, err := owned.DeleteByEmployeeID(id)
		if err != nil {
			r.logger.WithError(err).WithField("employee_id", id).Error("Cascade delete failed")
			return fmt.Errorf("cascade delete for employee %s: %w", id, err)
		}
		removed += n
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id":   id,
		"owned_removed": removed,
	}).Info("Employee deleted")

	return nil
}

func (r *StoreEmployeeRepository) GetByID(id string) (*models.Employee, error) {
	employees := r.load()
	idx := store.IndexOf(employees, func(e models.Employee) bool { return e.ID == id })
	if idx == -1 {
		return nil, ErrEmployeeNotFound
	}
	return &employees[idx], nil
}

func (r *StoreEmployeeRepository) GetByEmail(email string) (*models.Employee, error) {
	employees := r.load()
	idx := store.IndexOf(employees, func(e models.Employee) bool { return e.HasEmail(email) })
	if idx == -1 {
		return nil, ErrEmployeeNotFound
	}
	return &employees[idx], nil
}

func (r *StoreEmployeeRepository) GetAll() []models.Employee {
	return r.load()
}

// GetSalesEmployees - все сотрудники, кроме администраторов
func (r *StoreEmployeeRepository) GetSalesEmployees() []models.Employee {
	return store.Filter(r.load(), func(e models.Employee) bool { return e.Role == models.RoleEmployee })
}

// Authenticate ищет сотрудника по email (без учета регистра), роли и паролю.
// Причину отказа не сообщает.
func (r *StoreEmployeeRepository) Authenticate(email, password, role string) (*models.Employee, bool) {
	for _, e := range r.load() {
		if e.HasEmail(email) && e.Role == role && e.CheckPassword(password) {
			employee := e
			return &employee, true
		}
	}

	r.logger.WithFields(logrus.Fields{
		"email": strings.ToLower(strings.TrimSpace(email)),
		"role":  role,
	}).Warn("Authentication failed")
	return nil, false
}

// EnsureDefaultAdmin создает администратора, если его еще нет, и удаляет
// запись со старым адресом. Возвращает true, если администратор был создан.
func (r *StoreEmployeeRepository) EnsureDefaultAdmin(seed AdminSeed, now time.Time) (bool, error) {
	admin := prepareNew(models.Employee{
		Name:       seed.Name,
		Email:      seed.Email,
		Role:       models.RoleAdmin,
		Department: "Management",
		JoinDate:   dates.Day(now),
		Password:   seed.Password,
	})

	created, legacyRemoved := false, false
	err := r.update(func(employees []models.Employee) ([]models.Employee, error) {
		for _, e := range employees {
			if e.Email == seed.Email {
				return nil, store.SkipWrite
			}
		}

		if seed.LegacyEmail != "" {
			filtered := store.Filter(employees, func(e models.Employee) bool { return e.Email != seed.LegacyEmail })
			legacyRemoved = len(filtered) != len(employees)
			employees = filtered
		}

		created = true
		return append(employees, admin), nil
	})
	if err != nil || !created {
		return false, err
	}

	if legacyRemoved {
		r.logger.WithField("email", seed.LegacyEmail).Info("Legacy admin removed")
	}
	r.logger.WithField("email", seed.Email).Info("Default admin created")
	return true, nil
}
