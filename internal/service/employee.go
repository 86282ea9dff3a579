package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/store"
	"salestrack-bot/pkg/dates"
)

// TargetDefaults - план на месяц для новых сотрудников
type TargetDefaults struct {
	Conversions int
	Revenue     float64
}

type EmployeeInput struct {
	Name          string  `validate:"required"`
	Email         string  `validate:"required,email"`
	Role          string  `validate:"omitempty,role"`
	Department    string
	JoinDate      string  `validate:"omitempty,day"`
	Password      string
	TargetValue   int     `validate:"gte=0"`
	RevenueTarget float64 `validate:"gte=0"`
}

// EmployeeUpdate - правка сотрудника администратором. nil-поля не меняются.
type EmployeeUpdate struct {
	Name          *string
	Email         *string
	Role          *string
	Department    *string
	JoinDate      *string
	Password      *string
	TargetValue   *int
	RevenueTarget *float64
}

// ProfileUpdate - правка собственного профиля
type ProfileUpdate struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Department      string
	NewPassword     string
	ConfirmPassword string
}

type EmployeeService struct {
	employees repository.EmployeeRepository
	targets   repository.TargetRepository
	store     *store.Store
	defaults  TargetDefaults
	now       func() time.Time
	logger    *logrus.Logger
}

func NewEmployeeService(
	employees repository.EmployeeRepository,
	targets repository.TargetRepository,
	st *store.Store,
	defaults TargetDefaults,
) *EmployeeService {
	if defaults.Conversions <= 0 {
		defaults.Conversions = models.DefaultTargetValue
	}
	if defaults.Revenue <= 0 {
		defaults.Revenue = models.DefaultRevenueTarget
	}
	return &EmployeeService{
		employees: employees,
		targets:   targets,
		store:     st,
		defaults:  defaults,
		now:       time.Now,
		logger:    logger.GetLogger("service"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailTaken проверяет, что email занят другим сотрудником
func (s *EmployeeService) emailTaken(email, exceptID string) bool {
	existing, err := s.employees.GetByEmail(email)
	return err == nil && existing.ID != exceptID
}

// AddEmployee создает сотрудника. Для роли employee сразу заводится план на текущий месяц.
func (s *EmployeeService) AddEmployee(input EmployeeInput) (*models.Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if s.emailTaken(input.Email, "") {
		return nil, ErrEmailTaken
	}

	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if input.JoinDate == "" {
		input.JoinDate = dates.Day(s.now())
	}

	employee, err := s.employees.Add(models.Employee{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		JoinDate:   input.JoinDate,
		Password:   input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("add employee: %w", err)
	}

	if employee.Role == models.RoleEmployee {
		target := models.Target{
			EmployeeID:    employee.ID,
			Month:         dates.Month(s.now()),
			TargetValue:   input.TargetValue,
			RevenueTarget: input.RevenueTarget,
		}
		if target.TargetValue == 0 {
			target.TargetValue = s.defaults.Conversions
		}
		if target.RevenueTarget == 0 {
			target.RevenueTarget = s.defaults.Revenue
		}
		if _, err := s.targets.Upsert(target); err != nil {
			return employee, fmt.Errorf("create target: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"role":        employee.Role,
	}).Info("Employee added")

	return employee, nil
}

// UpdateEmployee меняет данные сотрудника и, если заданы плановые значения, план на текущий месяц
func (s *EmployeeService) UpdateEmployee(id string, update EmployeeUpdate) (*models.Employee, error) {
	patch := repository.EmployeePatch{
		Name:       update.Name,
		Role:       update.Role,
		Department: update.Department,
		JoinDate:   update.JoinDate,
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, invalid("имя не может быть пустым")
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, invalid("некорректный email")
		}
		if s.emailTaken(email, id) {
			return nil, ErrEmailTaken
		}
		patch.Email = &email
	}
	if update.Role != nil && !models.IsValidRole(*update.Role) {
		return nil, invalid("роль должна быть employee или admin")
	}
	if update.JoinDate != nil {
		if _, err := dates.ParseDay(*update.JoinDate); err != nil {
			return nil, invalid("дата должна быть в формате ГГГГ-ММ-ДД")
		}
	}
	// пустой пароль в форме означает "не менять"
	if update.Password != nil && *update.Password != "" {
		patch.Password = update.Password
	}

	employee, err := s.employees.Update(id, patch)
	if err != nil {
		return nil, err
	}

	if update.TargetValue != nil || update.RevenueTarget != nil {
		if err := s.upsertCurrentTarget(id, update.TargetValue, update.RevenueTarget); err != nil {
			return employee, err
		}
	}

	s.logger.WithField("employee_id", id).Info("Employee updated")
	return employee, nil
}

func (s *EmployeeService) upsertCurrentTarget(employeeID string, value *int, revenue *float64) error {
	month := dates.Month(s.now())
	target := models.Target{
		EmployeeID:    employeeID,
		Month:         month,
		TargetValue:   s.defaults.Conversions,
		RevenueTarget: s.defaults.Revenue,
	}
	if existing := s.targets.Get(employeeID, month); existing != nil {
		target.TargetValue = existing.TargetValue
		target.RevenueTarget = existing.RevenueTarget
	}
	if value != nil {
		if *value < 0 {
			return invalid("план не может быть отрицательным")
		}
		target.TargetValue = *value
	}
	if revenue != nil {
		if *revenue < 0 {
			return invalid("план по выручке не может быть отрицательным")
		}
		target.RevenueTarget = *revenue
	}

	if _, err := s.targets.Upsert(target); err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	return nil
}

// UpdateProfile - сотрудник меняет свои данные; новый пароль должен совпасть с подтверждением
func (s *EmployeeService) UpdateProfile(id string, update ProfileUpdate) (*models.Employee, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Email = normalizeEmail(update.Email)
	if err := validateInput(update); err != nil {
		return nil, err
	}
	if update.NewPassword != "" && update.NewPassword != update.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if s.emailTaken(update.Email, id) {
		return nil, ErrEmailTaken
	}

	patch := repository.EmployeePatch{
		Name:       &update.Name,
		Email:      &update.Email,
		Department: &update.Department,
	}
	if update.NewPassword != "" {
		patch.Password = &update.NewPassword
	}
	return s.employees.Update(id, patch)
}

func (s *EmployeeService) DeleteEmployee(id string) error {
	if err := s.employees.Delete(id); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

func (s *EmployeeService) GetEmployee(id string) (*models.Employee, error) {
	return s.employees.GetByID(id)
}

func (s *EmployeeService) ListEmployees() []models.Employee {
	return s.employees.GetAll()
}

func (s *EmployeeService) ListSalesEmployees() []models.Employee {
	return s.employees.GetSalesEmployees()
}

// InitializeAdmin создает администратора по умолчанию при первом запуске
func (s *EmployeeService) InitializeAdmin(seed repository.AdminSeed) error {
	created, err := s.employees.EnsureDefaultAdmin(seed, s.now())
	if err != nil {
		return fmt.Errorf("initialize admin: %w", err)
	}
	if created {
		s.logger.WithField("email", seed.Email).Info("Default admin initialized")
	}
	return nil
}

// ClearAllData удаляет все данные приложения
func (s *EmployeeService) ClearAllData() error {
	if err := s.store.ClearAll(); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.logger.Warn("All data cleared")
	return nil
}
