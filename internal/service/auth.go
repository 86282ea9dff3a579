package service

import (
	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/store"
)

type AuthService struct {
	employees repository.EmployeeRepository
	store     *store.Store
	logger    *logrus.Logger
}

func NewAuthService(employees repository.EmployeeRepository, st *store.Store) *AuthService {
	return &AuthService{
		employees: employees,
		store:     st,
		logger:    logger.GetLogger("service"),
	}
}

// Authenticate проверяет учетные данные без сохранения сессии
func (s *AuthService) Authenticate(email, password, role string) (*models.Employee, error) {
	employee, ok := s.employees.Authenticate(email, password, role)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return employee, nil
}

// Login проверяет учетные данные и запоминает текущего пользователя
func (s *AuthService) Login(email, password, role string) (*models.Employee, error) {
	employee, err := s.Authenticate(email, password, role)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveValue(store.KeyCurrentUser, employee.ID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"role":        employee.Role,
	}).Info("User logged in")

	return employee, nil
}

func (s *AuthService) Logout() error {
	return s.store.Remove(store.KeyCurrentUser)
}

// CurrentUser - сотрудник, под которым выполнен вход. Удаленный сотрудник считается выходом.
func (s *AuthService) CurrentUser() (*models.Employee, error) {
	var id string
	if !s.store.LoadValue(store.KeyCurrentUser, &id) || id == "" {
		return nil, ErrNotLoggedIn
	}

	employee, err := s.employees.GetByID(id)
	if err != nil {
		s.logger.WithField("employee_id", id).Warn("Current user no longer exists")
		return nil, ErrNotLoggedIn
	}
	return employee, nil
}
