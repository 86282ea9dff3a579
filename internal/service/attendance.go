package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/pkg/dates"
)

type AttendanceService struct {
	attendance    repository.AttendanceRepository
	notifications repository.NotificationRepository
	now           func() time.Time
	logger        *logrus.Logger
}

func NewAttendanceService(
	attendance repository.AttendanceRepository,
	notifications repository.NotificationRepository,
) *AttendanceService {
	return &AttendanceService{
		attendance:    attendance,
		notifications: notifications,
		now:           time.Now,
		logger:        logger.GetLogger("service"),
	}
}

// CheckIn отмечает приход и уведомляет администратора
func (s *AttendanceService) CheckIn(employee *models.Employee) (*models.Attendance, error) {
	now := s.now()
	record, err := s.attendance.CheckIn(employee.ID, now)
	if err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}

	s.notify(models.Notification{
		Type:         models.NotificationLogin,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Message:      fmt.Sprintf("%s checked in at %s", employee.Name, dates.Clock(now)),
	}, now)

	return record, nil
}

// CheckOut отмечает уход. Без отметки о приходе возвращает repository.ErrNotCheckedIn.
func (s *AttendanceService) CheckOut(employee *models.Employee) (*models.Attendance, error) {
	now := s.now()
	record, err := s.attendance.CheckOut(employee.ID, now)
	if err != nil {
		return nil, err
	}

	s.notify(models.Notification{
		Type:         models.NotificationLogout,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Message:      fmt.Sprintf("%s checked out after %v hours", employee.Name, record.WorkingHours),
	}, now)

	return record, nil
}

func (s *AttendanceService) Today(employeeID string) *models.Attendance {
	return s.attendance.GetToday(employeeID, s.now())
}

func (s *AttendanceService) History(employeeID, month string) []models.Attendance {
	return s.attendance.GetByEmployee(employeeID, month)
}

// notify: сбой уведомления не отменяет основное действие
func (s *AttendanceService) notify(n models.Notification, now time.Time) {
	if _, err := s.notifications.Add(n, now); err != nil {
		s.logger.WithError(err).WithField("type", n.Type).Error("Failed to add notification")
	}
}
