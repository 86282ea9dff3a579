package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/pkg/dates"
)

const (
	defaultRejectNote    = "Request rejected by admin"
	noReasonProvidedNote = "No reason provided"

	// maxLeaveDays - самый длинный период одной заявки
	maxLeaveDays = 366
)

type LeaveInput struct {
	StartDate string `validate:"required,day"`
	EndDate   string `validate:"required,day"`
	Reason    string `validate:"required"`
	LeaveType string `validate:"required,leave_type"`
}

type LeaveService struct {
	leaves        repository.LeaveRequestRepository
	employees     repository.EmployeeRepository
	notifications repository.NotificationRepository
	now           func() time.Time
	logger        *logrus.Logger
}

func NewLeaveService(
	leaves repository.LeaveRequestRepository,
	employees repository.EmployeeRepository,
	notifications repository.NotificationRepository,
) *LeaveService {
	return &LeaveService{
		leaves:        leaves,
		employees:     employees,
		notifications: notifications,
		now:           time.Now,
		logger:        logger.GetLogger("service"),
	}
}

// Apply подает заявку на отпуск от имени сотрудника
func (s *LeaveService) Apply(employee *models.Employee, input LeaveInput) (*models.LeaveRequest, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.EndDate < input.StartDate {
		return nil, invalid("дата окончания не может быть раньше даты начала")
	}
	span, err := dates.SpanDays(input.StartDate, input.EndDate)
	if err != nil {
		return nil, invalid("некорректный период дат")
	}
	if span > maxLeaveDays {
		return nil, invalid("период отпуска не может быть длиннее %d дней", maxLeaveDays)
	}

	now := s.now()
	request, err := s.leaves.Add(models.LeaveRequest{
		EmployeeID: employee.ID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		LeaveType:  input.LeaveType,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("apply leave: %w", err)
	}

	s.notify(models.Notification{
		Type:         models.NotificationLeaveRequest,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Message: fmt.Sprintf("%s requested %s leave from %s to %s",
			employee.Name, input.LeaveType, input.StartDate, input.EndDate),
	}, now)

	return request, nil
}

// Approve одобряет заявку; дни отпуска отмечаются в посещаемости
func (s *LeaveService) Approve(id string, reviewer *models.Employee) (*models.LeaveRequest, error) {
	now := s.now()
	request, err := s.leaves.Review(id, repository.Review{
		Status:     models.LeaveApproved,
		ReviewedBy: reviewer.ID,
		ReviewedOn: dates.Day(now),
	})
	if err != nil {
		return nil, err
	}

	if employee, err := s.employees.GetByID(request.EmployeeID); err == nil {
		s.notify(models.Notification{
			Type:         models.NotificationLeaveApproved,
			EmployeeID:   employee.ID,
			EmployeeName: employee.Name,
			Message: fmt.Sprintf("Leave request approved for %s (%s to %s)",
				employee.Name, request.StartDate, request.EndDate),
		}, now)
	}

	s.logger.WithFields(logrus.Fields{
		"leave_request_id": id,
		"reviewer_id":      reviewer.ID,
	}).Info("Leave approved")

	return request, nil
}

// Reject отклоняет заявку. Пустая причина заменяется стандартной.
func (s *LeaveService) Reject(id string, reviewer *models.Employee, note string) (*models.LeaveRequest, error) {
	note = strings.TrimSpace(note)
	reviewNote := note
	if reviewNote == "" {
		reviewNote = defaultRejectNote
	}

	now := s.now()
	request, err := s.leaves.Review(id, repository.Review{
		Status:     models.LeaveRejected,
		ReviewedBy: reviewer.ID,
		ReviewedOn: dates.Day(now),
		ReviewNote: reviewNote,
	})
	if err != nil {
		return nil, err
	}

	if employee, err := s.employees.GetByID(request.EmployeeID); err == nil {
		reason := note
		if reason == "" {
			reason = noReasonProvidedNote
		}
		s.notify(models.Notification{
			Type:         models.NotificationLeaveRejected,
			EmployeeID:   employee.ID,
			EmployeeName: employee.Name,
			Message:      fmt.Sprintf("Leave request rejected for %s: %s", employee.Name, reason),
		}, now)
	}

	s.logger.WithFields(logrus.Fields{
		"leave_request_id": id,
		"reviewer_id":      reviewer.ID,
	}).Info("Leave rejected")

	return request, nil
}

func (s *LeaveService) MyRequests(employeeID string) []models.LeaveRequest {
	return s.leaves.GetByEmployee(employeeID)
}

func (s *LeaveService) Pending() []models.LeaveRequest {
	return s.leaves.GetPending()
}

func (s *LeaveService) All() []models.LeaveRequest {
	return s.leaves.GetAll()
}

func (s *LeaveService) notify(n models.Notification, now time.Time) {
	if _, err := s.notifications.Add(n, now); err != nil {
		s.logger.WithError(err).WithField("type", n.Type).Error("Failed to add notification")
	}
}
