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

type LeaveRequestRepository interface {
	Add(request models.LeaveRequest, now time.Time) (*models.LeaveRequest, error)
	Review(id string, review Review) (*models.LeaveRequest, error)
	GetByID(id string) (*models.LeaveRequest, error)
	GetByEmployee(employeeID string) []models.LeaveRequest
	GetPending() []models.LeaveRequest
	GetAll() []models.LeaveRequest
	DeleteByEmployeeID(employeeID string) (int, error)
}

// Review - решение администратора по заявке
type Review struct {
	Status     string // approved или rejected
	ReviewedBy string
	ReviewedOn string
	ReviewNote string
}

type StoreLeaveRequestRepository struct {
	store      *store.Store
	attendance AttendanceRepository
	logger     *logrus.Logger
}

// NewStoreLeaveRequestRepository: одобрение заявки отмечает дни отпуска через attendance
func NewStoreLeaveRequestRepository(st *store.Store, attendance AttendanceRepository) *StoreLeaveRequestRepository {
	return &StoreLeaveRequestRepository{
		store:      st,
		attendance: attendance,
		logger:     logger.GetLogger("repository"),
	}
}

func (r *StoreLeaveRequestRepository) load() []models.LeaveRequest {
	return store.LoadList[models.LeaveRequest](r.store, store.KeyLeaveRequests)
}

func (r *StoreLeaveRequestRepository) update(fn func([]models.LeaveRequest) ([]models.LeaveRequest, error)) error {
	return store.Update(r.store, store.KeyLeaveRequests, fn)
}

// Add регистрирует новую заявку в статусе pending
func (r *StoreLeaveRequestRepository) Add(request models.LeaveRequest, now time.Time) (*models.LeaveRequest, error) {
	request.ID = store.NewID()
	request.AppliedOn = dates.Day(now)
	request.Status = models.LeavePending
	request.ReviewedBy = ""
	request.ReviewedOn = ""
	request.ReviewNote = ""

	err := r.update(func(requests []models.LeaveRequest) ([]models.LeaveRequest, error) {
		return append(requests, request), nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": request.EmployeeID,
		"leave_type":  request.LeaveType,
		"start_date":  request.StartDate,
		"end_date":    request.EndDate,
	}).Info("Leave request created")

	return &request, nil
}

// Review одобряет или отклоняет заявку. Рассмотренную заявку изменить нельзя.
// При одобрении каждый день периода отмечается в посещаемости.
func (r *StoreLeaveRequestRepository) Review(id string, review Review) (*models.LeaveRequest, error) {
	if review.Status != models.LeaveApproved && review.Status != models.LeaveRejected {
		return nil, ErrInvalidReviewStatus
	}

	var reviewed models.LeaveRequest
	err := r.update(func(requests []models.LeaveRequest) ([]models.LeaveRequest, error) {
		idx := store.IndexOf(requests, func(l models.LeaveRequest) bool { return l.ID == id })
		if idx == -1 {
			return nil, ErrLeaveRequestNotFound
		}

		req := &requests[idx]
		if !req.IsPending() {
			return nil, ErrLeaveAlreadyReviewed
		}
		if review.Status == models.LeaveApproved {
			if _, err := dates.Range(req.StartDate, req.EndDate); err != nil {
				return nil, ErrInvalidDateRange
			}
		}

		req.Status = review.Status
		req.ReviewedBy = review.ReviewedBy
		req.ReviewedOn = review.ReviewedOn
		req.ReviewNote = review.ReviewNote
		reviewed = *req
		return requests, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"leave_request_id": id,
		"status":           reviewed.Status,
		"reviewed_by":      reviewed.ReviewedBy,
	}).Info("Leave request reviewed")

	if reviewed.Status == models.LeaveApproved {
		_, err := r.attendance.MarkLeave(reviewed.EmployeeID, reviewed.StartDate, reviewed.EndDate, reviewed.AttendanceStatus())
		if err != nil {
			return &reviewed, err
		}
	}

	return &reviewed, nil
}

func (r *StoreLeaveRequestRepository) GetByID(id string) (*models.LeaveRequest, error) {
	requests := r.load()
	idx := store.IndexOf(requests, func(l models.LeaveRequest) bool { return l.ID == id })
	if idx == -1 {
		return nil, ErrLeaveRequestNotFound
	}
	return &requests[idx], nil
}

// GetByEmployee - заявки сотрудника, новые первыми
func (r *StoreLeaveRequestRepository) GetByEmployee(employeeID string) []models.LeaveRequest {
	requests := store.Filter(r.load(), func(l models.LeaveRequest) bool { return l.EmployeeID == employeeID })
	sortByAppliedOn(requests, true)
	return requests
}

// GetPending - нерассмотренные заявки, старые первыми
func (r *StoreLeaveRequestRepository) GetPending() []models.LeaveRequest {
	requests := store.Filter(r.load(), func(l models.LeaveRequest) bool { return l.IsPending() })
	sortByAppliedOn(requests, false)
	return requests
}

// GetAll - все заявки, новые первыми
func (r *StoreLeaveRequestRepository) GetAll() []models.LeaveRequest {
	requests := r.load()
	sortByAppliedOn(requests, true)
	return requests
}

func (r *StoreLeaveRequestRepository) DeleteByEmployeeID(employeeID string) (int, error) {
	removed := 0
	err := r.update(func(requests []models.LeaveRequest) ([]models.LeaveRequest, error) {
		filtered := store.Filter(requests, func(l models.LeaveRequest) bool { return l.EmployeeID != employeeID })
		removed = len(requests) - len(filtered)
		if removed == 0 {
			return nil, store.SkipWrite
		}
		return filtered, nil
	})
	return removed, err
}

func sortByAppliedOn(requests []models.LeaveRequest, newestFirst bool) {
	sort.SliceStable(requests, func(i, j int) bool {
		if newestFirst {
			return requests[i].AppliedOn > requests[j].AppliedOn
		}
		return requests[i].AppliedOn < requests[j].AppliedOn
	})
}
