package models

const (
	LeaveSick      = "sick"
	LeaveCasual    = "casual"
	LeaveAnnual    = "annual"
	LeaveEmergency = "emergency"
	LeaveHalfDay   = "half-day"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	LeaveType  string `json:"leave_type"`
	Status     string `json:"status"`
	AppliedOn  string `json:"applied_on"`
	ReviewedBy string `json:"reviewed_by,omitempty"`
	ReviewedOn string `json:"reviewed_on,omitempty"`
	ReviewNote string `json:"review_note,omitempty"`
}

// IsPending - заявка ещё не рассмотрена
func (l *LeaveRequest) IsPending() bool {
	return l.Status == LeavePending
}

// AttendanceStatus - статус посещаемости для дней одобренной заявки
func (l *LeaveRequest) AttendanceStatus() string {
	if l.LeaveType == LeaveHalfDay {
		return AttendanceHalfDay
	}
	return AttendanceLeave
}

// Migrate: заявки без статуса считаются новыми
func (l *LeaveRequest) Migrate() {
	if l.Status == "" {
		l.Status = LeavePending
	}
}

// IsValidLeaveType проверяет тип отпуска
func IsValidLeaveType(leaveType string) bool {
	switch leaveType {
	case LeaveSick, LeaveCasual, LeaveAnnual, LeaveEmergency, LeaveHalfDay:
		return true
	}
	return false
}
