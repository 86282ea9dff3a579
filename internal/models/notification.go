package models

import "time"

const (
	NotificationLogin         = "login"
	NotificationLogout        = "logout"
	NotificationLeaveRequest  = "leave_request"
	NotificationLeaveApproved = "leave_approved"
	NotificationLeaveRejected = "leave_rejected"
)

type Notification struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"` // снимок имени на момент события
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Read         bool      `json:"read"`
}
