package store

const (
	KeyEmployees      = "employees"
	KeyPerformances   = "performances"
	KeyTargets        = "targets"
	KeyAttendance     = "attendance"
	KeyLeaveRequests  = "leave_requests"
	KeyNotifications  = "notifications"
	KeyScreenActivity = "screen_activity"
	KeyCurrentUser    = "current_user"
)

// AllKeys - ключи, удаляемые ClearAll
var AllKeys = []string{
	KeyEmployees,
	KeyPerformances,
	KeyTargets,
	KeyAttendance,
	KeyLeaveRequests,
	KeyNotifications,
	KeyScreenActivity,
	KeyCurrentUser,
}
