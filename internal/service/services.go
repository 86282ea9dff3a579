package service

import (
	"salestrack-bot/internal/repository"
	"salestrack-bot/internal/store"
)

// Services - все сервисы приложения поверх общих репозиториев
type Services struct {
	Auth          *AuthService
	Employees     *EmployeeService
	Performance   *PerformanceService
	Attendance    *AttendanceService
	Leave         *LeaveService
	Dashboard     *DashboardService
	Notifications *NotificationService
	Export        *ExportService
}

func New(repos *repository.Repositories, st *store.Store, defaults TargetDefaults) *Services {
	return &Services{
		Auth:          NewAuthService(repos.Employees, st),
		Employees:     NewEmployeeService(repos.Employees, repos.Targets, st, defaults),
		Performance:   NewPerformanceService(repos.Performances),
		Attendance:    NewAttendanceService(repos.Attendance, repos.Notifications),
		Leave:         NewLeaveService(repos.LeaveRequests, repos.Employees, repos.Notifications),
		Dashboard:     NewDashboardService(repos),
		Notifications: NewNotificationService(repos.Notifications),
		Export:        NewExportService(repos),
	}
}
