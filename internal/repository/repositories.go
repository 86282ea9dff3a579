package repository

import "salestrack-bot/internal/store"

// Repositories - все репозитории поверх одного хранилища, со связями между ними
type Repositories struct {
	Employees     *StoreEmployeeRepository
	Performances  *StorePerformanceRepository
	Targets       *StoreTargetRepository
	Attendance    *StoreAttendanceRepository
	LeaveRequests *StoreLeaveRequestRepository
	Notifications *StoreNotificationRepository
	Activity      *StoreActivityRepository
	Stats         *StatsRepository
}

// New связывает репозитории: результаты пересчитывают планы, одобренные
// отпуска отмечают посещаемость, удаление сотрудника удаляет его записи.
func New(st *store.Store, notificationLimit int) *Repositories {
	targets := NewStoreTargetRepository(st)
	performances := NewStorePerformanceRepository(st, targets)
	attendance := NewStoreAttendanceRepository(st)
	leaves := NewStoreLeaveRequestRepository(st, attendance)
	employees := NewStoreEmployeeRepository(st, performances, targets, attendance, leaves)

	return &Repositories{
		Employees:     employees,
		Performances:  performances,
		Targets:       targets,
		Attendance:    attendance,
		LeaveRequests: leaves,
		Notifications: NewStoreNotificationRepository(st, notificationLimit),
		Activity:      NewStoreActivityRepository(st),
		Stats:         NewStatsRepository(employees, performances, targets, attendance),
	}
}
