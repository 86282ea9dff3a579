package service

import (
	"fmt"
	"time"

	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
	"salestrack-bot/pkg/dates"
)

// insightThreshold - типичный целевой процент конверсии для подсказки
const insightThreshold = 25

type EmployeeDashboard struct {
	Employee        models.Employee
	Month           string
	Weekly          repository.WeeklyStats
	Level           string
	Target          *models.Target
	TargetProgress  int
	RevenueProgress int
	Attendance      repository.AttendanceStats
	Today           *models.Attendance
	Activity        *models.ActivitySession
	Insight         string
	Leaves          []models.LeaveRequest
	Recent          []models.DailyPerformance
}

type AdminDashboard struct {
	Month               string
	Team                repository.TeamStats
	Active              []repository.ActiveEmployee
	PendingLeaves       []models.LeaveRequest
	UnreadNotifications int
}

type DashboardService struct {
	repos *repository.Repositories
	now   func() time.Time
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{
		repos: repos,
		now:   time.Now,
	}
}

// Insight - подсказка по недельному проценту конверсии
func Insight(hasEntries bool, rate int) string {
	if !hasEntries {
		return "Start logging your daily activities to get personalized insights and recommendations."
	}
	if rate >= insightThreshold {
		return fmt.Sprintf("Your conversion rate of %d%% is above the typical target of %d%%. "+
			"Great job! Keep maintaining this momentum to hit your monthly target.", rate, insightThreshold)
	}
	return fmt.Sprintf("Your conversion rate of %d%% is below the typical target of %d%%. "+
		"Focus on qualifying leads better before calls to improve your conversion rate.", rate, insightThreshold)
}

func (s *DashboardService) ForEmployee(employee *models.Employee) EmployeeDashboard {
	now := s.now()
	month := dates.Month(now)

	history := s.repos.Performances.GetByEmployee(employee.ID)
	weekly := repository.SummarizeWeek(history)

	d := EmployeeDashboard{
		Employee:   *employee,
		Month:      month,
		Weekly:     weekly,
		Level:      models.PerformanceLevel(weekly.ConversionRate),
		Target:     s.repos.Targets.Get(employee.ID, month),
		Attendance: s.repos.Stats.AttendanceStats(employee.ID, month),
		Today:      s.repos.Attendance.GetToday(employee.ID, now),
		Activity:   s.repos.Activity.TodaySummary(employee.ID, now),
		Insight:    Insight(len(history) > 0, weekly.ConversionRate),
		Leaves:     s.repos.LeaveRequests.GetByEmployee(employee.ID),
	}
	if d.Target != nil {
		d.TargetProgress = d.Target.Progress()
		d.RevenueProgress = d.Target.RevenueProgress()
	}
	if len(history) > 7 {
		history = history[:7]
	}
	d.Recent = history

	return d
}

func (s *DashboardService) ForAdmin() AdminDashboard {
	now := s.now()
	month := dates.Month(now)

	return AdminDashboard{
		Month:               month,
		Team:                s.repos.Stats.TeamStats(month),
		Active:              s.repos.Stats.ActiveEmployees(now),
		PendingLeaves:       s.repos.LeaveRequests.GetPending(),
		UnreadNotifications: s.repos.Notifications.UnreadCount(),
	}
}

// NotificationService - лента уведомлений администратора
type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(unreadOnly bool) []models.Notification {
	if unreadOnly {
		return s.notifications.GetUnread()
	}
	return s.notifications.GetAll()
}

func (s *NotificationService) UnreadCount() int {
	return s.notifications.UnreadCount()
}

func (s *NotificationService) MarkRead(id string) error {
	return s.notifications.MarkRead(id)
}

func (s *NotificationService) MarkAllRead() error {
	return s.notifications.MarkAllRead()
}
