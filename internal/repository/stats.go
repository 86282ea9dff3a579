package repository

import (
	"math"
	"sort"
	"time"

	"salestrack-bot/internal/models"
	"salestrack-bot/pkg/dates"
)

// weeklyWindow - сколько последних записей входит в недельную статистику
const weeklyWindow = 7

type WeeklyStats struct {
	TotalCalls          int     `json:"total_calls"`
	TotalLeadsContacted int     `json:"total_leads_contacted"`
	TotalLeadsConverted int     `json:"total_leads_converted"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalPending        float64 `json:"total_pending"`
	ConversionRate      int     `json:"conversion_rate"`
	AvgCallsPerDay      int     `json:"avg_calls_per_day"`
	Entries             int     `json:"entries"`
}

type EmployeeStats struct {
	Employee models.Employee `json:"employee"`
	WeeklyStats
	Target *models.Target `json:"target,omitempty"`
}

type TeamStats struct {
	Employees             []EmployeeStats `json:"employees"`
	TotalTeamCalls        int             `json:"total_team_calls"`
	TotalTeamConversions  int             `json:"total_team_conversions"`
	TotalTeamRevenue      float64         `json:"total_team_revenue"`
	TotalTeamPending      float64         `json:"total_team_pending"`
	TopPerformer          *EmployeeStats  `json:"top_performer,omitempty"`
	AverageConversionRate int             `json:"average_conversion_rate"`
}

type AttendanceStats struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Leave      int     `json:"leave"`
	HalfDay    int     `json:"half_day"`
	TotalHours float64 `json:"total_hours"`
}

// ActiveEmployee - сегодняшняя отметка сотрудника
type ActiveEmployee struct {
	Employee     models.Employee `json:"employee"`
	IsCheckedIn  bool            `json:"is_checked_in"`
	IsCheckedOut bool            `json:"is_checked_out"`
	CheckInTime  string          `json:"check_in_time,omitempty"`
	CheckOutTime string          `json:"check_out_time,omitempty"`
	WorkingHours float64         `json:"working_hours,omitempty"`
	Status       string          `json:"status"`
}

type StatsRepository struct {
	employees    EmployeeRepository
	performances PerformanceRepository
	targets      TargetRepository
	attendance   AttendanceRepository
}

func NewStatsRepository(
	employees EmployeeRepository,
	performances PerformanceRepository,
	targets TargetRepository,
	attendance AttendanceRepository,
) *StatsRepository {
	return &StatsRepository{
		employees:    employees,
		performances: performances,
		targets:      targets,
		attendance:   attendance,
	}
}

// SummarizeWeek сворачивает последние семь записей (по количеству, а не по календарю).
// rows должны идти от свежих к старым.
func SummarizeWeek(rows []models.DailyPerformance) WeeklyStats {
	if len(rows) > weeklyWindow {
		rows = rows[:weeklyWindow]
	}

	var stats WeeklyStats
	for _, p := range rows {
		stats.TotalCalls += p.CallsMade
		stats.TotalLeadsContacted += p.LeadsContacted
		stats.TotalLeadsConverted += p.LeadsConverted
		stats.TotalRevenue += p.RevenueGenerated
		stats.TotalPending += p.RevenuePending
	}
	stats.Entries = len(rows)
	stats.ConversionRate = models.ConversionRate(stats.TotalLeadsContacted, stats.TotalLeadsConverted)
	if len(rows) > 0 {
		stats.AvgCallsPerDay = int(math.Round(float64(stats.TotalCalls) / float64(len(rows))))
	}
	return stats
}

func (s *StatsRepository) WeeklyStats(employeeID string) WeeklyStats {
	return SummarizeWeek(s.performances.GetByEmployee(employeeID))
}

// TeamStats - недельная статистика и план на месяц по каждому сотруднику отдела продаж
func (s *StatsRepository) TeamStats(month string) TeamStats {
	employees := s.employees.GetSalesEmployees()
	team := TeamStats{Employees: make([]EmployeeStats, 0, len(employees))}

	rateSum := 0
	for _, e := range employees {
		stats := EmployeeStats{
			Employee:    e,
			WeeklyStats: s.WeeklyStats(e.ID),
			Target:      s.targets.Get(e.ID, month),
		}
		team.Employees = append(team.Employees, stats)

		team.TotalTeamCalls += stats.TotalCalls
		team.TotalTeamConversions += stats.TotalLeadsConverted
		team.TotalTeamRevenue += stats.TotalRevenue
		team.TotalTeamPending += stats.TotalPending
		rateSum += stats.ConversionRate
	}

	if len(team.Employees) == 0 {
		return team
	}

	team.AverageConversionRate = int(math.Round(float64(rateSum) / float64(len(team.Employees))))

	ranked := make([]EmployeeStats, len(team.Employees))
	copy(ranked, team.Employees)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ConversionRate > ranked[j].ConversionRate })
	team.TopPerformer = &ranked[0]

	return team
}

// AttendanceStats - счетчики статусов и сумма часов за месяц (пустой месяц - за все время)
func (s *StatsRepository) AttendanceStats(employeeID, month string) AttendanceStats {
	var stats AttendanceStats
	for _, a := range s.attendance.GetByEmployee(employeeID, month) {
		switch a.Status {
		case models.AttendancePresent:
			stats.Present++
		case models.AttendanceAbsent:
			stats.Absent++
		case models.AttendanceLeave:
			stats.Leave++
		case models.AttendanceHalfDay:
			stats.HalfDay++
		}
		stats.TotalHours += a.WorkingHours
	}
	stats.TotalHours = dates.Round2(stats.TotalHours)
	return stats
}

// ActiveEmployees - сегодняшняя посещаемость по каждому сотруднику отдела продаж.
// Без записи за сегодня сотрудник считается отсутствующим.
func (s *StatsRepository) ActiveEmployees(now time.Time) []ActiveEmployee {
	today := make(map[string]models.Attendance)
	for _, a := range s.attendance.GetByDate(dates.Day(now)) {
		today[a.EmployeeID] = a
	}

	employees := s.employees.GetSalesEmployees()
	result := make([]ActiveEmployee, 0, len(employees))
	for _, e := range employees {
		active := ActiveEmployee{Employee: e, Status: models.AttendanceAbsent}
		if a, ok := today[e.ID]; ok {
			active.IsCheckedIn = a.IsCheckedIn()
			active.IsCheckedOut = a.IsCheckedOut()
			active.CheckInTime = a.CheckIn
			active.CheckOutTime = a.CheckOut
			active.WorkingHours = a.WorkingHours
			if a.Status != "" {
				active.Status = a.Status
			}
		}
		result = append(result, active)
	}
	return result
}
