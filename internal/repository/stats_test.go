package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/models"
)

func TestWeeklyStatsUsesLastSevenEntries(t *testing.T) {
	repos, _ := newTestRepos(t)
	for day := 1; day <= 9; day++ {
		_, err := repos.Performances.Add(models.DailyPerformance{
			EmployeeID:       "e1",
			Date:             at("2024-06-01 00:00").AddDate(0, 0, day-1).Format("2006-01-02"),
			CallsMade:        day,
			LeadsContacted:   10,
			LeadsConverted:   day % 4,
			RevenueGenerated: 100,
			RevenuePending:   10,
		})
		require.NoError(t, err)
	}

	stats := repos.Stats.WeeklyStats("e1")
	// days 3..9
	assert.Equal(t, 7, stats.Entries)
	assert.Equal(t, 42, stats.TotalCalls)
	assert.Equal(t, 70, stats.TotalLeadsContacted)
	assert.Equal(t, 3+0+1+2+3+0+1, stats.TotalLeadsConverted)
	assert.Equal(t, 700.0, stats.TotalRevenue)
	assert.Equal(t, 70.0, stats.TotalPending)
	assert.Equal(t, 14, stats.ConversionRate)
	assert.Equal(t, 6, stats.AvgCallsPerDay)

	assert.Equal(t, WeeklyStats{}, repos.Stats.WeeklyStats("nobody"))
}

func TestTeamStats(t *testing.T) {
	repos, _ := newTestRepos(t)

	assert.Nil(t, repos.Stats.TeamStats("2024-06").TopPerformer)

	a := addEmployee(t, repos, "A", "a@x.com")
	b := addEmployee(t, repos, "B", "b@x.com")
	_, err := repos.Employees.Add(models.Employee{Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = repos.Performances.Add(models.DailyPerformance{EmployeeID: a.ID, Date: "2024-06-10", CallsMade: 20, LeadsContacted: 10, LeadsConverted: 1, RevenueGenerated: 100})
	require.NoError(t, err)
	_, err = repos.Performances.Add(models.DailyPerformance{EmployeeID: b.ID, Date: "2024-06-10", CallsMade: 30, LeadsContacted: 10, LeadsConverted: 4, RevenueGenerated: 300, RevenuePending: 50})
	require.NoError(t, err)
	_, err = repos.Targets.Upsert(models.Target{EmployeeID: b.ID, Month: "2024-06", TargetValue: 8})
	require.NoError(t, err)

	team := repos.Stats.TeamStats("2024-06")
	require.Len(t, team.Employees, 2)
	assert.Equal(t, 50, team.TotalTeamCalls)
	assert.Equal(t, 5, team.TotalTeamConversions)
	assert.Equal(t, 400.0, team.TotalTeamRevenue)
	assert.Equal(t, 50.0, team.TotalTeamPending)
	assert.Equal(t, 25, team.AverageConversionRate)
	require.NotNil(t, team.TopPerformer)
	assert.Equal(t, "B", team.TopPerformer.Employee.Name)
	require.NotNil(t, team.TopPerformer.Target)
	assert.Equal(t, 50, team.TopPerformer.Target.Progress())
	assert.Nil(t, team.Employees[0].Target)
}

func TestAttendanceStatsAndActiveEmployees(t *testing.T) {
	repos, _ := newTestRepos(t)
	a := addEmployee(t, repos, "A", "a@x.com")
	b := addEmployee(t, repos, "B", "b@x.com")

	_, err := repos.Attendance.CheckIn(a.ID, at("2024-06-10 09:00"))
	require.NoError(t, err)
	_, err = repos.Attendance.CheckOut(a.ID, at("2024-06-10 17:20"))
	require.NoError(t, err)
	_, err = repos.Attendance.CheckIn(a.ID, at("2024-06-11 09:00"))
	require.NoError(t, err)
	_, err = repos.Attendance.CheckOut(a.ID, at("2024-06-11 13:10"))
	require.NoError(t, err)
	_, err = repos.Attendance.MarkLeave(a.ID, "2024-06-12", "2024-06-13", models.AttendanceLeave)
	require.NoError(t, err)
	_, err = repos.Attendance.MarkLeave(a.ID, "2024-06-14", "2024-06-14", models.AttendanceHalfDay)
	require.NoError(t, err)

	stats := repos.Stats.AttendanceStats(a.ID, "2024-06")
	assert.Equal(t, AttendanceStats{Present: 2, Leave: 2, HalfDay: 1, TotalHours: 12.5}, stats)

	active := repos.Stats.ActiveEmployees(at("2024-06-11 14:00"))
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].Employee.ID)
	assert.True(t, active[0].IsCheckedIn)
	assert.True(t, active[0].IsCheckedOut)
	assert.Equal(t, "09:00", active[0].CheckInTime)
	assert.Equal(t, models.AttendancePresent, active[0].Status)
	assert.Equal(t, b.ID, active[1].Employee.ID)
	assert.False(t, active[1].IsCheckedIn)
	assert.Equal(t, models.AttendanceAbsent, active[1].Status)
}
