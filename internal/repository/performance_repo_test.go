package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/models"
)

func TestPerformanceAddIsUpsertPerDay(t *testing.T) {
	repos, _ := newTestRepos(t)

	first, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-10", CallsMade: 10, LeadsContacted: 8, LeadsConverted: 2})
	require.NoError(t, err)

	second, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-10", CallsMade: 12, LeadsContacted: 9, LeadsConverted: 3})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	rows := repos.Performances.GetByEmployee("e1")
	require.Len(t, rows, 1)
	assert.Equal(t, 12, rows[0].CallsMade)
	assert.Equal(t, 3, rows[0].LeadsConverted)
}

func TestPerformanceWritesRecomputeTarget(t *testing.T) {
	repos, _ := newTestRepos(t)

	target, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: "2024-06", TargetValue: 100, RevenueTarget: 1000})
	require.NoError(t, err)
	assert.Equal(t, 0, target.AchievedValue)

	_, err = repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-10", LeadsContacted: 10, LeadsConverted: 4, RevenueGenerated: 400})
	require.NoError(t, err)
	assert.Equal(t, 4, repos.Targets.Get("e1", "2024-06").AchievedValue)

	p, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-11", LeadsContacted: 5, LeadsConverted: 2, RevenueGenerated: 150})
	require.NoError(t, err)

	got := repos.Targets.Get("e1", "2024-06")
	assert.Equal(t, 6, got.AchievedValue)
	assert.Equal(t, 550.0, got.RevenueAchieved)

	// other months and other employees do not count
	_, err = repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-05-31", LeadsContacted: 9, LeadsConverted: 9})
	require.NoError(t, err)
	_, err = repos.Performances.Add(models.DailyPerformance{EmployeeID: "e2", Date: "2024-06-11", LeadsContacted: 9, LeadsConverted: 9})
	require.NoError(t, err)
	assert.Equal(t, 6, repos.Targets.Get("e1", "2024-06").AchievedValue)

	_, err = repos.Performances.Update(p.ID, PerformancePatch{LeadsConverted: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 9, repos.Targets.Get("e1", "2024-06").AchievedValue)

	require.NoError(t, repos.Performances.Delete(p.ID))
	got = repos.Targets.Get("e1", "2024-06")
	assert.Equal(t, 4, got.AchievedValue)
	assert.Equal(t, 400.0, got.RevenueAchieved)
}

func TestPerformanceUpdateAcrossMonthsRecomputesBoth(t *testing.T) {
	repos, _ := newTestRepos(t)
	for _, month := range []string{"2024-05", "2024-06"} {
		_, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: month, TargetValue: 10})
		require.NoError(t, err)
	}

	p, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-01", LeadsContacted: 3, LeadsConverted: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, repos.Targets.Get("e1", "2024-06").AchievedValue)

	_, err = repos.Performances.Update(p.ID, PerformancePatch{Date: ptr("2024-05-31")})
	require.NoError(t, err)

	assert.Equal(t, 0, repos.Targets.Get("e1", "2024-06").AchievedValue)
	assert.Equal(t, 3, repos.Targets.Get("e1", "2024-05").AchievedValue)
}

func TestPerformanceUpdateRejectsDuplicateDay(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-01"})
	require.NoError(t, err)
	p, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-02"})
	require.NoError(t, err)

	_, err = repos.Performances.Update(p.ID, PerformancePatch{Date: ptr("2024-06-01")})
	assert.ErrorIs(t, err, ErrPerformanceExists)

	_, err = repos.Performances.Update("missing", PerformancePatch{})
	assert.ErrorIs(t, err, ErrPerformanceNotFound)
	assert.ErrorIs(t, repos.Performances.Delete("missing"), ErrPerformanceNotFound)
}

func TestPerformanceGetByEmployeeNewestFirst(t *testing.T) {
	repos, _ := newTestRepos(t)
	for _, day := range []string{"2024-06-02", "2024-06-05", "2024-06-01"} {
		_, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: day})
		require.NoError(t, err)
	}

	rows := repos.Performances.GetByEmployee("e1")
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-06-05", rows[0].Date)
	assert.Equal(t, "2024-06-01", rows[2].Date)
}

func TestTargetUpsertKeepsIDAndRecomputesAchieved(t *testing.T) {
	repos, _ := newTestRepos(t)
	_, err := repos.Performances.Add(models.DailyPerformance{EmployeeID: "e1", Date: "2024-06-03", LeadsContacted: 4, LeadsConverted: 2, RevenueGenerated: 50})
	require.NoError(t, err)

	first, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: "2024-06", TargetValue: 10, AchievedValue: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, first.AchievedValue)
	assert.Equal(t, 50.0, first.RevenueAchieved)

	second, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: "2024-06", TargetValue: 20, RevenueTarget: 500})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 20, second.TargetValue)
	assert.Equal(t, 2, second.AchievedValue)
	assert.Len(t, repos.Targets.GetByEmployee("e1"), 1)

	updated, err := repos.Targets.Update(second.ID, TargetPatch{TargetValue: ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.TargetValue)
	assert.Equal(t, 2, updated.AchievedValue)

	_, err = repos.Targets.Update("missing", TargetPatch{})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestTargetUpdateRejectsMonthClash(t *testing.T) {
	repos, _ := newTestRepos(t)
	may, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: "2024-05", TargetValue: 10})
	require.NoError(t, err)
	june, err := repos.Targets.Upsert(models.Target{EmployeeID: "e1", Month: "2024-06", TargetValue: 20})
	require.NoError(t, err)
	_, err = repos.Targets.Upsert(models.Target{EmployeeID: "e2", Month: "2024-07", TargetValue: 5})
	require.NoError(t, err)

	_, err = repos.Targets.Update(june.ID, TargetPatch{Month: ptr("2024-05")})
	assert.ErrorIs(t, err, ErrTargetExists)
	assert.Len(t, repos.Targets.GetByEmployee("e1"), 2)
	assert.Equal(t, may.ID, repos.Targets.Get("e1", "2024-05").ID)
	assert.Equal(t, 20, repos.Targets.Get("e1", "2024-06").TargetValue)

	moved, err := repos.Targets.Update(june.ID, TargetPatch{Month: ptr("2024-07")})
	require.NoError(t, err)
	assert.Equal(t, "2024-07", moved.Month)
	assert.Nil(t, repos.Targets.Get("e1", "2024-06"))
}

func TestRecomputeWithoutTargetIsNoop(t *testing.T) {
	repos, _ := newTestRepos(t)
	require.NoError(t, repos.Targets.Recompute("e1", "2024-06"))
	assert.Nil(t, repos.Targets.Get("e1", "2024-06"))
}
