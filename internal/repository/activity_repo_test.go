package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/models"
)

func TestActivityUpsertOnePerDay(t *testing.T) {
	repos, _ := newTestRepos(t)
	login := at("2024-06-10 09:00")

	session := models.NewActivitySession("e1", login)
	saved, err := repos.Activity.Upsert(session)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	saved.BeginIdle(login.Add(10 * time.Minute))
	again, err := repos.Activity.Upsert(*saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	found := repos.Activity.Find("e1", "2024-06-10")
	require.NotNil(t, found)
	require.Len(t, found.IdlePeriods, 1)
	assert.True(t, found.IdlePeriods[0].IsOpen())
	assert.Len(t, repos.Activity.GetByEmployee("e1", ""), 1)

	summary := repos.Activity.TodaySummary("e1", login.Add(30*time.Minute))
	require.NotNil(t, summary)
	assert.Equal(t, 30.0, summary.TotalSessionMinutes)
	assert.Equal(t, 20.0, summary.TotalIdleMinutes)
	assert.Equal(t, 10.0, summary.ProductiveMinutes)

	assert.Nil(t, repos.Activity.TodaySummary("e1", login.Add(24*time.Hour)))
}

func TestActivityConcurrentUpsertsKeepEverySession(t *testing.T) {
	repos, _ := newTestRepos(t)
	login := at("2024-06-10 09:00")

	const employees, rounds = 8, 25
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < employees; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			for k := 0; k < rounds; k++ {
				session := models.NewActivitySession(id, login)
				session.ProductiveMinutes = float64(k)
				_, err := repos.Activity.Upsert(session)
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("emp-%d", i))
	}
	close(start)
	wg.Wait()

	for i := 0; i < employees; i++ {
		id := fmt.Sprintf("emp-%d", i)
		sessions := repos.Activity.GetByEmployee(id, "2024-06-10")
		require.Len(t, sessions, 1, id)
		assert.Equal(t, float64(rounds-1), sessions[0].ProductiveMinutes, id)
	}
}
