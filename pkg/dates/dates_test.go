package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeIsInclusive(t *testing.T) {
	days, err := Range("2024-06-10", "2024-06-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-12"}, days)
}

func TestRangeAcrossMonthBoundary(t *testing.T) {
	days, err := Range("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, days)
}

func TestRangeEndBeforeStart(t *testing.T) {
	days, err := Range("2024-06-12", "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestRangeRejectsGarbage(t *testing.T) {
	_, err := Range("12/06/2024", "2024-06-10")
	assert.Error(t, err)
}

func TestSpanDays(t *testing.T) {
	days, err := SpanDays("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = SpanDays("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, 366, days)

	days, err = SpanDays("2024-06-12", "2024-06-10")
	require.NoError(t, err)
	assert.Zero(t, days)

	_, err = SpanDays("2024-06-12", "someday")
	assert.Error(t, err)
}

func TestHoursBetween(t *testing.T) {
	hours, err := HoursBetween("09:00", "17:20")
	require.NoError(t, err)
	assert.Equal(t, 8.33, hours)

	hours, err = HoursBetween("18:00", "09:00")
	require.NoError(t, err)
	assert.Zero(t, hours)
}

func TestMonthHelpers(t *testing.T) {
	now := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", Day(now))
	assert.Equal(t, "2024-06", Month(now))
	assert.Equal(t, "10:30", Clock(now))
	assert.Equal(t, "2024-06", MonthOf("2024-06-15"))
	assert.True(t, InMonth("2024-06-15", "2024-06"))
	assert.False(t, InMonth("2024-07-01", "2024-06"))
	assert.True(t, InMonth("2024-07-01", ""))
}
