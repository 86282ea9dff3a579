package tracker

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack-bot/internal/models"
)

type fakeTimer struct {
	clock   *fakeClock
	due     time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped
	t.stopped = true
	return active
}

// fakeClock запускает таймеры синхронно внутри Advance
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, due: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].due.Before(c.timers[j].due) })
		var next *fakeTimer
		for i, t := range c.timers {
			if t.stopped {
				continue
			}
			if t.due.After(target) {
				break
			}
			next = t
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.stopped = true
		c.now = next.due
		c.mu.Unlock()
		next.f()
	}
}

type memSessions struct {
	mu       sync.Mutex
	rows     map[string]models.ActivitySession
	saves    int
	failNext error
}

func newMemSessions() *memSessions {
	return &memSessions{rows: make(map[string]models.ActivitySession)}
}

func (m *memSessions) Find(employeeID, date string) *models.ActivitySession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[employeeID+"|"+date]
	if !ok {
		return nil
	}
	s.IdlePeriods = append([]models.IdlePeriod(nil), s.IdlePeriods...)
	return &s
}

func (m *memSessions) Upsert(session models.ActivitySession) (*models.ActivitySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	key := session.EmployeeID + "|" + session.Date
	if existing, ok := m.rows[key]; ok {
		session.ID = existing.ID
	} else if session.ID == "" {
		session.ID = "s-" + session.Date
	}
	session.IdlePeriods = append([]models.IdlePeriod(nil), session.IdlePeriods...)
	m.rows[key] = session
	m.saves++
	return &session, nil
}

func (m *memSessions) get(employeeID, date string) models.ActivitySession {
	s := m.Find(employeeID, date)
	if s == nil {
		return models.ActivitySession{}
	}
	return *s
}

var testConfig = Config{IdleThreshold: 5 * time.Minute, RecomputeInterval: 30 * time.Second}

func morning() time.Time {
	return time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
}

func TestStartCreatesSession(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("e1", sessions, clock, testConfig)

	require.NoError(t, tr.Start())
	assert.True(t, tr.IsTracking())
	assert.False(t, tr.IsIdle())

	s := sessions.get("e1", "2024-06-10")
	assert.Equal(t, "s-2024-06-10", s.ID)
	assert.True(t, s.IsActive)
	assert.Empty(t, s.IdlePeriods)
	assert.True(t, s.LoginTime.Equal(morning()))

	// повторный старт ничего не делает
	require.NoError(t, tr.Start())
	assert.Equal(t, 1, sessions.saves)
}

func TestIdleAfterThresholdAndResumeOnInput(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("e1", sessions, clock, testConfig)
	require.NoError(t, tr.Start())

	clock.Advance(4 * time.Minute)
	require.NoError(t, tr.RecordActivity(PointerMove))
	clock.Advance(4 * time.Minute)
	assert.False(t, tr.IsIdle())

	clock.Advance(time.Minute)
	require.True(t, tr.IsIdle())

	s := sessions.get("e1", "2024-06-10")
	require.Len(t, s.IdlePeriods, 1)
	assert.True(t, s.IdlePeriods[0].IsOpen())
	assert.True(t, s.IdlePeriods[0].Start.Equal(morning().Add(9*time.Minute)))
	assert.False(t, s.IsActive)

	// дальнейшее бездействие не открывает второй период
	clock.Advance(20 * time.Minute)
	s = sessions.get("e1", "2024-06-10")
	require.Len(t, s.IdlePeriods, 1)

	require.NoError(t, tr.RecordActivity(KeyPress))
	assert.False(t, tr.IsIdle())

	s = sessions.get("e1", "2024-06-10")
	require.Len(t, s.IdlePeriods, 1)
	require.False(t, s.IdlePeriods[0].IsOpen())
	assert.True(t, s.IdlePeriods[0].End.Equal(morning().Add(29*time.Minute)))
	assert.True(t, s.IsActive)
	assert.Equal(t, 29.0, s.TotalSessionMinutes)
	assert.Equal(t, 20.0, s.TotalIdleMinutes)
	assert.Equal(t, 9.0, s.ProductiveMinutes)

	// событие в активном состоянии не создает период
	require.NoError(t, tr.RecordActivity(Scroll))
	s = sessions.get("e1", "2024-06-10")
	assert.Len(t, s.IdlePeriods, 1)
}

func TestRecomputePersistsPeriodically(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("e1", sessions, clock, testConfig)
	require.NoError(t, tr.Start())

	for i := 0; i < 4; i++ {
		require.NoError(t, tr.RecordActivity(TouchStart))
		clock.Advance(30 * time.Second)
	}

	s := sessions.get("e1", "2024-06-10")
	assert.Equal(t, 2.0, s.TotalSessionMinutes)
	assert.Equal(t, 2.0, s.ProductiveMinutes)
	assert.Equal(t, 5, sessions.saves)

	current, ok := tr.Session()
	require.True(t, ok)
	assert.Equal(t, 2.0, current.TotalSessionMinutes)
}

func TestStopClosesIdleAndLogsOut(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("e1", sessions, clock, testConfig)
	require.NoError(t, tr.Start())

	clock.Advance(15 * time.Minute)
	require.True(t, tr.IsIdle())

	require.NoError(t, tr.Stop())
	assert.False(t, tr.IsTracking())

	s := sessions.get("e1", "2024-06-10")
	require.NotNil(t, s.LogoutTime)
	assert.True(t, s.LogoutTime.Equal(morning().Add(15*time.Minute)))
	assert.False(t, s.IsActive)
	require.Len(t, s.IdlePeriods, 1)
	assert.False(t, s.IdlePeriods[0].IsOpen())
	assert.Equal(t, 15.0, s.TotalSessionMinutes)
	assert.Equal(t, 10.0, s.TotalIdleMinutes)
	assert.Equal(t, 5.0, s.ProductiveMinutes)

	saves := sessions.saves
	clock.Advance(time.Hour)
	assert.Equal(t, saves, sessions.saves)

	require.NoError(t, tr.Stop())
	assert.Equal(t, saves, sessions.saves)
	require.NoError(t, tr.RecordActivity(KeyPress))
	assert.Equal(t, saves, sessions.saves)
}

func TestResumeClosesStoredIdlePeriod(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()

	first := New("e1", sessions, clock, testConfig)
	require.NoError(t, first.Start())
	clock.Advance(10 * time.Minute)
	require.True(t, first.IsIdle())
	first.Close()

	clock.Advance(5 * time.Minute)
	second := New("e1", sessions, clock, testConfig)
	require.NoError(t, second.Start())
	assert.False(t, second.IsIdle())

	s := sessions.get("e1", "2024-06-10")
	assert.Equal(t, "s-2024-06-10", s.ID)
	assert.True(t, s.LoginTime.Equal(morning()))
	require.Len(t, s.IdlePeriods, 1)
	assert.True(t, s.IdlePeriods[0].End.Equal(morning().Add(15*time.Minute)))
	assert.Equal(t, 15.0, s.TotalSessionMinutes)
	assert.Equal(t, 10.0, s.TotalIdleMinutes)
}

func TestRestartAfterLogoutReopensSession(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("e1", sessions, clock, testConfig)

	require.NoError(t, tr.Start())
	clock.Advance(time.Minute)
	require.NoError(t, tr.Stop())

	clock.Advance(time.Hour)
	require.NoError(t, tr.Start())

	s := sessions.get("e1", "2024-06-10")
	assert.Nil(t, s.LogoutTime)
	assert.True(t, s.IsActive)
	require.Len(t, s.IdlePeriods, 1)
	assert.True(t, s.IdlePeriods[0].Start.Equal(morning().Add(time.Minute)))
	assert.True(t, s.IdlePeriods[0].End.Equal(morning().Add(61*time.Minute)))
	assert.Equal(t, 61.0, s.TotalSessionMinutes)
	assert.Equal(t, 1.0, s.ProductiveMinutes)
}

func TestEmptyEmployeeIsNoop(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	tr := New("", sessions, clock, testConfig)

	require.NoError(t, tr.Start())
	require.NoError(t, tr.Stop())
	assert.False(t, tr.IsTracking())
	assert.Zero(t, sessions.saves)

	_, ok := tr.Session()
	assert.False(t, ok)
}

func TestStartReturnsStorageFailure(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	sessions.failNext = errors.New("disk full")
	tr := New("e1", sessions, clock, testConfig)

	require.Error(t, tr.Start())
	assert.False(t, tr.IsTracking())
}

func TestUnknownEventIgnored(t *testing.T) {
	clock := newFakeClock(morning())
	tr := New("e1", newMemSessions(), clock, testConfig)
	require.NoError(t, tr.Start())

	clock.Advance(4 * time.Minute)
	require.NoError(t, tr.RecordActivity(Event("resize")))
	clock.Advance(time.Minute)
	assert.True(t, tr.IsIdle())
}

func TestManagerRoutesEvents(t *testing.T) {
	clock := newFakeClock(morning())
	sessions := newMemSessions()
	m := NewManager(sessions, clock, testConfig)

	require.NoError(t, m.RecordActivity("e1", KeyPress))
	assert.Zero(t, sessions.saves)

	require.NoError(t, m.Start("e1"))
	require.NoError(t, m.Start("e2"))
	clock.Advance(5 * time.Minute)
	assert.True(t, m.For("e1").IsIdle())

	require.NoError(t, m.RecordActivity("e1", KeyPress))
	assert.False(t, m.For("e1").IsIdle())
	assert.True(t, m.For("e2").IsIdle())

	m.CloseAll()
	assert.False(t, m.For("e1").IsTracking())
	assert.False(t, m.For("e2").IsTracking())
}
