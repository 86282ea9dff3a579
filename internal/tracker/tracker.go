package tracker

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/pkg/dates"
)

const (
	DefaultIdleThreshold     = 5 * time.Minute
	DefaultRecomputeInterval = 30 * time.Second
)

// Event - пользовательский ввод, который считается активностью
type Event string

const (
	PointerMove Event = "pointer_move"
	KeyPress    Event = "key_press"
	PointerDown Event = "pointer_down"
	Scroll      Event = "scroll"
	TouchStart  Event = "touch_start"
)

// IsQualifying - событие сбрасывает таймер простоя
func (e Event) IsQualifying() bool {
	switch e {
	case PointerMove, KeyPress, PointerDown, Scroll, TouchStart:
		return true
	}
	return false
}

// SessionStore - где хранятся сессии активности
type SessionStore interface {
	Find(employeeID, date string) *models.ActivitySession
	Upsert(session models.ActivitySession) (*models.ActivitySession, error)
}

type Config struct {
	IdleThreshold     time.Duration
	RecomputeInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}
	if c.RecomputeInterval <= 0 {
		c.RecomputeInterval = DefaultRecomputeInterval
	}
	return c
}

// Tracker следит за активностью одного сотрудника: Active <-> Idle.
// Простой начинается, если IdleThreshold не было ни одного события ввода.
type Tracker struct {
	employeeID string
	sessions   SessionStore
	clock      Clock
	cfg        Config
	logger     *logrus.Logger

	mu             sync.Mutex
	session        *models.ActivitySession
	tracking       bool
	idle           bool
	idleTimer      Timer
	recomputeTimer Timer
	generation     int // отсекает колбэки уже отмененных таймеров
	idleSeq        int
}

func New(employeeID string, sessions SessionStore, clock Clock, cfg Config) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Tracker{
		employeeID: employeeID,
		sessions:   sessions,
		clock:      clock,
		cfg:        cfg.withDefaults(),
		logger:     logger.GetLogger("tracker"),
	}
}

// Start начинает или возобновляет сегодняшнюю сессию
func (t *Tracker) Start() error {
	if t.employeeID == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tracking {
		return nil
	}

	now := t.clock.Now()
	session := t.resumeOrCreate(now)
	session.Recalculate(now)

	if err := t.persist(session); err != nil {
		return err
	}

	t.tracking = true
	t.idle = false
	t.generation++
	t.armIdle()
	t.armRecompute()

	t.logger.WithFields(logrus.Fields{
		"employee_id": t.employeeID,
		"date":        t.session.Date,
		"login_time":  t.session.LoginTime.Format(time.RFC3339),
	}).Info("Tracking started")

	return nil
}

func (t *Tracker) resumeOrCreate(now time.Time) *models.ActivitySession {
	existing := t.sessions.Find(t.employeeID, dates.Day(now))
	if existing == nil {
		session := models.NewActivitySession(t.employeeID, now)
		return &session
	}

	session := *existing
	session.EndIdle(now)
	if session.LogoutTime != nil {
		// время между выходом и повторным входом считается простоем
		end := now
		session.IdlePeriods = append(session.IdlePeriods, models.IdlePeriod{Start: *session.LogoutTime, End: &end})
		session.LogoutTime = nil
	}
	session.IsActive = true

	t.logger.WithField("employee_id", t.employeeID).Info("Resuming activity session")
	return &session
}

// RecordActivity обрабатывает событие ввода: завершает простой и перезапускает таймер
func (t *Tracker) RecordActivity(event Event) error {
	if !event.IsQualifying() {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking {
		return nil
	}

	t.armIdle()

	if !t.idle {
		return nil
	}

	now := t.clock.Now()
	t.session.EndIdle(now)
	t.session.IsActive = true
	t.idle = false
	t.session.Recalculate(now)

	t.logger.WithFields(logrus.Fields{
		"employee_id": t.employeeID,
		"event":       string(event),
	}).Debug("Idle period ended")

	return t.persist(t.session)
}

// Stop завершает сессию: закрывает простой, фиксирует время выхода
func (t *Tracker) Stop() error {
	if t.employeeID == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking || t.session == nil {
		return nil
	}

	t.cancelTimers()
	t.tracking = false
	t.idle = false

	now := t.clock.Now()
	t.session.EndIdle(now)
	logout := now
	t.session.LogoutTime = &logout
	t.session.IsActive = false
	t.session.Recalculate(now)

	t.logger.WithFields(logrus.Fields{
		"employee_id": t.employeeID,
		"session":     t.session.TotalSessionMinutes,
		"idle":        t.session.TotalIdleMinutes,
		"productive":  t.session.ProductiveMinutes,
	}).Info("Tracking stopped")

	return t.persist(t.session)
}

// Close останавливает таймеры без завершения сессии
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelTimers()
	t.tracking = false
	t.idle = false
}

func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

func (t *Tracker) IsIdle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idle
}

// Session - копия текущей сессии, пересчитанная на сейчас
func (t *Tracker) Session() (models.ActivitySession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return models.ActivitySession{}, false
	}
	session := *t.session
	session.IdlePeriods = append([]models.IdlePeriod(nil), t.session.IdlePeriods...)
	if t.tracking {
		session.Recalculate(t.clock.Now())
	}
	return session, true
}

func (t *Tracker) armIdle() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleSeq++
	seq := t.idleSeq
	t.idleTimer = t.clock.AfterFunc(t.cfg.IdleThreshold, func() { t.onIdle(seq) })
}

func (t *Tracker) armRecompute() {
	gen := t.generation
	t.recomputeTimer = t.clock.AfterFunc(t.cfg.RecomputeInterval, func() { t.onRecompute(gen) })
}

func (t *Tracker) cancelTimers() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}
	t.idleSeq++
	if t.recomputeTimer != nil {
		t.recomputeTimer.Stop()
		t.recomputeTimer = nil
	}
	t.generation++
}

func (t *Tracker) onIdle(seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking || t.idle || seq != t.idleSeq {
		return
	}

	now := t.clock.Now()
	t.session.BeginIdle(now)
	t.idle = true
	t.session.Recalculate(now)

	t.logger.WithField("employee_id", t.employeeID).Debug("Idle period started")

	if err := t.persist(t.session); err != nil {
		t.logger.WithError(err).WithField("employee_id", t.employeeID).Error("Failed to save idle period")
	}
}

func (t *Tracker) onRecompute(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracking || gen != t.generation {
		return
	}

	t.session.Recalculate(t.clock.Now())
	if err := t.persist(t.session); err != nil {
		t.logger.WithError(err).WithField("employee_id", t.employeeID).Error("Failed to save activity session")
	}
	t.armRecompute()
}

// persist сохраняет сессию и запоминает ее как текущую
func (t *Tracker) persist(session *models.ActivitySession) error {
	saved, err := t.sessions.Upsert(*session)
	if err != nil {
		t.logger.WithError(err).WithField("employee_id", t.employeeID).Error("Failed to persist activity session")
		return err
	}
	session.ID = saved.ID
	t.session = session
	return nil
}
