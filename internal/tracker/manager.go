package tracker

import "sync"

// Manager держит по трекеру на сотрудника
type Manager struct {
	sessions SessionStore
	clock    Clock
	cfg      Config

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewManager(sessions SessionStore, clock Clock, cfg Config) *Manager {
	return &Manager{
		sessions: sessions,
		clock:    clock,
		cfg:      cfg,
		trackers: make(map[string]*Tracker),
	}
}

// For возвращает трекер сотрудника, создавая его при первом обращении
func (m *Manager) For(employeeID string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trackers[employeeID]
	if !ok {
		t = New(employeeID, m.sessions, m.clock, m.cfg)
		m.trackers[employeeID] = t
	}
	return t
}

func (m *Manager) Start(employeeID string) error {
	return m.For(employeeID).Start()
}

func (m *Manager) Stop(employeeID string) error {
	return m.For(employeeID).Stop()
}

// RecordActivity передает событие трекеру, если он уже есть
func (m *Manager) RecordActivity(employeeID string, event Event) error {
	m.mu.Lock()
	t, ok := m.trackers[employeeID]
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return t.RecordActivity(event)
}

// CloseAll останавливает все таймеры, сессии остаются открытыми
func (m *Manager) CloseAll() {
	m.mu.Lock()
	trackers := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		trackers = append(trackers, t)
	}
	m.mu.Unlock()

	for _, t := range trackers {
		t.Close()
	}
}
