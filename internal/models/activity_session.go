package models

import (
	"fmt"
	"math"
	"time"

	"salestrack-bot/pkg/dates"
)

type IdlePeriod struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// IsOpen - период простоя ещё не закрыт
func (p IdlePeriod) IsOpen() bool {
	return p.End == nil
}

// Minutes - длительность периода, открытый период считается до now
func (p IdlePeriod) Minutes(now time.Time) float64 {
	end := now
	if p.End != nil {
		end = *p.End
	}
	return clampMinutes(end.Sub(p.Start))
}

type ActivitySession struct {
	ID                  string       `json:"id"`
	EmployeeID          string       `json:"employee_id"`
	Date                string       `json:"date"`
	LoginTime           time.Time    `json:"login_time"`
	LogoutTime          *time.Time   `json:"logout_time,omitempty"`
	IdlePeriods         []IdlePeriod `json:"idle_periods"`
	TotalIdleMinutes    float64      `json:"total_idle_minutes"`
	TotalSessionMinutes float64      `json:"total_session_minutes"`
	ProductiveMinutes   float64      `json:"productive_minutes"`
	IsActive            bool         `json:"is_active"`
}

// NewActivitySession создает сессию, начатую в loginTime
func NewActivitySession(employeeID string, loginTime time.Time) ActivitySession {
	return ActivitySession{
		EmployeeID:  employeeID,
		Date:        dates.Day(loginTime),
		LoginTime:   loginTime,
		IdlePeriods: []IdlePeriod{},
		IsActive:    true,
	}
}

// IsLoggedOut - сессия завершена
func (s *ActivitySession) IsLoggedOut() bool {
	return s.LogoutTime != nil
}

// OpenIdlePeriod возвращает незакрытый период простоя, если он есть
func (s *ActivitySession) OpenIdlePeriod() *IdlePeriod {
	if len(s.IdlePeriods) == 0 {
		return nil
	}
	last := &s.IdlePeriods[len(s.IdlePeriods)-1]
	if !last.IsOpen() {
		return nil
	}
	return last
}

// BeginIdle открывает новый период простоя
func (s *ActivitySession) BeginIdle(now time.Time) {
	s.IdlePeriods = append(s.IdlePeriods, IdlePeriod{Start: now})
	s.IsActive = false
}

// EndIdle закрывает открытый период простоя. Возвращает false, если закрывать нечего
func (s *ActivitySession) EndIdle(now time.Time) bool {
	open := s.OpenIdlePeriod()
	if open == nil {
		return false
	}
	end := now
	open.End = &end
	return true
}

// Recalculate пересчитывает минуты сессии, простоя и продуктивного времени на момент now.
// Для завершенной сессии отсчет идет до времени выхода.
func (s *ActivitySession) Recalculate(now time.Time) {
	if s.LogoutTime != nil {
		now = *s.LogoutTime
	}

	session := clampMinutes(now.Sub(s.LoginTime))

	idle := 0.0
	for _, period := range s.IdlePeriods {
		idle += period.Minutes(now)
	}

	s.TotalSessionMinutes = dates.Round2(session)
	s.TotalIdleMinutes = dates.Round2(idle)
	s.ProductiveMinutes = dates.Round2(math.Max(0, session-idle))
}

// Migrate: старые записи могут не содержать список простоев
func (s *ActivitySession) Migrate() {
	if s.IdlePeriods == nil {
		s.IdlePeriods = []IdlePeriod{}
	}
}

// FormatTime форматирует время входа/выхода для отображения
func (s *ActivitySession) FormatTime() string {
	if s.LogoutTime == nil {
		return fmt.Sprintf("⏰ Вход: %s", s.LoginTime.Format("15:04"))
	}
	return fmt.Sprintf("⏰ Вход: %s | Выход: %s", s.LoginTime.Format("15:04"), s.LogoutTime.Format("15:04"))
}

// FormatMinutes: "42 min" или "1 hr 5 min"
func FormatMinutes(mins float64) string {
	h := int(math.Floor(mins / 60))
	m := int(math.Round(math.Mod(mins, 60)))
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d hr %d min", h, m)
}

func clampMinutes(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Minutes()
}
