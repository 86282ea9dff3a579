package dates

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// Day - календарный день в формате YYYY-MM-DD
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// Month - месяц в формате YYYY-MM
func Month(t time.Time) string {
	return t.Format(MonthLayout)
}

// Clock - время суток в формате HH:MM
func Clock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ParseDay разбирает строку YYYY-MM-DD
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse day '%s': %w", s, err)
	}
	return day, nil
}

// MonthOf возвращает месяц, к которому относится день
func MonthOf(day string) string {
	if len(day) < len(MonthLayout) {
		return day
	}
	return day[:len(MonthLayout)]
}

// InMonth - проверяет, относится ли день к месяцу. Пустой месяц совпадает с любым днем
func InMonth(day, month string) bool {
	if month == "" {
		return true
	}
	return strings.HasPrefix(day, month)
}

// Range - все календарные дни от start до end включительно.
// Если end раньше start, результат пустой.
func Range(start, end string) ([]string, error) {
	from, err := ParseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDay(end)
	if err != nil {
		return nil, err
	}

	days := []string{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayLayout))
	}
	return days, nil
}

// SpanDays - число календарных дней от start до end включительно (0, если end раньше start)
func SpanDays(start, end string) (int, error) {
	from, err := ParseDay(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseDay(end)
	if err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, nil
	}
	// полдень гасит сдвиг на час при переходе на летнее время
	from = time.Date(from.Year(), from.Month(), from.Day(), 12, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 12, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1, nil
}

// HoursBetween - количество часов между двумя отметками HH:MM, округленное до сотых.
// Отрицательная разница дает 0.
func HoursBetween(from, to string) (float64, error) {
	start, err := time.Parse(ClockLayout, from)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time '%s': %w", from, err)
	}
	end, err := time.Parse(ClockLayout, to)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time '%s': %w", to, err)
	}

	hours := end.Sub(start).Hours()
	if hours < 0 {
		return 0, nil
	}
	return Round2(hours), nil
}

// Round2 округляет до двух знаков после запятой
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
