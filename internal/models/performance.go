package models

import (
	"math"

	"salestrack-bot/pkg/dates"
)

const (
	LevelExcellent = "excellent"
	LevelAverage   = "average"
	LevelPoor      = "poor"
)

type DailyPerformance struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	CallsMade        int     `json:"calls_made"`
	LeadsContacted   int     `json:"leads_contacted"`
	LeadsConverted   int     `json:"leads_converted"`
	RevenueGenerated float64 `json:"revenue_generated"`
	RevenuePending   float64 `json:"revenue_pending"`
}

// Month возвращает месяц записи (YYYY-MM)
func (p *DailyPerformance) Month() string {
	return dates.MonthOf(p.Date)
}

// ConversionRate - процент конверсии за день
func (p *DailyPerformance) ConversionRate() int {
	return ConversionRate(p.LeadsContacted, p.LeadsConverted)
}

// IsEmpty - ни одного показателя не введено
func (p *DailyPerformance) IsEmpty() bool {
	return p.CallsMade == 0 && p.LeadsContacted == 0 && p.LeadsConverted == 0 && p.RevenueGenerated == 0
}

// ConvertedWithinContacted - конверсий не больше, чем контактов
func (p *DailyPerformance) ConvertedWithinContacted() bool {
	return p.LeadsConverted <= p.LeadsContacted
}

// ConversionRate = round(100 * converted / contacted), 0 если контактов не было
func ConversionRate(contacted, converted int) int {
	if contacted == 0 {
		return 0
	}
	return int(math.Round(float64(converted) / float64(contacted) * 100))
}

// PerformanceLevel классифицирует процент конверсии
func PerformanceLevel(rate int) string {
	switch {
	case rate >= 30:
		return LevelExcellent
	case rate >= 20:
		return LevelAverage
	default:
		return LevelPoor
	}
}
