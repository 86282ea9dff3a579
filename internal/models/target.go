package models

import "math"

type Target struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Month           string  `json:"month"`
	TargetValue     int     `json:"target_value"`
	AchievedValue   int     `json:"achieved_value"`
	RevenueTarget   float64 `json:"revenue_target"`
	RevenueAchieved float64 `json:"revenue_achieved"`
}

const (
	DefaultTargetValue   = 100
	DefaultRevenueTarget = 100000
)

// Progress - выполнение плана по конверсиям в процентах
func (t *Target) Progress() int {
	if t.TargetValue <= 0 {
		return 0
	}
	return int(math.Round(float64(t.AchievedValue) / float64(t.TargetValue) * 100))
}

// RevenueProgress - выполнение плана по выручке в процентах
func (t *Target) RevenueProgress() int {
	if t.RevenueTarget <= 0 {
		return 0
	}
	return int(math.Round(t.RevenueAchieved / t.RevenueTarget * 100))
}

// UpdateAchieved пересчитывает фактические показатели
func (t *Target) UpdateAchieved(converted int, revenue float64) {
	t.AchievedValue = converted
	t.RevenueAchieved = revenue
}
