package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"salestrack-bot/internal/logger"
	"salestrack-bot/internal/models"
	"salestrack-bot/internal/repository"
)

type PerformanceInput struct {
	EmployeeID       string  `validate:"required"`
	Date             string  `validate:"required,day"`
	CallsMade        int     `validate:"gte=0"`
	LeadsContacted   int     `validate:"gte=0"`
	LeadsConverted   int     `validate:"gte=0"`
	RevenueGenerated float64 `validate:"gte=0"`
	RevenuePending   float64 `validate:"gte=0"`
}

func (in PerformanceInput) toModel() models.DailyPerformance {
	return models.DailyPerformance{
		EmployeeID:       in.EmployeeID,
		Date:             in.Date,
		CallsMade:        in.CallsMade,
		LeadsContacted:   in.LeadsContacted,
		LeadsConverted:   in.LeadsConverted,
		RevenueGenerated: in.RevenueGenerated,
		RevenuePending:   in.RevenuePending,
	}
}

type PerformanceService struct {
	performances repository.PerformanceRepository
	logger       *logrus.Logger
}

func NewPerformanceService(performances repository.PerformanceRepository) *PerformanceService {
	return &PerformanceService{
		performances: performances,
		logger:       logger.GetLogger("service"),
	}
}

func checkPerformance(p models.DailyPerformance) error {
	if p.IsEmpty() {
		return invalid("укажите хотя бы одно значение")
	}
	if !p.ConvertedWithinContacted() {
		return invalid("конверсий не может быть больше, чем контактов")
	}
	return nil
}

// LogDaily записывает результаты за день (повторная запись за ту же дату перезаписывает)
func (s *PerformanceService) LogDaily(input PerformanceInput) (*models.DailyPerformance, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	perf := input.toModel()
	if err := checkPerformance(perf); err != nil {
		return nil, err
	}

	saved, err := s.performances.Add(perf)
	if err != nil {
		return nil, fmt.Errorf("log performance: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": saved.EmployeeID,
		"date":        saved.Date,
		"converted":   saved.LeadsConverted,
	}).Info("Daily performance logged")

	return saved, nil
}

// EditEntry правит запись; правила проверяются для итоговой записи после правки
func (s *PerformanceService) EditEntry(id string, patch repository.PerformancePatch) (*models.DailyPerformance, error) {
	current, err := s.performances.GetByID(id)
	if err != nil {
		return nil, err
	}

	merged := *current
	patch.Apply(&merged)
	input := PerformanceInput{
		EmployeeID:       merged.EmployeeID,
		Date:             merged.Date,
		CallsMade:        merged.CallsMade,
		LeadsContacted:   merged.LeadsContacted,
		LeadsConverted:   merged.LeadsConverted,
		RevenueGenerated: merged.RevenueGenerated,
		RevenuePending:   merged.RevenuePending,
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkPerformance(merged); err != nil {
		return nil, err
	}

	return s.performances.Update(id, patch)
}

func (s *PerformanceService) DeleteEntry(id string) error {
	return s.performances.Delete(id)
}

// History - записи сотрудника, свежие первыми
func (s *PerformanceService) History(employeeID string) []models.DailyPerformance {
	return s.performances.GetByEmployee(employeeID)
}
