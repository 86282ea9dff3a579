package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"salestrack-bot/internal/models"
	"salestrack-bot/pkg/dates"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("day", validateDay)
	_ = v.RegisterValidation("leave_type", validateLeaveType)
	_ = v.RegisterValidation("role", validateRole)
	return v
}

func validateDay(fl validator.FieldLevel) bool {
	_, err := dates.ParseDay(fl.Field().String())
	return err == nil
}

func validateLeaveType(fl validator.FieldLevel) bool {
	return models.IsValidLeaveType(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	return models.IsValidRole(fl.Field().String())
}

// ValidationError - введенные данные не прошли проверку
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func invalid(format string, args ...any) error {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// IsValidationError проверяет, что ошибка - ошибка проверки ввода
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// validateInput проверяет структуру по тегам validate
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("поле %s обязательно", fe.Field())
	case "email":
		return fmt.Sprintf("%s: некорректный email", fe.Field())
	case "day":
		return fmt.Sprintf("%s: дата должна быть в формате ГГГГ-ММ-ДД", fe.Field())
	case "leave_type":
		return fmt.Sprintf("%s: неизвестный тип отпуска", fe.Field())
	case "role":
		return fmt.Sprintf("%s: роль должна быть employee или admin", fe.Field())
	case "gte", "min":
		return fmt.Sprintf("%s: значение не может быть меньше %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: некорректное значение", fe.Field())
	}
}
