package repository

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("сотрудник не найден")
	ErrPerformanceNotFound  = errors.New("запись о результатах не найдена")
	ErrPerformanceExists    = errors.New("запись о результатах на эту дату уже существует")
	ErrTargetNotFound       = errors.New("план не найден")
	ErrTargetExists         = errors.New("план на этот месяц уже существует")
	ErrNotCheckedIn         = errors.New("сегодня нет отметки о приходе")
	ErrLeaveRequestNotFound = errors.New("заявка на отпуск не найдена")
	ErrLeaveAlreadyReviewed = errors.New("заявка на отпуск уже рассмотрена")
	ErrInvalidReviewStatus  = errors.New("заявку можно только одобрить или отклонить")
	ErrInvalidDateRange     = errors.New("некорректный период дат")
	ErrNotificationNotFound = errors.New("уведомление не найдено")
)
