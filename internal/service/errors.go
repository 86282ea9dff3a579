package service

import "errors"

var (
	// ErrInvalidCredentials не различает "нет такого сотрудника" и "неверный пароль"
	ErrInvalidCredentials = errors.New("неверный email, пароль или роль")
	ErrEmailTaken         = errors.New("сотрудник с таким email уже существует")
	ErrNothingToExport    = errors.New("нет данных для экспорта")
	ErrPasswordMismatch   = errors.New("пароли не совпадают")
	ErrNotLoggedIn        = errors.New("вход не выполнен")
)
