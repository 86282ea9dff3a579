package models

import (
	"net/url"
	"strings"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Role       string `json:"role"`
	Department string `json:"department"`
	JoinDate   string `json:"join_date"`
	Password   string `json:"password,omitempty"` // пустой пароль - вход без пароля
}

// IsAdmin проверяет, является ли сотрудник администратором
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// CheckPassword сравнивает пароль. Сотрудник без пароля пускается с любым паролем
func (e *Employee) CheckPassword(password string) bool {
	return e.Password == "" || e.Password == password
}

// HasEmail - регистронезависимое сравнение email
func (e *Employee) HasEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Email), strings.TrimSpace(email))
}

// Migrate проставляет значения по умолчанию для старых записей
func (e *Employee) Migrate() {
	if e.Role == "" {
		e.Role = RoleEmployee
	}
	if e.Avatar == "" {
		e.Avatar = AvatarURL(e.Name)
	}
}

// AvatarURL строит ссылку на аватар по имени
func AvatarURL(name string) string {
	return avatarBaseURL + url.PathEscape(name)
}

// IsValidRole проверяет роль
func IsValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}
