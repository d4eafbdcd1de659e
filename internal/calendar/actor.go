package calendar

import (
	"errors"

	"github.com/google/uuid"
)

// Ошибки разбора вызывающего.
var (
	ErrInvalidActor = errors.New("invalid actor")
	ErrUnknownRole  = errors.New("unknown actor role")
)

// Роль вызывающего. Источник: внешний сервис идентификации, ядро ей доверяет.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleStaff        Role = "staff"
	RoleAdmin        Role = "admin"
)

// Actor: непрозрачная личность вызывающего: id и роль.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// ParseRole нормализует строковое представление роли.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleClient, RoleProfessional, RoleStaff, RoleAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

// ValidateActor проверяет, что id задан и роль известна.
func ValidateActor(a Actor) error {
	if a.ID == uuid.Nil {
		return ErrInvalidActor
	}
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}

// IsStaff: сотрудники и администраторы действуют от имени любого специалиста.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// CanManageProfessional: вызывающий сам специалист или сотрудник.
func (a Actor) CanManageProfessional(professionalID uuid.UUID) bool {
	if a.IsStaff() {
		return true
	}
	return a.Role == RoleProfessional && a.ID == professionalID
}

// CanActOnOrder: участник заказа (клиент или специалист) либо сотрудник.
func (a Actor) CanActOnOrder(clientID, professionalID uuid.UUID) bool {
	if a.CanManageProfessional(professionalID) {
		return true
	}
	return a.Role == RoleClient && a.ID == clientID
}
