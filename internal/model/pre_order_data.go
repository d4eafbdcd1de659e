package model

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// pre_order_data — анкета клиента, привязанная к заказу.
type PreOrderData struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`

	Fields datatypes.JSONType[map[string]string]

	IsCompleted bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PreOrderData) TableName() string {
	return "pre_order_data"
}

func (p *PreOrderData) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate проверяет, что все обязательные поля присутствуют и не пустые.
// Возвращает *ValidationError со списком недостающих полей.
func (p *PreOrderData) Validate(required []string) error {
	var values map[string]string
	if p != nil {
		values = p.Fields.Data()
	}
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Merge накладывает новые значения поверх сохранённых.
// Пустая строка удаляет поле.
func (p *PreOrderData) Merge(fields map[string]string) {
	current := p.Fields.Data()
	merged := make(map[string]string, len(current)+len(fields))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range fields {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	p.Fields = datatypes.NewJSONType(merged)
}
