package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldDescriptor описывает одно поле анкеты перед заказом.
type FieldDescriptor struct {
	Name     string `json:"name" toml:"name"`
	Label    string `json:"label,omitempty" toml:"label"`
	Required bool   `json:"required" toml:"required"`
}

// domain_configurations — статичные настройки домена бронирования.
type DomainConfiguration struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	DomainType string `gorm:"type:varchar(64);not null;uniqueIndex"`

	DefaultDurationMinutes int `gorm:"not null"`

	Fields datatypes.JSONType[[]FieldDescriptor]

	IsActive bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *DomainConfiguration) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RequiredFields возвращает имена обязательных полей анкеты.
func (c *DomainConfiguration) RequiredFields() []string {
	var out []string
	for _, f := range c.Fields.Data() {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}
