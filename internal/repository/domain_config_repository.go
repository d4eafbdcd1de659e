package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type DomainConfigRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.DomainConfiguration, error)
	GetByType(ctx context.Context, domainType string) (*model.DomainConfiguration, error)
	List(ctx context.Context, activeOnly bool) ([]model.DomainConfiguration, error)
	// Создать или обновить конфигурацию по DomainType.
	Upsert(ctx context.Context, cfg *model.DomainConfiguration) (*model.DomainConfiguration, error)
}

type GormDomainConfigRepository struct {
	db *gorm.DB
}

func NewGormDomainConfigRepository(db *gorm.DB) *GormDomainConfigRepository {
	return &GormDomainConfigRepository{db: db}
}

func (r *GormDomainConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DomainConfiguration, error) {
	var c model.DomainConfiguration
	if err := dbFrom(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormDomainConfigRepository) GetByType(ctx context.Context, domainType string) (*model.DomainConfiguration, error) {
	var c model.DomainConfiguration
	if err := dbFrom(ctx, r.db).First(&c, "domain_type = ?", domainType).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormDomainConfigRepository) List(ctx context.Context, activeOnly bool) ([]model.DomainConfiguration, error) {
	var out []model.DomainConfiguration
	q := dbFrom(ctx, r.db).Model(&model.DomainConfiguration{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("domain_type ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert при конфликте сохраняет прежний ID, поэтому запись перечитывается.
func (r *GormDomainConfigRepository) Upsert(
	ctx context.Context,
	cfg *model.DomainConfiguration,
) (*model.DomainConfiguration, error) {
	err := dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "domain_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"default_duration_minutes", "fields", "is_active", "updated_at"}),
		}).
		Create(cfg).
		Error
	if err != nil {
		return nil, err
	}
	return r.GetByType(ctx, cfg.DomainType)
}
