package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type TemplateRepository interface {
	// Создать шаблон доступности.
	Create(ctx context.Context, tpl *model.AvailabilityTemplate) error
	// Найти шаблон по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityTemplate, error)
	// Выключить шаблон. Уже нарезанные слоты не трогаются.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Шаблоны специалиста в порядке создания.
	ListByProfessional(ctx context.Context, professionalID uuid.UUID, activeOnly bool) ([]model.AvailabilityTemplate, error)
}

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) Create(ctx context.Context, tpl *model.AvailabilityTemplate) error {
	return dbFrom(ctx, r.db).Create(tpl).Error
}

func (r *GormTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilityTemplate, error) {
	var tpl model.AvailabilityTemplate
	if err := dbFrom(ctx, r.db).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tpl, nil
}

func (r *GormTemplateRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := dbFrom(ctx, r.db).
		Model(&model.AvailabilityTemplate{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *GormTemplateRepository) ListByProfessional(
	ctx context.Context,
	professionalID uuid.UUID,
	activeOnly bool,
) ([]model.AvailabilityTemplate, error) {
	var templates []model.AvailabilityTemplate
	q := dbFrom(ctx, r.db).
		Model(&model.AvailabilityTemplate{}).
		Where("professional_id = ?", professionalID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	// порядок важен: при пересечении интервал остаётся за более ранним шаблоном
	if err := q.Order("created_at ASC").Order("id ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
