package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

// IntakeService: анкеты перед заказом и справочник доменных конфигураций.
type IntakeService struct {
	tx        *repository.TxManager
	orders    repository.OrderRepository
	preorders repository.PreOrderRepository
	configs   repository.DomainConfigRepository
	logger    *logging.Logger
}

func NewIntakeService(
	tx *repository.TxManager,
	orders repository.OrderRepository,
	preorders repository.PreOrderRepository,
	configs repository.DomainConfigRepository,
	logger *logging.Logger,
) *IntakeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IntakeService{tx: tx, orders: orders, preorders: preorders, configs: configs, logger: logger}
}

// SavePreOrderData сливает поля в анкету заказа. Пустое значение удаляет поле.
// Менять анкету может только клиент заказа, пока заказ в Requested и анкета не завершена.
func (s *IntakeService) SavePreOrderData(
	ctx context.Context,
	actor calendar.Actor,
	orderID uuid.UUID,
	fields map[string]string,
) (*model.PreOrderData, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	for name := range fields {
		if strings.TrimSpace(name) == "" {
			return nil, invalidArgument("field name must not be empty")
		}
	}

	var out *model.PreOrderData
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		order, err := s.editableOrder(ctx, actor, orderID)
		if err != nil {
			return err
		}

		data, err := s.preorders.GetByOrderID(ctx, order.ID)
		switch {
		case errors.Is(err, model.ErrNotFound):
			data = &model.PreOrderData{
				OrderID:  order.ID,
				ClientID: order.ClientID,
				Fields:   datatypes.NewJSONType(map[string]string{}),
			}
			data.Merge(fields)
			if err := s.preorders.Create(ctx, data); err != nil {
				return fmt.Errorf("create pre-order data: %w", err)
			}
		case err != nil:
			return err
		default:
			if data.IsCompleted {
				return model.ErrIntakeLocked
			}
			data.Merge(fields)
			if err := s.preorders.Update(ctx, data); err != nil {
				return fmt.Errorf("update pre-order data: %w", err)
			}
		}
		if err := s.relink(ctx, order.ID, data.ID); err != nil {
			return err
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompletePreOrderData проверяет обязательные поля домена и закрывает анкету.
func (s *IntakeService) CompletePreOrderData(ctx context.Context, actor calendar.Actor, orderID uuid.UUID) (*model.PreOrderData, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}

	var out *model.PreOrderData
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		order, err := s.editableOrder(ctx, actor, orderID)
		if err != nil {
			return err
		}
		data, err := s.preorders.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if data.IsCompleted {
			out = data
			return nil
		}
		required, err := s.RequiredFields(ctx, order)
		if err != nil {
			return err
		}
		if err := data.Validate(required); err != nil {
			return err
		}
		data.IsCompleted = true
		if err := s.preorders.Update(ctx, data); err != nil {
			return fmt.Errorf("complete pre-order data: %w", err)
		}
		if err := s.relink(ctx, order.ID, data.ID); err != nil {
			return err
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IntakeService) GetPreOrderData(ctx context.Context, actor calendar.Actor, orderID uuid.UUID) (*model.PreOrderData, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnOrder(order.ClientID, order.ProfessionalID) {
		return nil, fmt.Errorf("%w: read pre-order data of a foreign order", model.ErrForbidden)
	}
	return s.preorders.GetByOrderID(ctx, orderID)
}

// ValidateForApproval: перед одобрением анкета должна содержать обязательные поля домена заказа.
func (s *IntakeService) ValidateForApproval(ctx context.Context, order *model.Order) error {
	required, err := s.RequiredFields(ctx, order)
	if err != nil {
		return err
	}
	if len(required) == 0 {
		return nil
	}
	data, err := s.preorders.GetByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return data.Validate(required)
}

// RequiredFields: обязательные поля активной конфигурации домена заказа.
func (s *IntakeService) RequiredFields(ctx context.Context, order *model.Order) ([]string, error) {
	if order.DomainConfigurationID == nil {
		return nil, nil
	}
	cfg, err := s.configs.GetByID(ctx, *order.DomainConfigurationID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load domain configuration: %w", err)
	}
	if !cfg.IsActive {
		return nil, nil
	}
	return cfg.RequiredFields(), nil
}

// editableOrder блокирует строку заказа: одобрение не проскочит между проверкой статуса и записью анкеты.
func (s *IntakeService) editableOrder(ctx context.Context, actor calendar.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != calendar.RoleClient || actor.ID != order.ClientID {
		return nil, fmt.Errorf("%w: only the order's client fills pre-order data", model.ErrForbidden)
	}
	if order.Status != model.OrderStatusRequested {
		return nil, model.ErrIntakeLocked
	}
	return order, nil
}

// relink повторяет привязку анкеты условной записью по status = requested.
// Если заказ уже ушёл из Requested, транзакция анкеты откатывается с ErrIntakeLocked.
func (s *IntakeService) relink(ctx context.Context, orderID, dataID uuid.UUID) error {
	if err := s.orders.LinkPreOrderData(ctx, orderID, dataID); err != nil {
		return fmt.Errorf("link pre-order data: %w", err)
	}
	return nil
}

// ===== Конфигурации доменов =====

func (s *IntakeService) GetDomainConfiguration(ctx context.Context, id uuid.UUID) (*model.DomainConfiguration, error) {
	return s.configs.GetByID(ctx, id)
}

func (s *IntakeService) ListDomainConfigurations(ctx context.Context, activeOnly bool) ([]model.DomainConfiguration, error) {
	return s.configs.List(ctx, activeOnly)
}

// SeedDomainConfigurations загружает статичные конфигурации (upsert по типу домена).
func (s *IntakeService) SeedDomainConfigurations(
	ctx context.Context,
	seeds []model.DomainConfiguration,
) ([]model.DomainConfiguration, error) {
	out := make([]model.DomainConfiguration, 0, len(seeds))
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		for i := range seeds {
			seed := seeds[i]
			if strings.TrimSpace(seed.DomainType) == "" || seed.DefaultDurationMinutes <= 0 {
				return invalidArgument("domain configuration needs a type and a positive duration")
			}
			saved, err := s.configs.Upsert(ctx, &seed)
			if err != nil {
				return fmt.Errorf("seed %s: %w", seed.DomainType, err)
			}
			out = append(out, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "domain configurations seeded", "count", len(out))
	return out, nil
}
