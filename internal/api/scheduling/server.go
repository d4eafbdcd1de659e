package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/service"
)

// Server: gRPC-адаптер поверх движка расписания.
type Server struct {
	UnimplementedSchedulingServiceServer

	slots   *service.SlotService
	orders  *service.OrderService
	history *service.HistoryService
	intake  *service.IntakeService
}

func NewServer(
	slots *service.SlotService,
	orders *service.OrderService,
	history *service.HistoryService,
	intake *service.IntakeService,
) *Server {
	return &Server{slots: slots, orders: orders, history: history, intake: intake}
}

// ===== Слоты =====

func (s *Server) GenerateSlots(ctx context.Context, req *GenerateSlotsRequest) (*GenerateSlotsResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	profID, err := parseID("professional_id", req.ProfessionalId)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageProfessional(profID) {
		return nil, toStatus(fmt.Errorf("%w: generate slots of another professional", model.ErrForbidden))
	}
	from, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var res *service.GenerationResult
	if req.EndDate == "" {
		res, err = s.slots.GenerateSlots(ctx, profID, from)
	} else {
		to, perr := parseDate("end_date", req.EndDate)
		if perr != nil {
			return nil, perr
		}
		res, err = s.slots.GenerateSlotsRange(ctx, profID, from, to)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &GenerateSlotsResponse{
		Slots:     mapSlots(res.Slots),
		Created:   int32(res.Created),
		Conflicts: mapConflicts(res.Conflicts),
	}, nil
}

func (s *Server) ListAvailableSlots(ctx context.Context, req *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	profID, err := parseID("professional_id", req.ProfessionalId)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	page, err := s.slots.ListAvailableSlotsPage(ctx, profID, date, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListAvailableSlotsResponse{
		Slots:      mapSlots(page.Items),
		TotalCount: int32(page.Total),
		HasNext:    page.HasNext,
	}, nil
}

// ===== Шаблоны =====

func (s *Server) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*TemplateResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	profID, err := parseID("professional_id", req.ProfessionalId)
	if err != nil {
		return nil, err
	}
	configID, err := parseOptionalID("domain_configuration_id", req.DomainConfigurationId)
	if err != nil {
		return nil, err
	}
	startDate, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	in := service.TemplateInput{
		ProfessionalID:        profID,
		DomainConfigurationID: configID,
		Kind:                  model.ScheduleKind(req.Kind),
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		StartDate:             startDate,
		EndDate:               endDate,
	}
	if req.DayOfWeek != nil {
		d := int(*req.DayOfWeek)
		in.DayOfWeek = &d
	}

	tpl, err := s.slots.CreateTemplate(ctx, actor, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &TemplateResponse{Template: mapTemplate(tpl)}, nil
}

func (s *Server) DeactivateTemplate(ctx context.Context, req *DeactivateTemplateRequest) (*DeactivateTemplateResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("template_id", req.TemplateId)
	if err != nil {
		return nil, err
	}
	if err := s.slots.DeactivateTemplate(ctx, actor, id); err != nil {
		return nil, toStatus(err)
	}
	return &DeactivateTemplateResponse{}, nil
}

func (s *Server) ListTemplates(ctx context.Context, req *ListTemplatesRequest) (*ListTemplatesResponse, error) {
	profID, err := parseID("professional_id", req.ProfessionalId)
	if err != nil {
		return nil, err
	}
	templates, err := s.slots.ListTemplates(ctx, profID, req.ActiveOnly)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListTemplatesResponse{Templates: make([]*Template, 0, len(templates))}
	for i := range templates {
		resp.Templates = append(resp.Templates, mapTemplate(&templates[i]))
	}
	return resp, nil
}

// ===== Заказы =====

func (s *Server) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	clientID, err := parseID("client_id", req.ClientId)
	if err != nil {
		return nil, err
	}
	profID, err := parseID("professional_id", req.ProfessionalId)
	if err != nil {
		return nil, err
	}
	slotID, err := parseID("slot_id", req.SlotId)
	if err != nil {
		return nil, err
	}
	configID, err := parseOptionalID("domain_configuration_id", req.DomainConfigurationId)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, actor, service.CreateOrderInput{
		ClientID:       clientID,
		ProfessionalID: profID,
		SlotID:         slotID,
		Details: model.OrderDetails{
			Title:                 req.Title,
			Description:           req.Description,
			Notes:                 req.Notes,
			DomainConfigurationID: configID,
		},
	})
	return orderResponse(order, err)
}

func (s *Server) Approve(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	return s.transition(ctx, req, func(a calendar.Actor, o *TransitionRequest, id uuid.UUID) (*model.Order, error) {
		return s.orders.Approve(ctx, a, id, o.Reason)
	})
}

func (s *Server) Decline(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	return s.transition(ctx, req, func(a calendar.Actor, o *TransitionRequest, id uuid.UUID) (*model.Order, error) {
		return s.orders.Decline(ctx, a, id, o.Reason)
	})
}

func (s *Server) Cancel(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	return s.transition(ctx, req, func(a calendar.Actor, o *TransitionRequest, id uuid.UUID) (*model.Order, error) {
		return s.orders.Cancel(ctx, a, id, o.Reason)
	})
}

func (s *Server) Complete(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	return s.transition(ctx, req, func(a calendar.Actor, o *TransitionRequest, id uuid.UUID) (*model.Order, error) {
		return s.orders.Complete(ctx, a, id, o.Notes, o.Force)
	})
}

func (s *Server) MarkNoShow(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	return s.transition(ctx, req, func(a calendar.Actor, o *TransitionRequest, id uuid.UUID) (*model.Order, error) {
		return s.orders.MarkNoShow(ctx, a, id, o.Notes)
	})
}

func (s *Server) Reschedule(ctx context.Context, req *RescheduleRequest) (*OrderResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	slotID, err := parseID("new_slot_id", req.NewSlotId)
	if err != nil {
		return nil, err
	}
	var at time.Time
	if req.NewDateTime != nil {
		at = req.NewDateTime.AsTime()
	}
	order, err := s.orders.Reschedule(ctx, actor, id, at, slotID, req.Notes)
	return orderResponse(order, err)
}

func (s *Server) GetOrder(ctx context.Context, req *GetOrderRequest) (*OrderResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetOrder(ctx, actor, id)
	return orderResponse(order, err)
}

func (s *Server) ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var filter model.OrderFilter
	if filter.ClientID, err = parseOptionalID("client_id", req.ClientId); err != nil {
		return nil, err
	}
	if filter.ProfessionalID, err = parseOptionalID("professional_id", req.ProfessionalId); err != nil {
		return nil, err
	}
	if req.Status != "" {
		st := model.OrderStatus(req.Status)
		filter.Status = &st
	}
	filter.From = optionalTime(req.From)
	filter.To = optionalTime(req.To)

	limit, offset := calendar.Offset(int(req.Page), int(req.PageSize))
	orders, total, err := s.orders.ListOrders(ctx, actor, filter, limit, offset)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListOrdersResponse{
		Orders:     make([]*Order, 0, len(orders)),
		TotalCount: int32(total),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, mapOrder(&orders[i]))
	}
	return resp, nil
}

func (s *Server) GetHistory(ctx context.Context, req *GetHistoryRequest) (*GetHistoryResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.GetHistory(ctx, actor, id)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &GetHistoryResponse{Entries: make([]*HistoryEntry, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, mapHistory(&entries[i]))
	}
	return resp, nil
}

// ===== Анкеты =====

func (s *Server) SavePreOrderData(ctx context.Context, req *SavePreOrderDataRequest) (*PreOrderDataResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	data, err := s.intake.SavePreOrderData(ctx, actor, id, req.Fields)
	return preOrderResponse(data, err)
}

func (s *Server) CompletePreOrderData(ctx context.Context, req *PreOrderDataRequest) (*PreOrderDataResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	data, err := s.intake.CompletePreOrderData(ctx, actor, id)
	return preOrderResponse(data, err)
}

func (s *Server) GetPreOrderData(ctx context.Context, req *PreOrderDataRequest) (*PreOrderDataResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	data, err := s.intake.GetPreOrderData(ctx, actor, id)
	return preOrderResponse(data, err)
}

func (s *Server) ListDomainConfigurations(ctx context.Context, req *ListDomainConfigurationsRequest) (*ListDomainConfigurationsResponse, error) {
	configs, err := s.intake.ListDomainConfigurations(ctx, req.ActiveOnly)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListDomainConfigurationsResponse{Configurations: make([]*DomainConfiguration, 0, len(configs))}
	for i := range configs {
		resp.Configurations = append(resp.Configurations, mapDomainConfiguration(&configs[i]))
	}
	return resp, nil
}

// ===== helpers =====

func (s *Server) transition(
	ctx context.Context,
	req *TransitionRequest,
	call func(calendar.Actor, *TransitionRequest, uuid.UUID) (*model.Order, error),
) (*OrderResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("order_id", req.OrderId)
	if err != nil {
		return nil, err
	}
	order, err := call(actor, req, id)
	return orderResponse(order, err)
}

func orderResponse(order *model.Order, err error) (*OrderResponse, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &OrderResponse{Order: mapOrder(order)}, nil
}

func preOrderResponse(data *model.PreOrderData, err error) (*PreOrderDataResponse, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &PreOrderDataResponse{Data: mapPreOrderData(data)}, nil
}
