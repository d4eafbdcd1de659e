package scheduling

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ===== Сущности =====

type Slot struct {
	Id             string                 `json:"id"`
	TemplateId     string                 `json:"template_id"`
	ProfessionalId string                 `json:"professional_id"`
	StartsAt       *timestamppb.Timestamp `json:"starts_at"`
	EndsAt         *timestamppb.Timestamp `json:"ends_at"`
	Available      bool                   `json:"available"`
	OrderId        string                 `json:"order_id,omitempty"`
}

type Template struct {
	Id                    string `json:"id"`
	ProfessionalId        string `json:"professional_id"`
	DomainConfigurationId string `json:"domain_configuration_id,omitempty"`
	Kind                  string `json:"kind"`
	DayOfWeek             *int32 `json:"day_of_week,omitempty"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	StartDate             string `json:"start_date,omitempty"`
	EndDate               string `json:"end_date,omitempty"`
	IsActive              bool   `json:"is_active"`
}

type Conflict struct {
	TemplateId            string                 `json:"template_id"`
	ConflictingTemplateId string                 `json:"conflicting_template_id"`
	StartsAt              *timestamppb.Timestamp `json:"starts_at"`
	EndsAt                *timestamppb.Timestamp `json:"ends_at"`
}

type Order struct {
	Id                    string                 `json:"id"`
	ClientId              string                 `json:"client_id"`
	ProfessionalId        string                 `json:"professional_id"`
	DomainConfigurationId string                 `json:"domain_configuration_id,omitempty"`
	Status                string                 `json:"status"`
	ScheduledAt           *timestamppb.Timestamp `json:"scheduled_at"`
	DurationMinutes       int32                  `json:"duration_minutes"`
	Title                 string                 `json:"title,omitempty"`
	Description           string                 `json:"description,omitempty"`
	Notes                 string                 `json:"notes,omitempty"`
	Reason                string                 `json:"reason,omitempty"`
	SlotId                string                 `json:"slot_id,omitempty"`
	PreOrderDataId        string                 `json:"pre_order_data_id,omitempty"`
	Version               int32                  `json:"version"`
	CreatedAt             *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt             *timestamppb.Timestamp `json:"updated_at"`
	CompletedAt           *timestamppb.Timestamp `json:"completed_at,omitempty"`
}

type HistoryEntry struct {
	Seq            int32                  `json:"seq"`
	Operation      string                 `json:"operation"`
	PreviousStatus string                 `json:"previous_status,omitempty"`
	NewStatus      string                 `json:"new_status"`
	Reason         string                 `json:"reason,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	ActorId        string                 `json:"actor_id"`
	CreatedAt      *timestamppb.Timestamp `json:"created_at"`
}

type PreOrderData struct {
	Id          string            `json:"id"`
	OrderId     string            `json:"order_id"`
	ClientId    string            `json:"client_id"`
	Fields      map[string]string `json:"fields"`
	IsCompleted bool              `json:"is_completed"`
}

type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required"`
}

type DomainConfiguration struct {
	Id                     string  `json:"id"`
	DomainType             string  `json:"domain_type"`
	DefaultDurationMinutes int32   `json:"default_duration_minutes"`
	Fields                 []Field `json:"fields"`
	IsActive               bool    `json:"is_active"`
}

// ===== Слоты и шаблоны =====

// GenerateSlotsRequest: дата "YYYY-MM-DD"; EndDate задаёт диапазон включительно.
type GenerateSlotsRequest struct {
	ProfessionalId string `json:"professional_id"`
	Date           string `json:"date"`
	EndDate        string `json:"end_date,omitempty"`
}

type GenerateSlotsResponse struct {
	Slots     []*Slot     `json:"slots"`
	Created   int32       `json:"created"`
	Conflicts []*Conflict `json:"conflicts,omitempty"`
}

type ListAvailableSlotsRequest struct {
	ProfessionalId string `json:"professional_id"`
	Date           string `json:"date"`
	Page           int32  `json:"page,omitempty"`
	PageSize       int32  `json:"page_size,omitempty"`
}

type ListAvailableSlotsResponse struct {
	Slots      []*Slot `json:"slots"`
	TotalCount int32   `json:"total_count"`
	HasNext    bool    `json:"has_next"`
}

type CreateTemplateRequest struct {
	ProfessionalId        string `json:"professional_id"`
	DomainConfigurationId string `json:"domain_configuration_id,omitempty"`
	Kind                  string `json:"kind"`
	DayOfWeek             *int32 `json:"day_of_week,omitempty"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	StartDate             string `json:"start_date,omitempty"`
	EndDate               string `json:"end_date,omitempty"`
}

type TemplateResponse struct {
	Template *Template `json:"template"`
}

type DeactivateTemplateRequest struct {
	TemplateId string `json:"template_id"`
}

type DeactivateTemplateResponse struct{}

type ListTemplatesRequest struct {
	ProfessionalId string `json:"professional_id"`
	ActiveOnly     bool   `json:"active_only,omitempty"`
}

type ListTemplatesResponse struct {
	Templates []*Template `json:"templates"`
}

// ===== Заказы =====

type CreateOrderRequest struct {
	ClientId              string `json:"client_id"`
	ProfessionalId        string `json:"professional_id"`
	SlotId                string `json:"slot_id"`
	DomainConfigurationId string `json:"domain_configuration_id,omitempty"`
	Title                 string `json:"title,omitempty"`
	Description           string `json:"description,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

// TransitionRequest: общий запрос Approve/Decline/Cancel/Complete/MarkNoShow.
type TransitionRequest struct {
	OrderId string `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
	Notes   string `json:"notes,omitempty"`
	Force   bool   `json:"force,omitempty"`
}

type RescheduleRequest struct {
	OrderId     string                 `json:"order_id"`
	NewSlotId   string                 `json:"new_slot_id"`
	NewDateTime *timestamppb.Timestamp `json:"new_date_time,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type GetOrderRequest struct {
	OrderId string `json:"order_id"`
}

type ListOrdersRequest struct {
	ClientId       string                 `json:"client_id,omitempty"`
	ProfessionalId string                 `json:"professional_id,omitempty"`
	Status         string                 `json:"status,omitempty"`
	From           *timestamppb.Timestamp `json:"from,omitempty"`
	To             *timestamppb.Timestamp `json:"to,omitempty"`
	Page           int32                  `json:"page,omitempty"`
	PageSize       int32                  `json:"page_size,omitempty"`
}

type ListOrdersResponse struct {
	Orders     []*Order `json:"orders"`
	TotalCount int32    `json:"total_count"`
}

type GetHistoryRequest struct {
	OrderId string `json:"order_id"`
}

type GetHistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

// ===== Анкеты и домены =====

type SavePreOrderDataRequest struct {
	OrderId string            `json:"order_id"`
	Fields  map[string]string `json:"fields"`
}

type PreOrderDataRequest struct {
	OrderId string `json:"order_id"`
}

type PreOrderDataResponse struct {
	Data *PreOrderData `json:"data"`
}

type ListDomainConfigurationsRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type ListDomainConfigurationsResponse struct {
	Configurations []*DomainConfiguration `json:"configurations"`
}
