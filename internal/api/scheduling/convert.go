package scheduling

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, badRequest(field, "must be a non-empty uuid")
	}
	return id, nil
}

// parseOptionalID: пустая строка означает отсутствие значения.
func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, raw string) (time.Time, error) {
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequest(field, "must be YYYY-MM-DD")
	}
	return d, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalTime(ts *timestamppb.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.AsTime()
	return &t
}

func timestampOrNil(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func formatDate(d time.Time) string {
	return d.Format(calendar.DateFormat)
}

func mapSlot(s *model.AvailabilitySlot) *Slot {
	return &Slot{
		Id:             s.ID.String(),
		TemplateId:     s.TemplateID.String(),
		ProfessionalId: s.ProfessionalID.String(),
		StartsAt:       timestamppb.New(s.StartsAt),
		EndsAt:         timestamppb.New(s.EndsAt),
		Available:      s.IsFree(),
		OrderId:        idString(s.OrderID),
	}
}

func mapSlots(slots []model.AvailabilitySlot) []*Slot {
	out := make([]*Slot, 0, len(slots))
	for i := range slots {
		out = append(out, mapSlot(&slots[i]))
	}
	return out
}

func mapConflicts(conflicts []*model.ConfigurationConflictError) []*Conflict {
	out := make([]*Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, &Conflict{
			TemplateId:            c.TemplateID.String(),
			ConflictingTemplateId: c.ConflictingTemplateID.String(),
			StartsAt:              timestamppb.New(c.Range.Start),
			EndsAt:                timestamppb.New(c.Range.End),
		})
	}
	return out
}

func mapTemplate(t *model.AvailabilityTemplate) *Template {
	out := &Template{
		Id:                    t.ID.String(),
		ProfessionalId:        t.ProfessionalID.String(),
		DomainConfigurationId: idString(t.DomainConfigurationID),
		Kind:                  string(t.Kind),
		StartTime:             t.StartTime,
		EndTime:               t.EndTime,
		IsActive:              t.IsActive,
	}
	if t.DayOfWeek != nil {
		d := int32(*t.DayOfWeek)
		out.DayOfWeek = &d
	}
	if t.StartDate != nil {
		out.StartDate = formatDate(time.Time(*t.StartDate))
	}
	if t.EndDate != nil {
		out.EndDate = formatDate(time.Time(*t.EndDate))
	}
	return out
}

func mapOrder(o *model.Order) *Order {
	return &Order{
		Id:                    o.ID.String(),
		ClientId:              o.ClientID.String(),
		ProfessionalId:        o.ProfessionalID.String(),
		DomainConfigurationId: idString(o.DomainConfigurationID),
		Status:                string(o.Status),
		ScheduledAt:           timestamppb.New(o.ScheduledAt),
		DurationMinutes:       int32(o.DurationMinutes),
		Title:                 o.Title,
		Description:           o.Description,
		Notes:                 o.Notes,
		Reason:                o.Reason,
		SlotId:                idString(o.SlotID),
		PreOrderDataId:        idString(o.PreOrderDataID),
		Version:               int32(o.Version),
		CreatedAt:             timestamppb.New(o.CreatedAt),
		UpdatedAt:             timestamppb.New(o.UpdatedAt),
		CompletedAt:           timestampOrNil(o.CompletedAt),
	}
}

func mapHistory(h *model.OrderHistory) *HistoryEntry {
	out := &HistoryEntry{
		Seq:       int32(h.Seq),
		Operation: string(h.Operation),
		NewStatus: string(h.NewStatus),
		Reason:    h.Reason,
		Notes:     h.Notes,
		ActorId:   h.ActorID.String(),
		CreatedAt: timestamppb.New(h.CreatedAt),
	}
	if h.PreviousStatus != nil {
		out.PreviousStatus = string(*h.PreviousStatus)
	}
	return out
}

func mapPreOrderData(p *model.PreOrderData) *PreOrderData {
	return &PreOrderData{
		Id:          p.ID.String(),
		OrderId:     p.OrderID.String(),
		ClientId:    p.ClientID.String(),
		Fields:      p.Fields.Data(),
		IsCompleted: p.IsCompleted,
	}
}

func mapDomainConfiguration(c *model.DomainConfiguration) *DomainConfiguration {
	out := &DomainConfiguration{
		Id:                     c.ID.String(),
		DomainType:             c.DomainType,
		DefaultDurationMinutes: int32(c.DefaultDurationMinutes),
		IsActive:               c.IsActive,
	}
	for _, f := range c.Fields.Data() {
		out.Fields = append(out.Fields, Field{Name: f.Name, Label: f.Label, Required: f.Required})
	}
	return out
}
