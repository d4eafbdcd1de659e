package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/metrics"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

const (
	defaultSlotDuration = 60 * time.Minute
	maxGenerationDays   = 31
)

// GenerationResult: итог материализации слотов за день (или диапазон).
type GenerationResult struct {
	// Итоговый набор слотов специалиста, по возрастанию начала.
	Slots []model.AvailabilitySlot
	// Сколько слотов вставлено этим вызовом.
	Created   int
	Conflicts []*model.ConfigurationConflictError
}

// TemplateInput: параметры нового шаблона доступности.
type TemplateInput struct {
	ProfessionalID        uuid.UUID
	DomainConfigurationID *uuid.UUID
	Kind                  model.ScheduleKind
	DayOfWeek             *int
	StartTime             string
	EndTime               string
	StartDate             *time.Time
	EndDate               *time.Time
}

// SlotService нарезает шаблоны в слоты и отдаёт свободные слоты.
type SlotService struct {
	templates repository.TemplateRepository
	slots     repository.SlotRepository
	configs   repository.DomainConfigRepository

	defaultDuration time.Duration
	metrics         *metrics.SchedulingMetrics
	logger          *logging.Logger
}

func NewSlotService(
	templates repository.TemplateRepository,
	slots repository.SlotRepository,
	configs repository.DomainConfigRepository,
	defaultDuration time.Duration,
	m *metrics.SchedulingMetrics,
	logger *logging.Logger,
) *SlotService {
	if defaultDuration <= 0 {
		defaultDuration = defaultSlotDuration
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SlotService{
		templates:       templates,
		slots:           slots,
		configs:         configs,
		defaultDuration: defaultDuration,
		metrics:         m,
		logger:          logger,
	}
}

// GenerateSlots материализует слоты специалиста на дату.
// Повторный вызов не создаёт новых слотов: вставка идёт по уникальному (professional_id, starts_at).
func (s *SlotService) GenerateSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) (res *GenerationResult, err error) {
	ctx, span := tracer.Start(ctx, "SlotService.GenerateSlots", trace.WithAttributes(
		attribute.String("professional_id", professionalID.String()),
		attribute.String("date", calendar.DateOnly(date).Format(calendar.DateFormat)),
	))
	defer func() { endSpan(span, err) }()

	if professionalID == uuid.Nil {
		return nil, invalidArgument("professional id is required")
	}
	return s.generateDay(ctx, professionalID, calendar.DayRange(date), make(map[uuid.UUID]time.Duration))
}

// GenerateSlotsRange генерирует слоты по дням в [from, to] включительно.
func (s *SlotService) GenerateSlotsRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (res *GenerationResult, err error) {
	ctx, span := tracer.Start(ctx, "SlotService.GenerateSlotsRange", trace.WithAttributes(
		attribute.String("professional_id", professionalID.String()),
	))
	defer func() { endSpan(span, err) }()

	if professionalID == uuid.Nil {
		return nil, invalidArgument("professional id is required")
	}
	first, last := calendar.DateOnly(from), calendar.DateOnly(to)
	days := int(last.Sub(first)/(24*time.Hour)) + 1
	if days < 1 {
		return nil, invalidArgument("range end must not precede its start")
	}
	if days > maxGenerationDays {
		return nil, invalidArgument(fmt.Sprintf("range must not exceed %d days", maxGenerationDays))
	}

	total := &GenerationResult{}
	durations := make(map[uuid.UUID]time.Duration)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day, err := s.generateDay(ctx, professionalID, calendar.DayRange(d), durations)
		if err != nil {
			return nil, err
		}
		total.Slots = append(total.Slots, day.Slots...)
		total.Created += day.Created
		total.Conflicts = append(total.Conflicts, day.Conflicts...)
	}
	return total, nil
}

func (s *SlotService) generateDay(
	ctx context.Context,
	professionalID uuid.UUID,
	day calendar.TimeRange,
	durations map[uuid.UUID]time.Duration,
) (*GenerationResult, error) {
	templates, err := s.templates.ListByProfessional(ctx, professionalID, true)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	existing, err := s.slots.ListByProfessionalRange(ctx, professionalID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	plan := newSlotPlan(professionalID, existing)
	var conflicts []*model.ConfigurationConflictError

	for i := range templates {
		tpl := &templates[i]
		if !tpl.MatchesDate(day.Start) {
			continue
		}
		startMin, endMin, err := tpl.Window()
		if err != nil {
			s.logger.WarnContext(ctx, "skip template with invalid window", "template_id", tpl.ID, "error", err)
			continue
		}
		d, err := s.slotDuration(ctx, tpl, durations)
		if err != nil {
			return nil, err
		}
		window := calendar.TimeRange{
			Start: calendar.At(day.Start, startMin),
			End:   calendar.At(day.Start, endMin),
		}
		ranges, err := calendar.SplitToTimeSlots(window, d)
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			if c := plan.add(tpl.ID, r); c != nil {
				conflicts = append(conflicts, c)
			}
		}
	}

	created, err := s.slots.InsertIfAbsent(ctx, plan.pending)
	if err != nil {
		return nil, fmt.Errorf("insert slots: %w", err)
	}

	final, err := s.slots.ListByProfessionalRange(ctx, professionalID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	for _, c := range conflicts {
		s.logger.WarnContext(ctx, "overlapping availability templates",
			"professional_id", professionalID,
			"template_id", c.TemplateID,
			"conflicting_template_id", c.ConflictingTemplateID,
			"range", c.Range.String(),
		)
	}
	s.metrics.ObserveGenerated(int(created), len(conflicts))

	return &GenerationResult{Slots: final, Created: int(created), Conflicts: conflicts}, nil
}

// slotDuration: длительность из конфигурации домена шаблона, иначе значение по умолчанию.
func (s *SlotService) slotDuration(
	ctx context.Context,
	tpl *model.AvailabilityTemplate,
	cache map[uuid.UUID]time.Duration,
) (time.Duration, error) {
	if tpl.DomainConfigurationID == nil {
		return s.defaultDuration, nil
	}
	id := *tpl.DomainConfigurationID
	if d, ok := cache[id]; ok {
		return d, nil
	}

	d := s.defaultDuration
	cfg, err := s.configs.GetByID(ctx, id)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("load domain configuration: %w", err)
	case cfg.IsActive && cfg.DefaultDurationMinutes > 0:
		d = time.Duration(cfg.DefaultDurationMinutes) * time.Minute
	}
	cache[id] = d
	return d, nil
}

// slotPlan: принятые интервалы дня. Интервал принадлежит тому шаблону, который занял его первым.
type slotPlan struct {
	professionalID uuid.UUID
	ranges         []calendar.TimeRange
	owners         map[int64]uuid.UUID
	pending        []model.AvailabilitySlot
}

func newSlotPlan(professionalID uuid.UUID, existing []model.AvailabilitySlot) *slotPlan {
	p := &slotPlan{
		professionalID: professionalID,
		owners:         make(map[int64]uuid.UUID, len(existing)),
	}
	for i := range existing {
		p.accept(existing[i].TemplateID, existing[i].Range())
	}
	return p
}

func (p *slotPlan) accept(templateID uuid.UUID, r calendar.TimeRange) {
	p.ranges = append(p.ranges, r)
	p.owners[r.Start.UnixNano()] = templateID
}

// add возвращает конфликт, если интервал пересекается с интервалом другого шаблона.
// Пересечение только со своими слотами (повторный прогон или сменившаяся длительность)
// пропускается молча: уже выданные слоты не трогаются.
func (p *slotPlan) add(templateID uuid.UUID, r calendar.TimeRange) *model.ConfigurationConflictError {
	if overlap, hits := calendar.HasOverlap(r, p.ranges); overlap {
		calendar.SortRanges(hits)
		for _, hit := range hits {
			owner := p.owners[hit.Start.UnixNano()]
			if owner == templateID {
				continue
			}
			return &model.ConfigurationConflictError{
				TemplateID:            templateID,
				ConflictingTemplateID: owner,
				Range:                 r,
			}
		}
		return nil
	}
	p.accept(templateID, r)
	p.pending = append(p.pending, model.AvailabilitySlot{
		TemplateID:     templateID,
		ProfessionalID: p.professionalID,
		StartsAt:       r.Start,
		EndsAt:         r.End,
		IsAvailable:    true,
	})
	return nil
}

// ListAvailableSlots: свободные слоты специалиста на дату.
func (s *SlotService) ListAvailableSlots(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]model.AvailabilitySlot, error) {
	day := calendar.DayRange(date)
	slots, _, err := s.slots.ListAvailable(ctx, professionalID, day.Start, day.End, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

// ListAvailableSlotsPage: то же с постраничной выдачей.
func (s *SlotService) ListAvailableSlotsPage(
	ctx context.Context,
	professionalID uuid.UUID,
	date time.Time,
	page, pageSize int,
) (calendar.Page[model.AvailabilitySlot], error) {
	slots, err := s.ListAvailableSlots(ctx, professionalID, date)
	if err != nil {
		return calendar.Page[model.AvailabilitySlot]{}, err
	}
	return calendar.Paginate(slots, page, pageSize), nil
}

// ===== Шаблоны =====

func (s *SlotService) CreateTemplate(ctx context.Context, actor calendar.Actor, in TemplateInput) (*model.AvailabilityTemplate, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if in.ProfessionalID == uuid.Nil {
		return nil, invalidArgument("professional id is required")
	}
	if !actor.CanManageProfessional(in.ProfessionalID) {
		return nil, fmt.Errorf("%w: manage templates of another professional", model.ErrForbidden)
	}

	tpl := &model.AvailabilityTemplate{
		ProfessionalID:        in.ProfessionalID,
		DomainConfigurationID: in.DomainConfigurationID,
		Kind:                  in.Kind,
		DayOfWeek:             in.DayOfWeek,
		StartTime:             in.StartTime,
		EndTime:               in.EndTime,
		IsActive:              true,
	}
	if in.StartDate != nil {
		tpl.StartDate = model.NewDate(*in.StartDate)
	}
	if in.EndDate != nil {
		tpl.EndDate = model.NewDate(*in.EndDate)
	}

	if ok, reason := validateTemplateModel(tpl); !ok {
		return nil, invalidArgument(reason)
	}
	// "9:00" хранится как "09:00"
	startMin, endMin, _ := tpl.Window()
	tpl.StartTime, tpl.EndTime = calendar.FormatClock(startMin), calendar.FormatClock(endMin)

	if tpl.DomainConfigurationID != nil {
		if _, err := s.configs.GetByID(ctx, *tpl.DomainConfigurationID); err != nil {
			return nil, fmt.Errorf("domain configuration: %w", err)
		}
	}

	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.logger.InfoContext(ctx, "availability template created",
		"template_id", tpl.ID,
		"professional_id", tpl.ProfessionalID,
		"kind", tpl.Kind,
	)
	return tpl, nil
}

// DeactivateTemplate выключает шаблон. Уже созданные слоты остаются.
func (s *SlotService) DeactivateTemplate(ctx context.Context, actor calendar.Actor, templateID uuid.UUID) error {
	if err := checkActor(actor); err != nil {
		return err
	}
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if !actor.CanManageProfessional(tpl.ProfessionalID) {
		return fmt.Errorf("%w: manage templates of another professional", model.ErrForbidden)
	}
	return s.templates.Deactivate(ctx, templateID)
}

func (s *SlotService) ListTemplates(ctx context.Context, professionalID uuid.UUID, onlyActive bool) ([]model.AvailabilityTemplate, error) {
	return s.templates.ListByProfessional(ctx, professionalID, onlyActive)
}

func validateTemplateModel(tpl *model.AvailabilityTemplate) (bool, string) {
	if _, _, err := tpl.Window(); err != nil {
		return false, "invalid template time window"
	}
	switch tpl.Kind {
	case model.ScheduleKindRecurring:
		if tpl.DayOfWeek == nil || *tpl.DayOfWeek < 0 || *tpl.DayOfWeek > 6 {
			return false, "recurring template needs day of week 0..6"
		}
		if tpl.StartDate != nil && tpl.EndDate != nil && time.Time(*tpl.EndDate).Before(time.Time(*tpl.StartDate)) {
			return false, "invalid template date range"
		}
	case model.ScheduleKindOneTime:
		if tpl.StartDate == nil || tpl.EndDate == nil {
			return false, "one-time template needs start and end date"
		}
		if time.Time(*tpl.EndDate).Before(time.Time(*tpl.StartDate)) {
			return false, "invalid template date range"
		}
	default:
		return false, "unknown schedule kind"
	}
	return true, ""
}
