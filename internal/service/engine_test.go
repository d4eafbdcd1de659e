package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/calendar"
	"github.com/DimonBel/appointment-app-sub002/internal/db"
	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/metrics"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/notify"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
)

// 2025-01-06 это понедельник.
var (
	monday  = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
)

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Event, len(s.events))
	copy(out, s.events)
	return out
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEngine struct {
	db        *gorm.DB
	templates *repository.GormTemplateRepository
	slots     *repository.GormSlotRepository
	orders    *repository.GormOrderRepository
	configs   *repository.GormDomainConfigRepository
	preorders *repository.GormPreOrderRepository

	ledger  *SlotLedger
	slotSvc *SlotService
	history *HistoryService
	intake  *IntakeService
	orderSv *OrderService

	sink    *recordingSink
	clock   *testClock
	metrics *metrics.SchedulingMetrics
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	gdb, err := db.NewSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := logging.Discard()
	e := &testEngine{
		db:        gdb,
		templates: repository.NewGormTemplateRepository(gdb),
		slots:     repository.NewGormSlotRepository(gdb),
		orders:    repository.NewGormOrderRepository(gdb),
		configs:   repository.NewGormDomainConfigRepository(gdb),
		preorders: repository.NewGormPreOrderRepository(gdb),
		sink:      &recordingSink{},
		clock:     &testClock{now: testNow},
		metrics:   metrics.NewSchedulingMetrics(prometheus.NewRegistry()),
	}
	tx := repository.NewTxManager(gdb)
	histRepo := repository.NewGormHistoryRepository(gdb)

	e.ledger = NewSlotLedger(e.slots, e.orders, log)
	e.slotSvc = NewSlotService(e.templates, e.slots, e.configs, time.Hour, e.metrics, log)
	e.history = NewHistoryService(e.orders, histRepo)
	e.intake = NewIntakeService(tx, e.orders, e.preorders, e.configs, log)
	e.orderSv = NewOrderService(OrderDeps{
		Tx:        tx,
		Orders:    e.orders,
		Slots:     e.slots,
		Templates: e.templates,
		Configs:   e.configs,
		Ledger:    e.ledger,
		History:   e.history,
		Intake:    e.intake,
	},
		WithClock(e.clock.Now),
		WithSink(e.sink),
		WithMetrics(e.metrics),
		WithLogger(log),
		WithNotifyTimeout(time.Second),
	)
	return e
}

func staff() calendar.Actor {
	return calendar.Actor{ID: uuid.New(), Role: calendar.RoleStaff}
}

func professional(id uuid.UUID) calendar.Actor {
	return calendar.Actor{ID: id, Role: calendar.RoleProfessional}
}

func client(id uuid.UUID) calendar.Actor {
	return calendar.Actor{ID: id, Role: calendar.RoleClient}
}

func weekday(d time.Weekday) *int {
	v := int(d)
	return &v
}

// recurringTemplate сохраняет шаблон напрямую, с явным created_at для порядка шаблонов.
func (e *testEngine) recurringTemplate(
	t *testing.T,
	prof uuid.UUID,
	day time.Weekday,
	from, to string,
	createdAt time.Time,
	configID *uuid.UUID,
) *model.AvailabilityTemplate {
	t.Helper()
	tpl := &model.AvailabilityTemplate{
		ProfessionalID:        prof,
		DomainConfigurationID: configID,
		Kind:                  model.ScheduleKindRecurring,
		DayOfWeek:             weekday(day),
		StartTime:             from,
		EndTime:               to,
		IsActive:              true,
		CreatedAt:             createdAt,
	}
	require.NoError(t, e.templates.Create(context.Background(), tpl))
	return tpl
}

func (e *testEngine) domainConfig(t *testing.T, domain string, minutes int, fields ...model.FieldDescriptor) *model.DomainConfiguration {
	t.Helper()
	cfg, err := e.configs.Upsert(context.Background(), &model.DomainConfiguration{
		DomainType:             domain,
		DefaultDurationMinutes: minutes,
		Fields:                 datatypes.NewJSONType(fields),
		IsActive:               true,
	})
	require.NoError(t, err)
	return cfg
}

// bookable: специалист с понедельничным окном 09:00–12:00 и сгенерированными слотами.
func (e *testEngine) bookable(t *testing.T) (uuid.UUID, []model.AvailabilitySlot) {
	t.Helper()
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow.Add(-time.Hour), nil)
	res, err := e.slotSvc.GenerateSlots(context.Background(), prof, monday)
	require.NoError(t, err)
	require.Len(t, res.Slots, 3)
	return prof, res.Slots
}

func (e *testEngine) createOrder(t *testing.T, prof, clientID uuid.UUID, slot model.AvailabilitySlot) *model.Order {
	t.Helper()
	o, err := e.orderSv.CreateOrder(context.Background(), client(clientID), CreateOrderInput{
		ClientID:       clientID,
		ProfessionalID: prof,
		SlotID:         slot.ID,
		Details:        model.OrderDetails{Title: "consultation"},
	})
	require.NoError(t, err)
	return o
}

func (e *testEngine) slot(t *testing.T, id uuid.UUID) *model.AvailabilitySlot {
	t.Helper()
	s, err := e.slots.GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

