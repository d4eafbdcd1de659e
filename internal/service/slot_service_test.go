package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

func starts(slots []model.AvailabilitySlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartsAt.UTC().Format("15:04"))
	}
	return out
}

func TestGenerateSlots_RecurringWindow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, nil)

	res, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, starts(res.Slots))
	for _, s := range res.Slots {
		assert.True(t, s.IsFree())
		assert.Equal(t, 60, s.DurationMinutes())
	}

	tuesday, err := e.slotSvc.GenerateSlots(ctx, prof, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, tuesday.Slots)
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, nil)

	first, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	second, err := e.slotSvc.GenerateSlots(ctx, prof, monday.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	require.Len(t, second.Slots, len(first.Slots))
	for i := range first.Slots {
		assert.Equal(t, first.Slots[i].ID, second.Slots[i].ID)
	}
}

func TestGenerateSlots_DomainDurationDropsTail(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.domainConfig(t, "therapy", 50)
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, &cfg.ID)

	res, err := e.slotSvc.GenerateSlots(context.Background(), prof, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:50", "10:40"}, starts(res.Slots))
	for _, s := range res.Slots {
		assert.Equal(t, 50, s.DurationMinutes())
	}
}

func TestGenerateSlots_OverlappingTemplatesFirstWins(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	early := e.recurringTemplate(t, prof, time.Monday, "09:00", "11:00", testNow.Add(-2*time.Hour), nil)
	late := e.recurringTemplate(t, prof, time.Monday, "10:30", "12:30", testNow.Add(-time.Hour), nil)

	res, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:30"}, starts(res.Slots))
	require.Len(t, res.Conflicts, 1)

	c := res.Conflicts[0]
	assert.ErrorIs(t, c, model.ErrConfigurationConflict)
	assert.Equal(t, late.ID, c.TemplateID)
	assert.Equal(t, early.ID, c.ConflictingTemplateID)
	assert.Equal(t, "10:30", c.Range.Start.Format("15:04"))

	again, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Len(t, again.Slots, 3)
}

func TestGenerateSlots_DurationChangeKeepsOwnSlots(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	cfg := e.domainConfig(t, "therapy", 60)
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, &cfg.ID)

	first, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:00", "11:00"}, starts(first.Slots))

	shorter := e.domainConfig(t, "therapy", 30)
	require.Equal(t, cfg.ID, shorter.ID)

	again, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Empty(t, again.Conflicts)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, starts(again.Slots))
	for _, s := range again.Slots {
		assert.Equal(t, 60, s.DurationMinutes())
	}
}

func TestGenerateSlots_WindowUntilMidnight(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()

	tpl, err := e.slotSvc.CreateTemplate(ctx, professional(prof), TemplateInput{
		ProfessionalID: prof,
		Kind:           model.ScheduleKindRecurring,
		DayOfWeek:      weekday(time.Monday),
		StartTime:      "20:00",
		EndTime:        "24:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "24:00", tpl.EndTime)

	res, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"20:00", "21:00", "22:00", "23:00"}, starts(res.Slots))
	last := res.Slots[len(res.Slots)-1]
	assert.True(t, last.EndsAt.Equal(monday.AddDate(0, 0, 1)))
}

func TestGenerateSlots_OneTimeTemplate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	from, to := monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 2)

	_, err := e.slotSvc.CreateTemplate(ctx, professional(prof), TemplateInput{
		ProfessionalID: prof,
		Kind:           model.ScheduleKindOneTime,
		StartTime:      "14:00",
		EndTime:        "16:00",
		StartDate:      &from,
		EndDate:        &to,
	})
	require.NoError(t, err)

	res, err := e.slotSvc.GenerateSlotsRange(ctx, prof, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	assert.Len(t, res.Slots, 4)
}

func TestGenerateSlotsRange_Bounds(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, nil)

	res, err := e.slotSvc.GenerateSlotsRange(ctx, prof, monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	assert.Equal(t, 6, res.Created)

	_, err = e.slotSvc.GenerateSlotsRange(ctx, prof, monday, monday.AddDate(0, 0, 40))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = e.slotSvc.GenerateSlotsRange(ctx, prof, monday, monday.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = e.slotSvc.GenerateSlots(ctx, uuid.Nil, monday)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestCreateTemplate_Validation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	missingConfig := uuid.New()

	tests := []struct {
		name  string
		actor func() (uuid.UUID, TemplateInput)
		want  error
	}{
		{
			name: "inverted window",
			actor: func() (uuid.UUID, TemplateInput) {
				return prof, TemplateInput{ProfessionalID: prof, Kind: model.ScheduleKindRecurring, DayOfWeek: weekday(time.Monday), StartTime: "12:00", EndTime: "09:00"}
			},
			want: model.ErrInvalidArgument,
		},
		{
			name: "recurring without weekday",
			actor: func() (uuid.UUID, TemplateInput) {
				return prof, TemplateInput{ProfessionalID: prof, Kind: model.ScheduleKindRecurring, StartTime: "09:00", EndTime: "12:00"}
			},
			want: model.ErrInvalidArgument,
		},
		{
			name: "one-time without dates",
			actor: func() (uuid.UUID, TemplateInput) {
				return prof, TemplateInput{ProfessionalID: prof, Kind: model.ScheduleKindOneTime, StartTime: "09:00", EndTime: "12:00"}
			},
			want: model.ErrInvalidArgument,
		},
		{
			name: "another professional",
			actor: func() (uuid.UUID, TemplateInput) {
				return uuid.New(), TemplateInput{ProfessionalID: prof, Kind: model.ScheduleKindRecurring, DayOfWeek: weekday(time.Monday), StartTime: "09:00", EndTime: "12:00"}
			},
			want: model.ErrForbidden,
		},
		{
			name: "unknown domain configuration",
			actor: func() (uuid.UUID, TemplateInput) {
				return prof, TemplateInput{ProfessionalID: prof, DomainConfigurationID: &missingConfig, Kind: model.ScheduleKindRecurring, DayOfWeek: weekday(time.Monday), StartTime: "09:00", EndTime: "12:00"}
			},
			want: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actorID, in := tt.actor()
			_, err := e.slotSvc.CreateTemplate(ctx, professional(actorID), in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	tpl, err := e.slotSvc.CreateTemplate(ctx, staff(), TemplateInput{
		ProfessionalID: prof,
		Kind:           model.ScheduleKindRecurring,
		DayOfWeek:      weekday(time.Monday),
		StartTime:      "9:00",
		EndTime:        "12:00",
	})
	require.NoError(t, err)
	assert.True(t, tpl.IsActive)
	assert.Equal(t, "09:00", tpl.StartTime)
}

func TestDeactivateTemplate_KeepsSlots(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof := uuid.New()
	tpl := e.recurringTemplate(t, prof, time.Monday, "09:00", "12:00", testNow, nil)

	_, err := e.slotSvc.GenerateSlots(ctx, prof, monday)
	require.NoError(t, err)

	err = e.slotSvc.DeactivateTemplate(ctx, professional(uuid.New()), tpl.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
	require.NoError(t, e.slotSvc.DeactivateTemplate(ctx, professional(prof), tpl.ID))

	kept, err := e.slotSvc.ListAvailableSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Len(t, kept, 3)

	nextWeek, err := e.slotSvc.GenerateSlots(ctx, prof, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, nextWeek.Slots)

	active, err := e.slotSvc.ListTemplates(ctx, prof, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListAvailableSlots_ExcludesClaimed(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	prof, slots := e.bookable(t)
	e.createOrder(t, prof, uuid.New(), slots[1])

	free, err := e.slotSvc.ListAvailableSlots(ctx, prof, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, starts(free))

	page, err := e.slotSvc.ListAvailableSlotsPage(ctx, prof, monday, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, slots[2].ID, page.Items[0].ID)

	ok, err := e.ledger.IsAvailable(ctx, slots[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = e.ledger.IsAvailable(ctx, slots[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.ledger.IsAvailable(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
