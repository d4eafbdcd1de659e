package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

func freeSlot(professionalID uuid.UUID) *model.AvailabilitySlot {
	return &model.AvailabilitySlot{
		ProfessionalID: professionalID,
		StartsAt:       time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC),
		IsAvailable:    true,
	}
}

func TestValidateSlotModel_OK(t *testing.T) {
	professionalID := uuid.New()

	ok, reason := validateSlotModel(freeSlot(professionalID), professionalID)
	if !ok {
		t.Fatalf("expected valid, got reason=%q", reason)
	}
	if reason != "" {
		t.Fatalf("expected empty reason, got %q", reason)
	}
}

func TestValidateSlotModel_InvalidRange(t *testing.T) {
	slot := freeSlot(uuid.New())
	slot.EndsAt = slot.StartsAt

	ok, reason := validateSlotModel(slot, uuid.Nil)
	if ok {
		t.Fatalf("expected invalid")
	}
	if reason != "invalid slot time range" {
		t.Fatalf("expected reason %q, got %q", "invalid slot time range", reason)
	}
}

func TestValidateSlotModel_NotFree(t *testing.T) {
	slot := freeSlot(uuid.New())
	orderID := uuid.New()
	slot.OrderID = &orderID
	slot.IsAvailable = false

	ok, reason := validateSlotModel(slot, uuid.Nil)
	if ok {
		t.Fatalf("expected invalid")
	}
	if reason != "slot is not free" {
		t.Fatalf("expected reason %q, got %q", "slot is not free", reason)
	}
}

func TestValidateSlotModel_NotFree_FlagOnly(t *testing.T) {
	slot := freeSlot(uuid.New())
	slot.IsAvailable = false

	ok, reason := validateSlotModel(slot, uuid.Nil)
	if ok || reason != "slot is not free" {
		t.Fatalf("expected not free, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateSlotModel_ProfessionalMismatch(t *testing.T) {
	ok, reason := validateSlotModel(freeSlot(uuid.New()), uuid.New())
	if ok {
		t.Fatalf("expected invalid")
	}
	if reason != "slot professional mismatch" {
		t.Fatalf("expected reason %q, got %q", "slot professional mismatch", reason)
	}
}

func TestSlotError(t *testing.T) {
	taken := freeSlot(uuid.New())
	taken.IsAvailable = false
	if err := slotError(taken, uuid.Nil); !errors.Is(err, model.ErrSlotUnavailable) {
		t.Fatalf("taken slot must map to ErrSlotUnavailable, got %v", err)
	}
	if err := slotError(freeSlot(uuid.New()), uuid.New()); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("mismatch must map to ErrInvalidArgument, got %v", err)
	}
	if err := slotError(freeSlot(uuid.Nil), uuid.Nil); err != nil {
		t.Fatalf("free slot must pass, got %v", err)
	}
}
