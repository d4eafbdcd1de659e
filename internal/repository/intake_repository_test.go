package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

func TestDomainConfigRepository_Upsert(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewGormDomainConfigRepository(gdb)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &model.DomainConfiguration{
		DomainType:             "medical",
		DefaultDurationMinutes: 30,
		Fields:                 datatypes.NewJSONType([]model.FieldDescriptor{{Name: "complaint", Required: true}}),
		IsActive:               true,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	updated, err := repo.Upsert(ctx, &model.DomainConfiguration{
		DomainType:             "medical",
		DefaultDurationMinutes: 45,
		Fields:                 datatypes.NewJSONType([]model.FieldDescriptor{{Name: "complaint", Required: true}, {Name: "phone", Required: true}}),
		IsActive:               false,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("upsert must keep the original id")
	}
	if updated.DefaultDurationMinutes != 45 || updated.IsActive {
		t.Fatalf("upsert must overwrite values: %+v", updated)
	}
	if got := updated.RequiredFields(); len(got) != 2 {
		t.Fatalf("unexpected required fields %v", got)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil || byID.DomainType != "medical" {
		t.Fatalf("get by id: %+v, %v", byID, err)
	}

	if _, err := repo.Upsert(ctx, &model.DomainConfiguration{DomainType: "legal", DefaultDurationMinutes: 60, IsActive: true}); err != nil {
		t.Fatalf("upsert legal: %v", err)
	}
	active, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].DomainType != "legal" {
		t.Fatalf("unexpected active configs %+v", active)
	}
	all, _ := repo.List(ctx, false)
	if len(all) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(all))
	}

	if _, err := repo.GetByType(ctx, "unknown"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPreOrderRepository_CreateUpdate(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewGormPreOrderRepository(gdb)
	ctx := context.Background()

	orderID := uuid.New()
	data := &model.PreOrderData{
		OrderID:  orderID,
		ClientID: uuid.New(),
		Fields:   datatypes.NewJSONType(map[string]string{"name": "Anna"}),
	}
	if err := repo.Create(ctx, data); err != nil {
		t.Fatalf("create: %v", err)
	}

	data.Merge(map[string]string{"phone": "+7 900 000-00-00"})
	data.IsCompleted = true
	if err := repo.Update(ctx, data); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByOrderID(ctx, orderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsCompleted || got.Fields.Data()["phone"] == "" || got.Fields.Data()["name"] != "Anna" {
		t.Fatalf("unexpected stored data %+v", got.Fields.Data())
	}

	if err := repo.Update(ctx, &model.PreOrderData{ID: uuid.New()}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByOrderID(ctx, uuid.New()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
