package db

import (
	"testing"

	"github.com/DimonBel/appointment-app-sub002/internal/config"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

func TestNewSQLiteMemory_Migrates(t *testing.T) {
	gdb, err := NewSQLiteMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{
		"availability_templates",
		"availability_slots",
		"orders",
		"order_history",
		"domain_configurations",
		"pre_order_data",
	} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("table %s not created", table)
		}
	}
	if !gdb.Migrator().HasIndex(&model.AvailabilitySlot{}, "idx_slot_professional_start") {
		t.Fatalf("unique slot index missing")
	}
}

func TestNewGormDB_UnknownDriver(t *testing.T) {
	if _, err := NewGormDB(&config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
