package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradeflow/shipping-engine/internal/model"
	"github.com/tradeflow/shipping-engine/internal/store"
)

func seedWarehouse(t *testing.T, ms *store.MemoryStore, id string, active bool) {
	t.Helper()
	err := ms.CreateWarehouse(context.Background(), &model.Warehouse{
		ID:        id,
		Name:      "wh " + id,
		Location:  model.Location{Latitude: 28.5355, Longitude: 77.3910},
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed warehouse %s: %v", id, err)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	_, err := ms.GetSeller(ctx, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for seller, got %v", err)
	}
	_, err = ms.GetCustomer(ctx, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for customer, got %v", err)
	}
	_, err = ms.GetProduct(ctx, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for product, got %v", err)
	}
	_, err = ms.GetDeliverySpeedConfig(ctx, "express")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for speed config, got %v", err)
	}
}

func TestMemoryStore_ListWarehousesSortedByID(t *testing.T) {
	ms := store.NewMemoryStore()
	seedWarehouse(t, ms, "wh-c", true)
	seedWarehouse(t, ms, "wh-a", true)
	seedWarehouse(t, ms, "wh-b", false)

	all, err := ms.ListWarehouses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 warehouses, got %d", len(all))
	}
	for i, want := range []string{"wh-a", "wh-b", "wh-c"} {
		if all[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].ID)
		}
	}
}

func TestMemoryStore_ListActiveFiltersInactive(t *testing.T) {
	ms := store.NewMemoryStore()
	seedWarehouse(t, ms, "wh-a", true)
	seedWarehouse(t, ms, "wh-b", false)
	seedWarehouse(t, ms, "wh-c", true)

	active, err := ms.ListActiveWarehouses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active warehouses, got %d", len(active))
	}
	if active[0].ID != "wh-a" || active[1].ID != "wh-c" {
		t.Errorf("unexpected active set: %s, %s", active[0].ID, active[1].ID)
	}
}

func TestMemoryStore_SetWarehouseActive(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	seedWarehouse(t, ms, "wh-a", true)

	if err := ms.SetWarehouseActive(ctx, "wh-a", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wh, err := ms.GetWarehouse(ctx, "wh-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wh.IsActive {
		t.Error("warehouse should be inactive")
	}

	if err := ms.SetWarehouseActive(ctx, "ghost", true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	seedWarehouse(t, ms, "wh-a", true)

	got, err := ms.GetWarehouse(ctx, "wh-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Name = "mutated"

	again, err := ms.GetWarehouse(ctx, "wh-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Name == "mutated" {
		t.Error("store returned a reference to its internal state")
	}
}

func TestMemoryStore_UpsertDeliverySpeedConfig(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	cfg := &model.DeliverySpeedConfig{
		SpeedType:        model.SpeedExpress,
		BaseCharge:       decimal.NewFromInt(10),
		ExtraChargePerKg: decimal.NewFromFloat(1.2),
	}
	if err := ms.UpsertDeliverySpeedConfig(ctx, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Upsert replaces the existing config for the same speed type.
	cfg.BaseCharge = decimal.NewFromInt(15)
	if err := ms.UpsertDeliverySpeedConfig(ctx, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ms.GetDeliverySpeedConfig(ctx, model.SpeedExpress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.BaseCharge.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected base charge 15 after upsert, got %s", got.BaseCharge)
	}
}
