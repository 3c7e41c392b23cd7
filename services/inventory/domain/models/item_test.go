package models

import (
	"math"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestNewItem(t *testing.T) {
	t.Run("sets defaults", func(t *testing.T) {
		item := NewItem("Milk")
		if item.ID != 0 {
			t.Fatalf("expected zero ID before storage, got %d", item.ID)
		}
		if item.Unit != DefaultUnit {
			t.Fatalf("expected unit %q, got %q", DefaultUnit, item.Unit)
		}
		if item.Activity == nil || len(item.Activity) != 0 {
			t.Fatalf("expected empty non-nil activity, got %#v", item.Activity)
		}
	})

	t.Run("sets timestamps to approximately now UTC", func(t *testing.T) {
		before := time.Now().UTC()
		item := NewItem("Milk")
		after := time.Now().UTC()
		if item.CreatedAt.Before(before) || item.CreatedAt.After(after) {
			t.Fatalf("CreatedAt %v not between %v and %v", item.CreatedAt, before, after)
		}
		if !item.UpdatedAt.Equal(item.CreatedAt) {
			t.Fatalf("expected UpdatedAt == CreatedAt, got %v and %v", item.UpdatedAt, item.CreatedAt)
		}
	})
}

func TestItem_Sanitize(t *testing.T) {
	item := &Item{
		Name:      "  Eggs ",
		Category:  " Dairy ",
		Store:     " Corner Shop ",
		Unit:      "  ",
		Quantity:  -4,
		Threshold: math.NaN(),
		DailyUse:  ptr(0.0),
		PricePaid: ptr(math.Inf(1)),
		Barcode:   " 400123 ",
	}
	item.Sanitize()

	if item.Name != "Eggs" || item.Category != "Dairy" || item.Store != "Corner Shop" || item.Barcode != "400123" {
		t.Fatalf("strings not trimmed: %+v", item)
	}
	if item.Unit != DefaultUnit {
		t.Fatalf("expected default unit, got %q", item.Unit)
	}
	if item.Quantity != 0 {
		t.Fatalf("expected negative quantity clamped to 0, got %v", item.Quantity)
	}
	if item.Threshold != 0 {
		t.Fatalf("expected NaN threshold coerced to 0, got %v", item.Threshold)
	}
	if item.DailyUse != nil {
		t.Fatalf("expected zero daily use dropped, got %v", *item.DailyUse)
	}
	if item.PricePaid != nil {
		t.Fatalf("expected infinite price dropped, got %v", *item.PricePaid)
	}
	if item.Activity == nil {
		t.Fatal("expected non-nil activity")
	}
}

func TestItem_Sanitize_KeepsValidValues(t *testing.T) {
	item := &Item{Name: "Rice", Unit: "g", Quantity: 500, Threshold: 200, DailyUse: ptr(50.0), PricePaid: ptr(0.0)}
	item.Sanitize()
	if item.Quantity != 500 || item.Threshold != 200 {
		t.Fatalf("unexpected numbers: %+v", item)
	}
	if item.DailyUse == nil || *item.DailyUse != 50 {
		t.Fatal("expected daily use to be kept")
	}
	if item.PricePaid == nil || *item.PricePaid != 0 {
		t.Fatal("expected free item price 0 to be kept")
	}
}

func TestItem_Clone(t *testing.T) {
	orig := &Item{
		ID:        7,
		Name:      "Coffee",
		PricePaid: ptr(12.5),
		Activity:  []ActivityEvent{{Type: ActivityBuy, Qty: 1, Price: ptr(12.5)}},
	}
	c := orig.Clone()
	*c.PricePaid = 99
	*c.Activity[0].Price = 99
	c.Activity[0].Qty = 5

	if *orig.PricePaid != 12.5 {
		t.Fatal("clone shares PricePaid pointer")
	}
	if *orig.Activity[0].Price != 12.5 || orig.Activity[0].Qty != 1 {
		t.Fatal("clone shares activity storage")
	}
}

func TestActivityType_Valid(t *testing.T) {
	if !ActivityUse.Valid() || !ActivityBuy.Valid() {
		t.Fatal("expected use and buy to be valid")
	}
	if ActivityType("sell").Valid() {
		t.Fatal("expected unknown type to be invalid")
	}
}

func TestItemPatch_ApplyTo(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	item := &Item{ID: 3, Name: " milk ", Store: "A", Quantity: 2, Threshold: 1, CreatedAt: created}

	ItemPatch{Name: ptr("Milk"), Quantity: ptr(1.0)}.ApplyTo(item)

	if item.ID != 3 || !item.CreatedAt.Equal(created) {
		t.Fatal("identity fields must be preserved")
	}
	if item.Name != "Milk" || item.Quantity != 1 {
		t.Fatalf("present fields must override: %+v", item)
	}
	if item.Store != "A" || item.Threshold != 1 {
		t.Fatalf("absent fields must be untouched: %+v", item)
	}
}

func TestItemPatch_NameKey(t *testing.T) {
	if got := (ItemPatch{Name: ptr(" MILK ")}).NameKey(); got != "milk" {
		t.Fatalf("NameKey() = %q, want %q", got, "milk")
	}
	if got := (ItemPatch{}).NameKey(); got != "" {
		t.Fatalf("NameKey() = %q, want empty", got)
	}
}
