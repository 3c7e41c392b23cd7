package models

import (
	"fmt"
	"testing"
)

func TestPreferences_RememberStore(t *testing.T) {
	t.Run("most recent first", func(t *testing.T) {
		var p Preferences
		p.RememberStore("Mart")
		p.RememberStore("Corner")
		if len(p.StoreHistory) != 2 || p.StoreHistory[0] != "Corner" || p.StoreHistory[1] != "Mart" {
			t.Fatalf("unexpected history %v", p.StoreHistory)
		}
	})

	t.Run("dedupes case-insensitively", func(t *testing.T) {
		p := Preferences{StoreHistory: []string{"Corner", "mart"}}
		p.RememberStore(" MART ")
		if len(p.StoreHistory) != 2 || p.StoreHistory[0] != "MART" || p.StoreHistory[1] != "Corner" {
			t.Fatalf("unexpected history %v", p.StoreHistory)
		}
	})

	t.Run("ignores blank", func(t *testing.T) {
		p := Preferences{StoreHistory: []string{"Mart"}}
		p.RememberStore("   ")
		if len(p.StoreHistory) != 1 {
			t.Fatalf("unexpected history %v", p.StoreHistory)
		}
	})

	t.Run("caps length", func(t *testing.T) {
		var p Preferences
		for i := 0; i < MaxStoreHistory+5; i++ {
			p.RememberStore(fmt.Sprintf("store-%d", i))
		}
		if len(p.StoreHistory) != MaxStoreHistory {
			t.Fatalf("expected %d entries, got %d", MaxStoreHistory, len(p.StoreHistory))
		}
		if p.StoreHistory[0] != fmt.Sprintf("store-%d", MaxStoreHistory+4) {
			t.Fatalf("unexpected head %q", p.StoreHistory[0])
		}
	})
}

func TestPreferences_RememberUnit(t *testing.T) {
	p := Preferences{LastUnit: "g"}
	p.RememberUnit("  ")
	if p.LastUnit != "g" {
		t.Fatalf("blank unit must be ignored, got %q", p.LastUnit)
	}
	p.RememberUnit(" ml ")
	if p.LastUnit != "ml" {
		t.Fatalf("LastUnit = %q, want ml", p.LastUnit)
	}
}
