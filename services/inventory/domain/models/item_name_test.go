package models

import (
	"strings"
	"testing"
)

func TestNewItemName(t *testing.T) {
	t.Run("valid single character", func(t *testing.T) {
		n, err := NewItemName("a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "a" {
			t.Fatalf("expected %q, got %q", "a", n.String())
		}
	})

	t.Run("valid 255 characters", func(t *testing.T) {
		s := strings.Repeat("x", 255)
		n, err := NewItemName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 255, got %d", len(n.String()))
		}
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		n, err := NewItemName("  Basmati Rice \t")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Basmati Rice" {
			t.Fatalf("expected %q, got %q", "Basmati Rice", n.String())
		}
	})

	t.Run("empty string returns error", func(t *testing.T) {
		if _, err := NewItemName(""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("whitespace only returns error", func(t *testing.T) {
		if _, err := NewItemName("   "); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("256 characters returns error", func(t *testing.T) {
		if _, err := NewItemName(strings.Repeat("x", 256)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestItemName_Key(t *testing.T) {
	tests := []struct {
		name string
		in   ItemName
		want string
	}{
		{"lowercases", "Milk", "milk"},
		{"trims legacy whitespace", " milk ", "milk"},
		{"keeps inner spaces", "Olive Oil", "olive oil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Key(); got != tt.want {
				t.Fatalf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestItemName_SameName(t *testing.T) {
	if !ItemName("Rice").SameName("  rICE ") {
		t.Fatal("expected case/whitespace variants to match")
	}
	if ItemName("Rice").SameName("Rice flour") {
		t.Fatal("expected different names not to match")
	}
}
