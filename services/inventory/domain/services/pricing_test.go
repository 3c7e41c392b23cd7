package services

import (
	"math"
	"testing"
)

func TestNormalizeUnitPrice(t *testing.T) {
	tests := []struct {
		name      string
		price     *float64
		qty       float64
		unit      string
		wantValue *float64
		wantKind  string
		wantLabel string
	}{
		{"pieces", ptr(30.0), 12, "pcs", ptr(2.5), KindPieces, "$2.50 per pc"},
		{"grams scale to 100g", ptr(20.0), 1000, "g", ptr(2.0), KindPer100g, "$2.00 per 100g"},
		{"millilitres scale to 100ml", ptr(45.0), 500, "ml", ptr(9.0), KindPer100ml, "$9.00 per 100ml"},
		{"litres native", ptr(3.0), 2, "l", ptr(1.5), KindLitre, "$1.50 per L"},
		{"unit is case-insensitive", ptr(20.0), 1000, "G", ptr(2.0), KindPer100g, "$2.00 per 100g"},
		{"other unit keeps its name", ptr(10.0), 4, "pack", ptr(2.5), "pack", "$2.50 per pack"},
		{"nil price", nil, 3, "g", nil, "g", "—"},
		{"NaN price", ptr(math.NaN()), 3, "pcs", nil, "pcs", "—"},
		{"zero quantity", ptr(10.0), 0, "ML", nil, "ml", "—"},
		{"negative quantity", ptr(10.0), -1, "pcs", nil, "pcs", "—"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeUnitPrice(tt.price, tt.qty, tt.unit)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			switch {
			case tt.wantValue == nil && got.Value != nil:
				t.Errorf("Value = %v, want nil", *got.Value)
			case tt.wantValue != nil && got.Value == nil:
				t.Errorf("Value = nil, want %v", *tt.wantValue)
			case tt.wantValue != nil && !approx(*got.Value, *tt.wantValue):
				t.Errorf("Value = %v, want %v", *got.Value, *tt.wantValue)
			}
		})
	}
}

// Normalizing a purchase and estimating the same quantity back must
// reproduce the price paid for every unit family.
func TestNormalizeThenEstimate_RoundTrip(t *testing.T) {
	for _, unit := range []string{"pcs", "g", "ml", "l", "bottle"} {
		for _, c := range []struct{ price, qty float64 }{{40, 2}, {19.99, 750}, {3.2, 0.5}} {
			up := NormalizeUnitPrice(ptr(c.price), c.qty, unit)
			cost := EstimateCost(c.qty, up)
			if cost == nil {
				t.Fatalf("%s: expected cost, got nil", unit)
			}
			if math.Abs(*cost-c.price) > 1e-9 {
				t.Errorf("%s: round trip of %v for %v gave %v", unit, c.price, c.qty, *cost)
			}
		}
	}
}

func TestUnitKind(t *testing.T) {
	cases := map[string]string{"g": KindPer100g, " ML ": KindPer100ml, "pcs": KindPieces, "L": KindLitre, "jar": "jar"}
	for in, want := range cases {
		if got := UnitKind(in); got != want {
			t.Errorf("UnitKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(1234.5); got != "$1234.50" {
		t.Fatalf("FormatMoney = %q", got)
	}
	if got := FormatMoney(2); got != "$2.00" {
		t.Fatalf("FormatMoney = %q", got)
	}
}
