package services

import (
	"testing"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

func TestNeedFor(t *testing.T) {
	tests := []struct {
		name string
		item models.Item
		want float64
	}{
		{"fills up to threshold", models.Item{Quantity: 1, Threshold: 4}, 3},
		{"never negative", models.Item{Quantity: 9, Threshold: 4}, 0},
		{"nominal unit without threshold", models.Item{Quantity: 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedFor(&tt.item); got != tt.want {
				t.Fatalf("NeedFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name  string
		need  float64
		price UnitPrice
		want  *float64
	}{
		{"pieces", 3, UnitPrice{Value: ptr(2.0), Kind: KindPieces}, ptr(6.0)},
		{"litres", 2, UnitPrice{Value: ptr(1.5), Kind: KindLitre}, ptr(3.0)},
		{"per 100g", 500, UnitPrice{Value: ptr(2.0), Kind: KindPer100g}, ptr(10.0)},
		{"per 100ml", 250, UnitPrice{Value: ptr(4.0), Kind: KindPer100ml}, ptr(10.0)},
		{"other kind", 2, UnitPrice{Value: ptr(7.0), Kind: "pack"}, ptr(14.0)},
		{"unknown price", 2, UnitPrice{Kind: KindPieces}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(tt.need, tt.price)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("EstimateCost = %v, want %v", got, tt.want)
			}
			if got != nil && !approx(*got, *tt.want) {
				t.Fatalf("EstimateCost = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func basketFixture() []*models.Item {
	rice := priced("Rice", "Mart", 20, 1000, "g")
	rice.ID, rice.Threshold, rice.Quantity = 1, 1500, 1000
	cheapRice := priced("rice", "Corner", 15, 1000, "g")
	cheapRice.ID = 2
	soap := &models.Item{ID: 3, Name: "soap", Store: "Mart", Unit: "pcs", Quantity: 0, Threshold: 2}
	apples := priced("Apples", "Corner", 6, 6, "pcs")
	apples.ID, apples.Threshold, apples.Quantity = 4, 6, 6
	return []*models.Item{rice, cheapRice, soap, apples}
}

func TestBuildBasket_AllStores(t *testing.T) {
	all := basketFixture()
	low := LowStock(all, "", RateManual, testNow)
	if len(low) != 3 {
		t.Fatalf("expected 3 low items, got %d", len(low))
	}

	b := BuildBasket(all, low, "")
	if len(b.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(b.Rows))
	}

	names := []string{b.Rows[0].Name, b.Rows[1].Name, b.Rows[2].Name}
	if names[0] != "Apples" || names[1] != "Rice" || names[2] != "soap" {
		t.Fatalf("rows not sorted case-insensitively: %v", names)
	}

	apples, rice, soap := b.Rows[0], b.Rows[1], b.Rows[2]
	if apples.Need != 0 || apples.EstimatedCost == nil || *apples.EstimatedCost != 0 {
		t.Fatalf("unexpected apples row %+v", apples)
	}
	if rice.Need != 500 || rice.Store != "Corner" || rice.Source != SourceBest || rice.Note != NoteBestPrice {
		t.Fatalf("unexpected rice row %+v", rice)
	}
	if rice.EstimatedCost == nil || !approx(*rice.EstimatedCost, 7.5) {
		t.Fatalf("rice cost = %v, want 7.5", rice.EstimatedCost)
	}
	if soap.EstimatedCost != nil || soap.Note != NoteNoPriceData || soap.Source != SourceNone || soap.Store != "Mart" {
		t.Fatalf("unexpected soap row %+v", soap)
	}
	if !approx(b.Total, 7.5) {
		t.Fatalf("Total = %v, want 7.5", b.Total)
	}
}

func TestBuildBasket_StoreFilterPrefersInStorePrice(t *testing.T) {
	all := basketFixture()
	low := LowStock(all, "mart", RateManual, testNow)

	b := BuildBasket(all, low, "mart")
	if len(b.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(b.Rows))
	}
	rice := b.Rows[0]
	if rice.Store != "Mart" || rice.Source != SourceStore || rice.Note != NoteInStore {
		t.Fatalf("expected in-store Mart price, got %+v", rice)
	}
	if !approx(*rice.EstimatedCost, 10) {
		t.Fatalf("rice cost = %v, want 10", *rice.EstimatedCost)
	}
}

func TestBuildBasket_StoreFilterFallsBackToBest(t *testing.T) {
	soapAtCorner := priced("Soap", "Corner", 4, 2, "pcs")
	soapAtMart := &models.Item{Name: "Soap", Store: "Mart", Unit: "pcs", Threshold: 3, Quantity: 1}
	all := []*models.Item{soapAtMart, soapAtCorner}

	b := BuildBasket(all, []*models.Item{soapAtMart}, "Mart")
	row := b.Rows[0]
	if row.Source != SourceBest || row.Store != "Corner" {
		t.Fatalf("expected fallback to Corner best price, got %+v", row)
	}
	if !approx(*row.EstimatedCost, 4) || !approx(b.Total, 4) {
		t.Fatalf("unexpected cost %v / total %v", *row.EstimatedCost, b.Total)
	}
}

func TestBuildBasket_Empty(t *testing.T) {
	b := BuildBasket(nil, nil, "")
	if b.Rows == nil || len(b.Rows) != 0 || b.Total != 0 {
		t.Fatalf("unexpected empty basket %+v", b)
	}
}
