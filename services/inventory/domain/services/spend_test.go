package services

import (
	"testing"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

func TestMonthlySpend_SingleBuyThisMonth(t *testing.T) {
	item := &models.Item{Name: "Oil", Activity: []models.ActivityEvent{
		{Type: models.ActivityBuy, Qty: 1, Price: ptr(50.0), Ts: testNow.AddDate(0, 0, -3)},
	}}
	buckets := MonthlySpend([]*models.Item{item}, 6, testNow)

	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	if buckets[0].Month != "2026-05" || buckets[5].Month != "2026-10" {
		t.Fatalf("unexpected window %s..%s", buckets[0].Month, buckets[5].Month)
	}
	for i, b := range buckets[:5] {
		if b.Total != 0 {
			t.Fatalf("bucket %d (%s) = %v, want 0", i, b.Month, b.Total)
		}
	}
	if buckets[5].Total != 50 {
		t.Fatalf("current month = %v, want exactly 50", buckets[5].Total)
	}
}

func TestMonthlySpend_SkipsUsesUnpricedAndOutOfWindow(t *testing.T) {
	item := &models.Item{Name: "Rice", Activity: []models.ActivityEvent{
		{Type: models.ActivityUse, Qty: 1, Ts: testNow},
		{Type: models.ActivityBuy, Qty: 1, Ts: testNow},
		{Type: models.ActivityBuy, Qty: 1, Price: ptr(12.0), Ts: time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)},
		{Type: models.ActivityBuy, Qty: 1, Price: ptr(99.0), Ts: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
	}}
	buckets := MonthlySpend([]*models.Item{item}, 3, testNow)
	want := []float64{0, 12, 0}
	for i, b := range buckets {
		if b.Total != want[i] {
			t.Fatalf("bucket %s = %v, want %v", b.Month, b.Total, want[i])
		}
	}
}

func TestMonthlySpend_SnapshotCountedOnce(t *testing.T) {
	ts := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	snapshot := &models.Item{Name: "Soap", PricePaid: ptr(8.0), PurchaseTs: &ts}
	withLog := &models.Item{Name: "Tea", PricePaid: ptr(5.0), PurchaseTs: &ts, Activity: []models.ActivityEvent{
		{Type: models.ActivityBuy, Qty: 1, Price: ptr(5.0), Ts: ts},
	}}
	buckets := MonthlySpend([]*models.Item{snapshot, withLog}, 12, testNow)
	if len(buckets) != 12 || buckets[0].Month != "2025-11" {
		t.Fatalf("unexpected window starting %s (len %d)", buckets[0].Month, len(buckets))
	}
	var aug MonthBucket
	for _, b := range buckets {
		if b.Month == "2026-08" {
			aug = b
		}
	}
	if aug.Total != 13 {
		t.Fatalf("August = %v, want 13 (snapshot 8 + logged buy 5)", aug.Total)
	}
}

func TestMonthlySpend_Deltas(t *testing.T) {
	item := &models.Item{Name: "Milk", Activity: []models.ActivityEvent{
		{Type: models.ActivityBuy, Price: ptr(10.0), Ts: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		{Type: models.ActivityBuy, Price: ptr(25.0), Ts: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
		{Type: models.ActivityBuy, Price: ptr(5.0), Ts: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)},
	}}
	buckets := MonthlySpend([]*models.Item{item}, 3, testNow)
	if buckets[0].Delta != nil {
		t.Fatal("first bucket must not have a delta")
	}
	if *buckets[1].Delta != 15 || *buckets[2].Delta != -20 {
		t.Fatalf("unexpected deltas %v, %v", *buckets[1].Delta, *buckets[2].Delta)
	}
}

func TestMonthlySpend_DefaultWindow(t *testing.T) {
	if got := len(MonthlySpend(nil, 0, testNow)); got != DefaultSpendMonths {
		t.Fatalf("expected %d buckets, got %d", DefaultSpendMonths, got)
	}
}

func TestMonthlySpend_UseKeepsSnapshotPurchase(t *testing.T) {
	ts := testNow.Add(-48 * time.Hour)
	item := &models.Item{Name: "Oil", Quantity: 2, PricePaid: ptr(50.0), PurchaseTs: &ts}

	before := MonthlySpend([]*models.Item{item}, 1, testNow)
	if _, err := ApplyActivity(item, models.ActivityEvent{Type: models.ActivityUse, Qty: 1}, testNow); err != nil {
		t.Fatalf("ApplyActivity: %v", err)
	}
	after := MonthlySpend([]*models.Item{item}, 1, testNow)

	if before[0].Total != 50 || after[0].Total != 50 {
		t.Fatalf("spend before use = %v, after use = %v, want 50 both times", before[0].Total, after[0].Total)
	}
}

func TestMonthlySpend_LoggedBuyNotDoubleCounted(t *testing.T) {
	item := &models.Item{Name: "Oil"}
	if _, err := ApplyActivity(item, models.ActivityEvent{Type: models.ActivityBuy, Qty: 1, Price: ptr(20.0), Ts: testNow.Add(-time.Hour)}, testNow); err != nil {
		t.Fatalf("ApplyActivity: %v", err)
	}
	buckets := MonthlySpend([]*models.Item{item}, 1, testNow)
	if buckets[0].Total != 20 {
		t.Fatalf("current month = %v, want 20", buckets[0].Total)
	}
}
