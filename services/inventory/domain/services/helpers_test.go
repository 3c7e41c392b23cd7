package services

import (
	"math"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func priced(name, store string, price, qty float64, unit string) *models.Item {
	return &models.Item{Name: models.ItemName(name), Store: store, PricePaid: ptr(price), Quantity: qty, Unit: unit}
}
