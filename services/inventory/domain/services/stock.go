package services

import (
	"strings"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// LowStockDays is the days-left level at or below which an item is low
// regardless of its threshold.
const LowStockDays = 3.0

// StockSignals bundles everything derived from a single item snapshot.
type StockSignals struct {
	DailyRate float64
	DaysLeft  float64 // +Inf when no rate is known
	Low       bool
	UnitPrice UnitPrice
}

// Evaluate derives the stock signals for item under the given rate mode.
func Evaluate(item *models.Item, mode RateMode, now time.Time) StockSignals {
	rate := DailyRate(item, mode, now)
	days := DaysLeft(item, mode, now)
	return StockSignals{
		DailyRate: rate,
		DaysLeft:  days,
		Low:       isLow(item, days),
		UnitPrice: UnitPriceOf(item),
	}
}

// IsLow reports whether item needs restocking: its quantity is at or below a
// positive threshold, or it runs out within LowStockDays at the selected rate.
func IsLow(item *models.Item, mode RateMode, now time.Time) bool {
	return isLow(item, DaysLeft(item, mode, now))
}

func isLow(item *models.Item, daysLeft float64) bool {
	if item.Threshold > 0 && item.Quantity <= item.Threshold {
		return true
	}
	return daysLeft <= LowStockDays
}

// LowStock returns the low items, restricted to store when store is not
// empty. An empty store means all stores.
func LowStock(items []*models.Item, store string, mode RateMode, now time.Time) []*models.Item {
	var out []*models.Item
	for _, item := range items {
		if store != "" && !sameStore(item.Store, store) {
			continue
		}
		if IsLow(item, mode, now) {
			out = append(out, item)
		}
	}
	return out
}

func sameStore(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
