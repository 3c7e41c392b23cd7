package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// RateMode selects where the daily consumption rate comes from.
type RateMode string

const (
	// RateManual uses the item's hand-entered DailyUse.
	RateManual RateMode = "manual"
	// RateAuto infers the rate from "use" events in the trailing window.
	RateAuto RateMode = "auto"
)

// UsageWindowDays is the length of the trailing window for inferred rates.
const UsageWindowDays = 30

// ParseRateMode parses "manual" or "auto" (case-insensitive).
func ParseRateMode(s string) (RateMode, error) {
	switch RateMode(strings.ToLower(strings.TrimSpace(s))) {
	case RateManual:
		return RateManual, nil
	case RateAuto:
		return RateAuto, nil
	default:
		return "", fmt.Errorf("unknown rate mode %q", s)
	}
}

// DailyRate returns the consumption per day for item, or 0 when no rate is
// known. Unknown modes behave like RateManual.
func DailyRate(item *models.Item, mode RateMode, now time.Time) float64 {
	if mode == RateAuto {
		return inferredRate(item.Activity, now)
	}
	if item.DailyUse != nil && *item.DailyUse > 0 {
		return *item.DailyUse
	}
	return 0
}

// DaysLeft projects how long the current quantity lasts at the selected
// rate. It returns +Inf when no rate is known.
func DaysLeft(item *models.Item, mode RateMode, now time.Time) float64 {
	rate := DailyRate(item, mode, now)
	if rate <= 0 {
		return math.Inf(1)
	}
	return item.Quantity / rate
}

// inferredRate averages "use" quantities over the trailing window. Events are
// selected by timestamp, so the order of activity does not matter.
func inferredRate(activity []models.ActivityEvent, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -UsageWindowDays)
	var used float64
	for _, ev := range activity {
		if ev.Type != models.ActivityUse {
			continue
		}
		if ev.Ts.Before(cutoff) || ev.Ts.After(now) {
			continue
		}
		used += ev.Qty
	}
	if used <= 0 {
		return 0
	}
	return used / UsageWindowDays
}
