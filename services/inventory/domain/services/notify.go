package services

import (
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// DefaultNotifyThrottle is the minimum gap between two restock alerts for
// the same item.
const DefaultNotifyThrottle = 24 * time.Hour

// ShouldAlert reports whether item is due a restock alert: it opted in with
// NotifyBelow, it is low, and the last alert is older than throttle.
func ShouldAlert(item *models.Item, mode RateMode, now time.Time, throttle time.Duration) bool {
	if !item.NotifyBelow {
		return false
	}
	if item.LastNotifyTs != nil && now.Sub(*item.LastNotifyTs) < throttle {
		return false
	}
	return IsLow(item, mode, now)
}
