package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// NormalizeActivity returns ev in canonical form: qty is non-negative, a
// zero timestamp becomes now, negative or non-finite prices are dropped and text fields
// are trimmed. Unknown types are rejected with ErrInvalidActivity.
func NormalizeActivity(ev models.ActivityEvent, now time.Time) (models.ActivityEvent, error) {
	if !ev.Type.Valid() {
		return models.ActivityEvent{}, fmt.Errorf("%w: unknown type %q", itemdomain.ErrInvalidActivity, ev.Type)
	}
	if !isFinite(ev.Qty) || ev.Qty < 0 {
		ev.Qty = 0
	}
	if ev.Ts.IsZero() {
		ev.Ts = now
	}
	ev.Ts = ev.Ts.UTC()
	if ev.Price != nil {
		if isFinite(*ev.Price) && *ev.Price >= 0 {
			p := *ev.Price
			ev.Price = &p
		} else {
			ev.Price = nil
		}
	}
	ev.Store = strings.TrimSpace(ev.Store)
	ev.Note = strings.TrimSpace(ev.Note)
	return ev, nil
}

// ApplyActivity prepends ev to item's history and adjusts the running
// quantity: "use" subtracts (clamped at zero), "buy" adds. A priced purchase
// also replaces the last-purchase snapshot. It returns the normalized event.
func ApplyActivity(item *models.Item, ev models.ActivityEvent, now time.Time) (models.ActivityEvent, error) {
	ev, err := NormalizeActivity(ev, now)
	if err != nil {
		return models.ActivityEvent{}, err
	}

	item.Activity = append([]models.ActivityEvent{ev}, item.Activity...)

	switch ev.Type {
	case models.ActivityUse:
		item.Quantity = math.Max(0, item.Quantity-ev.Qty)
	case models.ActivityBuy:
		item.Quantity += ev.Qty
		if ev.Price != nil {
			price := *ev.Price
			ts := ev.Ts
			item.PricePaid = &price
			item.PurchaseTs = &ts
		}
	}
	item.UpdatedAt = now.UTC()
	return ev, nil
}
