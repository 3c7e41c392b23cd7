package models

import (
	"math"
	"strings"
	"time"
)

// DefaultUnit is assigned when an item is saved without a unit.
const DefaultUnit = "pcs"

// ActivityType distinguishes consumption from purchase events.
type ActivityType string

const (
	ActivityUse ActivityType = "use"
	ActivityBuy ActivityType = "buy"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	return t == ActivityUse || t == ActivityBuy
}

// ActivityEvent is one entry of an item's append-only history.
type ActivityEvent struct {
	Type  ActivityType `json:"type"`
	Qty   float64      `json:"qty"`
	Ts    time.Time    `json:"ts"`
	Price *float64     `json:"price"`
	Store string       `json:"store,omitempty"`
	Note  string       `json:"note,omitempty"`
}

// Item is the core aggregate for this bounded context. Activity is ordered
// newest-first and lives and dies with the item.
//
// JSON field names follow the backup format so exported files can be
// re-imported as-is.
type Item struct {
	ID           int64           `json:"id"`
	Name         ItemName        `json:"name"`
	Category     string          `json:"category"`
	Store        string          `json:"store"`
	Notes        string          `json:"notes"`
	Unit         string          `json:"unit"`
	Quantity     float64         `json:"quantity"`
	Threshold    float64         `json:"threshold"`
	DailyUse     *float64        `json:"dailyUse"`
	PricePaid    *float64        `json:"pricePaid"`
	PurchaseTs   *time.Time      `json:"purchaseTs"`
	Barcode      string          `json:"barcode,omitempty"`
	NotifyBelow  bool            `json:"notifyBelow"`
	LastNotifyTs *time.Time      `json:"lastNotifyTs"`
	Activity     []ActivityEvent `json:"activity"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewItem constructs an Item with the given name and timestamps set to now.
// The ID is assigned by storage on insert.
func NewItem(name ItemName) *Item {
	now := time.Now().UTC()
	return &Item{
		Name:      name,
		Unit:      DefaultUnit,
		Activity:  []ActivityEvent{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Sanitize coerces every field into its canonical shape. It is applied on
// every write path (create, update, bulk upsert) so stored records never
// carry negative quantities, non-finite numbers or stray whitespace.
func (i *Item) Sanitize() {
	i.Name = ItemName(strings.TrimSpace(i.Name.String()))
	i.Category = strings.TrimSpace(i.Category)
	i.Store = strings.TrimSpace(i.Store)
	i.Notes = strings.TrimSpace(i.Notes)
	i.Barcode = strings.TrimSpace(i.Barcode)
	i.Unit = strings.TrimSpace(i.Unit)
	if i.Unit == "" {
		i.Unit = DefaultUnit
	}

	i.Quantity = nonNegative(i.Quantity)
	i.Threshold = nonNegative(i.Threshold)
	if i.DailyUse != nil && !(isFinite(*i.DailyUse) && *i.DailyUse > 0) {
		i.DailyUse = nil
	}
	if i.PricePaid != nil && !(isFinite(*i.PricePaid) && *i.PricePaid >= 0) {
		i.PricePaid = nil
	}
	if i.Activity == nil {
		i.Activity = []ActivityEvent{}
	}
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	c.DailyUse = cloneFloat(i.DailyUse)
	c.PricePaid = cloneFloat(i.PricePaid)
	c.PurchaseTs = cloneTime(i.PurchaseTs)
	c.LastNotifyTs = cloneTime(i.LastNotifyTs)
	c.Activity = make([]ActivityEvent, len(i.Activity))
	for n, ev := range i.Activity {
		ev.Price = cloneFloat(ev.Price)
		c.Activity[n] = ev
	}
	return &c
}

func nonNegative(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
