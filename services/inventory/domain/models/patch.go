package models

import "time"

// ItemPatch is a partial item as found in import payloads. Nil fields are
// absent and leave the target untouched; present fields override it.
type ItemPatch struct {
	Name         *string         `json:"name"`
	Category     *string         `json:"category"`
	Store        *string         `json:"store"`
	Notes        *string         `json:"notes"`
	Unit         *string         `json:"unit"`
	Quantity     *float64        `json:"quantity"`
	Threshold    *float64        `json:"threshold"`
	DailyUse     *float64        `json:"dailyUse"`
	PricePaid    *float64        `json:"pricePaid"`
	PurchaseTs   *time.Time      `json:"purchaseTs"`
	Barcode      *string         `json:"barcode"`
	NotifyBelow  *bool           `json:"notifyBelow"`
	LastNotifyTs *time.Time      `json:"lastNotifyTs"`
	Activity     []ActivityEvent `json:"activity"`
}

// NameKey returns the normalized name of the patch, or "" when absent.
func (p ItemPatch) NameKey() string {
	if p.Name == nil {
		return ""
	}
	return NameKey(*p.Name)
}

// ApplyTo merges the present fields of p onto item. The item's ID and
// CreatedAt are never touched.
func (p ItemPatch) ApplyTo(item *Item) {
	if p.Name != nil {
		item.Name = ItemName(*p.Name)
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Store != nil {
		item.Store = *p.Store
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Threshold != nil {
		item.Threshold = *p.Threshold
	}
	if p.DailyUse != nil {
		item.DailyUse = cloneFloat(p.DailyUse)
	}
	if p.PricePaid != nil {
		item.PricePaid = cloneFloat(p.PricePaid)
	}
	if p.PurchaseTs != nil {
		item.PurchaseTs = cloneTime(p.PurchaseTs)
	}
	if p.Barcode != nil {
		item.Barcode = *p.Barcode
	}
	if p.NotifyBelow != nil {
		item.NotifyBelow = *p.NotifyBelow
	}
	if p.LastNotifyTs != nil {
		item.LastNotifyTs = cloneTime(p.LastNotifyTs)
	}
	if p.Activity != nil {
		item.Activity = append([]ActivityEvent(nil), p.Activity...)
	}
}
