package services

import (
	"fmt"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// DefaultSpendMonths is the report window used when none is given.
const DefaultSpendMonths = 6

// MonthBucket is the purchase spend of one calendar month. Delta is the
// change from the previous bucket and is nil for the first one.
type MonthBucket struct {
	Month string   `json:"month"` // YYYY-MM
	Total float64  `json:"total"`
	Delta *float64 `json:"delta"`
}

// MonthlySpend buckets priced purchases into the trailing months calendar
// months ending with now's month, oldest first. Every priced "buy" event
// counts, and so does an item's last-purchase snapshot unless a logged buy
// with the same timestamp and price already records it. Purchases outside the
// window are ignored.
func MonthlySpend(items []*models.Item, months int, now time.Time) []MonthBucket {
	if months <= 0 {
		months = DefaultSpendMonths
	}
	loc := now.Location()
	first := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, loc)

	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := range buckets {
		key := monthKey(first.AddDate(0, i, 0))
		buckets[i].Month = key
		index[key] = i
	}

	add := func(ts time.Time, price float64) {
		if i, ok := index[monthKey(ts.In(loc))]; ok {
			buckets[i].Total += price
		}
	}

	for _, item := range items {
		for _, ev := range item.Activity {
			if ev.Type == models.ActivityBuy && ev.Price != nil {
				add(ev.Ts, *ev.Price)
			}
		}
		if item.PricePaid != nil && item.PurchaseTs != nil && !snapshotLogged(item) {
			add(*item.PurchaseTs, *item.PricePaid)
		}
	}

	for i := 1; i < len(buckets); i++ {
		d := buckets[i].Total - buckets[i-1].Total
		buckets[i].Delta = &d
	}
	return buckets
}

// snapshotLogged reports whether item's last-purchase snapshot is the
// result of a priced buy in its activity log.
func snapshotLogged(item *models.Item) bool {
	for _, ev := range item.Activity {
		if ev.Type == models.ActivityBuy && ev.Price != nil &&
			*ev.Price == *item.PricePaid && ev.Ts.Equal(*item.PurchaseTs) {
			return true
		}
	}
	return false
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
