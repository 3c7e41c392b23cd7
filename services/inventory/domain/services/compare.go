package services

import (
	"strings"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// UnspecifiedStore labels prices observed without a store.
const UnspecifiedStore = "Unspecified"

// PriceQuery selects the candidates for a best-price lookup. Name is always
// required; Store narrows the search when set. Prices of different kinds are
// never compared: an empty Kind takes the kind of the first priced match.
type PriceQuery struct {
	Name  string
	Store string
	Kind  string
}

// PriceQuote is the cheapest normalized price found for a query.
type PriceQuote struct {
	ItemID int64     `json:"item_id"`
	Store  string    `json:"store"`
	Price  UnitPrice `json:"price"`
}

// BestPrice returns the cheapest known unit price across all items named
// name (case-insensitive) that share the first priced match's kind. The
// first item wins an exact tie.
func BestPrice(items []*models.Item, name string) (PriceQuote, bool) {
	return FindBestPrice(items, PriceQuery{Name: name})
}

// BestPriceAtStore is BestPrice restricted to items bought at store.
func BestPriceAtStore(items []*models.Item, name, store string) (PriceQuote, bool) {
	return FindBestPrice(items, PriceQuery{Name: name, Store: store})
}

// FindBestPrice scans items in order and keeps the strictly cheapest match.
func FindBestPrice(items []*models.Item, q PriceQuery) (PriceQuote, bool) {
	var (
		best  PriceQuote
		found bool
	)
	for _, item := range items {
		if !item.Name.SameName(q.Name) {
			continue
		}
		if q.Store != "" && !sameStore(item.Store, q.Store) {
			continue
		}
		price := UnitPriceOf(item)
		if !price.Known() {
			continue
		}
		if q.Kind == "" {
			q.Kind = price.Kind
		}
		if price.Kind != q.Kind {
			continue
		}
		if !found || *price.Value < *best.Price.Value {
			best = PriceQuote{ItemID: item.ID, Store: StoreLabel(item.Store), Price: price}
			found = true
		}
	}
	return best, found
}

// StoreLabel returns store, or UnspecifiedStore when it is blank.
func StoreLabel(store string) string {
	if s := strings.TrimSpace(store); s != "" {
		return s
	}
	return UnspecifiedStore
}
