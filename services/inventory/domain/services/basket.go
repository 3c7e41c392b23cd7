package services

import (
	"math"
	"sort"
	"strings"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// PriceSource tells where a basket row's unit price came from.
type PriceSource string

const (
	SourceStore PriceSource = "store"
	SourceBest  PriceSource = "best"
	SourceNone  PriceSource = "none"
)

// Basket annotations.
const (
	NoteInStore     = "in-store price"
	NoteBestPrice   = "best price"
	NoteNoPriceData = "no price data"
)

// BasketRow is one item to restock with its estimated cost.
type BasketRow struct {
	ItemID        int64       `json:"item_id"`
	Name          string      `json:"name"`
	Need          float64     `json:"need"`
	Unit          string      `json:"unit"`
	Store         string      `json:"store"`
	PriceLabel    string      `json:"price_label"`
	Source        PriceSource `json:"source"`
	Note          string      `json:"note"`
	EstimatedCost *float64    `json:"estimated_cost"`
}

// Basket is the restock list for one store filter.
type Basket struct {
	Store string      `json:"store"`
	Rows  []BasketRow `json:"rows"`
	Total float64     `json:"total"`
}

// NeedFor returns how much of item to buy: up to its threshold, or a nominal
// single unit when it has none.
func NeedFor(item *models.Item) float64 {
	if item.Threshold > 0 {
		return math.Max(0, item.Threshold-item.Quantity)
	}
	return 1
}

// EstimateCost prices need units at price, undoing the per-100 scaling of
// g100 and ml100 kinds. It returns nil when price is unknown.
func EstimateCost(need float64, price UnitPrice) *float64 {
	if !price.Known() {
		return nil
	}
	var cost float64
	switch price.Kind {
	case KindPer100g, KindPer100ml:
		cost = need / 100 * *price.Value
	default:
		cost = need * *price.Value
	}
	return &cost
}

// BuildBasket prices every item of low against the whole collection all.
// With a store filter the in-store price is preferred over the global best.
// Rows are sorted by name, case-insensitive; items without price data are
// listed with a nil cost and left out of the total.
func BuildBasket(all, low []*models.Item, store string) Basket {
	basket := Basket{Store: store, Rows: make([]BasketRow, 0, len(low))}
	for _, item := range low {
		row := BasketRow{
			ItemID: item.ID,
			Name:   item.Name.String(),
			Need:   NeedFor(item),
			Unit:   item.Unit,
		}

		quote, source := resolvePrice(all, item, store)
		switch source {
		case SourceNone:
			row.Store = StoreLabel(item.Store)
			row.PriceLabel = noPriceLabel
			row.Note = NoteNoPriceData
		case SourceStore:
			row.Store = quote.Store
			row.PriceLabel = quote.Price.Label
			row.Note = NoteInStore
		default:
			row.Store = quote.Store
			row.PriceLabel = quote.Price.Label
			row.Note = NoteBestPrice
		}
		row.Source = source

		if source != SourceNone {
			row.EstimatedCost = EstimateCost(row.Need, quote.Price)
			if row.EstimatedCost != nil {
				basket.Total += *row.EstimatedCost
			}
		}
		basket.Rows = append(basket.Rows, row)
	}

	sort.SliceStable(basket.Rows, func(i, j int) bool {
		return strings.ToLower(basket.Rows[i].Name) < strings.ToLower(basket.Rows[j].Name)
	})
	return basket
}

// resolvePrice looks for a price in the item's own kind so the estimate is
// computed in matching units.
func resolvePrice(all []*models.Item, item *models.Item, store string) (PriceQuote, PriceSource) {
	q := PriceQuery{Name: item.Name.String(), Kind: UnitKind(item.Unit)}
	if store != "" {
		q.Store = store
		if quote, ok := FindBestPrice(all, q); ok {
			return quote, SourceStore
		}
		q.Store = ""
	}
	if quote, ok := FindBestPrice(all, q); ok {
		return quote, SourceBest
	}
	return PriceQuote{}, SourceNone
}
