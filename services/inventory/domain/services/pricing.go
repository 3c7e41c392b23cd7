// Package services contains stateless domain services for the inventory
// bounded context: unit-price normalization, depletion estimates, low-stock
// classification, price comparison, basket building, the activity ledger and
// spend aggregation. Everything here is synchronous over an already-fetched
// snapshot and has zero dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// Normalized price kinds. Prices may only be compared within one kind.
const (
	KindPieces   = "pcs"
	KindPer100g  = "g100"
	KindPer100ml = "ml100"
	KindLitre    = "l"
)

const (
	currencyPrefix = "$"
	noPriceLabel   = "—"
)

// UnitPrice is a price normalized to a comparison granularity. Value is nil
// when no price can be derived.
type UnitPrice struct {
	Value *float64 `json:"value"`
	Label string   `json:"label"`
	Kind  string   `json:"kind"`
}

// Known reports whether the unit price carries a value.
func (p UnitPrice) Known() bool {
	return p.Value != nil
}

// NormalizeUnitPrice converts a total price for quantity units of unit into a
// comparable unit price: per piece, per 100g, per 100ml, per litre, or per
// the raw unit for anything else.
func NormalizeUnitPrice(pricePaid *float64, quantity float64, unit string) UnitPrice {
	u := normalizeUnit(unit)
	if pricePaid == nil || !isFinite(*pricePaid) || !(quantity > 0) {
		return UnitPrice{Label: noPriceLabel, Kind: u}
	}

	value := *pricePaid / quantity
	kind := UnitKind(u)
	if kind == KindPer100g || kind == KindPer100ml {
		value *= 100
	}
	return UnitPrice{
		Value: &value,
		Label: FormatMoney(value) + " " + perLabel(kind),
		Kind:  kind,
	}
}

// UnitPriceOf normalizes the last-purchase snapshot of item.
func UnitPriceOf(item *models.Item) UnitPrice {
	return NormalizeUnitPrice(item.PricePaid, item.Quantity, item.Unit)
}

// UnitKind maps a unit to the kind its prices normalize to.
func UnitKind(unit string) string {
	switch u := normalizeUnit(unit); u {
	case "g":
		return KindPer100g
	case "ml":
		return KindPer100ml
	default:
		return u
	}
}

// FormatMoney renders v with the currency prefix and two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%s%.2f", currencyPrefix, v)
}

func perLabel(kind string) string {
	switch kind {
	case KindPieces:
		return "per pc"
	case KindPer100g:
		return "per 100g"
	case KindPer100ml:
		return "per 100ml"
	case KindLitre:
		return "per L"
	case "":
		return "per unit"
	default:
		return "per " + kind
	}
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
