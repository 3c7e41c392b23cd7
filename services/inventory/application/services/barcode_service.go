package services

import (
	"context"
	"strings"
	"time"

	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	domainevents "github.com/ghuser/restocker/services/inventory/domain/events"
	infracache "github.com/ghuser/restocker/services/inventory/infrastructure/cache"
)

// BarcodeStore caches barcode lookups.
type BarcodeStore interface {
	Get(ctx context.Context, code string) (*infracache.BarcodeEntry, error)
	Set(ctx context.Context, entry infracache.BarcodeEntry) error
}

// BarcodeService resolves scanned barcodes to a name and unit learned from
// previously saved items.
type BarcodeService struct {
	store BarcodeStore
}

// NewBarcodeService returns a BarcodeService. A nil store makes every lookup
// miss.
func NewBarcodeService(store BarcodeStore) *BarcodeService {
	return &BarcodeService{store: store}
}

// Lookup returns ErrBarcodeNotFound when the code was never seen or expired.
func (s *BarcodeService) Lookup(ctx context.Context, code string) (*infracache.BarcodeEntry, error) {
	if s.store == nil {
		return nil, itemdomain.ErrBarcodeNotFound
	}
	return s.store.Get(ctx, code)
}

// Remember caches the barcode carried by a saved item, if any.
func (s *BarcodeService) Remember(ctx context.Context, evt domainevents.ItemSavedEvent) error {
	if s.store == nil || strings.TrimSpace(evt.Barcode) == "" {
		return nil
	}
	at := evt.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	return s.store.Set(ctx, infracache.BarcodeEntry{
		Code:     evt.Barcode,
		Name:     evt.Name,
		Unit:     evt.Unit,
		CachedAt: at,
	})
}
