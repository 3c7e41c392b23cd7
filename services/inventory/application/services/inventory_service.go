package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	pkgcache "github.com/ghuser/restocker/pkg/cache"
	"github.com/ghuser/restocker/pkg/logger"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	"github.com/ghuser/restocker/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// ItemView is an item together with the signals derived from it.
type ItemView struct {
	Item    *models.Item
	Signals domainsvcs.StockSignals
}

// ListQuery filters List. Zero values mean no filtering.
type ListQuery struct {
	Search  string // case-insensitive name substring
	Store   string
	LowOnly bool
	Mode    domainsvcs.RateMode
}

// UpsertResult counts the outcome of a bulk upsert.
type UpsertResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// InventoryService orchestrates item storage and the pure domain services.
// Event publishing is handled by the repository layer (outbox pattern).
// The spend report is served from a versioned Redis cache that every write
// invalidates.
type InventoryService struct {
	repo    repositories.ItemRepository
	reports *pkgcache.VersionedCache
	log     logger.Logger
	metrics *inventoryMetrics
	now     func() time.Time
}

// NewInventoryService returns an InventoryService. reports may wrap a nil
// Redis client, in which case the spend report is computed on every call.
func NewInventoryService(repo repositories.ItemRepository, reports *pkgcache.VersionedCache, log logger.Logger) *InventoryService {
	if reports == nil {
		reports = pkgcache.NewVersionedCache(nil, "reports", 0)
	}
	return &InventoryService{
		repo:    repo,
		reports: reports,
		log:     log,
		metrics: newInventoryMetrics(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create sanitizes, validates and stores a new item.
func (s *InventoryService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	now := s.now()
	item.ID = 0
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := prepare(item); err != nil {
		return nil, err
	}

	if _, err := s.repo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	s.invalidateReports(ctx)
	return item, nil
}

// Get returns one item by id.
func (s *InventoryService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update merges patch onto the stored item and replaces the record.
// The id and creation time are preserved.
func (s *InventoryService) Update(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	patch.ApplyTo(item)
	item.UpdatedAt = s.now()
	if err := prepare(item); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.invalidateReports(ctx)
	return item, nil
}

// Replace overwrites the editable fields of the stored item with item.
// Identity, creation time, activity history and the alert throttle are kept.
func (s *InventoryService) Replace(ctx context.Context, id int64, item *models.Item) (*models.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.Activity = existing.Activity
	item.LastNotifyTs = existing.LastNotifyTs
	item.UpdatedAt = s.now()
	if err := prepare(item); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.invalidateReports(ctx)
	return item, nil
}

// Delete removes an item and its activity history.
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.invalidateReports(ctx)
	return nil
}

// List returns the items matching q with their signals, sorted by name.
func (s *InventoryService) List(ctx context.Context, q ListQuery) ([]ItemView, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	now := s.now()
	search := strings.ToLower(strings.TrimSpace(q.Search))
	store := strings.TrimSpace(q.Store)
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		if search != "" && !strings.Contains(strings.ToLower(item.Name.String()), search) {
			continue
		}
		if store != "" && !strings.EqualFold(strings.TrimSpace(item.Store), store) {
			continue
		}
		signals := domainsvcs.Evaluate(item, q.Mode, now)
		if q.LowOnly && !signals.Low {
			continue
		}
		views = append(views, ItemView{Item: item, Signals: signals})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return strings.ToLower(views[i].Item.Name.String()) < strings.ToLower(views[j].Item.Name.String())
	})
	return views, nil
}

// LogActivity applies a use/buy event to one item inside a single-record
// transaction and returns the updated item.
func (s *InventoryService) LogActivity(ctx context.Context, id int64, ev models.ActivityEvent) (*models.Item, error) {
	now := s.now()
	item, err := s.repo.ApplyActivity(ctx, id, func(item *models.Item) (models.ActivityEvent, error) {
		return domainsvcs.ApplyActivity(item, ev, now)
	})
	if err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}

	s.metrics.activities.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(ev.Type))))
	if ev.Type == models.ActivityBuy {
		s.invalidateReports(ctx)
	}
	return item, nil
}

// BulkUpsert merges each patch onto the existing item with the same
// normalized name, or inserts it. Records are processed independently: a
// failure is collected and the batch continues. Earlier writes are kept.
func (s *InventoryService) BulkUpsert(ctx context.Context, patches []models.ItemPatch) (UpsertResult, error) {
	var (
		res  UpsertResult
		errs []error
	)
	for i, patch := range patches {
		created, err := s.upsert(ctx, patch)
		switch {
		case err != nil:
			res.Failed++
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		case created:
			res.Created++
		default:
			res.Updated++
		}
	}

	s.metrics.upserts.Add(ctx, int64(res.Created), metric.WithAttributes(attribute.String("outcome", "created")))
	s.metrics.upserts.Add(ctx, int64(res.Updated), metric.WithAttributes(attribute.String("outcome", "updated")))
	s.metrics.upserts.Add(ctx, int64(res.Failed), metric.WithAttributes(attribute.String("outcome", "failed")))
	if res.Created+res.Updated > 0 {
		s.invalidateReports(ctx)
	}
	return res, errors.Join(errs...)
}

func (s *InventoryService) upsert(ctx context.Context, patch models.ItemPatch) (created bool, err error) {
	key := patch.NameKey()
	if key == "" {
		return false, fmt.Errorf("%w: name is required", itemdomain.ErrInvalidItem)
	}

	now := s.now()
	existing, err := s.repo.FindByNameKey(ctx, key)
	switch {
	case err == nil:
		patch.ApplyTo(existing)
		existing.UpdatedAt = now
		if err := prepare(existing); err != nil {
			return false, err
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("update item: %w", err)
		}
		return false, nil
	case errors.Is(err, itemdomain.ErrItemNotFound):
		item := models.NewItem("")
		item.CreatedAt = now
		item.UpdatedAt = now
		patch.ApplyTo(item)
		if err := prepare(item); err != nil {
			return false, err
		}
		if _, err := s.repo.Add(ctx, item); err != nil {
			return false, fmt.Errorf("add item: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("find item: %w", err)
	}
}

// Import parses a JSON array of partial items and bulk upserts it. A payload
// that is not a JSON array is rejected with ErrImportParse before any write.
func (s *InventoryService) Import(ctx context.Context, payload []byte) (UpsertResult, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return UpsertResult{}, fmt.Errorf("%w: expected a JSON array", itemdomain.ErrImportParse)
	}
	var patches []models.ItemPatch
	if err := json.Unmarshal(trimmed, &patches); err != nil {
		return UpsertResult{}, fmt.Errorf("%w: %w", itemdomain.ErrImportParse, err)
	}
	return s.BulkUpsert(ctx, patches)
}

// Export returns every item ordered by id, ready for a JSON backup.
func (s *InventoryService) Export(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Basket builds the restock list for store ("" means every store).
func (s *InventoryService) Basket(ctx context.Context, store string, mode domainsvcs.RateMode) (domainsvcs.Basket, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return domainsvcs.Basket{}, fmt.Errorf("list items: %w", err)
	}
	store = strings.TrimSpace(store)
	low := domainsvcs.LowStock(items, store, mode, s.now())
	return domainsvcs.BuildBasket(items, low, store), nil
}

// BestPrice finds the cheapest known unit price for name, optionally at one
// store. A non-empty unit restricts the comparison to that unit's kind;
// otherwise the first priced match decides it. It returns ErrItemNotFound
// when no priced item matches.
func (s *InventoryService) BestPrice(ctx context.Context, name, store, unit string) (domainsvcs.PriceQuote, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return domainsvcs.PriceQuote{}, fmt.Errorf("list items: %w", err)
	}
	q := domainsvcs.PriceQuery{Name: name, Store: strings.TrimSpace(store)}
	if unit = strings.TrimSpace(unit); unit != "" {
		q.Kind = domainsvcs.UnitKind(unit)
	}
	quote, found := domainsvcs.FindBestPrice(items, q)
	if !found {
		return domainsvcs.PriceQuote{}, fmt.Errorf("%w: no priced item named %q", itemdomain.ErrItemNotFound, name)
	}
	return quote, nil
}

// Spend returns the monthly purchase totals for the trailing months window.
// Results are cached per window and calendar month until the next write.
func (s *InventoryService) Spend(ctx context.Context, months int) ([]domainsvcs.MonthBucket, error) {
	if months <= 0 {
		months = domainsvcs.DefaultSpendMonths
	}
	now := s.now()
	var loadErr error
	load := func(ctx context.Context) (any, error) {
		items, err := s.repo.List(ctx)
		if err != nil {
			loadErr = fmt.Errorf("list items: %w", err)
			return nil, loadErr
		}
		return domainsvcs.MonthlySpend(items, months, now), nil
	}

	var buckets []domainsvcs.MonthBucket
	key, err := s.reports.BuildKey(ctx, "spend", strconv.Itoa(months), now.Format("2006-01"))
	if err == nil {
		err = s.reports.FetchJSON(ctx, key, &buckets, load)
	}
	if loadErr != nil {
		return nil, loadErr
	}
	if err == nil {
		return buckets, nil
	}

	// The cache is optional; compute directly when Redis misbehaves.
	s.log.WarnContext(ctx, "spend report cache unavailable", "error", err)
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return v.([]domainsvcs.MonthBucket), nil
}

func (s *InventoryService) invalidateReports(ctx context.Context) {
	if err := s.reports.Bump(ctx); err != nil {
		s.log.WarnContext(ctx, "invalidate report cache", "error", err)
	}
}

// prepare runs the canonical sanitization and validation used on every
// write path.
func prepare(item *models.Item) error {
	item.Sanitize()
	if err := domainsvcs.ValidateItem(item); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	return nil
}
