package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/restocker/pkg/database"
	"github.com/ghuser/restocker/pkg/events"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	domainevents "github.com/ghuser/restocker/services/inventory/domain/events"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	"github.com/ghuser/restocker/services/inventory/domain/repositories"
	"github.com/ghuser/restocker/services/inventory/infrastructure/persistence/postgres/db"
)

const eventVersion = 1

// Postgres error codes mapped to domain errors.
const (
	pgCheckViolation = "23514"
	pgNotNull        = "23502"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. When bus is nil no events are published.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// List returns every stored item in storage order.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	items := make([]*models.Item, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns ErrItemNotFound if no item has the given id.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "query item")
	}
	return rowToItem(row)
}

// FindByNameKey returns the oldest item whose normalized name equals key.
func (r *ItemRepository) FindByNameKey(ctx context.Context, key string) (*models.Item, error) {
	row, err := db.New(r.db.DB()).FindItemByNameKey(ctx, key)
	if err != nil {
		return nil, notFoundOr(err, "query item by name")
	}
	return rowToItem(row)
}

// Add inserts item and publishes an ItemSavedEvent within the same transaction.
func (r *ItemRepository) Add(ctx context.Context, item *models.Item) (int64, error) {
	activity, err := marshalActivity(item.Activity)
	if err != nil {
		return 0, err
	}

	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		id, err := db.New(tx).InsertItem(ctx, db.InsertItemParams{
			Name:         item.Name.String(),
			NameKey:      item.Name.Key(),
			Category:     item.Category,
			Store:        item.Store,
			Notes:        item.Notes,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			Threshold:    item.Threshold,
			DailyUse:     nullFloat(item.DailyUse),
			PricePaid:    nullFloat(item.PricePaid),
			PurchaseTs:   nullTime(item.PurchaseTs),
			Barcode:      item.Barcode,
			NotifyBelow:  item.NotifyBelow,
			LastNotifyTs: nullTime(item.LastNotifyTs),
			Activity:     activity,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
		})
		if err != nil {
			return constraintOr(err, "insert item")
		}
		item.ID = id
		return r.publishSaved(ctx, tx, item, true)
	})
	if err != nil {
		return 0, err
	}
	return item.ID, nil
}

// Update replaces the stored record and publishes an ItemSavedEvent.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := update(ctx, db.New(tx), item); err != nil {
			return err
		}
		return r.publishSaved(ctx, tx, item, false)
	})
}

// Delete removes an item by id.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	n, err := db.New(r.db.DB()).DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// ApplyActivity locks the row with SELECT ... FOR UPDATE, lets fn mutate the
// item and writes it back together with an ActivityLoggedEvent. Concurrent
// calls for the same id are serialized by the row lock.
func (r *ItemRepository) ApplyActivity(ctx context.Context, id int64, fn repositories.ActivityFunc) (*models.Item, error) {
	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		row, err := q.GetItemByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "lock item")
		}
		if item, err = rowToItem(row); err != nil {
			return err
		}

		ev, err := fn(item)
		if err != nil {
			return err
		}
		if err := update(ctx, q, item); err != nil {
			return err
		}
		return r.publishActivity(ctx, tx, item, ev)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// MarkNotified stamps last_notify_ts without touching the rest of the record.
func (r *ItemRepository) MarkNotified(ctx context.Context, id int64, ts time.Time) error {
	n, err := db.New(r.db.DB()).MarkItemNotified(ctx, db.MarkItemNotifiedParams{
		ID:           id,
		LastNotifyTs: sql.NullTime{Time: ts, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("mark item notified: %w", err)
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

func update(ctx context.Context, q *db.Queries, item *models.Item) error {
	activity, err := marshalActivity(item.Activity)
	if err != nil {
		return err
	}
	n, err := q.UpdateItem(ctx, db.UpdateItemParams{
		ID:           item.ID,
		Name:         item.Name.String(),
		NameKey:      item.Name.Key(),
		Category:     item.Category,
		Store:        item.Store,
		Notes:        item.Notes,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		Threshold:    item.Threshold,
		DailyUse:     nullFloat(item.DailyUse),
		PricePaid:    nullFloat(item.PricePaid),
		PurchaseTs:   nullTime(item.PurchaseTs),
		Barcode:      item.Barcode,
		NotifyBelow:  item.NotifyBelow,
		LastNotifyTs: nullTime(item.LastNotifyTs),
		Activity:     activity,
		UpdatedAt:    item.UpdatedAt,
	})
	if err != nil {
		return constraintOr(err, "update item")
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) publishSaved(ctx context.Context, tx *sql.Tx, item *models.Item, created bool) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.ItemSavedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		Unit:       item.Unit,
		Store:      item.Store,
		Barcode:    item.Barcode,
		Created:    created,
		OccurredAt: item.UpdatedAt,
	}
	msg, err := events.NewJSONMessage(event.EventID.String(), event.Version, event)
	if err != nil {
		return err
	}
	if err := r.bus.PublishTx(ctx, tx, domainevents.TopicItemSaved, msg); err != nil {
		return fmt.Errorf("publish item saved: %w", err)
	}
	return nil
}

func (r *ItemRepository) publishActivity(ctx context.Context, tx *sql.Tx, item *models.Item, ev models.ActivityEvent) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.ActivityLoggedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		ItemID:     item.ID,
		Type:       string(ev.Type),
		Qty:        ev.Qty,
		Price:      ev.Price,
		Quantity:   item.Quantity,
		OccurredAt: ev.Ts,
	}
	msg, err := events.NewJSONMessage(event.EventID.String(), event.Version, event)
	if err != nil {
		return err
	}
	if err := r.bus.PublishTx(ctx, tx, domainevents.TopicActivityLogged, msg); err != nil {
		return fmt.Errorf("publish activity logged: %w", err)
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return itemdomain.ErrItemNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// constraintOr maps schema constraint violations to ErrInvalidItem.
func constraintOr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNull) {
		return fmt.Errorf("%w: %s", itemdomain.ErrInvalidItem, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func marshalActivity(activity []models.ActivityEvent) (json.RawMessage, error) {
	if activity == nil {
		activity = []models.ActivityEvent{}
	}
	b, err := json.Marshal(activity)
	if err != nil {
		return nil, fmt.Errorf("marshal activity: %w", err)
	}
	return b, nil
}

// rowToItem maps a db.InventoryItem to a domain models.Item.
func rowToItem(row db.InventoryItem) (*models.Item, error) {
	item := &models.Item{
		ID:           row.ID,
		Name:         models.ItemName(row.Name),
		Category:     row.Category,
		Store:        row.Store,
		Notes:        row.Notes,
		Unit:         row.Unit,
		Quantity:     row.Quantity,
		Threshold:    row.Threshold,
		DailyUse:     floatPtr(row.DailyUse),
		PricePaid:    floatPtr(row.PricePaid),
		PurchaseTs:   timePtr(row.PurchaseTs),
		Barcode:      row.Barcode,
		NotifyBelow:  row.NotifyBelow,
		LastNotifyTs: timePtr(row.LastNotifyTs),
		Activity:     []models.ActivityEvent{},
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if len(row.Activity) > 0 {
		if err := json.Unmarshal(row.Activity, &item.Activity); err != nil {
			return nil, fmt.Errorf("decode activity of item %d: %w", row.ID, err)
		}
	}
	return item, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
