package repositories

import (
	"context"
	"time"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// ActivityFunc mutates a locked item in place and returns the event it
// applied, so the repository can publish it in the same transaction.
type ActivityFunc func(item *models.Item) (models.ActivityEvent, error)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
type ItemRepository interface {
	// List returns every stored item. No ordering is guaranteed.
	List(ctx context.Context) ([]*models.Item, error)

	// GetByID returns ErrItemNotFound when no item has the given id.
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// FindByNameKey returns the item whose normalized name equals key, or
	// ErrItemNotFound. When several match, the lowest id wins.
	FindByNameKey(ctx context.Context, key string) (*models.Item, error)

	// Add inserts item, assigns item.ID and returns it.
	Add(ctx context.Context, item *models.Item) (int64, error)

	// Update replaces the full stored record. Returns ErrItemNotFound when
	// item.ID does not exist.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes an item. Returns ErrItemNotFound when id does not exist.
	Delete(ctx context.Context, id int64) error

	// ApplyActivity locks the item, runs fn on it and persists the result
	// atomically. Returns ErrItemNotFound when id does not exist.
	ApplyActivity(ctx context.Context, id int64, fn ActivityFunc) (*models.Item, error)

	// MarkNotified stamps the restock alert throttle timestamp.
	MarkNotified(ctx context.Context, id int64, ts time.Time) error
}
