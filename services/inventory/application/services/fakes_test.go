package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/ghuser/restocker/pkg/logger"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	"github.com/ghuser/restocker/services/inventory/domain/repositories"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testLogger() logger.Logger {
	return logger.NewJSON(io.Discard, "error")
}

func fixedClock() time.Time { return fixedNow }

// memRepo is an in-memory ItemRepository. Items are cloned on the way in and
// out so tests observe only what was explicitly stored.
type memRepo struct {
	mu       sync.Mutex
	items    map[int64]*models.Item
	nextID   int64
	listErr  error
	addErr   func(*models.Item) error
	notified map[int64]time.Time
}

var _ repositories.ItemRepository = (*memRepo)(nil)

func newMemRepo(items ...*models.Item) *memRepo {
	r := &memRepo{items: map[int64]*models.Item{}, notified: map[int64]time.Time{}}
	for _, it := range items {
		r.nextID++
		c := it.Clone()
		c.ID = r.nextID
		r.items[c.ID] = c
	}
	return r
}

func (r *memRepo) List(context.Context) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]*models.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return it.Clone(), nil
}

func (r *memRepo) FindByNameKey(_ context.Context, key string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Item
	for _, it := range r.items {
		if it.Name.Key() == key && (best == nil || it.ID < best.ID) {
			best = it
		}
	}
	if best == nil {
		return nil, itemdomain.ErrItemNotFound
	}
	return best.Clone(), nil
}

func (r *memRepo) Add(_ context.Context, item *models.Item) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		if err := r.addErr(item); err != nil {
			return 0, err
		}
	}
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item.Clone()
	return item.ID, nil
}

func (r *memRepo) Update(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return itemdomain.ErrItemNotFound
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) ApplyActivity(_ context.Context, id int64, fn repositories.ActivityFunc) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	c := it.Clone()
	if _, err := fn(c); err != nil {
		return nil, err
	}
	r.items[id] = c.Clone()
	return c, nil
}

func (r *memRepo) MarkNotified(_ context.Context, id int64, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return itemdomain.ErrItemNotFound
	}
	t := ts
	it.LastNotifyTs = &t
	r.notified[id] = ts
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// memPrefs is an in-memory PreferencesStore.
type memPrefs struct {
	docs    map[string]models.Preferences
	loadErr error
}

func newMemPrefs() *memPrefs { return &memPrefs{docs: map[string]models.Preferences{}} }

func (m *memPrefs) Load(_ context.Context, device string) (models.Preferences, bool, error) {
	if m.loadErr != nil {
		return models.Preferences{}, false, m.loadErr
	}
	p, ok := m.docs[device]
	return p, ok, nil
}

func (m *memPrefs) Save(_ context.Context, device string, p models.Preferences) error {
	m.docs[device] = p
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func item(name string, mutate ...func(*models.Item)) *models.Item {
	it := models.NewItem(models.ItemName(name))
	it.CreatedAt = fixedNow.Add(-48 * time.Hour)
	it.UpdatedAt = it.CreatedAt
	for _, m := range mutate {
		m(it)
	}
	return it
}
