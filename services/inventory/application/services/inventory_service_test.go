package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/restocker/pkg/cache"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

func newService(repo *memRepo) *InventoryService {
	s := NewInventoryService(repo, nil, testLogger())
	s.now = fixedClock
	return s
}

func TestCreate_SanitizesAndStores(t *testing.T) {
	repo := newMemRepo()
	s := newService(repo)

	got, err := s.Create(context.Background(), &models.Item{
		ID:       99,
		Name:     "  Rice ",
		Quantity: -4,
		Unit:     " ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("ID = %d, want storage-assigned 1", got.ID)
	}
	if got.Name != "Rice" || got.Quantity != 0 || got.Unit != models.DefaultUnit {
		t.Errorf("item not sanitized: %+v", got)
	}
	if !got.CreatedAt.Equal(fixedNow) || got.Activity == nil {
		t.Errorf("unexpected defaults: created=%v activity=%v", got.CreatedAt, got.Activity)
	}
}

func TestCreate_RejectsBlankName(t *testing.T) {
	repo := newMemRepo()
	_, err := newService(repo).Create(context.Background(), &models.Item{Name: "   "})
	if !errors.Is(err, itemdomain.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
	if repo.count() != 0 {
		t.Error("invalid item must not reach storage")
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	repo := newMemRepo(item("Milk", func(i *models.Item) { i.Store = "Aldi"; i.Quantity = 2 }))
	s := newService(repo)

	got, err := s.Update(context.Background(), 1, models.ItemPatch{Quantity: ptr(5.0), Notes: ptr(" oat ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != 1 || got.Store != "Aldi" || got.Quantity != 5 || got.Notes != "oat" {
		t.Errorf("unexpected item %+v", got)
	}
	if !got.UpdatedAt.Equal(fixedNow) || got.CreatedAt.Equal(fixedNow) {
		t.Errorf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	_, err := newService(newMemRepo()).Update(context.Background(), 7, models.ItemPatch{})
	if !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestReplace_KeepsHistory(t *testing.T) {
	repo := newMemRepo(item("Milk", func(i *models.Item) {
		i.DailyUse = ptr(0.5)
		i.Activity = []models.ActivityEvent{{Type: models.ActivityUse, Qty: 1, Ts: fixedNow}}
	}))
	s := newService(repo)

	got, err := s.Replace(context.Background(), 1, &models.Item{Name: "Oat milk", Quantity: 2})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got.ID != 1 || got.Name != "Oat milk" || got.DailyUse != nil {
		t.Errorf("fields not replaced: %+v", got)
	}
	if len(got.Activity) != 1 || got.CreatedAt.Equal(fixedNow) {
		t.Errorf("history or creation time lost: %+v", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	if err := newService(newMemRepo()).Delete(context.Background(), 7); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	repo := newMemRepo(
		item("bread", func(i *models.Item) { i.Quantity = 1; i.Threshold = 2; i.Store = "Lidl" }),
		item("Apples", func(i *models.Item) { i.Quantity = 10; i.Store = "Aldi" }),
		item("Brown rice", func(i *models.Item) { i.Quantity = 500; i.Store = "aldi" }),
	)
	s := newService(repo)
	ctx := context.Background()

	all, err := s.List(ctx, ListQuery{Mode: domainsvcs.RateManual})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.Item.Name.String()
	}
	if len(names) != 3 || names[0] != "Apples" || names[1] != "bread" || names[2] != "Brown rice" {
		t.Errorf("unexpected order %v", names)
	}

	tests := []struct {
		name string
		q    ListQuery
		want int
	}{
		{"search is case-insensitive substring", ListQuery{Search: "BR"}, 2},
		{"store filter", ListQuery{Store: " ALDI "}, 2},
		{"low only", ListQuery{LowOnly: true}, 1},
		{"no match", ListQuery{Search: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d items, want %d", len(got), tt.want)
			}
		})
	}
}

func TestLogActivity_UseClampsAtZero(t *testing.T) {
	repo := newMemRepo(item("Eggs", func(i *models.Item) { i.Quantity = 3 }))
	got, err := newService(repo).LogActivity(context.Background(), 1, models.ActivityEvent{Type: models.ActivityUse, Qty: 5})
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if got.Quantity != 0 {
		t.Errorf("Quantity = %v, want 0", got.Quantity)
	}
	if len(got.Activity) != 1 || !got.Activity[0].Ts.Equal(fixedNow) {
		t.Errorf("unexpected activity %+v", got.Activity)
	}
}

func TestLogActivity_BuySetsPurchaseSnapshot(t *testing.T) {
	repo := newMemRepo(item("Eggs", func(i *models.Item) { i.Quantity = 1 }))
	ts := fixedNow.Add(-time.Hour)

	got, err := newService(repo).LogActivity(context.Background(), 1, models.ActivityEvent{Type: models.ActivityBuy, Qty: 2, Price: ptr(40.0), Ts: ts})
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if got.Quantity != 3 {
		t.Errorf("Quantity = %v, want 3", got.Quantity)
	}
	if got.PricePaid == nil || *got.PricePaid != 40 || got.PurchaseTs == nil || !got.PurchaseTs.Equal(ts) {
		t.Errorf("purchase snapshot not set: price=%v ts=%v", got.PricePaid, got.PurchaseTs)
	}
}

func TestLogActivity_Errors(t *testing.T) {
	repo := newMemRepo(item("Eggs"))
	s := newService(repo)

	if _, err := s.LogActivity(context.Background(), 42, models.ActivityEvent{Type: models.ActivityUse}); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Errorf("missing item: expected ErrItemNotFound, got %v", err)
	}
	if _, err := s.LogActivity(context.Background(), 1, models.ActivityEvent{Type: "gift"}); !errors.Is(err, itemdomain.ErrInvalidActivity) {
		t.Errorf("bad type: expected ErrInvalidActivity, got %v", err)
	}
}

func TestBulkUpsert_MatchesNormalizedName(t *testing.T) {
	repo := newMemRepo(item(" milk ", func(i *models.Item) { i.Store = "Aldi" }))
	s := newService(repo)

	res, err := s.BulkUpsert(context.Background(), []models.ItemPatch{{Name: ptr("Milk"), Quantity: ptr(1.0)}})
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if res.Updated != 1 || res.Created != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if repo.count() != 1 {
		t.Fatalf("expected no duplicate, have %d items", repo.count())
	}
	got, _ := repo.GetByID(context.Background(), 1)
	if got.Quantity != 1 || got.Store != "Aldi" {
		t.Errorf("existing record not merged: %+v", got)
	}
}

func TestBulkUpsert_ContinuesAfterFailure(t *testing.T) {
	repo := newMemRepo()
	repo.addErr = func(it *models.Item) error {
		if it.Name == "Broken" {
			return errBoom
		}
		return nil
	}
	s := newService(repo)

	res, err := s.BulkUpsert(context.Background(), []models.ItemPatch{
		{Name: ptr("Tea")},
		{Name: ptr("Broken")},
		{Quantity: ptr(3.0)},
		{Name: ptr("Coffee")},
		{Name: ptr("tea "), Quantity: ptr(4.0)},
	})
	if !errors.Is(err, errBoom) || !errors.Is(err, itemdomain.ErrInvalidItem) {
		t.Fatalf("expected joined storage and validation errors, got %v", err)
	}
	if res.Created != 2 || res.Updated != 1 || res.Failed != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if repo.count() != 2 {
		t.Errorf("expected earlier writes to be kept, have %d items", repo.count())
	}
}

func TestImport(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantParse bool
		wantCount int
	}{
		{"array", `[{"name":"Rice","unit":"g","quantity":1000},{"name":"Beans"}]`, false, 2},
		{"empty array", `[]`, false, 0},
		{"object", `{"name":"Rice"}`, true, 0},
		{"null", `null`, true, 0},
		{"garbage", `not json`, true, 0},
		{"truncated", `[{"name":"Rice"`, true, 0},
		{"blank", `  `, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			_, err := newService(repo).Import(context.Background(), []byte(tt.payload))
			if got := errors.Is(err, itemdomain.ErrImportParse); got != tt.wantParse {
				t.Fatalf("ErrImportParse = %v, want %v (err %v)", got, tt.wantParse, err)
			}
			if repo.count() != tt.wantCount {
				t.Errorf("stored %d items, want %d", repo.count(), tt.wantCount)
			}
		})
	}
}

func TestExport_OrderedByID(t *testing.T) {
	repo := newMemRepo(item("B"), item("A"), item("C"))
	items, err := newService(repo).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	for i, it := range items {
		if it.ID != int64(i+1) {
			t.Fatalf("position %d has id %d", i, it.ID)
		}
	}
}

func riceItems() *memRepo {
	return newMemRepo(
		item("Rice", func(i *models.Item) { i.Store = "A"; i.PricePaid = ptr(20.0); i.Quantity = 1000; i.Unit = "g" }),
		item("Rice", func(i *models.Item) { i.Store = "B"; i.PricePaid = ptr(15.0); i.Quantity = 1000; i.Unit = "g" }),
	)
}

func TestBestPrice(t *testing.T) {
	s := newService(riceItems())
	ctx := context.Background()

	q, err := s.BestPrice(ctx, "rice", "", "")
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if q.Store != "B" {
		t.Errorf("Store = %q, want B", q.Store)
	}

	q, err = s.BestPrice(ctx, "Rice", "a", "")
	if err != nil || q.Store != "A" {
		t.Errorf("store-restricted lookup: quote=%+v err=%v", q, err)
	}

	if _, err := s.BestPrice(ctx, "Saffron", "", ""); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	if _, err := s.BestPrice(ctx, "Rice", "", "ml"); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for a unit with no priced match, got %v", err)
	}
}

func TestBestPrice_UnitSelectsKind(t *testing.T) {
	s := newService(newMemRepo(
		item("Milk", func(i *models.Item) { i.Store = "A"; i.PricePaid = ptr(1.20); i.Quantity = 1; i.Unit = "l" }),
		item("Milk", func(i *models.Item) { i.Store = "B"; i.PricePaid = ptr(1.00); i.Quantity = 500; i.Unit = "ml" }),
	))
	ctx := context.Background()

	q, err := s.BestPrice(ctx, "milk", "", "")
	if err != nil {
		t.Fatalf("BestPrice: %v", err)
	}
	if want := map[string]string{"A": domainsvcs.KindLitre, "B": domainsvcs.KindPer100ml}[q.Store]; q.Price.Kind != want {
		t.Errorf("default kind: store %q quoted as %q, want %q", q.Store, q.Price.Kind, want)
	}
	q, err = s.BestPrice(ctx, "milk", "", "l")
	if err != nil || q.Store != "A" {
		t.Errorf("unit=l: quote=%+v err=%v, want store A", q, err)
	}
	q, err = s.BestPrice(ctx, "milk", "", "ml")
	if err != nil || q.Store != "B" || q.Price.Kind != domainsvcs.KindPer100ml {
		t.Errorf("unit=ml: quote=%+v err=%v, want store B per 100ml", q, err)
	}
}

func TestBasket(t *testing.T) {
	repo := riceItems()
	low := item("Rice", func(i *models.Item) { i.Store = "C"; i.Quantity = 100; i.Threshold = 600; i.Unit = "g" })
	_, _ = repo.Add(context.Background(), low)

	b, err := newService(repo).Basket(context.Background(), "", domainsvcs.RateManual)
	if err != nil {
		t.Fatalf("Basket: %v", err)
	}
	if len(b.Rows) != 1 {
		t.Fatalf("expected one low row, got %+v", b.Rows)
	}
	row := b.Rows[0]
	if row.Need != 500 || row.Store != "B" || row.EstimatedCost == nil || math.Abs(*row.EstimatedCost-7.5) > 1e-9 {
		t.Errorf("unexpected row %+v", row)
	}
}

func TestSpend_DefaultWindow(t *testing.T) {
	repo := newMemRepo(item("Milk", func(i *models.Item) {
		i.Activity = []models.ActivityEvent{{Type: models.ActivityBuy, Qty: 1, Price: ptr(50.0), Ts: fixedNow.Add(-time.Hour)}}
	}))
	buckets, err := newService(repo).Spend(context.Background(), 0)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if len(buckets) != domainsvcs.DefaultSpendMonths {
		t.Fatalf("got %d buckets", len(buckets))
	}
	for i, b := range buckets {
		want := 0.0
		if i == len(buckets)-1 {
			want = 50
		}
		if b.Total != want {
			t.Errorf("bucket %s total = %v, want %v", b.Month, b.Total, want)
		}
	}
}

func TestSpend_CachedUntilWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := pkgcache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })

	repo := newMemRepo(item("Milk", func(i *models.Item) {
		i.Activity = []models.ActivityEvent{{Type: models.ActivityBuy, Qty: 1, Price: ptr(50.0), Ts: fixedNow}}
	}))
	s := NewInventoryService(repo, pkgcache.NewVersionedCache(rc, "reports", time.Minute), testLogger())
	s.now = fixedClock
	ctx := context.Background()

	first, err := s.Spend(ctx, 3)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if first[2].Total != 50 || first[2].Delta == nil || *first[2].Delta != 50 {
		t.Fatalf("unexpected buckets %+v", first)
	}
	if !mr.Exists("spend:3:2024-06:v1") {
		t.Fatalf("expected cached report, keys: %v", mr.Keys())
	}

	repo.listErr = errBoom
	if _, err := s.Spend(ctx, 3); err != nil {
		t.Fatalf("cached Spend should not hit storage: %v", err)
	}
	repo.listErr = nil

	if _, err := s.LogActivity(ctx, 1, models.ActivityEvent{Type: models.ActivityBuy, Qty: 1, Price: ptr(10.0)}); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	again, err := s.Spend(ctx, 3)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if again[2].Total != 60 {
		t.Errorf("expected recomputed total 60 after buy, got %v", again[2].Total)
	}
}

func TestSpend_UseDoesNotChangeHistory(t *testing.T) {
	ts := fixedNow.Add(-48 * time.Hour)
	repo := newMemRepo(item("Oil", func(i *models.Item) { i.Quantity = 2; i.PricePaid = ptr(50.0); i.PurchaseTs = &ts }))
	s := newService(repo)
	ctx := context.Background()

	before, err := s.Spend(ctx, 1)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if _, err := s.LogActivity(ctx, 1, models.ActivityEvent{Type: models.ActivityUse, Qty: 1}); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	after, err := s.Spend(ctx, 1)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if before[0].Total != 50 || after[0].Total != 50 {
		t.Errorf("spend before use = %v, after use = %v, want 50", before[0].Total, after[0].Total)
	}
}

func TestSpend_StorageError(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = errBoom
	if _, err := newService(repo).Spend(context.Background(), 2); !errors.Is(err, errBoom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
