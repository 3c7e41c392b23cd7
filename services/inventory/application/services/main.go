package services

import (
	"github.com/ghuser/restocker/pkg/app"
	pkgcache "github.com/ghuser/restocker/pkg/cache"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
	infracache "github.com/ghuser/restocker/services/inventory/infrastructure/cache"
	"github.com/ghuser/restocker/services/inventory/infrastructure/persistence/postgres"
)

const reportsNamespace = "reports"

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Inventory   *InventoryService
	Preferences *PreferencesService
	Barcodes    *BarcodeService
	Notifier    *RestockNotifier
}

// New wires all inventory application services with infrastructure from the
// Application container. Without Redis, preferences fall back to defaults,
// barcode lookups miss and reports are computed on demand.
func New(a *app.Application) *Services {
	cfg := a.Config
	repo := postgres.NewItemRepository(a.Db, a.EventBus)

	mode, err := domainsvcs.ParseRateMode(cfg.DefaultRateMode)
	if err != nil {
		mode = domainsvcs.RateManual
	}

	var (
		prefsStore   PreferencesStore
		barcodeStore BarcodeStore
	)
	if a.Redis != nil {
		prefsStore = infracache.NewPreferencesStore(a.Redis)
		barcodeStore = infracache.NewBarcodeCache(a.Redis, cfg.BarcodeCacheTTL)
	}

	return &Services{
		Inventory:   NewInventoryService(repo, pkgcache.NewVersionedCache(a.Redis, reportsNamespace, cfg.ReportCacheTTL), a.Logger),
		Preferences: NewPreferencesService(prefsStore, mode),
		Barcodes:    NewBarcodeService(barcodeStore),
		Notifier:    NewRestockNotifier(repo, a.Logger, mode, cfg.NotifyThrottle),
	}
}
