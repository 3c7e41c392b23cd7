package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/restocker/pkg/app"
	"github.com/ghuser/restocker/pkg/cache"
	"github.com/ghuser/restocker/pkg/config"
	"github.com/ghuser/restocker/pkg/database"
	"github.com/ghuser/restocker/pkg/events"
	"github.com/ghuser/restocker/pkg/logger"
	"github.com/ghuser/restocker/pkg/telemetry"
	pkgworkflows "github.com/ghuser/restocker/pkg/workflows"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
	inventoryWorkflows "github.com/ghuser/restocker/services/inventory/application/workflows"
	inventoryEvents "github.com/ghuser/restocker/services/inventory/domain/events"
)

const sweepScheduleID = "inventory-restock-sweep"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if cfg.TemporalEnabled {
		temporalClient, err := pkgworkflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
		appConfig.TemporalClient = temporalClient
	}

	svcs := appsvcs.New(appConfig)

	if err := registerSubscribers(ctx, appConfig, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if appConfig.TemporalClient != nil {
		stop, err := startTemporalWorker(ctx, appConfig, svcs)
		if err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer stop()
	} else {
		go runSweepLoop(ctx, appConfig, svcs.Notifier)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	handlers := map[string]func(context.Context, *message.Message) error{
		inventoryEvents.TopicItemSaved:      events.HandleJSON(handleItemSaved(a, svcs)),
		inventoryEvents.TopicActivityLogged: events.HandleJSON(handleActivityLogged(a, svcs)),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		go drainErrors(ctx, a, topic, errCh)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// drainErrors reports subscriber failures so the channel never blocks.
func drainErrors(ctx context.Context, a *app.Application, topic string, errCh <-chan error) {
	for err := range errCh {
		a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
		telemetry.CaptureError(ctx, err, map[string]string{"topic": topic})
	}
}

// handleItemSaved warms the barcode cache so the next scan of the same code
// prefills name and unit. Handlers must be idempotent; EventBus retries up
// to 3x on failure.
func handleItemSaved(a *app.Application, svcs *appsvcs.Services) func(context.Context, inventoryEvents.ItemSavedEvent) error {
	return func(ctx context.Context, evt inventoryEvents.ItemSavedEvent) error {
		if err := svcs.Barcodes.Remember(ctx, evt); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "barcode cache warm failed",
				"item_id", evt.ItemID, "error", err)
			return nil
		}
		if evt.Barcode != "" {
			a.Logger.InfoContext(ctx, "barcode cached", "item_id", evt.ItemID, "barcode", evt.Barcode)
		}
		return nil
	}
}

// handleActivityLogged re-checks the item right after its quantity changed.
func handleActivityLogged(a *app.Application, svcs *appsvcs.Services) func(context.Context, inventoryEvents.ActivityLoggedEvent) error {
	return func(ctx context.Context, evt inventoryEvents.ActivityLoggedEvent) error {
		alerted, err := svcs.Notifier.Check(ctx, evt.ItemID)
		if err != nil {
			return err
		}
		a.Logger.DebugContext(ctx, "restock check", "item_id", evt.ItemID, "alerted", alerted)
		return nil
	}
}

// startTemporalWorker registers the restock sweep on the configured task
// queue and makes sure its cron schedule exists.
func startTemporalWorker(ctx context.Context, a *app.Application, svcs *appsvcs.Services) (func(), error) {
	cfg := a.Config
	w := a.TemporalClient.NewWorker(cfg.TemporalTaskQueue, 2)
	inventoryWorkflows.Register(w, &inventoryWorkflows.Activities{Sweeper: svcs.Notifier})

	if err := a.TemporalClient.EnsureSchedule(ctx, pkgworkflows.Schedule{
		ID:        sweepScheduleID,
		Cron:      cfg.SweepCron,
		Workflow:  inventoryWorkflows.RestockSweepWorkflowName,
		TaskQueue: cfg.TemporalTaskQueue,
	}); err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	a.Logger.Info("temporal worker started", "task_queue", cfg.TemporalTaskQueue, "cron", cfg.SweepCron)
	return w.Stop, nil
}

// runSweepLoop is the in-process fallback for the restock sweep when
// Temporal is disabled. Runs until ctx is cancelled.
func runSweepLoop(ctx context.Context, a *app.Application, notifier *appsvcs.RestockNotifier) {
	interval := a.Config.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info("restock sweep loop shutting down")
			return
		case <-ticker.C:
			res, err := notifier.Sweep(ctx)
			if err != nil {
				a.Logger.ErrorContext(ctx, "restock sweep failed", "error", err)
				telemetry.CaptureError(ctx, err, map[string]string{"job": "restock_sweep"})
				continue
			}
			a.Logger.InfoContext(ctx, "restock sweep done", "checked", res.Checked, "alerted", res.Alerted)
		}
	}
}
