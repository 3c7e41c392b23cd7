package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghuser/restocker/pkg/app"
	"github.com/ghuser/restocker/pkg/cache"
	"github.com/ghuser/restocker/pkg/config"
	"github.com/ghuser/restocker/pkg/database"
	"github.com/ghuser/restocker/pkg/events"
	"github.com/ghuser/restocker/pkg/logger"
	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
)

// env is the infrastructure opened for a single command run.
type env struct {
	app  *app.Application
	svcs *appsvcs.Services
	done func()
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "restockctl",
		Short:         "Maintenance commands for the restocker inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	open := func(ctx context.Context) (*env, error) {
		return openEnv(ctx, logLevel)
	}

	root.AddCommand(
		importCommand(open),
		exportCommand(open),
		basketCommand(open),
		spendCommand(open),
		sweepCommand(open),
	)
	return root
}

type opener func(ctx context.Context) (*env, error)

// openEnv connects to the database and event bus. Redis is optional; without
// it preferences and caches are skipped.
func openEnv(ctx context.Context, logLevel string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewText(os.Stderr, logLevel)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	bus, err := events.NewEventBus(cfg, log)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("setup event bus: %w", err)
	}

	a := &app.Application{Config: cfg, Db: pool, Logger: log, EventBus: bus}
	closers := []func() error{bus.Close, pool.Close}
	if rc, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn("redis unavailable, continuing without caches", "error", err)
	} else {
		a.Redis = rc
		closers = append([]func() error{rc.Close}, closers...)
	}

	return &env{
		app:  a,
		svcs: appsvcs.New(a),
		done: func() {
			for _, c := range closers {
				_ = c()
			}
		},
	}, nil
}
