package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/restocker/pkg/cache"
	"github.com/ghuser/restocker/pkg/config"
	"github.com/ghuser/restocker/pkg/database"
	"github.com/ghuser/restocker/pkg/events"
	"github.com/ghuser/restocker/pkg/logger"
	"github.com/ghuser/restocker/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass it to every service's route function during server initialization.
//
// app.Logger is trace-aware: use the context methods and trace_id, span_id
// and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "activity logged", "item_id", id)
//
// Redis, TemporalClient and SessionStore may be nil when the corresponding
// backend is not configured; services degrade instead of failing.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store // nil in the worker process
}
