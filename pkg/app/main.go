package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/events"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/pkg/workflows"
	"github.com/ghuser/marketledger/services/market/domain/repositories"
	"github.com/ghuser/marketledger/services/market/infrastructure/token"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service *Routes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler — use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.DB
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil when TEMPORAL_ENABLED=false
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
	Ledger         repositories.Ledger
	Token          token.Service
}
