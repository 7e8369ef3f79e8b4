package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/pkg/errhttp"
	"github.com/ghuser/inventra/pkg/events"
	"github.com/ghuser/inventra/pkg/logger"
)

// Application holds shared infrastructure dependencies for all bounded
// contexts. Pass it to each context's Routes function during server
// initialization; the context wires its own repositories from it.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "order confirmed", "order_id", id)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient // nil disables caching and idempotency keys
	SessionStore sessions.Store     // Redis-backed session store; nil in worker process
}

// Errors returns the error responder configured for this environment.
func (a *Application) Errors() errhttp.Responder {
	return errhttp.Responder{
		IsProduction: a.Config != nil && a.Config.IsProduction(),
		Log:          a.Logger,
	}
}
