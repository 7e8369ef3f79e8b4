package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/config"
)

const sentryFlushTimeout = 2 * time.Second

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty. Sentry
// performance traces follow the same ratio as OTel root spans.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		ServerName:       cfg.ServiceName,
		TracesSampleRate: cfg.TraceSampleRatio,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware attaches a per-request hub and captures panics.
// Repanic: true so the outer Recovery middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}

// CaptureError reports err on the request's hub, or the global hub outside
// SentryMiddleware, tagged with the acting org when there is one. Without a
// configured client it does nothing and returns nil.
func CaptureError(ctx context.Context, err error) *sentry.EventID {
	if err == nil {
		return nil
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return nil
	}
	var id *sentry.EventID
	hub.WithScope(func(scope *sentry.Scope) {
		if orgID, orgErr := auth.OrgIDFromCtx(ctx); orgErr == nil {
			scope.SetTag("org_id", orgID.String())
		}
		id = hub.CaptureException(err)
	})
	return id
}
