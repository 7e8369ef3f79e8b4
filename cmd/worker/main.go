package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/inventra/pkg/app"
	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/cache"
	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/database"
	"github.com/ghuser/inventra/pkg/events"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/telemetry"
	itemEvents "github.com/ghuser/inventra/services/item/domain/events"
	soEvents "github.com/ghuser/inventra/services/salesorder/domain/events"
)

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

	log := logger.New(cfg, logger.WithContextAttrs(auth.LogAttrs))

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log, database.WithMaxRetries(cfg.TxMaxRetries))
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.New(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
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

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	itemCache := cache.NewItemCache(a.Redis)
	subs := []struct {
		topic   string
		handler events.Handler
	}{
		{itemEvents.TopicItemCreated, handleItemCreated(a, itemCache)},
		{soEvents.TopicStockAdjusted, handleStockAdjusted(a, itemCache)},
	}

	topics := make([]string, 0, len(subs))
	for _, s := range subs {
		errCh, err := a.EventBus.Subscribe(ctx, s.topic, s.handler)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(s.topic)
		topics = append(topics, s.topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemCreated returns a handler for item.created events.
// Handlers must be idempotent: EventBus retries up to 3x on failure.
// Warms the Redis read-model cache so subsequent GetByID calls are served from cache.
func handleItemCreated(a *app.Application, itemCache *cache.ItemCache) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}

		if err := itemCache.Set(ctx, &cache.CachedItem{
			ID:        evt.ItemID,
			OrgID:     evt.OrgID,
			SKU:       evt.SKU,
			Name:      evt.Name,
			Rate:      evt.Rate,
			Stock:     evt.Stock,
			CreatedAt: evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for item.created",
				"item_id", evt.ItemID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed",
				"item_id", evt.ItemID, "org_id", evt.OrgID)
		}

		return nil
	}
}

// handleStockAdjusted drops cached items whose stock a sales order moved.
// A failed delete is returned so the message is retried; a stale cached
// stock figure would otherwise outlive the change.
func handleStockAdjusted(a *app.Application, itemCache *cache.ItemCache) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt soEvents.StockAdjustedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}
		if len(evt.Adjustments) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(evt.Adjustments))
		for _, adj := range evt.Adjustments {
			ids = append(ids, adj.ItemID)
		}
		if err := itemCache.Delete(ctx, evt.OrgID, ids...); err != nil {
			return fmt.Errorf("invalidate item cache: %w", err)
		}

		a.Logger.InfoContext(ctx, "item cache invalidated",
			"order_id", evt.OrderID, "org_id", evt.OrgID, "items", len(ids))
		return nil
	}
}
