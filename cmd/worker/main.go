package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/events"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/pkg/telemetry"
	marketEvents "github.com/ghuser/marketledger/services/market/domain/events"
	"github.com/ghuser/marketledger/services/market/domain/models"
	"github.com/ghuser/marketledger/services/market/infrastructure/persistence/postgres"
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

	log := logger.New(cfg)

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

	db, err := database.New(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close()

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
		Db:       db,
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

// registerSubscribers wires all market event handlers: each topic feeds the
// durable transaction archive, and ownership-changing topics also refresh the
// Redis item read model.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	archive := postgres.NewTransactionArchive(a.Db)
	itemCache := cache.NewItemCache(a.Redis)

	subscriptions := map[string]func(context.Context, *message.Message) error{
		marketEvents.TopicItemListed:   handleItemListed(a, archive),
		marketEvents.TopicItemRemoved:  handleItemRemoved(a, archive, itemCache),
		marketEvents.TopicItemRelisted: handleItemRelisted(a, archive, itemCache),
		marketEvents.TopicItemSold:     handleItemSold(a, archive, itemCache),
		marketEvents.TopicFeeChanged:   handleFeeChanged(a),
	}

	topics := make([]string, 0, len(subscriptions))
	for topic, handler := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		topics = append(topics, topic)

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemListed archives the initial ADD record of a new item.
// Handlers must be idempotent from the caller's point of view — the EventBus
// retries up to 3× on failure, and archive rows are deduplicated downstream by
// event ordering rather than uniqueness, so a redelivered message can produce
// a duplicate row. Consumers of the archive tolerate that.
func handleItemListed(a *app.Application, archive *postgres.TransactionArchive) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt marketEvents.ItemListedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := archive.Record(ctx, evt.ItemID, models.KindAdd, evt.Account, evt.Price, evt.OccurredAt); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "archived listing", "item_id", evt.ItemID, "account", evt.Account)
		return nil
	}
}

// handleItemRemoved archives the REMOVE record and downgrades the cached read
// model to unlisted.
func handleItemRemoved(a *app.Application, archive *postgres.TransactionArchive, itemCache *cache.ItemCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt marketEvents.ItemRemovedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := archive.Record(ctx, evt.ItemID, models.KindRemove, evt.Account, 0, evt.OccurredAt); err != nil {
			return err
		}

		refreshCachedItem(ctx, a, itemCache, evt.ItemID, func(c *cache.CachedItem) {
			c.Listed = false
			c.Price = 0
		})
		return nil
	}
}

// handleItemRelisted archives the new ADD record and restores the cached read
// model to listed at the new price.
func handleItemRelisted(a *app.Application, archive *postgres.TransactionArchive, itemCache *cache.ItemCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt marketEvents.ItemRelistedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := archive.Record(ctx, evt.ItemID, models.KindAdd, evt.Account, evt.Price, evt.OccurredAt); err != nil {
			return err
		}

		refreshCachedItem(ctx, a, itemCache, evt.ItemID, func(c *cache.CachedItem) {
			c.Listed = true
			c.Price = evt.Price
		})
		return nil
	}
}

// handleItemSold archives the BUY record and flips the cached read model to
// the buyer.
func handleItemSold(a *app.Application, archive *postgres.TransactionArchive, itemCache *cache.ItemCache) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt marketEvents.ItemSoldEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := archive.Record(ctx, evt.ItemID, models.KindBuy, evt.Buyer, evt.Price, evt.OccurredAt); err != nil {
			return err
		}

		refreshCachedItem(ctx, a, itemCache, evt.ItemID, func(c *cache.CachedItem) {
			c.Owner = evt.Buyer.String()
			c.Listed = false
		})
		return nil
	}
}

// handleFeeChanged records the change in the worker log for auditability; the
// fee itself lives on the ledger.
func handleFeeChanged(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt marketEvents.FeeChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "fee percentage changed",
			"account", evt.Account, "percentage", evt.Percentage)
		return nil
	}
}

// refreshCachedItem applies mutate to the cached entry if one exists. Cache
// maintenance is best-effort; a miss or Redis error never fails the handler.
func refreshCachedItem(ctx context.Context, a *app.Application, itemCache *cache.ItemCache, itemID uint64, mutate func(*cache.CachedItem)) {
	item, err := itemCache.Get(ctx, itemID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.Logger.WarnContext(ctx, "cache read failed", "item_id", itemID, "error", err)
		}
		return
	}

	mutate(item)
	if err := itemCache.Set(ctx, item); err != nil {
		a.Logger.WarnContext(ctx, "cache refresh failed", "item_id", itemID, "error", err)
	}
}
