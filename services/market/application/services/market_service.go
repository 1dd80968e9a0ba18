package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/marketledger/pkg/cache"
	"github.com/ghuser/marketledger/pkg/logger"
	marketdomain "github.com/ghuser/marketledger/services/market/domain"
	"github.com/ghuser/marketledger/services/market/domain/events"
	"github.com/ghuser/marketledger/services/market/domain/models"
	"github.com/ghuser/marketledger/services/market/domain/repositories"
	marketwf "github.com/ghuser/marketledger/services/market/workflows"
)

// EventPublisher is the slice of the event bus the market service needs.
// *events.EventBus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// MarketService orchestrates ledger operations: it runs the state transition
// on the authoritative ledger, then publishes the domain event and refreshes
// the Redis read model. Event publication and cache writes are best-effort;
// the ledger result is never held hostage by infrastructure.
type MarketService struct {
	ledger       repositories.Ledger
	publisher    EventPublisher
	cache        *pkgcache.ItemCache
	scheduler    marketwf.SettlementScheduler
	feeRecipient models.Account
	log          logger.Logger
}

// NewMarketService wires a MarketService. cache and scheduler may be nil;
// the corresponding side effects are skipped.
func NewMarketService(
	ledger repositories.Ledger,
	publisher EventPublisher,
	itemCache *pkgcache.ItemCache,
	scheduler marketwf.SettlementScheduler,
	feeRecipient models.Account,
	log logger.Logger,
) *MarketService {
	return &MarketService{
		ledger:       ledger,
		publisher:    publisher,
		cache:        itemCache,
		scheduler:    scheduler,
		feeRecipient: feeRecipient,
		log:          log,
	}
}

// ListItem creates a new listing owned by caller.
func (s *MarketService) ListItem(ctx context.Context, caller models.Account, name, description, image, location string, price uint64) (models.Item, error) {
	item, err := s.ledger.List(ctx, caller, name, description, image, location, price)
	if err != nil {
		return models.Item{}, err
	}

	s.publish(ctx, events.TopicItemListed, events.ItemListedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Account:    caller,
		Name:       item.Name,
		Price:      item.Price,
		OccurredAt: time.Now().UTC(),
	})
	s.refreshCache(item)

	return item, nil
}

// Buy purchases the item for buyer. On ErrPaymentFailed ownership has already
// transferred; the outstanding payouts are handed to the settlement workflow
// and the error still propagates so the caller sees the degraded outcome.
func (s *MarketService) Buy(ctx context.Context, itemID uint64, buyer models.Account) (models.Purchase, error) {
	purchase, err := s.ledger.Buy(ctx, itemID, buyer)
	if err != nil {
		if errors.Is(err, marketdomain.ErrPaymentFailed) {
			s.scheduleReconciliation(ctx, purchase, buyer)
		}
		return purchase, err
	}

	s.publish(ctx, events.TopicItemSold, events.ItemSoldEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     purchase.Item.ID,
		Buyer:      buyer,
		Seller:     purchase.Seller,
		Name:       purchase.Item.Name,
		Price:      purchase.Item.Price,
		Fee:        purchase.Fee,
		OccurredAt: time.Now().UTC(),
	})
	s.refreshCache(purchase.Item)

	return purchase, nil
}

// Unlist takes a caller-owned item off the market.
func (s *MarketService) Unlist(ctx context.Context, itemID uint64, caller models.Account) (models.Item, error) {
	item, err := s.ledger.Unlist(ctx, itemID, caller)
	if err != nil {
		return models.Item{}, err
	}

	s.publish(ctx, events.TopicItemRemoved, events.ItemRemovedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Account:    caller,
		OccurredAt: time.Now().UTC(),
	})
	s.refreshCache(item)

	return item, nil
}

// Relist puts an unlisted caller-owned item back on the market.
func (s *MarketService) Relist(ctx context.Context, itemID uint64, caller models.Account, location string, price uint64) (models.Item, error) {
	item, err := s.ledger.Relist(ctx, itemID, caller, location, price)
	if err != nil {
		return models.Item{}, err
	}

	s.publish(ctx, events.TopicItemRelisted, events.ItemRelistedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Account:    caller,
		Price:      item.Price,
		OccurredAt: time.Now().UTC(),
	})
	s.refreshCache(item)

	return item, nil
}

// GetItem returns the full item, history included, from the authoritative
// ledger.
func (s *MarketService) GetItem(ctx context.Context, itemID uint64) (models.Item, error) {
	return s.ledger.Get(ctx, itemID)
}

// Summary returns the denormalized item read model using a read-through cache:
// Redis first, ledger on miss, then an async cache warm.
func (s *MarketService) Summary(ctx context.Context, itemID uint64) (*pkgcache.CachedItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, itemID); err == nil {
			return cached, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "item_id", itemID, "error", err)
		}
	}

	item, err := s.ledger.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s.refreshCache(item)

	return &pkgcache.CachedItem{
		ID:       item.ID,
		Name:     item.Name,
		Location: item.Location,
		Price:    item.Price,
		Owner:    item.Owner.String(),
		Listed:   item.Listed,
	}, nil
}

// Count returns the total number of items ever created.
func (s *MarketService) Count(ctx context.Context) uint64 {
	return s.ledger.Count(ctx)
}

// OwnedBy returns the items of account's ownership index currently owned by
// caller.
func (s *MarketService) OwnedBy(ctx context.Context, caller, account models.Account) ([]models.Item, error) {
	return s.ledger.OwnedBy(ctx, caller, account)
}

// QuoteFee returns the fee a purchase of the listed item would incur now.
func (s *MarketService) QuoteFee(ctx context.Context, itemID uint64) (uint64, error) {
	return s.ledger.QuoteFee(ctx, itemID)
}

// FeePercentage returns the current market fee percentage.
func (s *MarketService) FeePercentage(ctx context.Context) uint64 {
	return s.ledger.FeePercentage(ctx)
}

// SetFeePercentage changes the market fee. Requires the administrator
// capability; the change applies to all subsequent purchases.
func (s *MarketService) SetFeePercentage(ctx context.Context, caller models.Account, percentage uint64) error {
	if err := s.ledger.SetFeePercentage(ctx, caller, percentage); err != nil {
		return err
	}

	s.publish(ctx, events.TopicFeeChanged, events.FeeChangedEvent{
		EventID:    uuid.New(),
		Version:    1,
		Account:    caller,
		Percentage: percentage,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// publish marshals evt and sends it to topic. Failures are logged, not
// returned: the ledger mutation already committed.
func (s *MarketService) publish(ctx context.Context, topic string, evt any) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.log.ErrorContext(ctx, "marshal event failed", "topic", topic, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(ctx, topic, msg); err != nil {
		s.log.ErrorContext(ctx, "publish event failed", "topic", topic, "error", err)
	}
}

// refreshCache updates the Redis read model asynchronously.
func (s *MarketService) refreshCache(item models.Item) {
	if s.cache == nil {
		return
	}
	go func() {
		_ = s.cache.Set(context.Background(), &pkgcache.CachedItem{
			ID:       item.ID,
			Name:     item.Name,
			Location: item.Location,
			Price:    item.Price,
			Owner:    item.Owner.String(),
			Listed:   item.Listed,
		})
	}()
}

// scheduleReconciliation hands the outstanding payouts of an interrupted
// settlement to the workflow engine.
func (s *MarketService) scheduleReconciliation(ctx context.Context, purchase models.Purchase, buyer models.Account) {
	if s.scheduler == nil || purchase.Item.ID == 0 && purchase.Seller.IsZero() {
		return
	}

	input := marketwf.SettlementInput{
		ItemID:    purchase.Item.ID,
		Buyer:     buyer,
		Seller:    purchase.Seller,
		Recipient: s.feeRecipient,
	}
	if !purchase.SellerPaid {
		input.Remaining = purchase.Remaining()
	}
	if !purchase.FeePaid {
		input.Fee = purchase.Fee
	}

	if err := s.scheduler.Schedule(ctx, input); err != nil {
		s.log.ErrorContext(ctx, "settlement reconciliation scheduling failed",
			"item_id", purchase.Item.ID, "buyer", buyer, "error", err)
		return
	}
	s.log.InfoContext(ctx, "settlement reconciliation scheduled",
		"item_id", purchase.Item.ID, "buyer", buyer,
		"remaining", input.Remaining, "fee", input.Fee)
}
