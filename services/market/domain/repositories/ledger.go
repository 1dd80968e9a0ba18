package repositories

import (
	"context"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

// Ledger is the authoritative state machine for items, ownership, and
// per-item transaction history. The domain layer owns this interface;
// infrastructure implements it.
//
// All mutating operations execute under global mutual exclusion: at most one
// is in flight at any instant. Reads may run concurrently with each other but
// always observe the fully-applied result of the last completed mutation.
type Ledger interface {
	// List creates a new item owned by caller, listed at price, and returns
	// its identifier. Identifiers are assigned sequentially from 0.
	List(ctx context.Context, caller models.Account, name, description, image, location string, price uint64) (models.Item, error)

	// Buy transfers the item to buyer and settles payment through the token
	// service. The returned Purchase carries the seller captured before the
	// ownership transfer and the fee withheld for the administrator.
	Buy(ctx context.Context, itemID uint64, buyer models.Account) (models.Purchase, error)

	// Unlist takes the caller-owned item off the market and zeroes its price.
	Unlist(ctx context.Context, itemID uint64, caller models.Account) (models.Item, error)

	// Relist puts an unlisted caller-owned item back on the market with a new
	// location and price.
	Relist(ctx context.Context, itemID uint64, caller models.Account, location string, price uint64) (models.Item, error)

	// Get returns a snapshot of the item, history included.
	Get(ctx context.Context, itemID uint64) (models.Item, error)

	// Count returns the total number of items ever created.
	Count(ctx context.Context) uint64

	// OwnedBy projects the items from account's ownership index whose current
	// owner equals caller. The caller filter reproduces the source system's
	// access rule; see the ledger documentation.
	OwnedBy(ctx context.Context, caller, account models.Account) ([]models.Item, error)

	// QuoteFee returns the market fee that a purchase of the listed item
	// would incur right now.
	QuoteFee(ctx context.Context, itemID uint64) (uint64, error)

	// FeePercentage returns the current process-wide fee percentage.
	FeePercentage(ctx context.Context) uint64

	// SetFeePercentage replaces the fee percentage. Requires the
	// administrator capability and percentage <= services.MaxFeePercentage.
	SetFeePercentage(ctx context.Context, caller models.Account, percentage uint64) error
}

// AdminChecker is the administrator capability predicate used to gate fee
// administration. Provided by the trusted auth layer.
type AdminChecker interface {
	IsAdministrator(account models.Account) bool
}
