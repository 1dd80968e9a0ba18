// Package ledger implements the authoritative market ledger as a single
// in-process state machine guarded by one reader/writer lock.
//
// Concurrency contract: every mutating operation takes the write lock, so at
// most one mutation is in flight system-wide. Reads take the read lock and
// therefore always observe the fully-applied result of the last completed
// mutation, never a partial write. The payment transfer inside Buy is the
// only point where control leaves the ledger while the write lock is held;
// re-entrant mutating calls during that window are rejected (see guard.go).
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/ghuser/marketledger/services/market/domain"
	"github.com/ghuser/marketledger/services/market/domain/models"
	"github.com/ghuser/marketledger/services/market/domain/repositories"
	domainsvcs "github.com/ghuser/marketledger/services/market/domain/services"
	"github.com/ghuser/marketledger/services/market/infrastructure/token"
)

// Memory is the in-memory repositories.Ledger implementation.
//
// The ownership index (held) is append-only and never pruned: it records
// every acquisition an account ever made, including repeats after a resale.
// ownedCount tracks items *currently* owned and is the allocation hint for
// OwnedBy reads.
type Memory struct {
	mu sync.RWMutex

	items  map[uint64]*models.Item
	exists map[uint64]bool // creation marker, set once, never cleared
	nextID uint64

	held       map[models.Account][]uint64
	ownedCount map[models.Account]int

	feePercentage uint64

	token   token.Service
	admins  repositories.AdminChecker
	account models.Account // the ledger's own account, the token spender
	admin   models.Account // fee recipient
}

// New returns a Memory ledger settling payments through tok as spender
// `account` and paying fees to `admin`. feePercentage must be within bounds.
func New(tok token.Service, admins repositories.AdminChecker, account, admin models.Account, feePercentage uint64) (*Memory, error) {
	if account.IsZero() || admin.IsZero() {
		return nil, domain.ErrInvalidAccount
	}
	if !domainsvcs.ValidFeePercentage(feePercentage) {
		return nil, domain.ErrFeeTooHigh
	}
	return &Memory{
		items:         make(map[uint64]*models.Item),
		exists:        make(map[uint64]bool),
		held:          make(map[models.Account][]uint64),
		ownedCount:    make(map[models.Account]int),
		feePercentage: feePercentage,
		token:         tok,
		admins:        admins,
		account:       account,
		admin:         admin,
	}, nil
}

// Account returns the ledger's own account, the spender buyers must approve.
func (l *Memory) Account() models.Account { return l.account }

// List creates a new item owned by caller and returns its snapshot.
func (l *Memory) List(ctx context.Context, caller models.Account, name, description, image, location string, price uint64) (models.Item, error) {
	if inSettlement(ctx) {
		return models.Item{}, domain.ErrReentrantCall
	}
	if caller.IsZero() {
		return models.Item{}, domain.ErrInvalidAccount
	}
	if price < l.token.Unit() {
		return models.Item{}, fmt.Errorf("%w: got %d, minimum %d", domain.ErrInvalidPrice, price, l.token.Unit())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	it := &models.Item{
		ID:          l.nextID,
		Name:        name,
		Description: description,
		Image:       image,
		Location:    location,
		Price:       price,
		Owner:       caller,
		Listed:      true,
		History:     []models.Transaction{models.NewTransaction(models.KindAdd, caller, price)},
	}
	l.nextID++
	l.items[it.ID] = it
	l.exists[it.ID] = true
	l.ownedCount[caller]++
	l.held[caller] = append(l.held[caller], it.ID)

	return it.Snapshot(), nil
}

// Buy transfers the item to buyer and settles payment.
//
// Mutation order is fixed: ownership index, then item state, then the BUY
// history record (stamped with the new owner), then the two token transfers.
// A transfer failure after the state mutations is surfaced as
// domain.ErrPaymentFailed but NOT rolled back: ownership has already moved.
// In that case the returned Purchase is still populated so the caller can
// drive compensating settlement.
func (l *Memory) Buy(ctx context.Context, itemID uint64, buyer models.Account) (models.Purchase, error) {
	if inSettlement(ctx) {
		return models.Purchase{}, domain.ErrReentrantCall
	}
	if buyer.IsZero() {
		return models.Purchase{}, domain.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	it, ok := l.items[itemID]
	if !ok || !it.Listed {
		return models.Purchase{}, domain.ErrNotListed
	}

	allowance, err := l.token.Allowance(ctx, buyer, l.account)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("query allowance: %w", err)
	}
	if allowance < it.Price {
		return models.Purchase{}, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientAllowance, allowance, it.Price)
	}

	price := it.Price
	fee := domainsvcs.Fee(price, l.feePercentage)
	remaining := price - fee
	seller := it.Owner

	l.held[buyer] = append(l.held[buyer], itemID)
	l.ownedCount[buyer]++
	l.ownedCount[seller]--

	it.Listed = false
	it.Owner = buyer
	it.History = append(it.History, models.NewTransaction(models.KindBuy, buyer, price))

	purchase := models.Purchase{Item: it.Snapshot(), Seller: seller, Fee: fee}

	// External settlement window. The seller payout goes to the owner
	// captured above, before the ownership transfer, and is attempted first;
	// the fee payout is skipped if it fails.
	sctx := withSettlement(ctx)
	if err := l.token.TransferFrom(sctx, l.account, buyer, seller, remaining); err != nil {
		return purchase, fmt.Errorf("%w: seller payout: %w", domain.ErrPaymentFailed, err)
	}
	purchase.SellerPaid = true
	if err := l.token.TransferFrom(sctx, l.account, buyer, l.admin, fee); err != nil {
		return purchase, fmt.Errorf("%w: fee payout: %w", domain.ErrPaymentFailed, err)
	}
	purchase.FeePaid = true

	return purchase, nil
}

// Unlist takes the caller-owned item off the market. The REMOVE record keeps
// the price the item was listed at; the item's price is then zeroed until a
// relist restores it.
func (l *Memory) Unlist(ctx context.Context, itemID uint64, caller models.Account) (models.Item, error) {
	if inSettlement(ctx) {
		return models.Item{}, domain.ErrReentrantCall
	}
	if caller.IsZero() {
		return models.Item{}, domain.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	it, ok := l.items[itemID]
	if !ok || it.Owner != caller {
		return models.Item{}, domain.ErrNotOwner
	}
	if !it.Listed {
		return models.Item{}, domain.ErrNotListed
	}

	it.History = append(it.History, models.NewTransaction(models.KindRemove, caller, it.Price))
	it.Listed = false
	it.Price = 0

	return it.Snapshot(), nil
}

// Relist puts an unlisted caller-owned item back on the market.
func (l *Memory) Relist(ctx context.Context, itemID uint64, caller models.Account, location string, price uint64) (models.Item, error) {
	if inSettlement(ctx) {
		return models.Item{}, domain.ErrReentrantCall
	}
	if caller.IsZero() {
		return models.Item{}, domain.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.exists[itemID] {
		return models.Item{}, domain.ErrItemNotFound
	}
	it := l.items[itemID]
	if it.Owner != caller {
		return models.Item{}, domain.ErrNotOwner
	}
	if price < l.token.Unit() {
		return models.Item{}, fmt.Errorf("%w: got %d, minimum %d", domain.ErrInvalidPrice, price, l.token.Unit())
	}
	if it.Listed {
		return models.Item{}, domain.ErrAlreadyListed
	}

	it.Location = location
	it.Price = price
	it.Listed = true
	it.History = append(it.History, models.NewTransaction(models.KindAdd, caller, price))

	return it.Snapshot(), nil
}

// Get returns a snapshot of the item, history included.
func (l *Memory) Get(_ context.Context, itemID uint64) (models.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.exists[itemID] {
		return models.Item{}, domain.ErrItemNotFound
	}
	return l.items[itemID].Snapshot(), nil
}

// Count returns the total number of items ever created.
func (l *Memory) Count(_ context.Context) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextID
}

// OwnedBy walks account's append-only ownership index and returns the items
// currently owned by caller. Filtering by the caller rather than the queried
// account reproduces the source system's access rule: a caller only ever
// sees their own currently-owned items, whichever index is walked. The result
// is pre-sized to account's current-owned count as read at call start.
func (l *Memory) OwnedBy(_ context.Context, caller, account models.Account) ([]models.Item, error) {
	if caller.IsZero() || account.IsZero() {
		return nil, domain.ErrInvalidAccount
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Item, 0, l.ownedCount[account])
	for _, id := range l.held[account] {
		if it := l.items[id]; it.Owner == caller {
			out = append(out, it.Snapshot())
		}
	}
	return out, nil
}

// QuoteFee returns the fee a purchase of the listed item would incur now.
func (l *Memory) QuoteFee(_ context.Context, itemID uint64) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	it, ok := l.items[itemID]
	if !ok || !it.Listed {
		return 0, domain.ErrNotListed
	}
	return domainsvcs.Fee(it.Price, l.feePercentage), nil
}

// FeePercentage returns the current fee percentage.
func (l *Memory) FeePercentage(_ context.Context) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.feePercentage
}

// SetFeePercentage replaces the process-wide fee percentage used by Buy and
// QuoteFee. Requires the administrator capability.
func (l *Memory) SetFeePercentage(ctx context.Context, caller models.Account, percentage uint64) error {
	if inSettlement(ctx) {
		return domain.ErrReentrantCall
	}
	if caller.IsZero() {
		return domain.ErrInvalidAccount
	}
	if !l.admins.IsAdministrator(caller) {
		return domain.ErrUnauthorized
	}
	if !domainsvcs.ValidFeePercentage(percentage) {
		return fmt.Errorf("%w: got %d, maximum %d", domain.ErrFeeTooHigh, percentage, domainsvcs.MaxFeePercentage)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.feePercentage = percentage
	return nil
}
