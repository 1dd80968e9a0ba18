package token

import (
	"context"
	"sync"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

// Memory is an in-process token Service holding balances and per-spender
// allowances behind a mutex. It backs development mode and tests; a real
// deployment substitutes an adapter over the production token system.
type Memory struct {
	mu         sync.Mutex
	unit       uint64
	balances   map[models.Account]uint64
	allowances map[models.Account]map[models.Account]uint64 // owner -> spender -> amount
}

// NewMemory returns an empty in-memory token service whose whole-token unit
// is `unit` smallest units.
func NewMemory(unit uint64) *Memory {
	if unit == 0 {
		unit = 1
	}
	return &Memory{
		unit:       unit,
		balances:   make(map[models.Account]uint64),
		allowances: make(map[models.Account]map[models.Account]uint64),
	}
}

// Unit returns the number of smallest units in one whole token.
func (m *Memory) Unit() uint64 { return m.unit }

// Mint credits amount to account. Test and dev seeding only.
func (m *Memory) Mint(account models.Account, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] += amount
}

// Approve sets spender's allowance on owner to amount, replacing any prior value.
func (m *Memory) Approve(owner, spender models.Account, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySpender, ok := m.allowances[owner]
	if !ok {
		bySpender = make(map[models.Account]uint64)
		m.allowances[owner] = bySpender
	}
	bySpender[spender] = amount
}

// BalanceOf returns account's current balance.
func (m *Memory) BalanceOf(account models.Account) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account]
}

// Allowance returns the amount spender may still move out of owner's balance.
func (m *Memory) Allowance(_ context.Context, owner, spender models.Account) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowances[owner][spender], nil
}

// TransferFrom moves amount from `from` to `to`, consuming spender's
// allowance on `from`. On error no state changes.
func (m *Memory) TransferFrom(_ context.Context, spender, from, to models.Account, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allowances[from][spender] < amount {
		return ErrInsufficientAllowance
	}
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}

	m.allowances[from][spender] -= amount
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}
