// Package token provides the fungible payment-token collaborator used by the
// ledger to settle purchases. The ledger acts as a spender: buyers must
// pre-approve an allowance to the ledger's account before calling buy.
package token

import (
	"context"
	"errors"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

var (
	// ErrInsufficientBalance is returned by TransferFrom when the source
	// account cannot cover the amount.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrInsufficientAllowance is returned by TransferFrom when the spender's
	// approved allowance on the source account cannot cover the amount.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

// Service is the transfer interface the ledger depends on. Implementations
// must treat TransferFrom as a single settled movement: on error, no funds move.
type Service interface {
	// Unit returns the number of smallest units in one whole token. The
	// ledger's minimum listing price is exactly one whole token.
	Unit() uint64

	// Allowance returns the amount spender may still move out of owner's balance.
	Allowance(ctx context.Context, owner, spender models.Account) (uint64, error)

	// TransferFrom moves amount from `from` to `to` on behalf of spender,
	// consuming spender's allowance on `from`.
	TransferFrom(ctx context.Context, spender, from, to models.Account, amount uint64) error
}
