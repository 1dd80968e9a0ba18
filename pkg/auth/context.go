package auth

import (
	"context"
	"errors"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const accountKey contextKey = "account"

// ErrAccountNotFound is returned when no account exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrAccountNotFound = errors.New("account not found in context")

// AccountFromCtx extracts the authenticated account from the request context.
// Returns the zero account and ErrAccountNotFound if no account is set
// (unauthenticated request).
func AccountFromCtx(ctx context.Context) (models.Account, error) {
	account, ok := ctx.Value(accountKey).(models.Account)
	if !ok || account.IsZero() {
		return models.ZeroAccount, ErrAccountNotFound
	}
	return account, nil
}

// WithAccount returns a new context with the given account attached.
// Used by authentication middleware after validating the session.
func WithAccount(ctx context.Context, account models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}
