package ledger

import "context"

// settlementKey marks a context as originating inside the ledger's payment
// settlement window. The token transfer in Buy is the only point where
// control leaves the ledger while its write lock is held; a collaborator
// that calls back into a mutating operation on the same context is rejected
// with domain.ErrReentrantCall instead of deadlocking on the lock.
type settlementKey struct{}

// withSettlement returns ctx marked as inside the settlement window.
func withSettlement(ctx context.Context) context.Context {
	return context.WithValue(ctx, settlementKey{}, true)
}

// inSettlement reports whether ctx originates inside the settlement window.
func inSettlement(ctx context.Context) bool {
	v, _ := ctx.Value(settlementKey{}).(bool)
	return v
}
