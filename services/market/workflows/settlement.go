// Package workflows holds the Temporal workflow that reconciles interrupted
// purchase settlements. A buy commits ownership before moving funds; when a
// transfer fails mid-settlement, ownership has already changed hands and the
// outstanding payouts must still be delivered. This workflow retries them
// until they land.
package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/market/domain/models"
	"github.com/ghuser/marketledger/services/market/infrastructure/token"
)

// TaskQueue is the Temporal task queue for settlement reconciliation.
const TaskQueue = "market-settlement"

// SettlementInput captures the outstanding payouts of an interrupted purchase.
// Remaining is the seller's share (price minus fee); Fee goes to the market
// administrator.
type SettlementInput struct {
	ItemID    uint64         `json:"item_id"`
	Buyer     models.Account `json:"buyer"`
	Seller    models.Account `json:"seller"`
	Recipient models.Account `json:"recipient"`
	Remaining uint64         `json:"remaining"`
	Fee       uint64         `json:"fee"`
}

// ReconcileSettlementWorkflow retries the seller payout and then the fee
// payout with exponential backoff. Both activities draw from the buyer's
// allowance, so a permanently revoked allowance eventually exhausts the
// retry policy and surfaces in Temporal's failed-workflow list for manual
// follow-up.
func ReconcileSettlementWorkflow(ctx workflow.Context, input SettlementInput) error {
	opts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    5 * time.Minute,
			MaximumAttempts:    10,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, opts)

	var a *SettlementActivities
	if input.Remaining > 0 {
		if err := workflow.ExecuteActivity(ctx, a.RetrySellerPayout, input).Get(ctx, nil); err != nil {
			return err
		}
	}
	if input.Fee > 0 {
		if err := workflow.ExecuteActivity(ctx, a.RetryFeePayout, input).Get(ctx, nil); err != nil {
			return err
		}
	}
	return nil
}

// SettlementActivities carries the token service dependencies for settlement
// retries. Register with the Temporal worker alongside the workflow.
type SettlementActivities struct {
	Token   token.Service
	Spender models.Account
	Log     logger.Logger
}

// RetrySellerPayout moves the seller's share from the buyer to the seller.
func (a *SettlementActivities) RetrySellerPayout(ctx context.Context, input SettlementInput) error {
	err := a.Token.TransferFrom(ctx, a.Spender, input.Buyer, input.Seller, input.Remaining)
	if err != nil {
		a.Log.WarnContext(ctx, "seller payout retry failed",
			"item_id", input.ItemID, "seller", input.Seller, "amount", input.Remaining, "error", err)
		return err
	}
	a.Log.InfoContext(ctx, "seller payout settled",
		"item_id", input.ItemID, "seller", input.Seller, "amount", input.Remaining)
	return nil
}

// RetryFeePayout moves the market fee from the buyer to the fee recipient.
func (a *SettlementActivities) RetryFeePayout(ctx context.Context, input SettlementInput) error {
	err := a.Token.TransferFrom(ctx, a.Spender, input.Buyer, input.Recipient, input.Fee)
	if err != nil {
		a.Log.WarnContext(ctx, "fee payout retry failed",
			"item_id", input.ItemID, "recipient", input.Recipient, "amount", input.Fee, "error", err)
		return err
	}
	a.Log.InfoContext(ctx, "fee payout settled",
		"item_id", input.ItemID, "recipient", input.Recipient, "amount", input.Fee)
	return nil
}
