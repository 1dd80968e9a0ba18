package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	pkgworkflows "github.com/ghuser/marketledger/pkg/workflows"
)

// SettlementScheduler starts reconciliation for a purchase whose settlement
// was interrupted.
type SettlementScheduler interface {
	Schedule(ctx context.Context, input SettlementInput) error
}

// TemporalScheduler starts ReconcileSettlementWorkflow on the market
// settlement task queue.
type TemporalScheduler struct {
	TC *pkgworkflows.TemporalClient
}

// Schedule starts the reconciliation workflow. The workflow ID is derived from
// the item and buyer so a retried schedule of the same interrupted purchase
// dedupes instead of double-paying.
func (s *TemporalScheduler) Schedule(ctx context.Context, input SettlementInput) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("settlement-%d-%s", input.ItemID, input.Buyer),
		TaskQueue: TaskQueue,
	}
	if _, err := s.TC.Client.ExecuteWorkflow(ctx, opts, ReconcileSettlementWorkflow, input); err != nil {
		return fmt.Errorf("start settlement workflow: %w", err)
	}
	return nil
}
