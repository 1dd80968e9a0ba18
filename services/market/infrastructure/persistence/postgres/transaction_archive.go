// Package postgres persists a durable copy of ledger history. The in-memory
// ledger is authoritative; the archive is a write-behind read model fed by the
// worker's event subscribers, so history survives restarts.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/services/market/domain/models"
)

// ArchivedTransaction is one durable history row for an item.
type ArchivedTransaction struct {
	ID         int64
	ItemID     uint64
	Kind       string
	From       string
	Price      uint64
	OccurredAt time.Time
}

// TransactionArchive stores item history rows in Postgres.
type TransactionArchive struct {
	db *database.DB
}

// NewTransactionArchive returns an archive backed by the given pool.
func NewTransactionArchive(db *database.DB) *TransactionArchive {
	return &TransactionArchive{db: db}
}

// Record appends one history row. Rows are append-only; there is no update or
// delete path.
func (a *TransactionArchive) Record(ctx context.Context, itemID uint64, kind models.TransactionKind, from models.Account, price uint64, occurredAt time.Time) error {
	const q = `
		INSERT INTO market_transactions (item_id, kind, from_account, price, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := a.db.Pool().Exec(ctx, q, itemID, kind.String(), from.String(), price, occurredAt); err != nil {
		return fmt.Errorf("archive: record transaction for item %d: %w", itemID, err)
	}
	return nil
}

// HistoryFor returns the archived history of an item in insertion order.
func (a *TransactionArchive) HistoryFor(ctx context.Context, itemID uint64) ([]ArchivedTransaction, error) {
	const q = `
		SELECT id, item_id, kind, from_account, price, occurred_at
		FROM market_transactions
		WHERE item_id = $1
		ORDER BY id`

	rows, err := a.db.Pool().Query(ctx, q, itemID)
	if err != nil {
		return nil, fmt.Errorf("archive: query history for item %d: %w", itemID, err)
	}
	defer rows.Close()

	var out []ArchivedTransaction
	for rows.Next() {
		var t ArchivedTransaction
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Kind, &t.From, &t.Price, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("archive: scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate history: %w", err)
	}
	return out, nil
}
