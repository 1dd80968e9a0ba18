package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/market/domain/models"
)

// Requires a migrated database; set DATABASE_URL to run.
func TestTransactionArchiveIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, logger.New(&config.Config{LogLevel: "error"}))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Close()

	archive := NewTransactionArchive(db)

	// Unique item id so reruns don't collide.
	itemID := uint64(time.Now().UnixNano())
	alice, _ := models.NewAccount("alice")
	bob, _ := models.NewAccount("bob")

	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := archive.Record(ctx, itemID, models.KindAdd, alice, 2_000_000, now); err != nil {
		t.Fatalf("record ADD: %v", err)
	}
	if err := archive.Record(ctx, itemID, models.KindBuy, bob, 2_000_000, now.Add(time.Second)); err != nil {
		t.Fatalf("record BUY: %v", err)
	}

	history, err := archive.HistoryFor(ctx, itemID)
	if err != nil {
		t.Fatalf("HistoryFor: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[0].Kind != "ADD" || history[0].From != "alice" {
		t.Errorf("unexpected first row: %+v", history[0])
	}
	if history[1].Kind != "BUY" || history[1].From != "bob" {
		t.Errorf("unexpected second row: %+v", history[1])
	}
	if history[0].Price != 2_000_000 {
		t.Errorf("price: got %d, want 2000000", history[0].Price)
	}
}
