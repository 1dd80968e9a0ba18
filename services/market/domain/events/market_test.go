package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/marketledger/services/market/domain/events"
)

func TestItemSoldEvent_JSONRoundTrip(t *testing.T) {
	original := events.ItemSoldEvent{
		EventID:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
		Version:    1,
		ItemID:     42,
		Buyer:      "bob",
		Seller:     "alice",
		Name:       "Painting",
		Price:      250_000_000,
		Fee:        5_000_000,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded events.ItemSoldEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestTopics_Distinct(t *testing.T) {
	topics := []string{
		events.TopicItemListed,
		events.TopicItemRemoved,
		events.TopicItemRelisted,
		events.TopicItemSold,
		events.TopicFeeChanged,
	}
	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		if topic == "" {
			t.Fatal("topic must not be empty")
		}
		if seen[topic] {
			t.Fatalf("duplicate topic %q", topic)
		}
		seen[topic] = true
	}
}
