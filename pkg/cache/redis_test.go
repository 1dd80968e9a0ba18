package cache

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/marketledger/pkg/config"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

// Integration tests — skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	t.Run("Ping_Success", func(t *testing.T) {
		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache_RoundTrip", func(t *testing.T) {
		ctx := context.Background()
		ic := NewItemCache(rc)

		want := &CachedItem{
			ID:       42,
			Name:     "Painting",
			Location: "Berlin",
			Price:    250_000_000,
			Owner:    "alice",
			Listed:   true,
		}
		if err := ic.Set(ctx, want); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		defer ic.Delete(ctx, want.ID) //nolint:errcheck

		got, err := ic.Get(ctx, want.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if *got != *want {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
		}
	})

	t.Run("ItemCache_MissingKey", func(t *testing.T) {
		ic := NewItemCache(rc)
		if _, err := ic.Get(context.Background(), 999_999_999); err == nil {
			t.Fatal("expected error for missing key")
		}
	})
}
