package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/marketledger/services/market/domain/models"
)

func TestAccountFromCtx(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		account, _ := models.NewAccount("alice")
		ctx := WithAccount(context.Background(), account)

		got, err := AccountFromCtx(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != account {
			t.Errorf("got %q, want %q", got, account)
		}
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := AccountFromCtx(context.Background())
		if !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("zero account rejected", func(t *testing.T) {
		ctx := WithAccount(context.Background(), models.ZeroAccount)
		_, err := AccountFromCtx(ctx)
		if !errors.Is(err, ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestAdminSet(t *testing.T) {
	set := NewAdminSet([]string{"admin", " treasury ", ""})

	admin, _ := models.NewAccount("admin")
	treasury, _ := models.NewAccount("treasury")
	alice, _ := models.NewAccount("alice")

	if !set.IsAdministrator(admin) {
		t.Error("admin should hold the administrator capability")
	}
	if !set.IsAdministrator(treasury) {
		t.Error("treasury should hold the administrator capability (trimmed)")
	}
	if set.IsAdministrator(alice) {
		t.Error("alice should not hold the administrator capability")
	}
	if set.IsAdministrator(models.ZeroAccount) {
		t.Error("zero account should never be an administrator")
	}
}
