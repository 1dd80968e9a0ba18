package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	sentinels := []error{
		ErrInvalidPrice,
		ErrItemNotFound,
		ErrNotListed,
		ErrAlreadyListed,
		ErrNotOwner,
		ErrUnauthorized,
		ErrFeeTooHigh,
		ErrInsufficientAllowance,
		ErrPaymentFailed,
		ErrInvalidAccount,
		ErrReentrantCall,
	}
	for _, err := range sentinels {
		if err == nil {
			t.Fatal("sentinel error must not be nil")
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("buy item 3: %w", ErrNotListed)
	if !errors.Is(wrapped, ErrNotListed) {
		t.Fatal("errors.Is must match wrapped ErrNotListed")
	}

	wrapped2 := fmt.Errorf("%w: seller payout: %w", ErrPaymentFailed, errors.New("rejected"))
	if !errors.Is(wrapped2, ErrPaymentFailed) {
		t.Fatal("errors.Is must match double-wrapped ErrPaymentFailed")
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if errors.Is(ErrNotListed, ErrAlreadyListed) {
		t.Fatal("ErrNotListed and ErrAlreadyListed must be distinct")
	}
	if errors.Is(ErrInsufficientAllowance, ErrPaymentFailed) {
		t.Fatal("allowance and payment failures must be distinct")
	}
}
