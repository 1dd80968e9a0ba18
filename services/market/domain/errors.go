package domain

import "errors"

// Sentinel errors for the market domain. Use errors.Is() to check these.
var (
	// ErrInvalidPrice indicates a listing price below the minimum of one
	// whole payment token.
	ErrInvalidPrice = errors.New("price below minimum")

	// ErrItemNotFound indicates the requested item identifier was never created.
	ErrItemNotFound = errors.New("item not found")

	// ErrNotListed indicates the item is not currently available for sale.
	ErrNotListed = errors.New("item not listed")

	// ErrAlreadyListed indicates a relist attempt on an item that is listed.
	ErrAlreadyListed = errors.New("item already listed")

	// ErrNotOwner indicates the caller does not own the item.
	ErrNotOwner = errors.New("caller is not the item owner")

	// ErrUnauthorized indicates the caller lacks the administrator capability.
	ErrUnauthorized = errors.New("administrator capability required")

	// ErrFeeTooHigh indicates a fee percentage above the allowed bound.
	ErrFeeTooHigh = errors.New("fee percentage too high")

	// ErrInsufficientAllowance indicates the buyer has not pre-approved a
	// transferable allowance covering the item price.
	ErrInsufficientAllowance = errors.New("insufficient token allowance")

	// ErrPaymentFailed indicates the token transfer failed during settlement.
	// Ownership and history mutations applied before the transfer are NOT
	// rolled back; see the ledger documentation.
	ErrPaymentFailed = errors.New("payment transfer failed")

	// ErrInvalidAccount indicates a zero account argument.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrReentrantCall indicates a mutating call re-entered the ledger from
	// inside the payment settlement window.
	ErrReentrantCall = errors.New("reentrant ledger call rejected")
)
