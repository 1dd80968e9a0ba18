package models

import "strings"

// Account identifies a participant on the ledger. The value is opaque text
// (wallet-style addresses in practice); only the zero value is invalid.
type Account string

// ZeroAccount is the invalid zero value. Operations reject it with
// domain.ErrInvalidAccount.
const ZeroAccount Account = ""

// NewAccount constructs an Account from raw input. Empty or all-whitespace
// input yields ZeroAccount and false.
func NewAccount(s string) (Account, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroAccount, false
	}
	return Account(s), true
}

// IsZero reports whether the account is the invalid zero value.
func (a Account) IsZero() bool {
	return a == ZeroAccount
}

// String returns the underlying string value.
func (a Account) String() string {
	return string(a)
}
