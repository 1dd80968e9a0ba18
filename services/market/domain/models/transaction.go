package models

import "time"

// TransactionKind enumerates the state changes recorded in an item's history.
// KindUnavailable is the zero sentinel and is never appended to a history.
type TransactionKind uint8

const (
	KindUnavailable TransactionKind = iota
	KindAdd
	KindRemove
	KindBuy
)

// String returns the wire name of the kind.
func (k TransactionKind) String() string {
	switch k {
	case KindAdd:
		return "ADD"
	case KindRemove:
		return "REMOVE"
	case KindBuy:
		return "BUY"
	default:
		return "UNAVAILABLE"
	}
}

// Transaction is one immutable entry in an item's append-only history.
// From is the account that initiated the state change and Price is the
// item's price at the moment of the event.
type Transaction struct {
	Kind      TransactionKind `json:"kind"`
	From      Account         `json:"from"`
	Price     uint64          `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransaction constructs a history entry stamped with the current time.
func NewTransaction(kind TransactionKind, from Account, price uint64) Transaction {
	return Transaction{
		Kind:      kind,
		From:      from,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
}
