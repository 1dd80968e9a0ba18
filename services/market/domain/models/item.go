package models

// Item is the core aggregate for the market bounded context. Identifiers are
// dense, assigned sequentially from 0, and never reused. An item is never
// deleted: unlisting only flips availability and zeroes the price.
type Item struct {
	ID          uint64
	Name        string
	Description string
	Image       string
	Location    string
	Price       uint64 // smallest payment-token units; 0 while unlisted
	Owner       Account
	Listed      bool
	History     []Transaction
}

// Snapshot returns a defensive copy of the item, including its history, so
// callers outside the ledger's lock can never alias mutable state.
func (i *Item) Snapshot() Item {
	out := *i
	out.History = make([]Transaction, len(i.History))
	copy(out.History, i.History)
	return out
}

// Purchase describes a completed buy for event publication and settlement.
// Seller is the owner captured before ownership transferred. SellerPaid and
// FeePaid report which settlement legs landed; both false or one false means
// ownership moved but funds are still outstanding.
type Purchase struct {
	Item       Item
	Seller     Account
	Fee        uint64
	SellerPaid bool
	FeePaid    bool
}

// Remaining is the seller's share of the sale: price minus fee.
func (p Purchase) Remaining() uint64 {
	return p.Item.Price - p.Fee
}
