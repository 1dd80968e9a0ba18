// Package services contains stateless domain services for the market bounded
// context. Domain services enforce business rules that operate purely on
// domain types and have zero external dependencies beyond stdlib and the
// domain layer.
package services

// MaxFeePercentage is the upper bound accepted by SetFeePercentage.
const MaxFeePercentage = 10

// Fee returns the market fee for a sale at the given price.
//
// The formula is floor(price/100) * percentage, in that order. Dividing first
// truncates sub-percent remainders (a 99-unit item quotes a zero fee) but can
// never overflow on the multiply, which price*percentage/100 could.
func Fee(price, percentage uint64) uint64 {
	return price / 100 * percentage
}

// ValidFeePercentage reports whether a proposed fee percentage is within bounds.
func ValidFeePercentage(percentage uint64) bool {
	return percentage <= MaxFeePercentage
}
