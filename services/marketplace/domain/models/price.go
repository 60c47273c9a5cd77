package models

import "fmt"

// Price is a value object for a product price in the smallest currency unit.
// Prices are strictly positive and immutable after listing.
type Price int64

// NewPrice constructs a valid Price or returns an error for zero or negative amounts.
func NewPrice(v int64) (Price, error) {
	if v <= 0 {
		return 0, fmt.Errorf("price must be a positive amount, got %d", v)
	}
	return Price(v), nil
}

// Int64 returns the underlying amount.
func (p Price) Int64() int64 {
	return int64(p)
}
