package domain

import "errors"

// Sentinel errors for the marketplace domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates the requested product id is outside [1, productCount].
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct indicates the listing violates creation constraints
	// (empty name or non-positive price).
	ErrInvalidProduct = errors.New("invalid product")

	// ErrAlreadyPurchased indicates the product has already been sold.
	// Sold is terminal; no operation leaves it.
	ErrAlreadyPurchased = errors.New("product already purchased")

	// ErrPaymentMismatch indicates the attached value does not equal the price
	// exactly. Both under- and over-payment are rejected.
	ErrPaymentMismatch = errors.New("attached value does not match price")

	// ErrSelfPurchase indicates the caller already owns the listing.
	ErrSelfPurchase = errors.New("seller cannot purchase own product")

	// ErrInsufficientFunds indicates settlement could not be completed because
	// the buyer's balance is below the attached value. The catalog is unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds for settlement")
)
