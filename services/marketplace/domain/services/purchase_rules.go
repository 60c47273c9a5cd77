// Package services contains stateless domain services for the marketplace
// bounded context. Domain services enforce business rules that operate purely
// on domain types and have zero external dependencies beyond stdlib and the
// domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
)

// ValidateName enforces business rules for ProductName beyond the structural
// constraints enforced by the ProductName constructor (length 1–255).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
//   - Must not be only whitespace characters
func ValidateName(name models.ProductName) error {
	s := name.String()

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("product name must not have leading or trailing whitespace")
	}

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("product name must not be only whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("product name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("product name must not contain consecutive spaces")
	}

	return nil
}

// ValidateProductForListing performs validation on a fully-constructed Product
// aggregate before the listing commits. It assumes the Product was built via
// models.NewProduct (so structural constraints are already satisfied) and adds
// business-level checks that span multiple fields.
func ValidateProductForListing(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}

	if err := ValidateName(p.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if p.Price.Int64() <= 0 {
		return fmt.Errorf("price must be positive")
	}

	if p.Owner == uuid.Nil {
		return fmt.Errorf("owner must be set")
	}

	if p.Purchased {
		return fmt.Errorf("product must be listed unpurchased")
	}

	return nil
}

// ValidatePurchase checks the purchase preconditions against the product's
// current state, in the order the ledger commits to:
//
//  1. not already purchased
//  2. attached value equals price exactly (over- and under-payment both fail)
//  3. caller is not the current owner
//
// The not-found check precedes this and belongs to the ledger lookup itself.
// The first failing precondition wins; on any error the catalog must remain
// unchanged and no value may move.
func ValidatePurchase(p *models.Product, caller models.CallerContext) error {
	if p.Purchased {
		return marketdomain.ErrAlreadyPurchased
	}

	if caller.AttachedValue != p.Price.Int64() {
		return fmt.Errorf("%w: attached %d, price %d",
			marketdomain.ErrPaymentMismatch, caller.AttachedValue, p.Price.Int64())
	}

	if caller.Account == p.Owner {
		return marketdomain.ErrSelfPurchase
	}

	return nil
}
