package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the core aggregate for this bounded context: a listed item that
// can be purchased exactly once.
//
// ID is assigned by the ledger at listing time: 1-based, dense, monotonic, and
// immutable. Name and Price never change after listing. Owner starts as the
// seller and is reassigned to the buyer on the single purchase; Purchased only
// ever transitions false -> true.
type Product struct {
	ID        int64
	Name      ProductName
	Price     Price
	Owner     uuid.UUID
	Purchased bool
	CreatedAt time.Time
}

// NewProduct constructs an unlisted Product owned by the seller. The ledger
// assigns ID when the listing commits; until then it is zero.
func NewProduct(name ProductName, price Price, seller uuid.UUID) (*Product, error) {
	return &Product{
		Name:      name,
		Price:     price,
		Owner:     seller,
		Purchased: false,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkPurchased applies the Listed -> Sold transition, reassigning ownership
// to the buyer. Callers must have validated the purchase preconditions first.
func (p *Product) MarkPurchased(buyer uuid.UUID) {
	p.Owner = buyer
	p.Purchased = true
}

// Snapshot returns a copy of the product, detached from ledger state.
func (p *Product) Snapshot() Product {
	return *p
}
