package handlers

import (
	"time"

	"github.com/ghuser/marketledger/services/marketplace/domain/models"
)

// ProductResponse is the wire representation of a catalog entry.
type ProductResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Owner     string    `json:"owner"`
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"created_at"`
}

func newProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name.String(),
		Price:     p.Price.Int64(),
		Owner:     p.Owner.String(),
		Purchased: p.Purchased,
		CreatedAt: p.CreatedAt,
	}
}

// LedgerResponse is the wire representation of the ledger header.
type LedgerResponse struct {
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}
