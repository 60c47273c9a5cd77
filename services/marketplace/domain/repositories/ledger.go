package repositories

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/ghuser/marketledger/services/marketplace/domain/models"
)

// QueryOpts contains pagination parameters for list queries. Paging is a
// presentation concern; the ledger's own sequence is unpaginated.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// Ledger is the persistence interface for the product catalog. The domain
// layer owns this interface; infrastructure implements it.
//
// Implementations must behave as a single-writer sequential state machine:
// each mutating call commits fully (state + event) or fails with no observable
// change. Create and Purchase emit their events only on successful commit.
type Ledger interface {
	// Create assigns the next dense id (productCount+1), stores the product,
	// and publishes ProductCreatedEvent atomically. Returns the assigned id.
	Create(ctx context.Context, product *models.Product) (int64, error)

	// Purchase settles the attached value from the caller to the current
	// owner, reassigns ownership, marks the product purchased, and publishes
	// ProductPurchasedEvent — all in one commit. Preconditions are checked in
	// order against the state as of this call's turn in the total order.
	Purchase(ctx context.Context, id int64, caller models.CallerContext) (*models.Product, error)

	// GetByID returns the product or ErrProductNotFound for ids outside [1, productCount].
	GetByID(ctx context.Context, id int64) (*models.Product, error)

	// Info returns the ledger name and productCount.
	Info(ctx context.Context) (*models.LedgerInfo, error)

	// FindAll retrieves a page of products ordered by id plus the total count.
	FindAll(ctx context.Context, opts QueryOpts) ([]*models.Product, int, error)

	// All returns a lazy, stable, finite, restartable sequence of all products
	// in id order 1..productCount as of each iteration's start.
	All(ctx context.Context) iter.Seq2[*models.Product, error]
}

// Accounts is the settlement-side interface: balances held by the external
// account provider, modeled locally so purchases can move value atomically
// with the catalog mutation.
type Accounts interface {
	// Balance returns the current balance for the account; zero for unknown accounts.
	Balance(ctx context.Context, account uuid.UUID) (int64, error)

	// Deposit credits the account. Dev/test provisioning only; the ledger
	// itself never mints value.
	Deposit(ctx context.Context, account uuid.UUID, amount int64) error
}
