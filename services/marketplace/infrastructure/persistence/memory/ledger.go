// Package memory implements the marketplace ledger as an in-process,
// single-writer state machine. It is the reference implementation of the
// catalog semantics and backs the unit tests; production uses the postgres
// implementation with identical behavior.
package memory

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/events"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/marketledger/services/marketplace/domain/services"
)

// EventSink receives the structured event emitted by each successful mutation.
// A nil sink disables emission. Sinks run inside the commit and must not block.
type EventSink func(topic string, event any)

// Ledger holds the full catalog state: the dense id->Product mapping (a slice,
// ids are 1-based and gapless), the account balances used for settlement, and
// the immutable instance name. All mutations are serialized by a single mutex,
// giving every operation its turn in one total order.
type Ledger struct {
	mu       sync.Mutex
	name     string
	products []models.Product // index i holds id i+1
	balances map[uuid.UUID]int64
	sink     EventSink
}

var _ repositories.Ledger = (*Ledger)(nil)
var _ repositories.Accounts = (*Ledger)(nil)

// NewLedger creates an empty ledger with the given instance name.
func NewLedger(name string, sink EventSink) *Ledger {
	return &Ledger{
		name:     name,
		balances: make(map[uuid.UUID]int64),
		sink:     sink,
	}
}

// Create stores the product under the next dense id and emits ProductCreatedEvent.
func (l *Ledger) Create(_ context.Context, product *models.Product) (int64, error) {
	if err := domainsvcs.ValidateProductForListing(product); err != nil {
		return 0, fmt.Errorf("%w: %w", marketdomain.ErrInvalidProduct, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stored := product.Snapshot()
	stored.ID = int64(len(l.products)) + 1
	l.products = append(l.products, stored)
	product.ID = stored.ID

	l.emit(events.TopicProductCreated, events.ProductCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ProductID:  stored.ID,
		Name:       stored.Name.String(),
		Price:      stored.Price.Int64(),
		Owner:      stored.Owner,
		Purchased:  false,
		CreatedAt:  stored.CreatedAt,
		OccurredAt: stored.CreatedAt,
	})
	return stored.ID, nil
}

// Purchase validates the ordered preconditions against current state, settles
// the attached value from buyer to seller, reassigns ownership, and emits
// ProductPurchasedEvent. Any failure leaves catalog and balances untouched.
func (l *Ledger) Purchase(_ context.Context, id int64, caller models.CallerContext) (*models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id < 1 || id > int64(len(l.products)) {
		return nil, marketdomain.ErrProductNotFound
	}
	p := &l.products[id-1]

	if err := domainsvcs.ValidatePurchase(p, caller); err != nil {
		return nil, err
	}

	seller := p.Owner
	if l.balances[caller.Account] < caller.AttachedValue {
		return nil, marketdomain.ErrInsufficientFunds
	}
	l.balances[caller.Account] -= caller.AttachedValue
	l.balances[seller] += caller.AttachedValue

	p.MarkPurchased(caller.Account)

	l.emit(events.TopicProductPurchased, events.ProductPurchasedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ProductID:  p.ID,
		Name:       p.Name.String(),
		Price:      p.Price.Int64(),
		Owner:      p.Owner,
		Purchased:  true,
		CreatedAt:  p.CreatedAt,
		OccurredAt: time.Now().UTC(),
	})

	snap := p.Snapshot()
	return &snap, nil
}

// GetByID returns a copy of the product or ErrProductNotFound.
func (l *Ledger) GetByID(_ context.Context, id int64) (*models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id < 1 || id > int64(len(l.products)) {
		return nil, marketdomain.ErrProductNotFound
	}
	snap := l.products[id-1].Snapshot()
	return &snap, nil
}

// Info returns the ledger name and productCount.
func (l *Ledger) Info(_ context.Context) (*models.LedgerInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &models.LedgerInfo{Name: l.name, ProductCount: int64(len(l.products))}, nil
}

// FindAll returns a page of products in id order plus the total count.
func (l *Ledger) FindAll(_ context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.products)
	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	page := make([]*models.Product, 0, end-start)
	for i := start; i < end; i++ {
		snap := l.products[i].Snapshot()
		page = append(page, &snap)
	}
	return page, total, nil
}

// All returns a restartable sequence over ids 1..productCount. The count is
// pinned when iteration starts, so the sequence is stable and finite even if
// listings commit concurrently with a read.
func (l *Ledger) All(ctx context.Context) iter.Seq2[*models.Product, error] {
	return func(yield func(*models.Product, error) bool) {
		l.mu.Lock()
		count := int64(len(l.products))
		l.mu.Unlock()

		for id := int64(1); id <= count; id++ {
			p, err := l.GetByID(ctx, id)
			if !yield(p, err) {
				return
			}
		}
	}
}

// Balance returns the account's settled balance; unknown accounts hold zero.
func (l *Ledger) Balance(_ context.Context, account uuid.UUID) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// Deposit credits the account. Dev/test provisioning only.
func (l *Ledger) Deposit(_ context.Context, account uuid.UUID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *Ledger) emit(topic string, event any) {
	if l.sink != nil {
		l.sink(topic, event)
	}
}
