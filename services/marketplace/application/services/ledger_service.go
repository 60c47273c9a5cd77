package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/marketledger/pkg/cache"
	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/marketledger/services/marketplace/domain/services"
)

// LedgerService orchestrates listing and purchase of products.
// Event publishing is handled by the ledger repository (outbox pattern).
// Reads are served from Redis cache when available.
type LedgerService struct {
	ledger   repositories.Ledger
	accounts repositories.Accounts
	cache    *pkgcache.ProductCache
}

// NewLedgerService returns a LedgerService wired with the given repositories and cache.
func NewLedgerService(ledger repositories.Ledger, accounts repositories.Accounts, productCache *pkgcache.ProductCache) *LedgerService {
	return &LedgerService{ledger: ledger, accounts: accounts, cache: productCache}
}

// Create validates and lists a Product owned by the caller. The repository
// assigns the dense id and publishes ProductCreatedEvent; on any validation
// failure nothing is stored. Returns the listed product with its id set.
func (s *LedgerService) Create(ctx context.Context, caller uuid.UUID, name string, price int64) (*models.Product, error) {
	productName, err := models.NewProductName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", marketdomain.ErrInvalidProduct, err)
	}

	productPrice, err := models.NewPrice(price)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", marketdomain.ErrInvalidProduct, err)
	}

	product, err := models.NewProduct(productName, productPrice, caller)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := domainsvcs.ValidateProductForListing(product); err != nil {
		return nil, fmt.Errorf("%w: %w", marketdomain.ErrInvalidProduct, err)
	}

	if _, err := s.ledger.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("list product: %w", err)
	}

	return product, nil
}

// Purchase settles the caller's attached value against the listing. The
// repository evaluates the ordered preconditions inside its commit; the first
// purchase to commit wins and later attempts fail with ErrAlreadyPurchased.
// The stale cache entry is dropped so reads fall through to the catalog until
// the worker re-warms it.
func (s *LedgerService) Purchase(ctx context.Context, id int64, caller models.CallerContext) (*models.Product, error) {
	product, err := s.ledger.Purchase(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}

	return product, nil
}

// GetByID retrieves a Product using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the catalog.
//  3. Asynchronously warm the cache with the catalog result.
func (s *LedgerService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		// Any cache error counts as a miss; the catalog is authoritative.
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return &models.Product{
				ID:        cached.ID,
				Name:      models.ProductName(cached.Name),
				Price:     models.Price(cached.Price),
				Owner:     cached.Owner,
				Purchased: cached.Purchased,
				CreatedAt: cached.CreatedAt,
			}, nil
		}
	}

	product, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), &pkgcache.CachedProduct{
				ID:        product.ID,
				Name:      product.Name.String(),
				Price:     product.Price.Int64(),
				Owner:     product.Owner,
				Purchased: product.Purchased,
				CreatedAt: product.CreatedAt,
			})
		}()
	}

	return product, nil
}

// Info returns the ledger's immutable name and productCount.
func (s *LedgerService) Info(ctx context.Context) (*models.LedgerInfo, error) {
	info, err := s.ledger.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger info: %w", err)
	}
	return info, nil
}

// ProductCount returns the number of products ever listed.
func (s *LedgerService) ProductCount(ctx context.Context) (int64, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.ProductCount, nil
}

// List returns a page of products in id order plus the total count.
func (s *LedgerService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	products, total, err := s.ledger.FindAll(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// All returns the catalog as a lazy, restartable sequence in id order.
func (s *LedgerService) All(ctx context.Context) iter.Seq2[*models.Product, error] {
	return s.ledger.All(ctx)
}

// Balance returns the settled balance for the account.
func (s *LedgerService) Balance(ctx context.Context, account uuid.UUID) (int64, error) {
	balance, err := s.accounts.Balance(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("account balance: %w", err)
	}
	return balance, nil
}

// Deposit credits the account. Dev/test provisioning only.
func (s *LedgerService) Deposit(ctx context.Context, account uuid.UUID, amount int64) error {
	if err := s.accounts.Deposit(ctx, account, amount); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}
