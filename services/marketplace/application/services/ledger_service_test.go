package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
	"github.com/ghuser/marketledger/services/marketplace/infrastructure/persistence/memory"
)

// newTestService wires the service against the in-memory ledger. The cache is
// nil so reads go straight to the catalog.
func newTestService() (*LedgerService, *memory.Ledger) {
	l := memory.NewLedger("Marketplace", nil)
	return NewLedgerService(l, l, nil), l
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	seller := uuid.New()

	t.Run("valid listing", func(t *testing.T) {
		p, err := svc.Create(ctx, seller, "iPhone", 100)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.ID != 1 {
			t.Errorf("ID = %d, want 1", p.ID)
		}
		if p.Owner != seller {
			t.Errorf("Owner = %v, want %v", p.Owner, seller)
		}
	})

	tests := []struct {
		name  string
		input string
		price int64
	}{
		{"empty name", "", 100},
		{"zero price", "iPhone", 0},
		{"negative price", "iPhone", -5},
		{"padded name", " iPhone ", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, seller, tt.input, tt.price)
			if !errors.Is(err, marketdomain.ErrInvalidProduct) {
				t.Errorf("error = %v, want ErrInvalidProduct", err)
			}
		})
	}

	t.Run("failed listings do not consume ids", func(t *testing.T) {
		count, err := svc.ProductCount(ctx)
		if err != nil {
			t.Fatalf("ProductCount: %v", err)
		}
		if count != 1 {
			t.Errorf("ProductCount = %d, want 1", count)
		}
	})
}

func TestServicePurchaseFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	seller := uuid.New()
	buyer := uuid.New()

	if err := svc.Deposit(ctx, buyer, 100); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	listed, err := svc.Create(ctx, seller, "iPhone", 100)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Purchase(ctx, listed.ID, models.NewCallerContext(buyer, 100))
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if got.Owner != buyer || !got.Purchased {
		t.Errorf("purchase result owner=%v purchased=%v", got.Owner, got.Purchased)
	}

	sellerBalance, err := svc.Balance(ctx, seller)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if sellerBalance != 100 {
		t.Errorf("seller balance = %d, want 100", sellerBalance)
	}
	buyerBalance, _ := svc.Balance(ctx, buyer)
	if buyerBalance != 0 {
		t.Errorf("buyer balance = %d, want 0", buyerBalance)
	}

	// The read path observes the committed state.
	p, err := svc.GetByID(ctx, listed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !p.Purchased || p.Owner != buyer {
		t.Error("GetByID did not observe the committed purchase")
	}
}

func TestServicePurchasePropagatesDomainErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	seller := uuid.New()
	buyer := uuid.New()

	if err := svc.Deposit(ctx, buyer, 1000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if _, err := svc.Create(ctx, seller, "iPhone", 100); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name    string
		id      int64
		caller  models.CallerContext
		wantErr error
	}{
		{"not found", 99, models.NewCallerContext(buyer, 100), marketdomain.ErrProductNotFound},
		{"payment mismatch", 1, models.NewCallerContext(buyer, 42), marketdomain.ErrPaymentMismatch},
		{"self purchase", 1, models.NewCallerContext(seller, 100), marketdomain.ErrSelfPurchase},
		{"insufficient funds", 1, models.NewCallerContext(uuid.New(), 100), marketdomain.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Purchase(ctx, tt.id, tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceListAndAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	seller := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, seller, "Widget", 10); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, total, err := svc.List(ctx, repositories.QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("List total=%d page=%d, want 3/2", total, len(page))
	}

	var ids []int64
	for p, err := range svc.All(ctx) {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		ids = append(ids, p.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("All ids = %v, want [1 2 3]", ids)
	}

	info, err := svc.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Name != "Marketplace" || info.ProductCount != 3 {
		t.Errorf("Info = %+v", info)
	}
}
