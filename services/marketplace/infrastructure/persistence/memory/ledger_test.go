package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/events"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
)

func newProduct(t *testing.T, name string, price int64, owner uuid.UUID) *models.Product {
	t.Helper()
	n, err := models.NewProductName(name)
	if err != nil {
		t.Fatalf("NewProductName: %v", err)
	}
	p, err := models.NewPrice(price)
	if err != nil {
		t.Fatalf("NewPrice: %v", err)
	}
	product, err := models.NewProduct(n, p, owner)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	return product
}

// recorder collects emitted events for assertions.
type recorder struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (r *recorder) sink(topic string, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event)
}

// The reference scenario: a seller lists an iPhone for 1, a funded buyer pays
// exactly 1, the seller's balance grows by 1, and a second purchase attempt
// fails without moving value.
func TestPurchaseScenario(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	l := NewLedger("Marketplace", rec.sink)

	seller := uuid.New()
	buyer := uuid.New()
	deployer := uuid.New()

	if err := l.Deposit(ctx, buyer, 10); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	id, err := l.Create(ctx, newProduct(t, "iPhone", 1, seller))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}

	sellerBefore, _ := l.Balance(ctx, seller)

	got, err := l.Purchase(ctx, id, models.NewCallerContext(buyer, 1))
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if !got.Purchased {
		t.Error("product must be marked purchased")
	}
	if got.Owner != buyer {
		t.Errorf("owner = %v, want buyer %v", got.Owner, buyer)
	}

	sellerAfter, _ := l.Balance(ctx, seller)
	if sellerAfter != sellerBefore+1 {
		t.Errorf("seller balance = %d, want %d", sellerAfter, sellerBefore+1)
	}
	buyerAfter, _ := l.Balance(ctx, buyer)
	if buyerAfter != 9 {
		t.Errorf("buyer balance = %d, want 9", buyerAfter)
	}

	// Sold is terminal: a second purchase fails, even from a third party.
	if err := l.Deposit(ctx, deployer, 5); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	_, err = l.Purchase(ctx, id, models.NewCallerContext(deployer, 1))
	if !errors.Is(err, marketdomain.ErrAlreadyPurchased) {
		t.Fatalf("second purchase error = %v, want ErrAlreadyPurchased", err)
	}
	deployerBalance, _ := l.Balance(ctx, deployer)
	if deployerBalance != 5 {
		t.Errorf("failed purchase moved value: balance = %d, want 5", deployerBalance)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	wantTopics := []string{events.TopicProductCreated, events.TopicProductPurchased}
	if len(rec.topics) != len(wantTopics) {
		t.Fatalf("emitted %d events %v, want %v", len(rec.topics), rec.topics, wantTopics)
	}
	for i, topic := range wantTopics {
		if rec.topics[i] != topic {
			t.Errorf("event[%d] topic = %q, want %q", i, rec.topics[i], topic)
		}
	}
}

func TestCreateAssignsDenseIDs(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)
	seller := uuid.New()

	for want := int64(1); want <= 5; want++ {
		id, err := l.Create(ctx, newProduct(t, "Widget", 10, seller))
		if err != nil {
			t.Fatalf("Create #%d: %v", want, err)
		}
		if id != want {
			t.Fatalf("id = %d, want %d", id, want)
		}
	}

	info, err := l.Info(ctx)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.ProductCount != 5 {
		t.Errorf("ProductCount = %d, want 5", info.ProductCount)
	}
	if info.Name != "Marketplace" {
		t.Errorf("Name = %q, want Marketplace", info.Name)
	}
}

func TestCreateRejectsInvalidProduct(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)

	p := newProduct(t, "ok", 10, uuid.New())
	p.Name = models.ProductName("  padded  ")
	if _, err := l.Create(ctx, p); !errors.Is(err, marketdomain.ErrInvalidProduct) {
		t.Fatalf("error = %v, want ErrInvalidProduct", err)
	}

	info, _ := l.Info(ctx)
	if info.ProductCount != 0 {
		t.Errorf("failed create changed productCount to %d", info.ProductCount)
	}
}

func TestPurchaseErrors(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()

	setup := func(t *testing.T) *Ledger {
		l := NewLedger("Marketplace", nil)
		if _, err := l.Create(ctx, newProduct(t, "iPhone", 100, seller)); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := l.Deposit(ctx, buyer, 1000); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
		return l
	}

	t.Run("unknown id beyond count", func(t *testing.T) {
		l := setup(t)
		info, _ := l.Info(ctx)
		_, err := l.Purchase(ctx, info.ProductCount+98, models.NewCallerContext(buyer, 100))
		if !errors.Is(err, marketdomain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("id zero", func(t *testing.T) {
		l := setup(t)
		_, err := l.Purchase(ctx, 0, models.NewCallerContext(buyer, 100))
		if !errors.Is(err, marketdomain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("underpayment", func(t *testing.T) {
		l := setup(t)
		_, err := l.Purchase(ctx, 1, models.NewCallerContext(buyer, 99))
		if !errors.Is(err, marketdomain.ErrPaymentMismatch) {
			t.Errorf("error = %v, want ErrPaymentMismatch", err)
		}
	})

	t.Run("overpayment", func(t *testing.T) {
		l := setup(t)
		_, err := l.Purchase(ctx, 1, models.NewCallerContext(buyer, 101))
		if !errors.Is(err, marketdomain.ErrPaymentMismatch) {
			t.Errorf("error = %v, want ErrPaymentMismatch", err)
		}
	})

	t.Run("self purchase", func(t *testing.T) {
		l := setup(t)
		if err := l.Deposit(ctx, seller, 1000); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
		_, err := l.Purchase(ctx, 1, models.NewCallerContext(seller, 100))
		if !errors.Is(err, marketdomain.ErrSelfPurchase) {
			t.Errorf("error = %v, want ErrSelfPurchase", err)
		}
	})

	t.Run("insufficient funds", func(t *testing.T) {
		l := setup(t)
		broke := uuid.New()
		_, err := l.Purchase(ctx, 1, models.NewCallerContext(broke, 100))
		if !errors.Is(err, marketdomain.ErrInsufficientFunds) {
			t.Errorf("error = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("failed purchase leaves state untouched", func(t *testing.T) {
		l := setup(t)
		_, _ = l.Purchase(ctx, 1, models.NewCallerContext(buyer, 99))

		p, err := l.GetByID(ctx, 1)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if p.Purchased || p.Owner != seller {
			t.Error("failed purchase mutated the product")
		}
		balance, _ := l.Balance(ctx, buyer)
		if balance != 1000 {
			t.Errorf("failed purchase moved value: balance = %d, want 1000", balance)
		}
	})
}

func TestGetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)
	seller := uuid.New()

	if _, err := l.Create(ctx, newProduct(t, "iPhone", 100, seller)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p1, _ := l.GetByID(ctx, 1)
	p1.Purchased = true // mutate the copy

	p2, _ := l.GetByID(ctx, 1)
	if p2.Purchased {
		t.Error("mutating a returned product leaked into ledger state")
	}
}

func TestFindAllPaging(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)
	seller := uuid.New()

	for i := 0; i < 7; i++ {
		if _, err := l.Create(ctx, newProduct(t, "Widget", 10, seller)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, total, err := l.FindAll(ctx, repositories.QueryOpts{Limit: 3, Offset: 5})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].ID != 6 || page[1].ID != 7 {
		t.Errorf("page ids = %d,%d, want 6,7", page[0].ID, page[1].ID)
	}

	page, _, err = l.FindAll(ctx, repositories.QueryOpts{Limit: 3, Offset: 100})
	if err != nil {
		t.Fatalf("FindAll past end: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("page past end size = %d, want 0", len(page))
	}
}

func TestAllIsRestartableAndOrdered(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)
	seller := uuid.New()

	for i := 0; i < 4; i++ {
		if _, err := l.Create(ctx, newProduct(t, "Widget", 10, seller)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	seq := l.All(ctx)

	collect := func() []int64 {
		var ids []int64
		for p, err := range seq {
			if err != nil {
				t.Fatalf("iteration error: %v", err)
			}
			ids = append(ids, p.ID)
		}
		return ids
	}

	first := collect()
	second := collect() // ranging again restarts from id 1

	want := []int64{1, 2, 3, 4}
	for i, id := range want {
		if first[i] != id || second[i] != id {
			t.Fatalf("ids = %v / %v, want %v", first, second, want)
		}
	}

	// Early break must not poison later iterations.
	for p := range seq {
		if p.ID == 2 {
			break
		}
	}
	if got := collect(); len(got) != 4 {
		t.Errorf("after early break, full iteration yielded %d products, want 4", len(got))
	}
}

func TestConcurrentPurchaseSingleWinner(t *testing.T) {
	ctx := context.Background()
	l := NewLedger("Marketplace", nil)
	seller := uuid.New()

	if _, err := l.Create(ctx, newProduct(t, "iPhone", 1, seller)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const buyers = 16
	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		buyer := uuid.New()
		if err := l.Deposit(ctx, buyer, 1); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Purchase(ctx, 1, models.NewCallerContext(buyer, 1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, marketdomain.ErrAlreadyPurchased):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if conflicts != buyers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, buyers-1)
	}

	sellerBalance, _ := l.Balance(ctx, seller)
	if sellerBalance != 1 {
		t.Errorf("seller balance = %d, want 1 (value settled exactly once)", sellerBalance)
	}
}
