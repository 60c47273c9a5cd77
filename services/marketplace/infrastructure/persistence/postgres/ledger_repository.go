package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/marketledger/pkg/database"
	"github.com/ghuser/marketledger/pkg/events"
	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	domainevents "github.com/ghuser/marketledger/services/marketplace/domain/events"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
	domainsvcs "github.com/ghuser/marketledger/services/marketplace/domain/services"
)

// allBatchSize is the page size used by All when streaming the catalog.
const allBatchSize = 100

// LedgerRepository implements repositories.Ledger against PostgreSQL.
//
// Mutations run inside a single transaction with the product row locked
// (SELECT ... FOR UPDATE) and the counter row serializing id assignment, so
// concurrent calls are linearized by the database: the first purchase to
// commit wins, later ones observe purchased = true.
type LedgerRepository struct {
	db  *database.Database
	bus *events.EventBus
}

var _ repositories.Ledger = (*LedgerRepository)(nil)

// NewLedgerRepository returns a LedgerRepository backed by the given connection
// pool and event bus. The bus publishes ledger events within the same
// transaction as the catalog mutation.
func NewLedgerRepository(db *database.Database, bus *events.EventBus) *LedgerRepository {
	return &LedgerRepository{db: db, bus: bus}
}

// EnsureLedger creates the singleton ledger row if it does not exist yet.
// The name is set once here and never overwritten afterwards.
func (r *LedgerRepository) EnsureLedger(ctx context.Context, name string) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO marketplace_ledger (singleton, name, product_count)
		VALUES (TRUE, $1, 0)
		ON CONFLICT (singleton) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("ensure ledger: %w", err)
	}
	return nil
}

// Create assigns the next dense id from the counter row, inserts the product,
// and publishes ProductCreatedEvent within the same transaction.
func (r *LedgerRepository) Create(ctx context.Context, product *models.Product) (int64, error) {
	if err := domainsvcs.ValidateProductForListing(product); err != nil {
		return 0, fmt.Errorf("%w: %w", marketdomain.ErrInvalidProduct, err)
	}

	var id int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// The counter row is the single writer's sequence: locking it orders
		// all listings and keeps ids dense (no gaps on rollback).
		if err := tx.QueryRowContext(ctx, `
			UPDATE marketplace_ledger
			SET product_count = product_count + 1
			WHERE singleton
			RETURNING product_count`).Scan(&id); err != nil {
			return fmt.Errorf("assign product id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO marketplace_products (id, name, price, owner_id, purchased, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)`,
			id, product.Name.String(), product.Price.Int64(), product.Owner, product.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		product.ID = id

		if r.bus != nil {
			evt := domainevents.ProductCreatedEvent{
				EventID:    uuid.New(),
				Version:    1,
				ProductID:  id,
				Name:       product.Name.String(),
				Price:      product.Price.Int64(),
				Owner:      product.Owner,
				Purchased:  false,
				CreatedAt:  product.CreatedAt,
				OccurredAt: product.CreatedAt,
			}
			if err := r.publish(tx, domainevents.TopicProductCreated, evt, evt.EventID); err != nil {
				return fmt.Errorf("publish product created: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Purchase locks the product row, validates the ordered preconditions, moves
// the attached value from buyer to seller, reassigns ownership, and publishes
// ProductPurchasedEvent. The whole operation commits or rolls back as a unit.
func (r *LedgerRepository) Purchase(ctx context.Context, id int64, caller models.CallerContext) (*models.Product, error) {
	var purchased *models.Product
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		product, err := scanProduct(tx.QueryRowContext(ctx, `
			SELECT id, name, price, owner_id, purchased, created_at
			FROM marketplace_products
			WHERE id = $1
			FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return marketdomain.ErrProductNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if err := domainsvcs.ValidatePurchase(product, caller); err != nil {
			return err
		}

		seller := product.Owner
		if err := transferTx(ctx, tx, caller.Account, seller, caller.AttachedValue); err != nil {
			return err
		}

		product.MarkPurchased(caller.Account)
		if _, err := tx.ExecContext(ctx, `
			UPDATE marketplace_products
			SET owner_id = $1, purchased = TRUE
			WHERE id = $2`,
			product.Owner, product.ID,
		); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.ProductPurchasedEvent{
				EventID:    uuid.New(),
				Version:    1,
				ProductID:  product.ID,
				Name:       product.Name.String(),
				Price:      product.Price.Int64(),
				Owner:      product.Owner,
				Purchased:  true,
				CreatedAt:  product.CreatedAt,
				OccurredAt: time.Now().UTC(),
			}
			if err := r.publish(tx, domainevents.TopicProductPurchased, evt, evt.EventID); err != nil {
				return fmt.Errorf("publish product purchased: %w", err)
			}
		}

		purchased = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchased, nil
}

// GetByID retrieves a product by id. Returns ErrProductNotFound if absent.
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := scanProduct(r.db.DB().QueryRowContext(ctx, `
		SELECT id, name, price, owner_id, purchased, created_at
		FROM marketplace_products
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, marketdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return product, nil
}

// Info returns the ledger name and productCount from the singleton row.
func (r *LedgerRepository) Info(ctx context.Context) (*models.LedgerInfo, error) {
	var info models.LedgerInfo
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT name, product_count FROM marketplace_ledger WHERE singleton`).
		Scan(&info.Name, &info.ProductCount)
	if err != nil {
		return nil, fmt.Errorf("query ledger info: %w", err)
	}
	return &info, nil
}

// FindAll retrieves a page of products in id order plus the total count.
func (r *LedgerRepository) FindAll(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = allBatchSize
	}

	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, name, price, owner_id, purchased, created_at
		FROM marketplace_products
		ORDER BY id
		LIMIT $1 OFFSET $2`, limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	info, err := r.Info(ctx)
	if err != nil {
		return nil, 0, err
	}
	return products, int(info.ProductCount), nil
}

// All streams the catalog in id order, fetching in batches. The count is
// pinned when iteration starts so the sequence is stable and finite; ranging
// over the result again restarts from id 1.
func (r *LedgerRepository) All(ctx context.Context) iter.Seq2[*models.Product, error] {
	return func(yield func(*models.Product, error) bool) {
		info, err := r.Info(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		for offset := 0; int64(offset) < info.ProductCount; offset += allBatchSize {
			batch, _, err := r.FindAll(ctx, repositories.QueryOpts{Limit: allBatchSize, Offset: offset})
			if err != nil {
				yield(nil, err)
				return
			}
			for _, p := range batch {
				if p.ID > info.ProductCount {
					return
				}
				if !yield(p, nil) {
					return
				}
			}
		}
	}
}

func (r *LedgerRepository) publish(tx *sql.Tx, topic string, event any, eventID uuid.UUID) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var name string
	var price int64
	if err := row.Scan(&p.ID, &name, &price, &p.Owner, &p.Purchased, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Name = models.ProductName(name)
	p.Price = models.Price(price)
	return &p, nil
}
