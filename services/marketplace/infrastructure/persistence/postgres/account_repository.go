package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/marketledger/pkg/database"
	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
)

// AccountRepository implements repositories.Accounts against PostgreSQL.
// Accounts stand in for the external identity/value provider; the ledger
// only reads balances and moves value during settlement.
type AccountRepository struct {
	db *database.Database
}

var _ repositories.Accounts = (*AccountRepository)(nil)

// NewAccountRepository returns an AccountRepository backed by the given pool.
func NewAccountRepository(db *database.Database) *AccountRepository {
	return &AccountRepository{db: db}
}

// Balance returns the account's settled balance; unknown accounts hold zero.
func (r *AccountRepository) Balance(ctx context.Context, account uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT COALESCE(
			(SELECT balance FROM marketplace_accounts WHERE id = $1), 0)`, account).
		Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return balance, nil
}

// Deposit credits the account, creating it on first use. Dev/test provisioning only.
func (r *AccountRepository) Deposit(ctx context.Context, account uuid.UUID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO marketplace_accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = marketplace_accounts.balance + EXCLUDED.balance`,
		account, amount)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

// transferTx moves amount from buyer to seller inside the caller's transaction.
// The conditional debit guarantees no partial transfer: zero rows means the
// buyer's balance cannot cover the attached value and the whole purchase rolls
// back.
func transferTx(ctx context.Context, tx *sql.Tx, from, to uuid.UUID, amount int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE marketplace_accounts
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1`, amount, from)
	if err != nil {
		return fmt.Errorf("debit buyer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit buyer: %w", err)
	}
	if affected == 0 {
		return marketdomain.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO marketplace_accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = marketplace_accounts.balance + EXCLUDED.balance`,
		to, amount); err != nil {
		return fmt.Errorf("credit seller: %w", err)
	}
	return nil
}
