package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dtroode/taskhub-server/internal/model"
)

var _ model.Transactor = (*Transactor)(nil)

// Transactor hands out user and OTP repositories that share one *sql.Tx.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor instance.
//
// Parameters:
//   - db: The database handle transactions are started on
//
// Returns a pointer to the newly created Transactor instance.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, runs fn with repositories bound to it, and
// commits on success or rolls back on error or panic. Panics are rethrown.
// Errors returned by fn are passed through unwrapped.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, stores model.TxStores) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
		}
	}()

	return fn(ctx, model.TxStores{
		Users: NewUserRepository(tx),
		OTPs:  NewOTPRepository(tx),
	})
}
