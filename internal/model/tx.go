package model

import "context"

// TxStores are stores bound to one database transaction.
type TxStores struct {
	Users UserStore
	OTPs  OTPStore
}

// Transactor runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}
