package mocks

import (
	"context"

	"github.com/dtroode/taskhub-server/internal/model"
)

// Transactor is a model.Transactor that runs fn directly against Stores
// without a transaction.
type Transactor struct {
	Stores model.TxStores
	Calls  int
}

var _ model.Transactor = (*Transactor)(nil)

func NewTransactor(users model.UserStore, otps model.OTPStore) *Transactor {
	return &Transactor{Stores: model.TxStores{Users: users, OTPs: otps}}
}

func (_m *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, stores model.TxStores) error) error {
	_m.Calls++
	return fn(ctx, _m.Stores)
}
