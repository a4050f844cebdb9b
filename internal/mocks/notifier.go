package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// Notifier is a mock type for the model.Notifier type.
type Notifier struct {
	mock.Mock
}

var _ model.Notifier = (*Notifier)(nil)

func NewNotifier(t testingT) *Notifier {
	m := &Notifier{}
	register(&m.Mock, t)
	return m
}

func (_m *Notifier) Send(ctx context.Context, msg model.Message) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

// Storage is a mock type for the model.Storage type.
type Storage struct {
	mock.Mock
}

var _ model.Storage = (*Storage)(nil)

func NewStorage(t testingT) *Storage {
	m := &Storage{}
	register(&m.Mock, t)
	return m
}

func (_m *Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ret := _m.Called(ctx, key, data, contentType)
	return ret.Error(0)
}
