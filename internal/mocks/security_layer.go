package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/taskhub-server/internal/model"
)

// SecurityLayer is a mock type for the model.SecurityLayer type.
type SecurityLayer struct {
	mock.Mock
}

var _ model.SecurityLayer = (*SecurityLayer)(nil)

func NewSecurityLayer(t testingT) *SecurityLayer {
	m := &SecurityLayer{}
	register(&m.Mock, t)
	return m
}

func (_m *SecurityLayer) Listen(network, address string) (net.Listener, error) {
	ret := _m.Called(network, address)
	var l net.Listener
	if v := ret.Get(0); v != nil {
		l = v.(net.Listener)
	}
	return l, ret.Error(1)
}
