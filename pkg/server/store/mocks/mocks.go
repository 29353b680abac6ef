// Package mocks provides testify mocks of the store interfaces for unit tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

var (
	_ store.PrincipalsStore = (*MockPrincipalsStore)(nil)
	_ store.SignaturesStore = (*MockSignaturesStore)(nil)
	_ store.HealthStore     = (*MockHealthStore)(nil)
)

// MockPrincipalsStore implements store.PrincipalsStore for testing using testify/mock
type MockPrincipalsStore struct {
	mock.Mock
}

func NewMockPrincipalsStore() *MockPrincipalsStore {
	return &MockPrincipalsStore{}
}

func (m *MockPrincipalsStore) FindByUsername(ctx context.Context, username string) (*model.Principal, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

func (m *MockPrincipalsStore) FindByID(ctx context.Context, id uint) (*model.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

func (m *MockPrincipalsStore) Create(ctx context.Context, principal *model.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockPrincipalsStore) UpdatePassword(ctx context.Context, username string, passwordHash string) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}

// MockSignaturesStore implements store.SignaturesStore for testing using testify/mock
type MockSignaturesStore struct {
	mock.Mock
}

func NewMockSignaturesStore() *MockSignaturesStore {
	return &MockSignaturesStore{}
}

func (m *MockSignaturesStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSignaturesStore) List(ctx context.Context, offset, limit int) ([]model.Signature, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Signature), args.Error(1)
}

func (m *MockSignaturesStore) Create(ctx context.Context, signature *model.Signature) error {
	args := m.Called(ctx, signature)
	return args.Error(0)
}

func (m *MockSignaturesStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
