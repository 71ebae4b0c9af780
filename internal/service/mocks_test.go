package service

import (
	"context"

	"github.com/mfiorim/boutique-concierge/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock implementation of Extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, utterance string, history []domain.Turn, products []domain.Product) domain.Intent {
	args := m.Called(ctx, utterance, history, products)
	return args.Get(0).(domain.Intent)
}

// MockCatalog is a mock implementation of Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalog) PlaceOrder(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockListingCache is a mock implementation of ListingCache
type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Get(ctx context.Context) (*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingCache) GetStale(ctx context.Context) (*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingCache) Set(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

// MockNegotiator is a mock implementation of PaymentNegotiator
type MockNegotiator struct {
	mock.Mock
}

func (m *MockNegotiator) Negotiate(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.PaymentResult), args.Error(1)
}
