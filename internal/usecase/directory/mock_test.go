package directory

import (
	"context"

	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockClientGateway is a mock implementation of ClientGateway for testing
type MockClientGateway struct {
	mock.Mock
}

func (m *MockClientGateway) ListClients(ctx context.Context, partnerID string) ([]domain.Client, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientGateway) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientGateway) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientGateway) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientGateway) DeleteClient(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fixedSession struct {
	partner *domain.Partner
}

func (s fixedSession) Current() *domain.Partner {
	return s.partner
}
