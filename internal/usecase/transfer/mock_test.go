package transfer

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
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

type recordingLedger struct {
	mu      sync.Mutex
	calls   []string
	loading int
	loads   int
}

func (l *recordingLedger) ApplyTransfer(fromID, toID string, amount decimal.Decimal) {
	l.calls = append(l.calls, fromID+"->"+toID+":"+amount.String())
}

func (l *recordingLedger) StartLoading() func() {
	l.mu.Lock()
	l.loading++
	l.loads++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.loading--
		l.mu.Unlock()
	}
}

func (l *recordingLedger) isLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading > 0
}

// storeGateway keeps balances in memory and refuses calls whose context is
// done, like an HTTP client would. onUpdate runs before each update is applied.
type storeGateway struct {
	MockClientGateway

	mu       sync.Mutex
	balances map[string]decimal.Decimal
	onUpdate func(ctx context.Context, id string) error
}

func newStoreGateway(balances map[string]string) *storeGateway {
	g := &storeGateway{balances: make(map[string]decimal.Decimal)}
	for id, b := range balances {
		g.balances[id] = decimal.RequireFromString(b)
	}
	return g
}

func (g *storeGateway) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return client(id, id, g.balance(id).String()), nil
}

func (g *storeGateway) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	if g.onUpdate != nil {
		if err := g.onUpdate(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.balances[id] = *patch.Balance
	g.mu.Unlock()
	return client(id, id, patch.Balance.String()), nil
}

func (g *storeGateway) balance(id string) decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balances[id]
}

// balanceIs matches a patch that only sets the balance to want.
func balanceIs(want string) interface{} {
	return mock.MatchedBy(func(p domain.ClientPatch) bool {
		return p.Balance != nil && p.Name == nil && p.Balance.Equal(decimal.RequireFromString(want))
	})
}
