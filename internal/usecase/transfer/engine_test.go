package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEngine(strategy Strategy) (*Engine, *MockClientGateway, *recordingLedger) {
	gateway := new(MockClientGateway)
	ledger := &recordingLedger{}
	return NewEngine(gateway, ledger, strategy, nil), gateway, ledger
}

func TestTransfer_Succeeds(t *testing.T) {
	ctx := context.Background()
	engine, gateway, ledger := newEngine(StrategyCompensated)
	ana := client("c1", "Ana", "3000")
	bruno := client("c2", "Bruno", "1000")

	// Setup
	gateway.On("GetClient", ctx, "c1").Return(ana, nil)
	gateway.On("GetClient", ctx, "c2").Return(bruno, nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).Return(client("c1", "Ana", "2500"), nil).Once()
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(client("c2", "Bruno", "1500"), nil).Once()

	// Execute
	confirmation, err := engine.Submit(Intent{From: ana, To: bruno, Amount: "500"})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, engine.State())
	assert.Equal(t, "Transfer R$ 500,00 from Ana to Bruno?", confirmation.Prompt)
	assert.Equal(t, "R$ 500,00", confirmation.FormattedAmount)

	err = engine.Confirm(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, engine.State())
	assert.Equal(t, []string{"c1->c2:500"}, ledger.calls)
	gateway.AssertExpectations(t)
}

func TestTransfer_ConcurrentSucceeds(t *testing.T) {
	engine, gateway, ledger := newEngine(StrategyConcurrent)
	ana := client("c1", "Ana", "3000")
	bruno := client("c2", "Bruno", "1000")

	gateway.On("GetClient", mock.Anything, "c1").Return(ana, nil)
	gateway.On("GetClient", mock.Anything, "c2").Return(bruno, nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).Return(ana, nil).Once()
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(bruno, nil).Once()

	_, err := engine.Submit(Intent{From: ana, To: bruno, Amount: "500"})
	require.NoError(t, err)
	require.NoError(t, engine.Confirm(context.Background()))

	assert.Len(t, ledger.calls, 1)
	gateway.AssertExpectations(t)
}

func TestTransfer_InsufficientBalanceNeverUpdates(t *testing.T) {
	engine, gateway, ledger := newEngine(StrategyCompensated)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "0"), Amount: "5000"})

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "insufficient balance", verrs.Field("amount"))
	assert.Equal(t, StateIdle, engine.State())
	assert.ErrorIs(t, engine.Confirm(context.Background()), ErrInvalidState)
	gateway.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, ledger.calls)
}

func TestTransfer_ClientVanished(t *testing.T) {
	ctx := context.Background()
	engine, gateway, ledger := newEngine(StrategyCompensated)

	gateway.On("GetClient", ctx, "c1").Return(client("c1", "Ana", "3000"), nil)
	gateway.On("GetClient", ctx, "c2").Return(nil, nil)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "0"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(ctx)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "client not found")
	assert.Equal(t, StateFailed, engine.State())
	gateway.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, ledger.calls)
}

func TestTransfer_StaleBalance(t *testing.T) {
	ctx := context.Background()
	engine, gateway, _ := newEngine(StrategyCompensated)

	// Directory copy says 3000, the source of truth says 100.
	gateway.On("GetClient", ctx, "c1").Return(client("c1", "Ana", "100"), nil)
	gateway.On("GetClient", ctx, "c2").Return(client("c2", "Bruno", "0"), nil)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "0"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(ctx)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	gateway.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_CompensatesFailedCredit(t *testing.T) {
	ctx := context.Background()
	engine, gateway, ledger := newEngine(StrategyCompensated)

	gateway.On("GetClient", ctx, "c1").Return(client("c1", "Ana", "3000"), nil)
	gateway.On("GetClient", ctx, "c2").Return(client("c2", "Bruno", "1000"), nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).Return(client("c1", "Ana", "2500"), nil).Once()
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(nil, errors.New("connection reset")).Once()
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("3000")).Return(client("c1", "Ana", "3000"), nil).Once()

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(ctx)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "failed to update client", err.Error())
	assert.Equal(t, StateFailed, engine.State())
	assert.Empty(t, ledger.calls)
	gateway.AssertExpectations(t)
}

func TestTransfer_ReportsPartialTransfer(t *testing.T) {
	ctx := context.Background()
	engine, gateway, ledger := newEngine(StrategyCompensated)

	gateway.On("GetClient", ctx, "c1").Return(client("c1", "Ana", "3000"), nil)
	gateway.On("GetClient", ctx, "c2").Return(client("c2", "Bruno", "1000"), nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).Return(client("c1", "Ana", "2500"), nil).Once()
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(nil, errors.New("connection reset")).Once()
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("3000")).Return(nil, errors.New("connection reset")).Once()

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(ctx)

	var partial *domain.PartialTransferError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "c1", partial.FromID)
	assert.Equal(t, "c2", partial.ToID)
	assert.Empty(t, ledger.calls)
}

func TestTransfer_ConcurrentLeavesPartialState(t *testing.T) {
	engine, gateway, ledger := newEngine(StrategyConcurrent)

	gateway.On("GetClient", mock.Anything, "c1").Return(client("c1", "Ana", "3000"), nil)
	gateway.On("GetClient", mock.Anything, "c2").Return(client("c2", "Bruno", "1000"), nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).Return(client("c1", "Ana", "2500"), nil)
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(nil, errors.New("timeout"))

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(context.Background())

	assert.EqualError(t, err, "failed to update client")
	gateway.AssertNotCalled(t, "UpdateClient", mock.Anything, "c1", balanceIs("3000"))
	assert.Empty(t, ledger.calls)
}

func TestEngine_StateTransitions(t *testing.T) {
	ctx := context.Background()
	engine, gateway, _ := newEngine(StrategyCompensated)
	ana := client("c1", "Ana", "3000")
	bruno := client("c2", "Bruno", "0")

	assert.ErrorIs(t, engine.Confirm(ctx), ErrInvalidState)
	assert.NoError(t, engine.Cancel())

	_, err := engine.Submit(Intent{From: ana, To: bruno, Amount: "10"})
	require.NoError(t, err)
	_, err = engine.Submit(Intent{From: ana, To: bruno, Amount: "10"})
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, engine.Cancel())
	assert.Equal(t, StateIdle, engine.State())

	// A failed attempt can be resubmitted.
	gateway.On("GetClient", ctx, "c1").Return(nil, errors.New("down")).Once()
	_, err = engine.Submit(Intent{From: ana, To: bruno, Amount: "10"})
	require.NoError(t, err)
	assert.Error(t, engine.Confirm(ctx))
	assert.Equal(t, StateFailed, engine.State())

	_, err = engine.Submit(Intent{From: ana, To: bruno, Amount: "10"})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, engine.State())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyCompensated, s)

	s, err = ParseStrategy("concurrent")
	require.NoError(t, err)
	assert.Equal(t, StrategyConcurrent, s)

	_, err = ParseStrategy("atomic")
	assert.Error(t, err)
}

func TestTransfer_CreditSurvivesCancelledCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway := newStoreGateway(map[string]string{"c1": "3000", "c2": "1000"})
	gateway.onUpdate = func(_ context.Context, id string) error {
		if id == "c2" {
			cancel()
		}
		return nil
	}
	ledger := &recordingLedger{}
	engine := NewEngine(gateway, ledger, StrategyCompensated, nil)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	require.NoError(t, engine.Confirm(ctx))
	assert.True(t, gateway.balance("c1").Equal(decimal.NewFromInt(2500)))
	assert.True(t, gateway.balance("c2").Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, []string{"c1->c2:500"}, ledger.calls)
}

func TestTransfer_ReversalSurvivesCancelledCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The caller gives up while the credit is in flight and the credit fails.
	gateway := newStoreGateway(map[string]string{"c1": "3000", "c2": "1000"})
	gateway.onUpdate = func(_ context.Context, id string) error {
		if id == "c2" {
			cancel()
			return errors.New("connection reset")
		}
		return nil
	}
	engine := NewEngine(gateway, &recordingLedger{}, StrategyCompensated, nil)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(ctx)

	var partial *domain.PartialTransferError
	assert.False(t, errors.As(err, &partial))
	assert.EqualError(t, err, "failed to update client")
	assert.True(t, gateway.balance("c1").Equal(decimal.NewFromInt(3000)))
	assert.True(t, gateway.balance("c2").Equal(decimal.NewFromInt(1000)))
}

func TestTransfer_ConcurrentRunsBothUpdatesToCompletion(t *testing.T) {
	creditFailed := make(chan struct{})
	gateway := newStoreGateway(map[string]string{"c1": "3000", "c2": "1000"})
	gateway.onUpdate = func(ctx context.Context, id string) error {
		if id == "c2" {
			close(creditFailed)
			return errors.New("timeout")
		}
		<-creditFailed
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return nil
		}
	}
	engine := NewEngine(gateway, &recordingLedger{}, StrategyConcurrent, nil)

	_, err := engine.Submit(Intent{From: client("c1", "Ana", "3000"), To: client("c2", "Bruno", "1000"), Amount: "500"})
	require.NoError(t, err)

	err = engine.Confirm(context.Background())

	assert.EqualError(t, err, "failed to update client")
	assert.True(t, gateway.balance("c1").Equal(decimal.NewFromInt(2500)))
	assert.True(t, gateway.balance("c2").Equal(decimal.NewFromInt(1000)))
}

func TestTransfer_RaisesLoadingIndicator(t *testing.T) {
	engine, gateway, ledger := newEngine(StrategyCompensated)
	ana := client("c1", "Ana", "3000")
	bruno := client("c2", "Bruno", "1000")

	var loadingDuringUpdate bool
	gateway.On("GetClient", mock.Anything, "c1").Return(ana, nil)
	gateway.On("GetClient", mock.Anything, "c2").Return(bruno, nil)
	gateway.On("UpdateClient", mock.Anything, "c1", balanceIs("2500")).
		Run(func(mock.Arguments) { loadingDuringUpdate = ledger.isLoading() }).
		Return(client("c1", "Ana", "2500"), nil)
	gateway.On("UpdateClient", mock.Anything, "c2", balanceIs("1500")).Return(client("c2", "Bruno", "1500"), nil)

	_, err := engine.Submit(Intent{From: ana, To: bruno, Amount: "500"})
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.loads)

	require.NoError(t, engine.Confirm(context.Background()))

	assert.True(t, loadingDuringUpdate)
	assert.False(t, ledger.isLoading())
	assert.Equal(t, 1, ledger.loads)
}
