package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/rules"
)

// ErrInvalidState is returned when an operation does not apply to the current state.
var ErrInvalidState = errors.New("invalid transfer state")

// State is the step a transfer attempt is in.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSubmitting           State = "submitting"
	StateSucceeded            State = "succeeded"
	StateFailed               State = "failed"
)

// Ledger receives the local balance delta once a transfer has been committed
// remotely. StartLoading raises the shared loading indicator until the returned
// func is called.
type Ledger interface {
	ApplyTransfer(fromID, toID string, amount decimal.Decimal)
	StartLoading() (done func())
}

// Confirmation is what the user is asked to approve before anything is sent.
type Confirmation struct {
	FromName        string
	ToName          string
	Amount          decimal.Decimal
	FormattedAmount string
	Prompt          string
}

type pending struct {
	fromID string
	toID   string
	amount decimal.Decimal
}

// Engine runs one transfer attempt at a time through validation, confirmation
// and execution.
type Engine struct {
	Gateway  domain.ClientGateway
	Ledger   Ledger
	Strategy Strategy

	logger        *slog.Logger
	settleTimeout time.Duration

	mu      sync.Mutex
	state   State
	pending *pending
}

// NewEngine creates a new Engine instance
func NewEngine(gateway domain.ClientGateway, ledger Ledger, strategy Strategy, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if strategy == "" {
		strategy = StrategyCompensated
	}
	return &Engine{
		Gateway:       gateway,
		Ledger:        ledger,
		Strategy:      strategy,
		logger:        logger,
		settleTimeout: SettleTimeout,
		state:         StateIdle,
	}
}

// State returns the current step.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Submit validates intent and, when it passes, holds it for confirmation.
// Validation failures are returned as domain.ValidationErrors and leave the
// engine idle.
func (e *Engine) Submit(intent Intent) (*Confirmation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateIdle, StateSucceeded, StateFailed:
	default:
		return nil, fmt.Errorf("%w: cannot submit while %s", ErrInvalidState, e.state)
	}

	e.state = StateValidating
	amount, errs := Validate(intent)
	if len(errs) > 0 {
		e.state = StateIdle
		e.pending = nil
		return nil, domain.ValidationErrors(errs)
	}

	e.pending = &pending{fromID: intent.From.ID, toID: intent.To.ID, amount: amount}
	e.state = StateAwaitingConfirmation

	formatted := rules.FormatCurrency(amount)
	return &Confirmation{
		FromName:        intent.From.Name,
		ToName:          intent.To.Name,
		Amount:          amount,
		FormattedAmount: formatted,
		Prompt:          fmt.Sprintf("Transfer %s from %s to %s?", formatted, intent.From.Name, intent.To.Name),
	}, nil
}

// Cancel abandons the held intent.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateAwaitingConfirmation, StateFailed, StateSucceeded:
		e.state = StateIdle
		e.pending = nil
		return nil
	case StateIdle:
		return nil
	default:
		return fmt.Errorf("%w: cannot cancel while %s", ErrInvalidState, e.state)
	}
}

// Confirm executes the held transfer. Both clients are fetched again and the
// origin balance is checked against the fresh copy before any update is sent.
func (e *Engine) Confirm(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateAwaitingConfirmation || e.pending == nil {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot confirm while %s", ErrInvalidState, state)
	}
	p := *e.pending
	e.state = StateSubmitting
	e.mu.Unlock()

	if e.Ledger != nil {
		done := e.Ledger.StartLoading()
		defer done()
	}
	err := e.execute(ctx, p)

	e.mu.Lock()
	if err != nil {
		e.state = StateFailed
	} else {
		e.state = StateSucceeded
		e.pending = nil
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("Transfer failed",
			"from_id", p.fromID, "to_id", p.toID, "amount", p.amount.String(), "error", err)
		return err
	}

	e.logger.Info("Transfer completed",
		"from_id", p.fromID, "to_id", p.toID, "amount", p.amount.String(), "strategy", string(e.Strategy))
	return nil
}

func (e *Engine) execute(ctx context.Context, p pending) error {
	from, err := e.fetch(ctx, p.fromID)
	if err != nil {
		return err
	}
	to, err := e.fetch(ctx, p.toID)
	if err != nil {
		return err
	}

	if from.Balance.LessThan(p.amount) {
		return domain.ErrInsufficientFunds
	}

	b := balances{
		fromID:  from.ID,
		toID:    to.ID,
		fromOld: from.Balance,
		fromNew: from.Balance.Sub(p.amount),
		toNew:   to.Balance.Add(p.amount),
	}

	var applyErr error
	switch e.Strategy {
	case StrategyConcurrent:
		applyErr = e.applyConcurrent(ctx, b)
	default:
		applyErr = e.applyCompensated(ctx, b)
	}
	if applyErr != nil {
		var partial *domain.PartialTransferError
		if errors.As(applyErr, &partial) {
			return applyErr
		}
		return asNetworkError("update", "failed to update client", applyErr)
	}

	if e.Ledger != nil {
		e.Ledger.ApplyTransfer(from.ID, to.ID, p.amount)
	}
	return nil
}

func (e *Engine) fetch(ctx context.Context, id string) (*domain.Client, error) {
	client, err := e.Gateway.GetClient(ctx, id)
	if err != nil {
		return nil, asNetworkError("get", "failed to load client", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func asNetworkError(op, message string, err error) error {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return err
	}
	return domain.NewNetworkError(op, message, err)
}
