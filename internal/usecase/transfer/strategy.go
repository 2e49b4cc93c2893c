package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how the two balance updates of a transfer are issued.
type Strategy string

const (
	// StrategyConcurrent dispatches debit and credit together with no rollback.
	StrategyConcurrent Strategy = "concurrent"

	// StrategyCompensated debits, then credits, and reverses the debit when the
	// credit fails.
	StrategyCompensated Strategy = "compensated"
)

// ParseStrategy maps a configuration value to a Strategy. Empty selects
// StrategyCompensated.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyCompensated:
		return StrategyCompensated, nil
	case StrategyConcurrent:
		return StrategyConcurrent, nil
	default:
		return "", fmt.Errorf("unknown transfer strategy %q", s)
	}
}

// SettleTimeout bounds the credit and any reversal once the debit has been
// committed. Those calls run detached from the caller's context so a cancelled
// command cannot strand the debit.
const SettleTimeout = 10 * time.Second

// balances holds the absolute balances a transfer moves between.
type balances struct {
	fromID, toID     string
	fromOld, fromNew decimal.Decimal
	toNew            decimal.Decimal
}

func (e *Engine) applyConcurrent(ctx context.Context, b balances) error {
	// Both requests run to completion even when one of them fails.
	var g errgroup.Group
	g.Go(func() error {
		_, err := e.Gateway.UpdateClient(ctx, b.fromID, domain.BalancePatch(b.fromNew))
		return err
	})
	g.Go(func() error {
		_, err := e.Gateway.UpdateClient(ctx, b.toID, domain.BalancePatch(b.toNew))
		return err
	})
	return g.Wait()
}

func (e *Engine) applyCompensated(ctx context.Context, b balances) error {
	if _, err := e.Gateway.UpdateClient(ctx, b.fromID, domain.BalancePatch(b.fromNew)); err != nil {
		return err
	}

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.settleTimeout)
	defer cancel()

	_, creditErr := e.Gateway.UpdateClient(settleCtx, b.toID, domain.BalancePatch(b.toNew))
	if creditErr == nil {
		return nil
	}

	e.logger.Warn("Credit failed, reversing debit", "from_id", b.fromID, "to_id", b.toID, "error", creditErr)
	reverseCtx, cancelReverse := context.WithTimeout(context.WithoutCancel(ctx), e.settleTimeout)
	defer cancelReverse()
	if _, err := e.Gateway.UpdateClient(reverseCtx, b.fromID, domain.BalancePatch(b.fromOld)); err != nil {
		e.logger.Error("Failed to reverse debit", "from_id", b.fromID, "error", err)
		return &domain.PartialTransferError{FromID: b.fromID, ToID: b.toID, Err: creditErr}
	}
	return creditErr
}
