// Package executor validates engine decisions against the live ledger
// and applies the ones that still hold. Affordability and share
// availability are re-checked here even though the engine already saw
// them: the double check keeps the ledger consistent if its state moved
// between decision and execution.
package executor

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

type ledgersvc interface {
	Balance() decimal.Decimal
	Quantity(instrument string) int64
	Fee(price decimal.Decimal, qty int64) decimal.Decimal
	Apply(instrument string, qty int64, price decimal.Decimal, action domain.Action)
}

// Executor applies validated decisions to a ledger.
type Executor struct {
	logger *zap.Logger
}

// New creates an executor.
func New(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Execute applies the decision to the ledger and returns the executed
// quantity together with a refusal reason when nothing was applied.
// Refusals execute nothing by definition; a buy that no longer fits the
// balance or a sell exceeding the held quantity is reported, not applied.
func (e *Executor) Execute(led ledgersvc, instrument string, price decimal.Decimal, dec domain.Decision) (int64, string) {
	switch dec.Action {
	case domain.ActionRefuse:
		return 0, dec.Reason

	case domain.ActionBuy:
		cost := price.Mul(decimal.NewFromInt(dec.Quantity)).Add(led.Fee(price, dec.Quantity))
		if led.Balance().LessThan(cost) {
			e.logger.Warn("insufficient funds to complete buy",
				zap.String("instrument", instrument),
				zap.Int64("quantity", dec.Quantity),
				zap.String("need", cost.String()),
				zap.String("have", led.Balance().String()))
			return 0, domain.ReasonInsufficientFunds
		}
		led.Apply(instrument, dec.Quantity, price, domain.ActionBuy)
		return dec.Quantity, ""

	case domain.ActionSell:
		if led.Quantity(instrument) < dec.Quantity {
			e.logger.Warn("not enough shares to complete sell",
				zap.String("instrument", instrument),
				zap.Int64("quantity", dec.Quantity),
				zap.Int64("owned", led.Quantity(instrument)))
			return 0, domain.ReasonInsufficientShares
		}
		led.Apply(instrument, dec.Quantity, price, domain.ActionSell)
		return dec.Quantity, ""

	default:
		// unreachable with the closed Action set, kept loud on purpose
		e.logger.Error("unknown action, no trade executed",
			zap.String("instrument", instrument),
			zap.String("action", dec.Action.String()))
		return 0, "unknown_action"
	}
}
