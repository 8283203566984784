// Package engine implements the rule-based buy/sell/refuse classifier.
// Decide is a pure function of the ledger view and the incoming tick;
// it never mutates state, so the same inputs always yield the same
// decision. All thresholds are fixed policy, not runtime-tunable.
package engine

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
)

// Policy thresholds. The trailing stop uses a single-sample peak: the
// greater of the last recorded price and the current price, not a
// running maximum since position entry.
var (
	dipThreshold          = decimal.NewFromFloat(0.95)
	maxBuyBalancePct      = decimal.NewFromFloat(0.10)
	takeProfitHigh        = decimal.NewFromFloat(1.10)
	takeProfitLow         = decimal.NewFromFloat(1.05)
	stopLossThreshold     = decimal.NewFromFloat(0.90)
	trailingStopRetention = decimal.NewFromFloat(0.93)

	aggressiveSellPart = decimal.NewFromFloat(0.75)
	partialSellPart    = decimal.NewFromFloat(0.50)
)

type ledgerView interface {
	Balance() decimal.Decimal
	Holding(instrument string) domain.Holding
	LastPrice(instrument string) (decimal.Decimal, bool)
	FeeRate() decimal.Decimal
}

// Decide classifies a tick into a buy, sell or refusal against the
// current ledger state. The view must stay unchanged until the returned
// decision is executed; the desk guarantees that.
func Decide(view ledgerView, instrument string, price decimal.Decimal, incomingQty int64) domain.Decision {
	balance := view.Balance()
	if balance.IsNegative() {
		return domain.Decision{Action: domain.ActionRefuse, Reason: domain.ReasonCorruptedLedger}
	}
	if !price.IsPositive() {
		return domain.Decision{Action: domain.ActionRefuse, Reason: domain.ReasonUnfavorablePrice}
	}

	lastPrice, ok := view.LastPrice(instrument)
	if !ok {
		lastPrice = price
	}
	held := view.Holding(instrument)

	// fee-inclusive cost of one share
	unitCost := price.Mul(decimal.NewFromInt(1).Add(view.FeeRate()))
	maxByBalanceCap := balance.Mul(maxBuyBalancePct).Div(unitCost).Floor().IntPart()

	switch {
	case held.Quantity == 0 || price.LessThan(lastPrice.Mul(dipThreshold)):
		affordable := balance.Div(unitCost).Floor().IntPart()
		buyQty := min(affordable, incomingQty, maxByBalanceCap)
		if buyQty > 0 {
			return domain.Decision{Action: domain.ActionBuy, Quantity: buyQty}
		}
		return domain.Decision{Action: domain.ActionRefuse, Reason: domain.ReasonInsufficientFunds}

	case held.Quantity > 0:
		peak := decimal.Max(lastPrice, price)
		trailingStopPrice := peak.Mul(trailingStopRetention)

		switch {
		case price.GreaterThan(held.AvgCost.Mul(takeProfitHigh)):
			return domain.Decision{Action: domain.ActionSell, Quantity: partOf(held.Quantity, aggressiveSellPart)}
		case price.GreaterThan(held.AvgCost.Mul(takeProfitLow)):
			return domain.Decision{Action: domain.ActionSell, Quantity: partOf(held.Quantity, partialSellPart)}
		case price.LessThan(held.AvgCost.Mul(stopLossThreshold)):
			return domain.Decision{Action: domain.ActionSell, Quantity: held.Quantity}
		case price.LessThan(trailingStopPrice):
			return domain.Decision{Action: domain.ActionSell, Quantity: held.Quantity}
		default:
			return domain.Decision{Action: domain.ActionRefuse, Reason: domain.ReasonUnfavorablePrice}
		}

	default:
		return domain.Decision{Action: domain.ActionRefuse, Reason: domain.ReasonUnfavorablePrice}
	}
}

func partOf(qty int64, part decimal.Decimal) int64 {
	return decimal.NewFromInt(qty).Mul(part).Floor().IntPart()
}
