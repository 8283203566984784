// Package ledger implements the portfolio ledger: cash balance,
// per-instrument holdings, last observed prices and running trade
// aggregates. It is the single source of truth for the trading agent.
package ledger

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

// DefaultFeeRate is the commission charged on both buys and sells.
const DefaultFeeRate = 0.001

// Ledger tracks cash, holdings and trade aggregates for one portfolio.
//
// A Ledger is not safe for concurrent use. The desk goroutine owns the
// instance and serializes every read-decide-execute sequence against it,
// so no locking happens here.
type Ledger struct {
	logger     *zap.Logger
	feeRate    decimal.Decimal
	balance    decimal.Decimal
	holdings   map[string]domain.Holding
	lastPrices map[string]decimal.Decimal

	totalFees decimal.Decimal
	revenue   decimal.Decimal
	totalCost decimal.Decimal
	cashFlow  decimal.Decimal
}

// New creates a ledger with the given starting cash balance and fee rate.
func New(initialBalance, feeRate decimal.Decimal, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initialBalance.IsNegative() {
		return nil, errors.Errorf("initial balance must not be negative, got %s", initialBalance.String())
	}
	if feeRate.IsNegative() {
		return nil, errors.Errorf("fee rate must not be negative, got %s", feeRate.String())
	}

	return &Ledger{
		logger:     logger,
		feeRate:    feeRate,
		balance:    initialBalance,
		holdings:   make(map[string]domain.Holding),
		lastPrices: make(map[string]decimal.Decimal),
	}, nil
}

// FeeRate returns the configured commission rate.
func (l *Ledger) FeeRate() decimal.Decimal {
	return l.feeRate
}

// Balance returns the current cash balance.
func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Holding returns the position for the instrument; a zero-quantity
// holding is returned for instruments never bought.
func (l *Ledger) Holding(instrument string) domain.Holding {
	return l.holdings[instrument]
}

// Quantity returns the number of shares held for the instrument.
func (l *Ledger) Quantity(instrument string) int64 {
	return l.holdings[instrument].Quantity
}

// LastPrice returns the last observed price for the instrument.
func (l *Ledger) LastPrice(instrument string) (decimal.Decimal, bool) {
	p, ok := l.lastPrices[instrument]
	return p, ok
}

// Fee returns the commission for a trade of qty shares at the price.
func (l *Ledger) Fee(price decimal.Decimal, qty int64) decimal.Decimal {
	return l.feeRate.Mul(price).Mul(decimal.NewFromInt(qty))
}

// Apply mutates the ledger with an executed trade.
//
// Invalid input (zero quantity, negative price) and a corrupted ledger
// (negative balance) make the call a logged no-op rather than an error:
// the agent keeps accepting ticks in degraded state and relies on an
// external correction (Deposit) to resume trading.
func (l *Ledger) Apply(instrument string, qty int64, price decimal.Decimal, action domain.Action) {
	if qty == 0 || price.IsNegative() {
		l.logger.Warn("transaction not processed: quantity must be positive and price non-negative",
			zap.String("instrument", instrument),
			zap.Int64("quantity", qty),
			zap.String("price", price.String()),
			zap.String("action", action.String()))
		return
	}

	if l.balance.IsNegative() {
		l.logger.Warn("action paused: ledger balance is negative, review financial standing before trading",
			zap.String("balance", l.balance.String()))
		return
	}

	fee := l.Fee(price, qty)

	switch action {
	case domain.ActionBuy:
		l.applyBuy(instrument, qty, price, fee)
	case domain.ActionSell:
		l.applySell(instrument, qty, price, fee)
	default:
		l.logger.Error("skip unknown action", zap.String("action", action.String()))
	}
}

func (l *Ledger) applyBuy(instrument string, qty int64, price, fee decimal.Decimal) {
	cost := price.Mul(decimal.NewFromInt(qty)).Add(fee)
	if l.balance.LessThan(cost) {
		l.logger.Warn("insufficient funds to buy",
			zap.String("instrument", instrument),
			zap.Int64("quantity", qty),
			zap.String("need", cost.String()),
			zap.String("have", l.balance.String()))
		return
	}

	held := l.holdings[instrument]
	newQty := held.Quantity + qty
	// weighted mean of the existing position and the new lot
	newAvg := held.AvgCost.Mul(decimal.NewFromInt(held.Quantity)).
		Add(price.Mul(decimal.NewFromInt(qty))).
		Div(decimal.NewFromInt(newQty))

	l.holdings[instrument] = domain.Holding{Quantity: newQty, AvgCost: newAvg}
	l.balance = l.balance.Sub(cost)
	l.totalCost = l.totalCost.Add(cost)
	l.totalFees = l.totalFees.Add(fee)
	l.cashFlow = l.cashFlow.Sub(cost)

	l.logger.Info("bought shares",
		zap.String("instrument", instrument),
		zap.Int64("quantity", qty),
		zap.String("price", price.String()),
		zap.String("cost", cost.String()),
		zap.String("fee", fee.String()))
}

func (l *Ledger) applySell(instrument string, qty int64, price, fee decimal.Decimal) {
	held := l.holdings[instrument]
	if held.Quantity < qty {
		l.logger.Warn("not enough shares to sell",
			zap.String("instrument", instrument),
			zap.Int64("quantity", qty),
			zap.Int64("owned", held.Quantity))
		return
	}

	proceeds := price.Mul(decimal.NewFromInt(qty)).Sub(fee)
	held.Quantity -= qty
	l.holdings[instrument] = held
	l.balance = l.balance.Add(proceeds)
	l.revenue = l.revenue.Add(proceeds)
	l.totalFees = l.totalFees.Add(fee)
	l.cashFlow = l.cashFlow.Add(proceeds)

	l.logger.Info("sold shares",
		zap.String("instrument", instrument),
		zap.Int64("quantity", qty),
		zap.String("price", price.String()),
		zap.String("revenue", proceeds.String()),
		zap.String("fee", fee.String()))
}

// MarkPrice records the last observed price for the instrument. Prices
// are recorded for every evaluated tick, including refused ones.
func (l *Ledger) MarkPrice(instrument string, price decimal.Decimal) {
	if price.IsNegative() {
		l.logger.Warn("ignored invalid price",
			zap.String("instrument", instrument),
			zap.String("price", price.String()))
		return
	}
	l.lastPrices[instrument] = price
}

// Deposit injects external capital, the only way a ledger with a
// negative balance can resume trading.
func (l *Ledger) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Errorf("deposit must be positive, got %s", amount.String())
	}
	l.balance = l.balance.Add(amount)
	l.logger.Info("capital deposited",
		zap.String("amount", amount.String()),
		zap.String("balance", l.balance.String()))
	return nil
}

// Summary builds a read-only snapshot of the ledger for reporting.
// Positions are sorted by instrument for stable output. Instruments
// without a marked price fall back to their average cost, yielding a
// zero unrealized P&L for them.
func (l *Ledger) Summary() domain.Summary {
	s := domain.Summary{
		InitialCash: l.balance.Add(l.totalCost).Sub(l.revenue),
		Balance:     l.balance,
		Revenue:     l.revenue,
		TotalCost:   l.totalCost,
		NetProfit:   l.revenue.Sub(l.totalCost),
		TotalFees:   l.totalFees,
		CashFlow:    l.cashFlow,
	}

	for instrument, held := range l.holdings {
		if held.IsZero() {
			continue
		}
		last, ok := l.lastPrices[instrument]
		if !ok {
			last = held.AvgCost
		}
		s.Positions = append(s.Positions, domain.PositionReport{
			Instrument:    instrument,
			Quantity:      held.Quantity,
			AvgCost:       held.AvgCost,
			LastPrice:     last,
			UnrealizedPnL: held.UnrealizedPnL(last),
		})
	}

	sort.Slice(s.Positions, func(i, j int) bool {
		return s.Positions[i].Instrument < s.Positions[j].Instrument
	})

	return s
}
