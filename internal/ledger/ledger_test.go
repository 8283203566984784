package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

func newTestLedger(t *testing.T, balance string) *Ledger {
	t.Helper()
	b, err := decimal.NewFromString(balance)
	require.NoError(t, err)
	led, err := New(b, decimal.NewFromFloat(DefaultFeeRate), zap.NewNop())
	require.NoError(t, err)
	return led
}

func TestNewRejectsNegativeInputs(t *testing.T) {
	_, err := New(decimal.NewFromInt(-1), decimal.Zero, zap.NewNop())
	require.Error(t, err)

	_, err = New(decimal.Zero, decimal.NewFromFloat(-0.001), zap.NewNop())
	require.Error(t, err)
}

func TestBuyAppliesCostWithFee(t *testing.T) {
	led := newTestLedger(t, "10000")

	// 9 shares at 100 with 0.1% fee: cost = 900.9, fee = 0.9
	led.Apply("AAPL", 9, decimal.NewFromInt(100), domain.ActionBuy)

	require.True(t, led.Balance().Equal(decimal.NewFromFloat(9099.1)),
		"balance = %s", led.Balance())
	require.Equal(t, int64(9), led.Quantity("AAPL"))
	require.True(t, led.Holding("AAPL").AvgCost.Equal(decimal.NewFromInt(100)))

	s := led.Summary()
	require.True(t, s.TotalFees.Equal(decimal.NewFromFloat(0.9)), "fees = %s", s.TotalFees)
	require.True(t, s.TotalCost.Equal(decimal.NewFromFloat(900.9)))
	require.True(t, s.CashFlow.Equal(decimal.NewFromFloat(-900.9)))
}

func TestBuyAveragesCostAcrossLots(t *testing.T) {
	led := newTestLedger(t, "100000")

	led.Apply("MSFT", 10, decimal.NewFromInt(100), domain.ActionBuy)
	led.Apply("MSFT", 10, decimal.NewFromInt(200), domain.ActionBuy)

	require.Equal(t, int64(20), led.Quantity("MSFT"))
	require.True(t, led.Holding("MSFT").AvgCost.Equal(decimal.NewFromInt(150)),
		"avg cost = %s", led.Holding("MSFT").AvgCost)
}

func TestSellLeavesAvgCostUnchanged(t *testing.T) {
	led := newTestLedger(t, "100000")

	led.Apply("NVDA", 100, decimal.NewFromInt(100), domain.ActionBuy)
	led.Apply("NVDA", 40, decimal.NewFromInt(120), domain.ActionSell)

	require.Equal(t, int64(60), led.Quantity("NVDA"))
	require.True(t, led.Holding("NVDA").AvgCost.Equal(decimal.NewFromInt(100)))

	// revenue = 120*40 - 4.8 = 4795.2
	s := led.Summary()
	require.True(t, s.Revenue.Equal(decimal.NewFromFloat(4795.2)), "revenue = %s", s.Revenue)
}

func TestSellMoreThanHeldIsNoop(t *testing.T) {
	led := newTestLedger(t, "10000")
	led.Apply("TSLA", 5, decimal.NewFromInt(100), domain.ActionBuy)

	before := led.Summary()
	led.Apply("TSLA", 6, decimal.NewFromInt(100), domain.ActionSell)
	after := led.Summary()

	require.Equal(t, before, after)
	require.Equal(t, int64(5), led.Quantity("TSLA"))
}

func TestUnaffordableBuyIsNoop(t *testing.T) {
	led := newTestLedger(t, "100")

	before := led.Summary()
	led.Apply("AMZN", 10, decimal.NewFromInt(100), domain.ActionBuy)
	after := led.Summary()

	require.Equal(t, before, after)
	require.Equal(t, int64(0), led.Quantity("AMZN"))
}

func TestInvalidInputIsNoop(t *testing.T) {
	led := newTestLedger(t, "10000")
	led.Apply("AAPL", 5, decimal.NewFromInt(100), domain.ActionBuy)
	before := led.Summary()

	led.Apply("AAPL", 0, decimal.NewFromInt(100), domain.ActionBuy)
	require.Equal(t, before, led.Summary())

	led.Apply("AAPL", 5, decimal.NewFromInt(-100), domain.ActionSell)
	require.Equal(t, before, led.Summary())

	led.Apply("AAPL", 5, decimal.NewFromInt(100), domain.ActionRefuse)
	require.Equal(t, before, led.Summary())
}

func TestCashConservation(t *testing.T) {
	led := newTestLedger(t, "10000")
	initial := decimal.NewFromInt(10000)

	check := func() {
		s := led.Summary()
		got := s.Balance.Add(s.TotalCost).Sub(s.Revenue)
		require.True(t, got.Equal(initial), "balance+cost-revenue = %s", got)
		require.True(t, s.InitialCash.Equal(initial))
	}

	led.Apply("AAPL", 9, decimal.NewFromInt(100), domain.ActionBuy)
	check()
	led.Apply("GOOGL", 3, decimal.NewFromFloat(215.5), domain.ActionBuy)
	check()
	led.Apply("AAPL", 4, decimal.NewFromFloat(111.25), domain.ActionSell)
	check()
	led.Apply("AAPL", 5, decimal.NewFromInt(90), domain.ActionSell)
	check()
}

func TestMarkPrice(t *testing.T) {
	led := newTestLedger(t, "10000")

	led.MarkPrice("AAPL", decimal.NewFromInt(150))
	p, ok := led.LastPrice("AAPL")
	require.True(t, ok)
	require.True(t, p.Equal(decimal.NewFromInt(150)))

	// negative prices are rejected, the old value stays
	led.MarkPrice("AAPL", decimal.NewFromInt(-1))
	p, ok = led.LastPrice("AAPL")
	require.True(t, ok)
	require.True(t, p.Equal(decimal.NewFromInt(150)))

	_, ok = led.LastPrice("MSFT")
	require.False(t, ok)
}

func TestDeposit(t *testing.T) {
	led := newTestLedger(t, "100")

	require.Error(t, led.Deposit(decimal.Zero))
	require.Error(t, led.Deposit(decimal.NewFromInt(-5)))

	require.NoError(t, led.Deposit(decimal.NewFromInt(900)))
	require.True(t, led.Balance().Equal(decimal.NewFromInt(1000)))
}

func TestSummaryPositions(t *testing.T) {
	led := newTestLedger(t, "100000")

	led.Apply("MSFT", 10, decimal.NewFromInt(100), domain.ActionBuy)
	led.Apply("AAPL", 5, decimal.NewFromInt(200), domain.ActionBuy)
	led.MarkPrice("MSFT", decimal.NewFromInt(110))

	s := led.Summary()
	require.Len(t, s.Positions, 2)
	// sorted by instrument
	require.Equal(t, "AAPL", s.Positions[0].Instrument)
	require.Equal(t, "MSFT", s.Positions[1].Instrument)

	// no marked price for AAPL: falls back to avg cost, zero PnL
	require.True(t, s.Positions[0].LastPrice.Equal(decimal.NewFromInt(200)))
	require.True(t, s.Positions[0].UnrealizedPnL.IsZero())

	// MSFT: (110-100)*10 = 100
	require.True(t, s.Positions[1].UnrealizedPnL.Equal(decimal.NewFromInt(100)),
		"pnl = %s", s.Positions[1].UnrealizedPnL)
}

func TestSummaryOmitsClosedPositions(t *testing.T) {
	led := newTestLedger(t, "100000")

	led.Apply("IBM", 10, decimal.NewFromInt(100), domain.ActionBuy)
	led.Apply("IBM", 10, decimal.NewFromInt(100), domain.ActionSell)

	require.Empty(t, led.Summary().Positions)
}
