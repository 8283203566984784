package domain

import (
	"github.com/shopspring/decimal"
)

// PositionReport is a per-instrument row of the portfolio summary.
type PositionReport struct {
	Instrument    string          `json:"instrument"`
	Quantity      int64           `json:"quantity"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	LastPrice     decimal.Decimal `json:"last_price"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// Summary is a read-only snapshot of the ledger suitable for reporting.
// InitialCash is reconstructed as balance + total_cost - revenue, which
// holds exactly because every applied trade moves cash and the running
// aggregates by the same fee-inclusive amount.
type Summary struct {
	InitialCash decimal.Decimal  `json:"initial_cash"`
	Balance     decimal.Decimal  `json:"balance"`
	Revenue     decimal.Decimal  `json:"revenue"`
	TotalCost   decimal.Decimal  `json:"total_cost"`
	NetProfit   decimal.Decimal  `json:"net_profit"`
	TotalFees   decimal.Decimal  `json:"total_fees"`
	CashFlow    decimal.Decimal  `json:"cash_flow"`
	Positions   []PositionReport `json:"positions"`
}
