package domain

import "github.com/shopspring/decimal"

// Holding is a per-instrument position: share count and the weighted
// average acquisition cost. AvgCost changes only on buys; partial sells
// reduce the quantity and leave the average untouched.
type Holding struct {
	Quantity int64
	AvgCost  decimal.Decimal
}

// IsZero reports whether the holding is logically absent.
func (h Holding) IsZero() bool {
	return h.Quantity == 0
}

// MarketValue returns the holding value at the given price.
func (h Holding) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(h.Quantity))
}

// UnrealizedPnL returns (price - avg_cost) * quantity.
func (h Holding) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	return price.Sub(h.AvgCost).Mul(decimal.NewFromInt(h.Quantity))
}
