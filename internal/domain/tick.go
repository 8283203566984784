// Package domain defines core data structures used throughout the trading agent.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a single incoming price/quantity observation for an instrument.
type Tick struct {
	// Instrument ticker symbol, e.g. "AAPL".
	Instrument string
	// Price observed market price, expected positive.
	Price decimal.Decimal
	// Quantity proposed trade size offered with the tick.
	Quantity int64
	// Timestamp when the tick was produced.
	Timestamp time.Time
}

// String returns a human-readable string representation.
func (t *Tick) String() string {
	return fmt.Sprintf("%s price: %s qty: %d", t.Instrument, t.Price.String(), t.Quantity)
}
