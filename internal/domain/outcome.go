package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the record emitted for every evaluated tick: the decision
// taken and the quantity actually executed (zero when nothing traded).
// The shape is stable and JSON-serializable for any message/log sink.
type Outcome struct {
	ID         string          `json:"id"`
	Instrument string          `json:"instrument"`
	Decision   string          `json:"decision"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Reason     string          `json:"reason,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Executed reports whether the outcome resulted in an applied trade.
func (o *Outcome) Executed() bool {
	return o.Quantity > 0
}
