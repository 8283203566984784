package domain

import "fmt"

// Decision is the engine's verdict for a single tick.
// Quantity is meaningful only when Action is ActionBuy or ActionSell.
// Reason is set on refusals for diagnostics.
type Decision struct {
	Action   Action
	Quantity int64
	Reason   string
}

// Refusal reasons attached to outcomes for diagnostics. A refusal is a
// normal trading outcome, not an error condition.
const (
	ReasonInsufficientFunds  = "insufficient_funds"
	ReasonInsufficientShares = "insufficient_shares"
	ReasonUnfavorablePrice   = "unfavorable_price"
	ReasonCorruptedLedger    = "corrupted_ledger"
)

// String returns a human-readable string representation.
func (d Decision) String() string {
	if d.Action == ActionRefuse {
		return actionStringRefuse
	}
	return fmt.Sprintf("%s %d", d.Action.String(), d.Quantity)
}
