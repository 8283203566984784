package domain

// Action represents the type of trading action to be performed.
type Action int

const (
	ActionBuy Action = iota
	ActionSell
	ActionRefuse
)

// action string constants to avoid magic strings
const (
	actionStringBuy    = "buy"
	actionStringSell   = "sell"
	actionStringRefuse = "refuse"
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return actionStringBuy
	case ActionSell:
		return actionStringSell
	case ActionRefuse:
		return actionStringRefuse
	default:
		return "unknown"
	}
}
