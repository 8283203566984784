// Package outcomes fans outcome records out to pluggable sinks: the
// structured log, the WAL journal, the websocket feed. Sinks are
// collaborators; a failing sink is reported and skipped, it never halts
// tick processing and never rolls back an already-applied trade.
package outcomes

import (
	"context"

	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

// Sink receives every outcome record produced by the desk.
type Sink interface {
	Publish(ctx context.Context, outcome domain.Outcome) error
}

// Dispatcher delivers outcomes to all registered sinks.
type Dispatcher struct {
	logger *zap.Logger
	sinks  []Sink
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, sinks: sinks}
}

// Dispatch delivers the outcome to every sink. Delivery failures are
// logged per sink and do not affect the other sinks or the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, outcome domain.Outcome) {
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, outcome); err != nil {
			d.logger.Error("failed to publish outcome",
				zap.String("outcome_id", outcome.ID),
				zap.String("instrument", outcome.Instrument),
				zap.Error(err))
		}
	}
}

// Close closes every sink that supports closing.
func (d *Dispatcher) Close() {
	for _, sink := range d.sinks {
		if closer, ok := sink.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				d.logger.Warn("failed to close outcome sink", zap.Error(err))
			}
		}
	}
}
