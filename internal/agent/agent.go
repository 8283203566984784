// Package agent wires the tick stream to the desk and the outcome
// dispatcher. One worker goroutine is spawned per incoming tick; the
// desk serializes them against the ledger, so workers only add
// concurrency to ingestion and outcome delivery.
package agent

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/paperbroker/internal/desk"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"github.com/vadiminshakov/paperbroker/internal/outcomes"
	"go.uber.org/zap"
)

// Agent consumes ticks and publishes outcomes.
type Agent struct {
	logger     *zap.Logger
	desk       *desk.Desk
	dispatcher *outcomes.Dispatcher
}

// New creates an agent.
func New(d *desk.Desk, dispatcher *outcomes.Dispatcher, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{logger: logger, desk: d, dispatcher: dispatcher}
}

// Run consumes the tick stream until it is closed, then waits for all
// in-flight workers to finish. The passed context bounds desk
// submissions and outcome delivery, not the stream itself: the feed
// closes the channel when its own context expires.
func (a *Agent) Run(ctx context.Context, ticks <-chan domain.Tick) error {
	var wg sync.WaitGroup

	for tick := range ticks {
		wg.Add(1)
		go func(tick domain.Tick) {
			defer wg.Done()

			outcome, err := a.desk.Submit(ctx, tick)
			if err != nil {
				if errors.Is(err, desk.ErrClosed) || errors.Is(err, context.Canceled) {
					a.logger.Debug("tick dropped, desk is shutting down",
						zap.String("instrument", tick.Instrument))
					return
				}
				a.logger.Error("failed to process tick",
					zap.String("instrument", tick.Instrument),
					zap.Error(err))
				return
			}

			a.dispatcher.Dispatch(ctx, outcome)
		}(tick)
	}

	wg.Wait()
	a.logger.Info("tick stream drained")
	return nil
}
