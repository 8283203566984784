// Package desk serializes all access to the shared ledger. A single
// goroutine owns the Ledger instance and processes whole
// read-decide-execute-mark sequences one at a time, so a decision is
// always executed against the exact ledger state it was computed from.
// Callers talk to the owner through message passing instead of locks.
package desk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"github.com/vadiminshakov/paperbroker/internal/engine"
	"github.com/vadiminshakov/paperbroker/internal/executor"
	"github.com/vadiminshakov/paperbroker/internal/ledger"
	"go.uber.org/zap"
)

// ErrClosed is returned for submissions after the desk has stopped.
var ErrClosed = errors.New("desk is closed")

type tickRequest struct {
	id   string
	tick domain.Tick
	resp chan domain.Outcome
}

type depositRequest struct {
	amount decimal.Decimal
	resp   chan error
}

// Desk owns the ledger and serializes tick processing against it.
type Desk struct {
	logger *zap.Logger
	led    *ledger.Ledger
	exec   *executor.Executor

	ticks     chan tickRequest
	summaries chan chan domain.Summary
	deposits  chan depositRequest
	done      chan struct{}
}

// New creates a desk around the given ledger.
func New(led *ledger.Ledger, logger *zap.Logger) *Desk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Desk{
		logger:    logger,
		led:       led,
		exec:      executor.New(logger),
		ticks:     make(chan tickRequest),
		summaries: make(chan chan domain.Summary),
		deposits:  make(chan depositRequest),
		done:      make(chan struct{}),
	}
}

// Run executes the owner loop until the context is cancelled. No I/O
// happens inside the loop; each iteration is bounded by arithmetic and
// map lookups.
func (d *Desk) Run(ctx context.Context) error {
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("desk stopped")
			return ctx.Err()
		case req := <-d.ticks:
			req.resp <- d.process(req)
		case resp := <-d.summaries:
			resp <- d.led.Summary()
		case req := <-d.deposits:
			req.resp <- d.led.Deposit(req.amount)
		}
	}
}

// Submit hands a tick to the owner loop and waits for its outcome.
func (d *Desk) Submit(ctx context.Context, tick domain.Tick) (domain.Outcome, error) {
	req := tickRequest{
		id:   uuid.NewString(),
		tick: tick,
		resp: make(chan domain.Outcome, 1),
	}

	select {
	case d.ticks <- req:
	case <-d.done:
		return domain.Outcome{}, ErrClosed
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}

	select {
	case out := <-req.resp:
		return out, nil
	case <-d.done:
		// the loop may have replied just before stopping
		select {
		case out := <-req.resp:
			return out, nil
		default:
		}
		return domain.Outcome{}, ErrClosed
	}
}

// Summary returns a consistent read-only snapshot of the ledger.
func (d *Desk) Summary(ctx context.Context) (domain.Summary, error) {
	resp := make(chan domain.Summary, 1)

	select {
	case d.summaries <- resp:
	case <-d.done:
		return domain.Summary{}, ErrClosed
	case <-ctx.Done():
		return domain.Summary{}, ctx.Err()
	}

	select {
	case s := <-resp:
		return s, nil
	case <-d.done:
		select {
		case s := <-resp:
			return s, nil
		default:
		}
		return domain.Summary{}, ErrClosed
	}
}

// Deposit injects external capital through the owner loop.
func (d *Desk) Deposit(ctx context.Context, amount decimal.Decimal) error {
	req := depositRequest{amount: amount, resp: make(chan error, 1)}

	select {
	case d.deposits <- req:
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.resp:
		return err
	case <-d.done:
		select {
		case err := <-req.resp:
			return err
		default:
		}
		return ErrClosed
	}
}

func (d *Desk) process(req tickRequest) domain.Outcome {
	tick := req.tick

	decision := engine.Decide(d.led, tick.Instrument, tick.Price, tick.Quantity)
	executed, reason := d.exec.Execute(d.led, tick.Instrument, tick.Price, decision)
	d.led.MarkPrice(tick.Instrument, tick.Price)

	outcome := domain.Outcome{
		ID:         ulid.Make().String(),
		Instrument: tick.Instrument,
		Decision:   decision.Action.String(),
		Quantity:   executed,
		Price:      tick.Price,
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	}

	d.logger.Debug("tick processed",
		zap.String("request_id", req.id),
		zap.String("outcome_id", outcome.ID),
		zap.String("instrument", outcome.Instrument),
		zap.String("decision", outcome.Decision),
		zap.Int64("executed", outcome.Quantity),
		zap.String("price", outcome.Price.String()))

	return outcome
}
