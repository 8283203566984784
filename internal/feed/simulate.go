// Package feed produces simulated market ticks. There is no real
// market connectivity anywhere in the project; this generator stands in
// for the upstream price source.
package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

// DefaultInstruments is the simulated ticker universe.
var DefaultInstruments = []string{
	"AAPL", "GOOGL", "AMZN", "META", "MSFT", "TSLA", "NFLX", "NVDA",
	"BABA", "ORCL", "INTC", "CSCO", "ADBE", "IBM", "PYPL",
	"V", "AMD", "QCOM", "INTU", "CRM", "UBER", "LYFT", "SNAP",
	"TWTR", "SQ", "ZM", "SHOP", "ASML", "TXN", "ADSK",
	"JPM", "BAC", "C", "GS", "AXP", "VZ", "SCHW",
	"WMT", "DIS", "MCD", "NKE", "LOW", "HD", "SBUX", "TGT", "ROKU",
	"PFE", "MRK", "JNJ", "UNH", "CVS", "GILD", "AMGN", "BMY", "SNY",
	"XOM", "CVX", "BA", "GE",
}

const (
	defaultTickInterval = 300 * time.Millisecond
	defaultMinPrice     = 50.0
	defaultMaxPrice     = 500.0

	maxPriceSwing = 0.10
	maxTrend      = 0.02

	minQuantity = 5
	maxQuantity = 15
)

// Simulator generates random-walk price ticks for a set of instruments.
// Each run gets a random drift trend so whole sessions lean bullish or
// bearish, matching how real feeds rarely hover around zero.
type Simulator struct {
	logger       *zap.Logger
	instruments  []string
	tickInterval time.Duration
	minPrice     float64
	maxPrice     float64
	rnd          *rand.Rand
	trend        float64
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithInstruments overrides the simulated ticker universe.
func WithInstruments(instruments []string) Option {
	return func(s *Simulator) {
		if len(instruments) > 0 {
			s.instruments = instruments
		}
	}
}

// WithTickInterval sets the delay between consecutive ticks.
func WithTickInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithPriceBounds sets the price band new observations are drawn from.
func WithPriceBounds(minPrice, maxPrice float64) Option {
	return func(s *Simulator) {
		if minPrice > 0 && maxPrice > minPrice {
			s.minPrice = minPrice
			s.maxPrice = maxPrice
		}
	}
}

// WithSeed makes the simulator deterministic, for tests.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rnd = rand.New(rand.NewSource(seed))
	}
}

// NewSimulator creates a tick simulator.
func NewSimulator(logger *zap.Logger, opts ...Option) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{
		logger:       logger,
		instruments:  DefaultInstruments,
		tickInterval: defaultTickInterval,
		minPrice:     defaultMinPrice,
		maxPrice:     defaultMaxPrice,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.trend = s.rnd.Float64()*2*maxTrend - maxTrend
	return s
}

// Stream starts producing ticks until the context is cancelled. The
// returned channel is closed when the simulator stops.
func (s *Simulator) Stream(ctx context.Context) <-chan domain.Tick {
	out := make(chan domain.Tick)

	go func() {
		defer close(out)

		s.logger.Info("starting price simulation",
			zap.Int("instruments", len(s.instruments)),
			zap.Duration("tick_interval", s.tickInterval),
			zap.Float64("trend", s.trend))

		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				s.logger.Info("price simulation stopped")
				return
			case <-ticker.C:
			}

			tick := s.nextTick(s.instruments[i%len(s.instruments)])
			select {
			case out <- tick:
			case <-ctx.Done():
				s.logger.Info("price simulation stopped")
				return
			}
		}
	}()

	return out
}

func (s *Simulator) nextTick(instrument string) domain.Tick {
	oldPrice := s.minPrice + s.rnd.Float64()*(s.maxPrice-s.minPrice)
	swing := s.rnd.Float64()*2*maxPriceSwing - maxPriceSwing
	newPrice := oldPrice * (1.0 + swing + s.trend)

	tick := domain.Tick{
		Instrument: instrument,
		Price:      decimal.NewFromFloatWithExponent(newPrice, -2),
		Quantity:   int64(minQuantity + s.rnd.Intn(maxQuantity-minQuantity)),
		Timestamp:  time.Now().UTC(),
	}

	s.logger.Debug("price update",
		zap.String("instrument", tick.Instrument),
		zap.String("price", tick.Price.String()),
		zap.Int64("quantity", tick.Quantity))

	return tick
}
