package feed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

func collect(t *testing.T, ch <-chan domain.Tick, n int) []domain.Tick {
	t.Helper()
	ticks := make([]domain.Tick, 0, n)
	timeout := time.After(5 * time.Second)
	for len(ticks) < n {
		select {
		case tick, ok := <-ch:
			require.True(t, ok, "stream closed before %d ticks", n)
			ticks = append(ticks, tick)
		case <-timeout:
			t.Fatalf("timed out after %d ticks", len(ticks))
		}
	}
	return ticks
}

func TestStreamProducesTicksWithinBounds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := NewSimulator(zap.NewNop(),
		WithSeed(42),
		WithTickInterval(time.Millisecond),
		WithPriceBounds(50, 500))

	ticks := collect(t, sim.Stream(ctx), 100)

	// price band plus the worst-case swing and trend
	lower := decimal.NewFromFloat(50 * (1 - maxPriceSwing - maxTrend))
	upper := decimal.NewFromFloat(500 * (1 + maxPriceSwing + maxTrend))

	for _, tick := range ticks {
		require.Contains(t, DefaultInstruments, tick.Instrument)
		require.True(t, tick.Price.GreaterThanOrEqual(lower), "price %s below band", tick.Price)
		require.True(t, tick.Price.LessThanOrEqual(upper), "price %s above band", tick.Price)
		require.GreaterOrEqual(t, tick.Quantity, int64(minQuantity))
		require.Less(t, tick.Quantity, int64(maxQuantity))
		require.False(t, tick.Timestamp.IsZero())
	}
}

func TestStreamCyclesThroughInstruments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := NewSimulator(zap.NewNop(),
		WithSeed(1),
		WithInstruments([]string{"AAPL", "MSFT", "GOOGL"}),
		WithTickInterval(time.Millisecond))

	ticks := collect(t, sim.Stream(ctx), 6)

	require.Equal(t, "AAPL", ticks[0].Instrument)
	require.Equal(t, "MSFT", ticks[1].Instrument)
	require.Equal(t, "GOOGL", ticks[2].Instrument)
	require.Equal(t, "AAPL", ticks[3].Instrument)
}

func TestStreamClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sim := NewSimulator(zap.NewNop(), WithSeed(7), WithTickInterval(time.Millisecond))
	ch := sim.Stream(ctx)

	collect(t, ch, 3)
	cancel()

	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestSeededSimulatorIsDeterministic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := collect(t, NewSimulator(zap.NewNop(), WithSeed(99), WithTickInterval(time.Millisecond)).Stream(ctx), 20)
	second := collect(t, NewSimulator(zap.NewNop(), WithSeed(99), WithTickInterval(time.Millisecond)).Stream(ctx), 20)

	for i := range first {
		require.Equal(t, first[i].Instrument, second[i].Instrument)
		require.True(t, first[i].Price.Equal(second[i].Price))
		require.Equal(t, first[i].Quantity, second[i].Quantity)
	}
}
