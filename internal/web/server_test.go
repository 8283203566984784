package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

type fakeDesk struct {
	summary domain.Summary
	err     error
}

func (d *fakeDesk) Summary(ctx context.Context) (domain.Summary, error) {
	return d.summary, d.err
}

func TestHandleSummary(t *testing.T) {
	desk := &fakeDesk{summary: domain.Summary{
		InitialCash: decimal.NewFromInt(10000),
		Balance:     decimal.NewFromFloat(9099.1),
		Positions: []domain.PositionReport{{
			Instrument: "AAPL",
			Quantity:   9,
			AvgCost:    decimal.NewFromInt(100),
			LastPrice:  decimal.NewFromInt(100),
		}},
	}}
	s := NewServer("", desk, NewHub(zap.NewNop()), zap.NewNop())

	rec := httptest.NewRecorder()
	s.handleSummary(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Balance.Equal(decimal.NewFromFloat(9099.1)))
	require.Len(t, got.Positions, 1)
	require.Equal(t, "AAPL", got.Positions[0].Instrument)
}

func TestHandleSummaryDeskUnavailable(t *testing.T) {
	desk := &fakeDesk{err: errors.New("desk is closed")}
	s := NewServer("", desk, NewHub(zap.NewNop()), zap.NewNop())

	rec := httptest.NewRecorder()
	s.handleSummary(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub(zap.NewNop())

	// no clients connected: the broadcast is buffered away harmlessly
	err := hub.Publish(context.Background(), domain.Outcome{
		ID:         "x",
		Instrument: "AAPL",
		Decision:   domain.ActionRefuse.String(),
		Price:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)
}

func TestHubPublishReportsFullBuffer(t *testing.T) {
	hub := NewHub(zap.NewNop())

	out := domain.Outcome{ID: "x", Price: decimal.NewFromInt(1)}
	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.Publish(context.Background(), out))
	}

	// hub loop not running: the next publish must fail fast, not block
	require.Error(t, hub.Publish(context.Background(), out))
}
