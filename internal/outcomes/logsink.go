package outcomes

import (
	"context"

	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

// LogSink writes every outcome to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Publish logs the outcome record.
func (s *LogSink) Publish(_ context.Context, outcome domain.Outcome) error {
	s.logger.Info("trade decision",
		zap.String("outcome_id", outcome.ID),
		zap.String("instrument", outcome.Instrument),
		zap.String("decision", outcome.Decision),
		zap.Int64("quantity", outcome.Quantity),
		zap.String("price", outcome.Price.String()),
		zap.String("reason", outcome.Reason),
		zap.Time("timestamp", outcome.Timestamp))
	return nil
}
