// Package web exposes the agent's state over HTTP: a JSON portfolio
// summary and a websocket stream of outcome records.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/paperbroker/internal/domain"
	"go.uber.org/zap"
)

type summaryProvider interface {
	Summary(ctx context.Context) (domain.Summary, error)
}

// Server exposes HTTP endpoints serving the summary and the live
// outcome feed.
type Server struct {
	Addr   string
	logger *zap.Logger
	desk   summaryProvider
	hub    *Hub
}

// NewServer creates a web server around the desk and the outcome hub.
func NewServer(addr string, desk summaryProvider, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Addr: addr, logger: logger, desk: desk, hub: hub}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/ws/outcomes", s.hub.serveWS)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", zap.String("addr", s.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "web server")
	}
	return nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.desk.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		s.logger.Warn("failed to encode summary", zap.Error(err))
	}
}
