package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nextlevelbuilder/tgwebhook/internal/config"
	httpapi "github.com/nextlevelbuilder/tgwebhook/internal/http"
)

const shutdownTimeout = 5 * time.Second

// StatusReporter reports the running state of each registered channel.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// Server hosts the webhook callback and health endpoints.
type Server struct {
	cfg      *config.Config
	webhook  *httpapi.WebhookHandler
	channels StatusReporter

	httpServer *http.Server
	mux        *http.ServeMux
}

// NewServer creates a new gateway server. channels may be nil.
func NewServer(cfg *config.Config, webhook *httpapi.WebhookHandler, channels StatusReporter) *Server {
	return &Server{cfg: cfg, webhook: webhook, channels: channels}
}

// BuildMux creates and caches the HTTP mux with all routes registered.
func (s *Server) BuildMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.webhook != nil {
		s.webhook.RegisterRoutes(mux)
	}

	s.mux = mux
	return mux
}

// Start listens on the configured address and serves until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.BuildMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("gateway starting", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("gateway shutdown", "error", err)
		}
	}()

	if err := s.httpServer.Serve(ln); err != http.ErrServerClosed {
		return fmt.Errorf("gateway server: %w", err)
	}
	slog.Info("gateway stopped")
	return nil
}

// handleHealth reports liveness plus the running state of each channel.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if s.channels != nil {
		resp["channels"] = s.channels.GetStatus()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
