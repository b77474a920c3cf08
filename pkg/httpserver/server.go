// Package httpserver provides the read-only HTTP/WebSocket surface: JSON
// snapshot endpoints over the Engine's current state, liveness/readiness
// probes, Prometheus metrics, and a WebSocket channel that streams one
// message per scan. It is a Subscription Fabric subscriber — it never
// mutates engine state.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/engine"
	"github.com/arb-intel/engine/internal/model"
	"github.com/arb-intel/engine/pkg/healthprobe"
	ws "github.com/arb-intel/engine/pkg/websocket"
)

// Server provides the engine's HTTP/WebSocket surface.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.Probe
	eng           *engine.Engine
	hub           *ws.Hub
	router        http.Handler
	subHandle     int
	hubStop       chan struct{}
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.Probe
	Engine        *engine.Engine
}

// New creates a new HTTP server wired to cfg.Engine. It registers itself as
// a Subscriber so each scan's ScanResult is broadcast to connected
// WebSocket clients.
func New(cfg *Config) *Server {
	hub := ws.NewHub(cfg.Logger)

	h := &handlers{
		engine: cfg.Engine,
		hub:    hub,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())
	r.Get("/api/opportunities", h.handleOpportunities)
	r.Get("/api/markets", h.handleMarkets)
	r.Get("/api/stats", h.handleStats)
	r.Get("/ws", h.handleWebSocket)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s := &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
		eng:           cfg.Engine,
		hub:           hub,
		router:        r,
		hubStop:       make(chan struct{}),
	}
	s.subHandle = cfg.Engine.Subscribe(s.onScanResult)
	return s
}

// Handler returns the server's HTTP handler, for embedding in a test
// harness via httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// onScanResult is registered with the Engine's Subscription Fabric; it
// broadcasts the scan to every connected WebSocket client.
func (s *Server) onScanResult(result model.ScanResult) {
	s.hub.Broadcast(buildScanResultMessage(result))
}

// Start runs the WebSocket hub loop and the HTTP server. This is a blocking
// call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	go s.hub.Run(s.hubStop)

	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server, stops the WebSocket hub,
// and unsubscribes from the Engine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	s.eng.Unsubscribe(s.subHandle)
	close(s.hubStop)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
