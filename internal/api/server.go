package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tilepath/internal/config"
	"tilepath/internal/render"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the query hub.
type Server struct {
	pf          PathfinderInterface
	router      *chi.Mux
	hub         *QueryHub
	rateLimiter *IPRateLimiter
	http        *http.Server
}

// NewServer creates a new API server from the application config.
//
// IMPORTANT: The hub does NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// opening network listeners.
func NewServer(pf PathfinderInterface, reloader MapReloader, cfg config.AppConfig) *Server {
	origins := cfg.Server.AllowedOrigins

	s := &Server{
		pf:          pf,
		hub:         NewQueryHub(pf, cfg.Limits, NewOriginPolicy(origins), cfg.Pathing.SmoothByDefault),
		rateLimiter: NewIPRateLimiter(RateLimitConfigFrom(cfg.Limits)),
	}

	s.router = NewRouter(RouterConfig{
		Pathfinder:      pf,
		RateLimiter:     s.rateLimiter,
		CORSOrigins:     origins,
		SmoothByDefault: cfg.Pathing.SmoothByDefault,
		Render:          render.Options{TileSize: cfg.Render.TileSize, ShowEdges: cfg.Render.ShowEdges},
		MaxBodyBytes:    cfg.Limits.MaxBodyBytes,
		MaxSmoothTiles:  cfg.Limits.MaxSmoothTiles,
		Admin:           NewAdminAuth(cfg.Server.AdminToken),
		Reloader:        reloader,
	})
	s.router.Get("/ws", s.hub.HandleWebSocket)

	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the hub and serves HTTP until Shutdown. It returns nil after
// a clean shutdown.
func (s *Server) Start() error {
	go s.hub.Run()

	log.Printf("🌐 API server starting on %s", s.http.Addr)
	log.Printf("🧭 Try: curl -X POST localhost%s/api/path -d '{\"from\":{\"x\":0,\"y\":0},\"to\":{\"x\":5,\"y\":5}}'", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the websocket query hub.
func (s *Server) Hub() *QueryHub {
	return s.hub
}

// Shutdown stops accepting requests, disconnects websocket clients and
// stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	s.rateLimiter.Stop()
	return s.http.Shutdown(ctx)
}
