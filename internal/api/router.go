package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tilepath/internal/pathing"
	"tilepath/internal/render"
	"tilepath/internal/tilemap"
)

// PathfinderInterface defines the pathfinder methods used by the API.
// This interface enables mocking for tests without building a real graph.
// Keep this minimal - only include methods the API layer actually calls.
type PathfinderInterface interface {
	// FindPath answers a path query between two tiles
	FindPath(from, to pathing.Point) pathing.Result
	// Smooth removes redundant waypoints using the grid for line of sight
	Smooth(p *pathing.Path) int
	// Stats returns query and cache counters
	Stats() pathing.Stats
	// Graph returns a snapshot of the cluster graph
	Graph() pathing.GraphInfo
	// Grid returns the walkability grid (nil before the first build)
	Grid() *tilemap.Grid
}

// MapReloader rebuilds the graph from the configured map source.
type MapReloader interface {
	Reload() error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Pathfinder: pf,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Pathfinder answers queries (required)
	Pathfinder PathfinderInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, only localhost is allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool

	// Render controls /api/render.png output.
	Render render.Options

	// SmoothByDefault applies smoothing when a request does not say.
	SmoothByDefault bool

	// MaxBodyBytes caps request bodies. Zero means 1 MiB.
	MaxBodyBytes int64

	// MaxSmoothTiles caps /api/smooth input. Zero means 10000.
	MaxSmoothTiles int

	// Admin guards /api/admin routes. Admin routes are not mounted when nil.
	Admin *AdminAuth

	// Reloader rebuilds the graph for POST /api/admin/reload.
	Reloader MapReloader
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	pf              PathfinderInterface
	reloader        MapReloader
	render          render.Options
	smoothByDefault bool
	maxBodyBytes    int64
	maxSmoothTiles  int
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects beyond the
// rate limiter's cleanup goroutine:
//   - No network listeners are opened
//   - No graph is built
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	h := &routerHandlers{
		pf:              cfg.Pathfinder,
		reloader:        cfg.Reloader,
		render:          cfg.Render,
		smoothByDefault: cfg.SmoothByDefault,
		maxBodyBytes:    cfg.MaxBodyBytes,
		maxSmoothTiles:  cfg.MaxSmoothTiles,
	}
	if h.render.TileSize == 0 {
		h.render = render.DefaultOptions()
	}
	if h.maxBodyBytes == 0 {
		h.maxBodyBytes = 1 << 20
	}
	if h.maxSmoothTiles == 0 {
		h.maxSmoothTiles = 10_000
	}

	r.Route("/api", func(r chi.Router) {
		// Graph inspection
		r.Get("/graph", h.handleGetGraph)
		r.Get("/stats", h.handleGetStats)
		r.Get("/render.png", h.handleRender)

		// Queries
		r.Post("/path", h.handleFindPath)
		r.Post("/smooth", h.handleSmooth)

		// Admin
		if cfg.Admin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(cfg.Admin.Middleware)
				r.Post("/reload", h.handleReload)
			})
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/graph", http.StatusFound)
	})

	return r
}

// metricsMiddleware records latency per route pattern, never per raw URL.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}
