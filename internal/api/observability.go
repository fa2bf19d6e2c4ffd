package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tilepath/internal/pathing"
)

// Metrics with bounded cardinality (no per-tile or per-client labels)
var (
	// Pathing metrics
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pathing_query_duration_seconds",
		Help:    "Time spent answering a path query",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"source"}) // Bounded: pathing.Source values, "none" through "shared"

	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pathing_queries_total",
		Help: "Path queries by outcome",
	}, []string{"outcome"}) // Bounded: "found", "no_path", "unsupported"

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pathing_build_duration_seconds",
		Help:    "Time spent building the cluster graph",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit", "auth"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages",
	}, []string{"direction"}) // Bounded: "in", "out"
)

// RegisterPathfinderMetrics exposes the pathfinder's own counters. They are
// read on scrape, so nothing has to be pushed from the query path.
func RegisterPathfinderMetrics(reg prometheus.Registerer, pf PathfinderInterface) error {
	counter := func(name, help string, read func(pathing.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, func() float64 {
			return float64(read(pf.Stats()))
		})
	}

	collectors := []prometheus.Collector{
		counter("pathing_cache_hits_forward_total", "Abstract routes served from the cache in query order",
			func(s pathing.Stats) uint64 { return s.CacheHitsForward }),
		counter("pathing_cache_hits_reverse_total", "Abstract routes served inverted from the cache",
			func(s pathing.Stats) uint64 { return s.CacheHitsReverse }),
		counter("pathing_cache_misses_total", "Queries that needed an abstract search",
			func(s pathing.Stats) uint64 { return s.CacheMisses }),
		counter("pathing_shared_searches_total", "Queries that waited on a concurrent search for the same route",
			func(s pathing.Stats) uint64 { return s.SharedSearches }),
		counter("pathing_abstract_searches_total", "Abstract graph searches run",
			func(s pathing.Stats) uint64 { return s.AbstractSearches }),
		counter("pathing_direct_routes_total", "Queries answered inside a single cluster",
			func(s pathing.Stats) uint64 { return s.Direct }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pathing_cached_routes",
			Help: "Abstract routes currently cached",
		}, func() float64 { return float64(pf.Stats().CachedRoutes) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pathing_graph_nodes",
			Help: "Entrance nodes in the abstract graph",
		}, func() float64 { return float64(pf.Graph().Nodes) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST be localhost in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// debugMux builds the pprof/metrics/health handler.
func debugMux(cfg ObservabilityConfig) http.Handler {
	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.BasicAuthUser != "" {
		return basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}
	return mux
}

// StartDebugServer starts the internal observability server
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	// SECURITY: Validate address is localhost
	if !isLoopbackAddr(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	handler := debugMux(cfg)

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func isLoopbackAddr(addr string) bool {
	for _, prefix := range []string{"127.0.0.1:", "localhost:", "[::1]:"} {
		if strings.HasPrefix(addr, prefix) {
			return true
		}
	}
	return false
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordQuery records a path query outcome and its latency
func RecordQuery(res pathing.Result, duration time.Duration) {
	queryTotal.WithLabelValues(res.Outcome.String()).Inc()
	queryDuration.WithLabelValues(res.Source.String()).Observe(duration.Seconds())
}

// RecordBuild records graph build timing
func RecordBuild(duration time.Duration) {
	buildDuration.Observe(duration.Seconds())
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit", "auth"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments the WebSocket message counter
// direction must be "in" or "out"
func IncrementWSMessages(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
