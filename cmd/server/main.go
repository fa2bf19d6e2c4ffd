package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tilepath/internal/api"
	"tilepath/internal/config"
	"tilepath/internal/pathing"
	"tilepath/internal/tilemap"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// mapReloader rebuilds the graph from the map file on disk.
type mapReloader struct {
	path string
	pf   *pathing.Pathfinder
}

func (r *mapReloader) Reload() error {
	m, err := tilemap.LoadASCIIFile(r.path)
	if err != nil {
		return err
	}
	return r.pf.Build(m)
}

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🗺️ ================================")
	log.Println("🗺️  TILEPATH - HPA* SERVER")
	log.Println("🗺️ ================================")

	// Config file is optional; environment overrides apply either way
	appConfig := config.Load()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		appConfig = cfg
		log.Printf("✅ Loaded config from %s", path)
	}
	pathCfg := appConfig.Pathing
	serverCfg := appConfig.Server

	log.Printf("🧩 Config: cluster size %d, entrance width cap %d, %d build workers",
		pathCfg.ClusterSize, pathCfg.EntranceWidthCap, pathCfg.BuildWorkers)
	log.Printf("🛡️ Resource limits: %.0f req/s (burst %d), %d sockets (%d per IP)",
		appConfig.Limits.RequestsPerSecond, appConfig.Limits.Burst,
		appConfig.Limits.MaxWSConnectionsTotal, appConfig.Limits.MaxWSConnectionsPerIP)

	pf := pathing.New(
		pathing.WithClusterSize(pathCfg.ClusterSize),
		pathing.WithEntranceWidthCap(pathCfg.EntranceWidthCap),
		pathing.WithBuildWorkers(pathCfg.BuildWorkers),
		pathing.WithLogger(slog.Default()),
	)

	reloader := &mapReloader{path: serverCfg.MapPath, pf: pf}
	start := time.Now()
	if err := reloader.Reload(); err != nil {
		log.Fatalf("❌ Failed to build graph: %v", err)
	}
	api.RecordBuild(time.Since(start))

	info := pf.Graph()
	log.Printf("✅ Graph built from %s: %dx%d tiles, %d clusters, %d entrances, %d edges",
		serverCfg.MapPath, info.Width, info.Height, len(info.Clusters), info.Nodes,
		info.InternalEdges+info.ExternalEdges)

	if err := api.RegisterPathfinderMetrics(prometheus.DefaultRegisterer, pf); err != nil {
		log.Printf("⚠️ Pathfinder metrics disabled: %v", err)
	}

	// Start debug server
	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.Enabled = appConfig.Debug.Enabled
	debugCfg.ListenAddr = appConfig.Debug.ListenAddr
	debugCfg.BasicAuthUser = os.Getenv("DEBUG_USER")
	debugCfg.BasicAuthPass = os.Getenv("DEBUG_PASS")
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	if serverCfg.AdminToken != "" {
		log.Println("🔐 Admin routes ENABLED (POST /api/admin/reload)")
	} else {
		log.Println("⚠️ Admin routes DISABLED (set ADMIN_TOKEN to enable)")
	}

	server := api.NewServer(pf, reloader, appConfig)

	// Start API server in goroutine
	go func() {
		addr := serverCfg.Addr()
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🔌 Query socket: ws://localhost%s/ws", addr)
		log.Printf("🖼️ Render: http://localhost%s/api/render.png", addr)

		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}

	stats := pf.Stats()
	log.Printf("📊 Served %d queries (%d found, %d cache hits)",
		stats.Queries, stats.Found, stats.CacheHitsForward+stats.CacheHitsReverse)
	log.Println("👋 Goodbye!")
}
