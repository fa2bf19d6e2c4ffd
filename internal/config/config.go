// Package config provides centralized configuration management.
// Defaults live here; a YAML file may override them and environment
// variables override both.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// PATHING CONFIGURATION
// =============================================================================

// PathingConfig holds the hierarchical pathfinder settings.
type PathingConfig struct {
	ClusterSize      int  `yaml:"cluster_size"`       // Cluster side length in tiles
	EntranceWidthCap int  `yaml:"entrance_width_cap"` // Widest opening with a single entrance
	BuildWorkers     int  `yaml:"build_workers"`      // Goroutines computing edge routes
	SmoothByDefault  bool `yaml:"smooth_by_default"`  // Smooth API results unless asked not to
}

// DefaultPathing returns the default pathing configuration.
func DefaultPathing() PathingConfig {
	return PathingConfig{
		ClusterSize:      10,
		EntranceWidthCap: 6,
		BuildWorkers:     runtime.GOMAXPROCS(0),
		SmoothByDefault:  false,
	}
}

// PathingFromEnv returns pathing configuration with environment variable overrides.
func PathingFromEnv() PathingConfig {
	cfg := DefaultPathing()
	cfg.applyEnv()
	return cfg
}

func (cfg *PathingConfig) applyEnv() {
	if v := getEnvInt("CLUSTER_SIZE", 0); v > 1 {
		cfg.ClusterSize = v
	}
	if v := getEnvInt("ENTRANCE_WIDTH_CAP", 0); v > 0 {
		cfg.EntranceWidthCap = v
	}
	if v := getEnvInt("BUILD_WORKERS", 0); v > 0 {
		cfg.BuildWorkers = v
	}
	if v, ok := getEnvBool("SMOOTH_BY_DEFAULT"); ok {
		cfg.SmoothByDefault = v
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	MapPath        string   `yaml:"map_path"`        // ASCII map loaded at startup
	AdminToken     string   `yaml:"admin_token"`     // Enables /api/admin when set
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS and websocket origins
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:    3000,
		MapPath: "maps/default.txt",
		AllowedOrigins: []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		},
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	cfg.applyEnv()
	return cfg
}

func (cfg *ServerConfig) applyEnv() {
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if v := os.Getenv("MAP_PATH"); v != "" {
		cfg.MapPath = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.AdminToken = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
}

// Addr is the listen address for the API server.
func (cfg ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", cfg.Port)
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and request size limits.
type ResourceLimits struct {
	RequestsPerSecond     float64       `yaml:"requests_per_second"`      // Per-IP HTTP rate
	Burst                 int           `yaml:"burst"`                    // Per-IP HTTP burst
	CleanupInterval       time.Duration `yaml:"cleanup_interval"`         // Stale limiter sweep
	MaxWSConnectionsTotal int           `yaml:"max_ws_connections_total"` // Hard cap on sockets
	MaxWSConnectionsPerIP int           `yaml:"max_ws_connections_per_ip"`
	MaxBodyBytes          int64         `yaml:"max_body_bytes"` // Request body cap
	MaxSmoothTiles        int           `yaml:"max_smooth_tiles"`
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		RequestsPerSecond:     20,
		Burst:                 40,
		CleanupInterval:       5 * time.Minute,
		MaxWSConnectionsTotal: 500,
		MaxWSConnectionsPerIP: 10,
		MaxBodyBytes:          1 << 20,
		MaxSmoothTiles:        10_000,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()
	cfg.applyEnv()
	return cfg
}

func (cfg *ResourceLimits) applyEnv() {
	if v := getEnvFloat("RATE_LIMIT_RPS", 0); v > 0 {
		cfg.RequestsPerSecond = v
	}
	if v := getEnvInt("RATE_LIMIT_BURST", 0); v > 0 {
		cfg.Burst = v
	}
	if v := getEnvInt("MAX_WS_CONNECTIONS", 0); v > 0 {
		cfg.MaxWSConnectionsTotal = v
	}
	if v := getEnvInt("MAX_WS_CONNECTIONS_PER_IP", 0); v > 0 {
		cfg.MaxWSConnectionsPerIP = v
	}
}

// =============================================================================
// DEBUG SERVER CONFIGURATION
// =============================================================================

// DebugConfig holds the pprof/metrics server settings.
type DebugConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"` // Localhost only unless ALLOW_DEBUG_EXTERNAL=true
}

// DefaultDebug returns the default debug server configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// DebugFromEnv returns debug configuration with environment variable overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()
	cfg.applyEnv()
	return cfg
}

func (cfg *DebugConfig) applyEnv() {
	if v, ok := getEnvBool("DEBUG_SERVER"); ok {
		cfg.Enabled = v
	}
	if v := os.Getenv("DEBUG_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds PNG rendering settings.
type RenderConfig struct {
	TileSize  int  `yaml:"tile_size"` // Pixels per tile
	ShowEdges bool `yaml:"show_edges"`
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		TileSize:  8,
		ShowEdges: true,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Pathing PathingConfig  `yaml:"pathing"`
	Server  ServerConfig   `yaml:"server"`
	Limits  ResourceLimits `yaml:"limits"`
	Debug   DebugConfig    `yaml:"debug"`
	Render  RenderConfig   `yaml:"render"`
}

// Default returns the complete configuration without any overrides.
func Default() AppConfig {
	return AppConfig{
		Pathing: DefaultPathing(),
		Server:  DefaultServer(),
		Limits:  DefaultLimits(),
		Debug:   DefaultDebug(),
		Render:  DefaultRender(),
	}
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Pathing: PathingFromEnv(),
		Server:  ServerFromEnv(),
		Limits:  LimitsFromEnv(),
		Debug:   DebugFromEnv(),
		Render:  DefaultRender(),
	}
}

// LoadFile reads a YAML file over the defaults, then applies environment
// overrides. Keys missing from the file keep their defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Pathing.applyEnv()
	cfg.Server.applyEnv()
	cfg.Limits.applyEnv()
	cfg.Debug.applyEnv()
	return cfg, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
