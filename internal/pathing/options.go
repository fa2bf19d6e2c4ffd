package pathing

import (
	"log/slog"
	"runtime"
)

const (
	// DefaultClusterSize is the side length of a cluster in tiles.
	DefaultClusterSize = 10
	// DefaultEntranceWidthCap is the widest opening that gets a single
	// entrance. Wider openings get one at each end.
	DefaultEntranceWidthCap = 6
)

// Options configure a Pathfinder.
type Options struct {
	ClusterSize      int
	EntranceWidthCap int
	// BuildWorkers bounds the goroutines computing internal edge routes.
	BuildWorkers int
	Logger       *slog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		ClusterSize:      DefaultClusterSize,
		EntranceWidthCap: DefaultEntranceWidthCap,
		BuildWorkers:     runtime.GOMAXPROCS(0),
		Logger:           slog.Default(),
	}
}

// Option modifies Options.
type Option func(*Options)

// WithClusterSize sets the cluster side length. Values below 2 are ignored.
func WithClusterSize(n int) Option {
	return func(o *Options) {
		if n >= 2 {
			o.ClusterSize = n
		}
	}
}

// WithEntranceWidthCap sets the widest opening that gets a single entrance.
func WithEntranceWidthCap(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.EntranceWidthCap = n
		}
	}
}

// WithBuildWorkers sets how many goroutines compute edge routes during Build.
func WithBuildWorkers(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.BuildWorkers = n
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
