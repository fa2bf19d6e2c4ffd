package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"tilepath/internal/config"
	"tilepath/internal/pathing"
	"tilepath/internal/tilemap"
)

// --- Global Command Variables ---
var (
	mapPath          string
	clusterSize      int
	entranceWidthCap int
	verbose          bool

	rootCmd = &cobra.Command{
		Use:   "pathctl",
		Short: "Query and inspect hierarchical paths on a tile map",
		Long: `pathctl builds the cluster graph for an ASCII tile map ('#' blocks,
anything else is floor) and answers queries against it offline.`,
		SilenceUsage: true,
	}

	queryCmd = &cobra.Command{
		Use:   "query FROM_X FROM_Y TO_X TO_Y",
		Short: "Find a path between two tiles and print it",
		Args:  cobra.ExactArgs(4),
		RunE:  runQuery, // Defined in cmd_query.go
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Write a PNG of the map, its clusters and entrances",
		Args:  cobra.NoArgs,
		RunE:  runRender, // Defined in cmd_render.go
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print cluster graph information",
		Args:  cobra.NoArgs,
		RunE:  runStats, // Defined in cmd_stats.go
	}
)

func init() {
	defaults := config.DefaultPathing()

	rootCmd.PersistentFlags().StringVarP(&mapPath, "map", "m", config.DefaultServer().MapPath, "ASCII map file")
	rootCmd.PersistentFlags().IntVar(&clusterSize, "cluster-size", defaults.ClusterSize, "cluster side length in tiles")
	rootCmd.PersistentFlags().IntVar(&entranceWidthCap, "entrance-cap", defaults.EntranceWidthCap, "widest opening served by a single entrance")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log graph construction warnings")

	queryCmd.Flags().BoolVar(&querySmooth, "smooth", false, "smooth the path before printing")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the result as JSON")

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "graph.png", "output PNG file")
	renderCmd.Flags().IntVar(&renderTileSize, "tile-size", config.DefaultRender().TileSize, "pixels per tile")
	renderCmd.Flags().BoolVar(&renderEdges, "edges", true, "draw abstract edges")
	renderCmd.Flags().IntSliceVar(&renderPath, "path", nil, "overlay a path: FROM_X,FROM_Y,TO_X,TO_Y")

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the full graph as JSON")
	statsCmd.Flags().BoolVar(&statsEntrances, "entrances", false, "list every entrance")

	rootCmd.AddCommand(queryCmd, renderCmd, statsCmd)
}

// loadPathfinder builds the graph for --map with the global flags.
func loadPathfinder(stderr io.Writer) (*pathing.Pathfinder, error) {
	m, err := tilemap.LoadASCIIFile(mapPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	pf := pathing.New(
		pathing.WithClusterSize(clusterSize),
		pathing.WithEntranceWidthCap(entranceWidthCap),
		pathing.WithLogger(logger),
	)
	if err := pf.Build(m); err != nil {
		return nil, err
	}
	return pf, nil
}

// parsePoints reads coordinate pairs from string arguments.
func parsePoints(args []string) ([]pathing.Point, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("coordinates come in pairs, got %d values", len(args))
	}
	points := make([]pathing.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("bad x coordinate %q", args[i])
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("bad y coordinate %q", args[i+1])
		}
		points = append(points, pathing.Pt(x, y))
	}
	return points, nil
}
