package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsJSON      bool
	statsEntrances bool
)

func runStats(cmd *cobra.Command, args []string) error {
	pf, err := loadPathfinder(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	info := pf.Graph()
	out := cmd.OutOrStdout()

	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "map:            %s (%dx%d)\n", mapPath, info.Width, info.Height)
	fmt.Fprintf(out, "clusters:       %d (%dx%d, size %d)\n", len(info.Clusters), info.Columns, info.Rows, info.ClusterSize)
	fmt.Fprintf(out, "entrances:      %d\n", info.Nodes)
	fmt.Fprintf(out, "internal edges: %d\n", info.InternalEdges)
	fmt.Fprintf(out, "external edges: %d\n", info.ExternalEdges)
	fmt.Fprintf(out, "build time:     %v\n", pf.Stats().LastBuild)

	if statsEntrances {
		for _, p := range pf.Entrances() {
			fmt.Fprintln(out, p)
		}
	}
	return nil
}
