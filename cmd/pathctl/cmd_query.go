package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tilepath/internal/pathing"
)

var (
	querySmooth bool
	queryJSON   bool
)

// QueryResult is the JSON form of a query.
type QueryResult struct {
	From     pathing.Point   `json:"from"`
	To       pathing.Point   `json:"to"`
	Outcome  string          `json:"outcome"`
	Source   string          `json:"source"`
	Tiles    []pathing.Point `json:"tiles"`
	Length   float64         `json:"length"`
	Smoothed bool            `json:"smoothed"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	points, err := parsePoints(args)
	if err != nil {
		return err
	}
	pf, err := loadPathfinder(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	from, to := points[0], points[1]
	res := pf.FindPath(from, to)
	if querySmooth && res.Outcome == pathing.Found {
		pf.Smooth(res.Path)
	}

	length, known := res.Path.Length()
	if !known {
		length = res.Path.Measure()
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(QueryResult{
			From:     from,
			To:       to,
			Outcome:  res.Outcome.String(),
			Source:   res.Source.String(),
			Tiles:    res.Path.Tiles(),
			Length:   length,
			Smoothed: querySmooth && res.Outcome == pathing.Found,
		})
	}

	if res.Outcome != pathing.Found {
		fmt.Fprintf(out, "%s -> %s: %s\n", from, to, res.Outcome)
		return nil
	}

	tiles := res.Path.Tiles()
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	fmt.Fprintf(out, "%s -> %s: %d tiles, length %.3f (%s)\n", from, to, len(tiles), length, res.Source)
	fmt.Fprintln(out, strings.Join(parts, " "))
	return nil
}
