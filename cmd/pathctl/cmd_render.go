package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tilepath/internal/pathing"
	"tilepath/internal/render"
)

var (
	renderOut      string
	renderTileSize int
	renderEdges    bool
	renderPath     []int
)

func runRender(cmd *cobra.Command, args []string) error {
	if len(renderPath) != 0 && len(renderPath) != 4 {
		return fmt.Errorf("--path takes 4 values, got %d", len(renderPath))
	}

	pf, err := loadPathfinder(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	scene := render.Scene{Grid: pf.Grid(), Graph: pf.Graph()}
	if len(renderPath) == 4 {
		res := pf.FindPath(pathing.Pt(renderPath[0], renderPath[1]), pathing.Pt(renderPath[2], renderPath[3]))
		if res.Outcome != pathing.Found {
			return fmt.Errorf("no path to draw: %s", res.Outcome)
		}
		scene.Path = res.Path.Tiles()
	}

	f, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", renderOut, err)
	}
	defer f.Close()

	opts := render.Options{TileSize: renderTileSize, ShowEdges: renderEdges}
	if err := render.WritePNG(f, scene, opts); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", renderOut, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", renderOut)
	return nil
}
