package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukasmeier/depscope/pkg/cache"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/layout"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		width   float64
		height  float64
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a force-directed layout from a dependency graph",
		Long: `Compute a force-directed layout from a dependency graph.

The layout command takes a graph.json file and runs the force simulation,
writing final node positions to a layout.json file that the 'view' and
'serve' commands consume.

The simulation is deterministic, so results are cached locally and
subsequent runs with the same graph and parameters skip the computation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, width, height)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "frame height (default from config)")

	return cmd
}

// runLayout loads the graph, computes or recalls the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, width, height float64) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if width <= 0 {
		width = c.Config.Frame.Width
	}
	if height <= 0 {
		height = c.Config.Frame.Height
	}
	store := c.newCache(ctx, noCache)
	defer store.Close()

	spin := newSpinner(ctx, "Computing layout...")
	spin.Start()

	l, cacheHit, err := c.computeLayout(ctx, store, g, width, height)
	if err != nil {
		spin.StopWithError("Layout failed")
		return err
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	stats := g.Stats()
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats.Nodes, stats.Edges, stats.Cycles, cacheHit)
	printNewline()
	printNextStep("Explore", "depscope view "+input)

	return nil
}

// computeLayout runs the simulation, checking the cache first. The cache key
// covers the graph bytes, the frame, and every physics parameter.
func (c *CLI) computeLayout(ctx context.Context, store cache.Cache, g *graph.Graph, width, height float64) (layout.Layout, bool, error) {
	cfg := c.Config.LayoutConfig()

	key, err := layoutCacheKey(g, cfg, width, height)
	if err == nil {
		if data, ok, _ := store.Get(ctx, key); ok {
			if l, err := layout.UnmarshalLayout(data); err == nil {
				return l, true, nil
			}
			// Corrupt entry, drop it and recompute.
			_ = store.Delete(ctx, key)
		}
	}

	l := layout.Layout{
		Width:  width,
		Height: height,
		Nodes:  layout.ComputeWith(cfg, g, width, height),
	}

	if key != "" {
		if data, err := layout.MarshalLayout(l); err == nil {
			_ = store.Set(ctx, key, data, 0)
		}
	}

	return l, false, nil
}

func layoutCacheKey(g *graph.Graph, cfg layout.Config, width, height float64) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{
		Width:      width,
		Height:     height,
		Iterations: cfg.Iterations,
		Repulsion:  cfg.Repulsion,
		Attraction: cfg.Attraction,
		Damping:    cfg.Damping,
		Centering:  cfg.Centering,
	}), nil
}
