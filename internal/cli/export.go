package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/render/dot"
)

// Export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// exportCommand creates the export command for static output formats.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Export a dependency graph to DOT, SVG or PNG",
		Long: `Export a dependency graph to a static format.

Supported formats: dot, svg, png. Circular dependencies are drawn dashed
red, and nodes are colored by type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node type and issue counts in labels")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, format, output string, detailed bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	dotSrc := dot.ToDOT(g, dot.Options{Detailed: detailed})

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dotSrc)
	case formatSVG:
		data, err = dot.RenderSVG(ctx, dotSrc)
	case formatPNG:
		data, err = dot.RenderPNG(ctx, dotSrc)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want dot, svg or png)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	stats := g.Stats()
	printSuccess("Export complete")
	printFile(outputPath)
	printStats(stats.Nodes, stats.Edges, stats.Cycles, false)

	return nil
}
