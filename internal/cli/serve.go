package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukasmeier/depscope/internal/server"
	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/graph"
)

// serveCommand creates the HTTP API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve the graph, layout and draw lists over HTTP",
		Long: `Serve the graph over an HTTP JSON API.

Endpoints:
  GET  /api/graph     the loaded dependency graph
  GET  /api/layout    computed node positions
  GET  /api/drawlist  screen-space primitives for a given viewport
  POST /api/refresh   re-read the graph file and recompute the layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(args[0], addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(path, addr string) error {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}

	eng := engine.New(engine.Options{
		Width:   c.Config.Frame.Width,
		Height:  c.Config.Frame.Height,
		Physics: c.Config.LayoutConfig(),
	})
	eng.SetGraph(g)

	if addr == "" {
		addr = c.Config.Serve.Addr
	}

	loader := func() (*graph.Graph, error) { return graph.ReadGraphFile(path) }
	srv := server.New(eng, loader, c.Logger)

	stats := g.Stats()
	printInfo("Serving %s", path)
	printStats(stats.Nodes, stats.Edges, stats.Cycles, false)

	return srv.Start(addr)
}
