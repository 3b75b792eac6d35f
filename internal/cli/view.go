package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/store"
)

// viewCommand creates the interactive graph viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		watch    bool
		useMongo bool
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json | graph-id]",
		Short: "Explore a dependency graph interactively",
		Long: `Explore a dependency graph interactively in the terminal.

Drag to pan, drag a node to reposition it, click a node to select it and
highlight its connections. Scroll or +/- to zoom, / to filter by name,
r to reset the view.

With --watch the graph file is re-read whenever it changes on disk.
With --mongo the argument is a graph id loaded from the configured
MongoDB collection instead of a file path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if useMongo {
				return c.runViewMongo(cmd.Context(), args[0])
			}
			return c.runViewFile(cmd.Context(), args[0], watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the graph file changes")
	cmd.Flags().BoolVar(&useMongo, "mongo", false, "load the graph by id from MongoDB")

	return cmd
}

func (c *CLI) runViewFile(ctx context.Context, path string, watch bool) error {
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}

	reload := func() (*graph.Graph, error) { return graph.ReadGraphFile(path) }
	prog := c.newViewer(g, reload)

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		go c.watchLoop(ctx, watcher, path, prog)
	}

	_, err = prog.Run()
	return err
}

func (c *CLI) runViewMongo(ctx context.Context, id string) error {
	mongo, err := store.NewMongoStore(ctx, c.Config.Mongo.URI, c.Config.Mongo.Database, c.Config.Mongo.Collection)
	if err != nil {
		return err
	}
	defer mongo.Close(ctx)

	g, err := mongo.Load(ctx, id)
	if err != nil {
		return err
	}

	reload := func() (*graph.Graph, error) { return mongo.Load(ctx, id) }
	prog := c.newViewer(g, reload)

	_, err = prog.Run()
	return err
}

// newViewer builds the engine and the bubbletea program around it.
func (c *CLI) newViewer(g *graph.Graph, reload GraphReloader) *tea.Program {
	eng := engine.New(engine.Options{
		Width:   c.Config.Frame.Width,
		Height:  c.Config.Frame.Height,
		Physics: c.Config.LayoutConfig(),
	})
	eng.SetGraph(g)

	model := NewGraphModel(eng, reload)
	return tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
}

// watchLoop forwards file changes to the running viewer. Editors often
// write via rename, so both Write and Create events trigger a reload.
func (c *CLI) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, prog *tea.Program) {
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			g, err := graph.ReadGraphFile(path)
			prog.Send(refreshDoneMsg{g: g, err: err})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}
