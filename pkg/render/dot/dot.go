// Package dot exports dependency graphs to Graphviz DOT and renders
// them to SVG or PNG.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/graph"
)

// Options configures DOT export.
type Options struct {
	// Detailed includes node type and issue count in labels.
	// When false, only the display name is shown.
	Detailed bool
}

// fillColors maps node types to Graphviz fill colors.
var fillColors = map[graph.NodeType]string{
	graph.TypeAPI:       "lightblue",
	graph.TypeService:   "palegreen",
	graph.TypeComponent: "lightyellow",
	graph.TypeUtil:      "lightgrey",
	graph.TypeModel:     "thistle",
	graph.TypeModule:    "peachpuff",
}

// ToDOT converts a dependency graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes that participate in a circular dependency get a red outline, and
// circular edges are drawn dashed red.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(g, n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range g.Edges {
		from, to, ok := g.Endpoints(i)
		if !ok {
			continue
		}
		if g.EdgeCircular(i) {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=red];\n", from.ID, to.ID)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from.ID, to.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayName()
	}

	parts := []string{n.DisplayName()}
	if n.Type != "" {
		parts = append(parts, fmt.Sprintf("type: %s", n.Type))
	}
	if n.IssueCount > 0 {
		parts = append(parts, fmt.Sprintf("issues: %d", n.IssueCount))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(g *graph.Graph, n *graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := fillColors[n.Type]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", fill))
	}
	if g.InCycle(n.ID) {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
