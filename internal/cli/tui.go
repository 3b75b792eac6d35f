package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/highlight"
	"github.com/lukasmeier/depscope/pkg/render"
)

// =============================================================================
// Canvas Styles
// =============================================================================

var (
	nodeStyles = map[highlight.NodeState]lipgloss.Style{
		highlight.NodeNormal:      lipgloss.NewStyle().Foreground(colorWhite),
		highlight.NodeSelected:    lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Reverse(true),
		highlight.NodeConnected:   lipgloss.NewStyle().Foreground(colorGreen),
		highlight.NodeFaded:       lipgloss.NewStyle().Foreground(colorDim),
		highlight.NodeFilteredOut: lipgloss.NewStyle().Foreground(colorDim),
	}

	edgeStyles = map[highlight.EdgeState]lipgloss.Style{
		highlight.EdgeNormal:      lipgloss.NewStyle().Foreground(colorGray),
		highlight.EdgeHighlighted: lipgloss.NewStyle().Foreground(colorGreen),
		highlight.EdgeFaded:       lipgloss.NewStyle().Foreground(colorDim),
		highlight.EdgeCircular:    lipgloss.NewStyle().Foreground(colorRed),
	}

	statusBarStyle = lipgloss.NewStyle().Foreground(colorGray)
	searchBarStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// panStep is the keyboard pan distance in screen pixels per arrow press.
const panStep = 40.0

// =============================================================================
// GraphModel - Interactive Graph Viewer
// =============================================================================

// refreshDoneMsg carries the result of an asynchronous graph reload.
type refreshDoneMsg struct {
	g   *graph.Graph
	err error
}

// GraphModel is the bubbletea model for the interactive graph viewer.
// All interaction flows through the layout engine; the model only
// translates terminal events and paints draw lists.
type GraphModel struct {
	eng    *engine.Engine
	reload GraphReloader

	width  int // terminal cells
	height int

	searching bool
	query     string
	status    string
}

// GraphReloader reloads the graph from its source, nil disables 'R'.
type GraphReloader func() (*graph.Graph, error)

// NewGraphModel creates the viewer model around an engine.
func NewGraphModel(eng *engine.Engine, reload GraphReloader) GraphModel {
	return GraphModel{eng: eng, reload: reload, width: 80, height: 24}
}

func (m GraphModel) Init() tea.Cmd {
	return nil
}

func (m GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg), nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearchKey(msg), nil
		}
		return m.updateKey(msg)

	case refreshDoneMsg:
		m.eng.SetLoading(false)
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.eng.SetGraph(msg.g)
		m.status = "graph reloaded"
		return m, nil
	}
	return m, nil
}

// canvasScale maps engine screen pixels to terminal cells. The whole frame
// fits the canvas at zoom 1; the vertical factor is separate because cells
// are taller than wide.
func (m GraphModel) canvasScale() (sx, sy float64) {
	w, h := m.eng.Frame()
	canvasH := m.canvasHeight()
	return float64(m.width) / w, float64(canvasH) / h
}

func (m GraphModel) canvasHeight() int {
	h := m.height - 2
	if h < 4 {
		h = 4
	}
	return h
}

// updateMouse maps terminal mouse events onto engine pointer events,
// converting cell coordinates back to screen pixels.
func (m GraphModel) updateMouse(msg tea.MouseMsg) GraphModel {
	sx, sy := m.canvasScale()
	pos := r2.Vec{X: float64(msg.X) / sx, Y: float64(msg.Y) / sy}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.eng.PointerDown(pos)
		case tea.MouseButtonWheelUp:
			m.eng.Wheel(1)
		case tea.MouseButtonWheelDown:
			m.eng.Wheel(-1)
		}
	case tea.MouseActionMotion:
		m.eng.PointerMove(pos)
	case tea.MouseActionRelease:
		m.eng.PointerUp()
	}
	return m
}

func (m GraphModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		m.eng.Pan(r2.Vec{Y: panStep})
	case "down":
		m.eng.Pan(r2.Vec{Y: -panStep})
	case "left":
		m.eng.Pan(r2.Vec{X: panStep})
	case "right":
		m.eng.Pan(r2.Vec{X: -panStep})
	case "+", "=":
		m.eng.ZoomIn()
	case "-", "_":
		m.eng.ZoomOut()
	case "/":
		m.searching = true
		m.query = m.eng.Selection().SearchQuery
	case "esc":
		m.eng.Search("")
		m.eng.Select("")
		m.query = ""
	case "r":
		m.eng.ResetView()
		m.query = ""
	case "R":
		if m.reload != nil {
			m.eng.SetLoading(true)
			reload := m.reload
			return m, func() tea.Msg {
				g, err := reload()
				return refreshDoneMsg{g: g, err: err}
			}
		}
	}
	return m, nil
}

func (m GraphModel) updateSearchKey(msg tea.KeyMsg) GraphModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		if msg.Type == tea.KeyEsc {
			m.query = ""
			m.eng.Search("")
		}
	case tea.KeyBackspace:
		if len(m.query) > 0 {
			runes := []rune(m.query)
			m.query = string(runes[:len(runes)-1])
			m.eng.Search(m.query)
		}
	case tea.KeyRunes:
		m.query += string(msg.Runes)
		m.eng.Search(m.query)
	}
	return m
}

// =============================================================================
// View - Canvas Painting
// =============================================================================

func (m GraphModel) View() string {
	canvasH := m.canvasHeight()
	sx, sy := m.canvasScale()

	dl := m.eng.DrawList()
	canvas := paintDrawList(dl, m.width, canvasH, sx, sy)

	var b strings.Builder
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m GraphModel) statusLine() string {
	if m.searching {
		return searchBarStyle.Render("/" + m.query + "▌")
	}

	stats := m.eng.Stats()
	vp := m.eng.Viewport()

	parts := []string{
		fmt.Sprintf("%d nodes", stats.Nodes),
		fmt.Sprintf("%d edges", stats.Edges),
		fmt.Sprintf("zoom %.1fx", vp.Zoom),
	}
	if stats.Cycles > 0 {
		parts = append(parts, StyleCircular.Render(fmt.Sprintf("%d cycles", stats.Cycles)))
	}
	if sel := m.eng.Selection().SelectedNodeID; sel != "" {
		parts = append(parts, StyleHighlight.Render("sel: "+sel))
	}
	if q := m.eng.Selection().SearchQuery; q != "" {
		parts = append(parts, "filter: "+q)
	}
	if m.eng.Loading() {
		parts = append(parts, StyleWarning.Render("loading..."))
	}
	if m.status != "" {
		parts = append(parts, StyleDim.Render(m.status))
	}
	parts = append(parts, StyleDim.Render("/ search  r reset  R reload  q quit"))

	return statusBarStyle.Render(strings.Join(parts, "  ·  "))
}

// paintDrawList rasterizes the draw list onto a character grid, scaling
// screen pixels to cells by sx/sy. Edges paint first, then node labels,
// matching the back-to-front order of the list.
func paintDrawList(dl render.DrawList, width, height int, sx, sy float64) string {
	if dl.Empty() {
		empty := StyleDim.Render("no graph loaded")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	cells := make([][]string, height)
	for y := range cells {
		cells[y] = make([]string, width)
		for x := range cells[y] {
			cells[y][x] = " "
		}
	}

	for _, e := range dl.Edges {
		paintEdge(cells, e, width, height, sx, sy)
	}
	for _, n := range dl.Nodes {
		paintNode(cells, n, width, height, sx, sy)
	}

	rows := make([]string, height)
	for y := range cells {
		rows[y] = strings.Join(cells[y], "")
	}
	return strings.Join(rows, "\n")
}

// paintEdge draws a sparse dotted line between the edge endpoints.
func paintEdge(cells [][]string, e render.EdgeDraw, width, height int, sx, sy float64) {
	style, ok := edgeStyles[e.State]
	if !ok {
		style = edgeStyles[highlight.EdgeNormal]
	}
	ch := "·"
	if e.Dashed {
		ch = "x"
	}

	steps := 12
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := int((e.X1 + (e.X2-e.X1)*t) * sx)
		y := int((e.Y1 + (e.Y2-e.Y1)*t) * sy)
		if x >= 0 && x < width && y >= 0 && y < height {
			cells[y][x] = style.Render(ch)
		}
	}
}

// paintNode writes the styled label at the node-box center.
func paintNode(cells [][]string, n render.NodeDraw, width, height int, sx, sy float64) {
	style, ok := nodeStyles[n.State]
	if !ok {
		style = nodeStyles[highlight.NodeNormal]
	}

	label := n.Label
	if n.IssueCount > 0 {
		label = fmt.Sprintf("%s(%d)", label, n.IssueCount)
	}

	cy := int((n.Y + n.H/2) * sy)
	cx := int((n.X+n.W/2)*sx - float64(len([]rune(label)))/2)
	if cy < 0 || cy >= height {
		return
	}
	for i, r := range []rune(label) {
		x := cx + i
		if x >= 0 && x < width {
			cells[cy][x] = style.Render(string(r))
		}
	}
}
