// Package server exposes the layout engine over HTTP as a JSON API.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/highlight"
	"github.com/lukasmeier/depscope/pkg/layout"
	"github.com/lukasmeier/depscope/pkg/render"
	"github.com/lukasmeier/depscope/pkg/viewport"
)

// GraphLoader reloads the current graph, e.g. by re-reading the source file.
type GraphLoader func() (*graph.Graph, error)

// Server serves graph, layout and draw-list data for a single engine.
type Server struct {
	mu     sync.Mutex
	eng    *engine.Engine
	loader GraphLoader
	logger *log.Logger
	router chi.Router
}

// New creates a server around eng. loader may be nil, in which case
// POST /api/refresh returns 501.
func New(eng *engine.Engine, loader GraphLoader, logger *log.Logger) *Server {
	s := &Server{
		eng:    eng,
		loader: loader,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestLogger)
	s.router.Get("/api/graph", s.handleGraph)
	s.router.Get("/api/layout", s.handleLayout)
	s.router.Get("/api/drawlist", s.handleDrawList)
	s.router.Post("/api/refresh", s.handleRefresh)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until the process exits.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// requestLogger tags each request with an ID and logs method, path and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	g := s.eng.Graph()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	w0, h0 := s.eng.Frame()
	resp := struct {
		Width  float64                 `json:"width"`
		Height float64                 `json:"height"`
		Nodes  []layout.PositionedNode `json:"nodes"`
	}{w0, h0, s.eng.Positioned()}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleDrawList builds a draw list for the viewport described by query
// parameters. Selection and search are applied per-request and do not
// mutate the engine state.
func (s *Server) handleDrawList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	zoom, err := queryFloat(q.Get("zoom"), 1.0)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid zoom: %s", q.Get("zoom")))
		return
	}
	panX, err := queryFloat(q.Get("panx"), 0)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid panx: %s", q.Get("panx")))
		return
	}
	panY, err := queryFloat(q.Get("pany"), 0)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid pany: %s", q.Get("pany")))
		return
	}

	vp := viewport.New()
	vp.SetZoom(zoom)
	vp.Pan = r2.Vec{X: panX, Y: panY}

	st := highlight.State{
		SelectedNodeID: q.Get("selected"),
		SearchQuery:    q.Get("q"),
	}

	s.mu.Lock()
	g := s.eng.Graph()
	dl := render.BuildDrawList(s.eng.Positioned(), g, vp, highlight.Compute(g, st))
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, dl)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no graph source configured"))
		return
	}

	g, err := s.loader()
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.eng.SetGraph(g)
	stats := s.eng.Stats()
	s.mu.Unlock()

	s.logger.Info("graph refreshed", "nodes", stats.Nodes, "edges", stats.Edges)
	writeJSON(w, http.StatusOK, stats)
}

func queryFloat(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGraphNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
