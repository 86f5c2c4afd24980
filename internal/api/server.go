// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/catalog"
	"github.com/nicodishanthj/cobolscope/internal/common"
	"github.com/nicodishanthj/cobolscope/internal/graph"
	"github.com/nicodishanthj/cobolscope/internal/memory"
)

// Server exposes analysis runs over HTTP. Completed runs are cached per
// project; the snapshot store lets a restarted server answer queries for
// projects analyzed earlier.
type Server struct {
	router  chi.Router
	batch   *analyzer.Batch
	store   *memory.Store
	catalog *catalog.Store

	mu   sync.RWMutex
	runs map[string]*run
}

type run struct {
	Result analyzer.Result
	Graph  *graph.Graph
	Cycles []graph.Cycle
}

// NewServer wires the analysis pipeline behind the HTTP API. The catalog is
// optional; when nil, runs are only kept in memory and the snapshot store.
func NewServer(store *memory.Store, cat *catalog.Store) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		var err error
		store, err = memory.NewStore("cobolscope-data")
		if err != nil {
			return nil, err
		}
	}
	srv := &Server{
		router:  chi.NewRouter(),
		batch:   analyzer.NewBatch(),
		store:   store,
		catalog: cat,
		runs:    make(map[string]*run),
	}
	srv.routes()
	logger.Info("api: server ready", "snapshots", store.Root(), "catalog", cat != nil)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Get("/api/projects", s.handleProjects)
	s.router.Get("/api/programs", s.handlePrograms)
	s.router.Get("/api/programs/{id}", s.handleProgram)
	s.router.Get("/api/graph", s.handleGraph)
	s.router.Get("/api/graph/stats", s.handleGraphStats)
	s.router.Get("/api/graph/dot", s.handleGraphDOT)
	s.router.Get("/api/cycles", s.handleCycles)
	s.router.Get("/api/report", s.handleReport)
	s.router.Get("/api/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, common.LogEntries())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
