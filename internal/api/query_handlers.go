// File path: internal/api/query_handlers.go
package api

import (
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/cobolscope/internal/graph"
	"github.com/nicodishanthj/cobolscope/internal/report"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.Projects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, current.Result.Programs)
}

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	id := graph.Normalize(chi.URLParam(r, "id"))
	for _, p := range current.Result.Programs {
		if graph.Normalize(p.ID) == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Errorf("program %s not found", id))
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, current.Graph)
}

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, current.Graph.Stats())
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.RenderDOT(current.Graph)))
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	cycles := make([]string, 0, len(current.Cycles))
	for _, c := range current.Cycles {
		cycles = append(cycles, c.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cycles": cycles})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentRun(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	batch := report.BuildBatchReport(current.Result, current.Graph, current.Cycles)
	switch r.URL.Query().Get("format") {
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.RenderMarkdown(batch)))
	case "json":
		writeJSON(w, http.StatusOK, batch)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", r.URL.Query().Get("format")))
	}
}
