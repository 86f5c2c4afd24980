// File path: internal/api/analyze_handler.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/common"
	"github.com/nicodishanthj/cobolscope/internal/graph"
)

type analyzeRequest struct {
	ProjectID string `json:"project_id"`
	Root      string `json:"root"`
}

type analyzeResponse struct {
	ProjectID string      `json:"project_id"`
	Programs  int         `json:"programs"`
	Failures  []string    `json:"failures,omitempty"`
	Stats     graph.Stats `json:"graph_statistics"`
	Cycles    []string    `json:"cycles,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.Root = strings.TrimSpace(req.Root)
	if req.ProjectID == "" || req.Root == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("project_id and root required"))
		return
	}

	result, err := s.batch.AnalyzeDir(r.Context(), req.Root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("analyze %s: %w", req.Root, err))
		return
	}
	current := &run{Result: result, Graph: graph.Build(result.Programs)}
	current.Cycles = current.Graph.Cycles()

	if err := s.store.ReplacePrograms(r.Context(), req.ProjectID, result.Programs); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("persist snapshot: %w", err))
		return
	}
	if s.catalog != nil {
		if err := s.catalog.SaveRun(r.Context(), req.ProjectID, result.Programs, current.Graph, current.Cycles); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("persist catalog: %w", err))
			return
		}
	}
	s.mu.Lock()
	s.runs[req.ProjectID] = current
	s.mu.Unlock()

	logger.Info("api: analysis complete", "project", req.ProjectID, "programs", len(result.Programs), "cycles", len(current.Cycles))
	resp := analyzeResponse{
		ProjectID: req.ProjectID,
		Programs:  len(result.Programs),
		Stats:     current.Graph.Stats(),
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, f.Error())
	}
	for _, c := range current.Cycles {
		resp.Cycles = append(resp.Cycles, c.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// currentRun resolves the cached run for a project, falling back to the
// snapshot store. Graph and cycles are pure functions of the Program set, so
// rebuilding from a snapshot reproduces the original run exactly.
func (s *Server) currentRun(ctx context.Context, projectID string) (*run, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("project_id query parameter required")
	}
	s.mu.RLock()
	cached, ok := s.runs[projectID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	programs, err := s.store.Programs(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(programs) == 0 {
		return nil, fmt.Errorf("project %s has no analysis run", projectID)
	}
	rebuilt := &run{Graph: graph.Build(programs)}
	rebuilt.Result.Programs = programs
	rebuilt.Cycles = rebuilt.Graph.Cycles()
	s.mu.Lock()
	s.runs[projectID] = rebuilt
	s.mu.Unlock()
	return rebuilt, nil
}
