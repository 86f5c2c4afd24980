// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/graph"
)

// ProgramRow mirrors the programs table.
type ProgramRow struct {
	ID           int64  `db:"id"`
	ProjectID    string `db:"project_id"`
	ProgramID    string `db:"program_id"`
	SourcePath   string `db:"source_path"`
	Unidentified bool   `db:"unidentified"`
	TotalLines   int    `db:"total_lines"`
	CodeLines    int    `db:"code_lines"`
}

// EdgeRow mirrors the edges table.
type EdgeRow struct {
	ID        int64  `db:"id"`
	ProjectID string `db:"project_id"`
	FromID    string `db:"from_id"`
	ToID      string `db:"to_id"`
	Kind      string `db:"kind"`
	Dynamic   bool   `db:"dynamic"`
}

// CycleRow mirrors the cycles table; Path stores the closed cycle rendered
// with " -> " separators.
type CycleRow struct {
	ID        int64  `db:"id"`
	ProjectID string `db:"project_id"`
	Sequence  int    `db:"sequence"`
	Path      string `db:"path"`
}

// ConflictRow mirrors the conflicts table; Paths is comma separated.
type ConflictRow struct {
	ID        int64  `db:"id"`
	ProjectID string `db:"project_id"`
	ProgramID string `db:"program_id"`
	Paths     string `db:"paths"`
}

// SaveRun replaces the persisted analysis results for a project in a single
// transaction.
func (s *Store) SaveRun(ctx context.Context, projectID string, programs []analyzer.Program, g *graph.Graph, cycles []graph.Cycle) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return fmt.Errorf("project id required")
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"programs", "edges", "conflicts", "cycles"} {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = ?", table), projectID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, p := range programs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO programs (project_id, program_id, source_path, unidentified, total_lines, code_lines)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				projectID, p.ID, p.SourcePath, p.Unidentified, p.TotalLines, p.CodeLines); err != nil {
				return fmt.Errorf("insert program %s: %w", p.ID, err)
			}
		}
		if g != nil {
			for _, e := range g.Edges {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO edges (project_id, from_id, to_id, kind, dynamic) VALUES (?, ?, ?, ?, ?)`,
					projectID, e.From, e.To, string(e.Kind), e.Dynamic); err != nil {
					return fmt.Errorf("insert edge %s->%s: %w", e.From, e.To, err)
				}
			}
			for _, c := range g.Conflicts {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO conflicts (project_id, program_id, paths) VALUES (?, ?, ?)`,
					projectID, c.ProgramID, strings.Join(c.Paths, ",")); err != nil {
					return fmt.Errorf("insert conflict %s: %w", c.ProgramID, err)
				}
			}
		}
		for i, c := range cycles {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cycles (project_id, sequence, path) VALUES (?, ?, ?)`,
				projectID, i, c.String()); err != nil {
				return fmt.Errorf("insert cycle %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListPrograms returns all persisted programs for a project ordered by id.
func (s *Store) ListPrograms(ctx context.Context, projectID string) ([]ProgramRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	rows := []ProgramRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM programs WHERE project_id = ? ORDER BY program_id, source_path`, projectID); err != nil {
		return nil, fmt.Errorf("select programs: %w", err)
	}
	return rows, nil
}

// ProgramByID retrieves one persisted program by project and normalized id.
func (s *Store) ProgramByID(ctx context.Context, projectID, programID string) (*ProgramRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return nil, fmt.Errorf("program id required")
	}
	var row ProgramRow
	if err := s.db.GetContext(ctx, &row,
		`SELECT * FROM programs WHERE project_id = ? AND program_id = ? ORDER BY source_path LIMIT 1`,
		projectID, programID); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListEdges returns the persisted edge set for a project.
func (s *Store) ListEdges(ctx context.Context, projectID string, kinds ...string) ([]EdgeRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	rows := []EdgeRow{}
	if len(kinds) == 0 {
		if err := s.db.SelectContext(ctx, &rows,
			`SELECT * FROM edges WHERE project_id = ? ORDER BY kind, from_id, to_id`, projectID); err != nil {
			return nil, fmt.Errorf("select edges: %w", err)
		}
		return rows, nil
	}
	query, args, err := sqlx.In(
		`SELECT * FROM edges WHERE project_id = ? AND kind IN (?) ORDER BY kind, from_id, to_id`, projectID, kinds)
	if err != nil {
		return nil, fmt.Errorf("build edge query: %w", err)
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select edges: %w", err)
	}
	return rows, nil
}

// ListCycles returns the persisted cycle paths for a project in detection
// order.
func (s *Store) ListCycles(ctx context.Context, projectID string) ([]CycleRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	rows := []CycleRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM cycles WHERE project_id = ? ORDER BY sequence`, projectID); err != nil {
		return nil, fmt.Errorf("select cycles: %w", err)
	}
	return rows, nil
}

// ListConflicts returns the persisted duplicate-id conflicts for a project.
func (s *Store) ListConflicts(ctx context.Context, projectID string) ([]ConflictRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	rows := []ConflictRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM conflicts WHERE project_id = ? ORDER BY program_id`, projectID); err != nil {
		return nil, fmt.Errorf("select conflicts: %w", err)
	}
	return rows, nil
}
