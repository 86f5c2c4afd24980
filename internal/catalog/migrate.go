// File path: internal/catalog/migrate.go
package catalog

import (
	"context"
	"errors"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		program_id TEXT NOT NULL,
		source_path TEXT NOT NULL,
		unidentified INTEGER NOT NULL DEFAULT 0,
		total_lines INTEGER NOT NULL DEFAULT 0,
		code_lines INTEGER NOT NULL DEFAULT 0,
		UNIQUE(project_id, program_id, source_path)
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		dynamic INTEGER NOT NULL DEFAULT 0,
		UNIQUE(project_id, from_id, to_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS conflicts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		program_id TEXT NOT NULL,
		paths TEXT NOT NULL,
		UNIQUE(project_id, program_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		path TEXT NOT NULL,
		UNIQUE(project_id, sequence)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_programs_project ON programs(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_project ON edges(project_id)`,
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply catalog schema: %w", err)
		}
	}
	return nil
}
