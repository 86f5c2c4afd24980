// File path: internal/memory/store.go
package memory

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
)

// Store persists Program snapshots as JSONL files, one file per project.
// Snapshots let reports and the API reload a prior analysis run without
// re-scanning the sources.
type Store struct {
	path string
	mu   sync.RWMutex
}

func NewStore(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("store path required")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{path: trimmed}, nil
}

// ReplacePrograms overwrites a project's snapshot with the provided records.
func (s *Store) ReplacePrograms(ctx context.Context, projectID string, programs []analyzer.Program) error {
	filePath, err := s.projectFile(projectID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := os.OpenFile(filePath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for _, program := range programs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := enc.Encode(program); err != nil {
			return fmt.Errorf("encode program: %w", err)
		}
	}
	return nil
}

// Programs loads the snapshot for a project; a missing snapshot yields nil.
func (s *Store) Programs(ctx context.Context, projectID string) ([]analyzer.Program, error) {
	if s == nil {
		return nil, errors.New("store not initialized")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath, err := s.projectFile(projectID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64<<10), 8<<20)
	var programs []analyzer.Program
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var program analyzer.Program
		if err := json.Unmarshal(line, &program); err != nil {
			return nil, fmt.Errorf("decode program: %w", err)
		}
		programs = append(programs, program)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return programs, nil
}

// ProjectInfo describes a stored project snapshot.
type ProjectInfo struct {
	ID       string `json:"id"`
	Programs int    `json:"programs"`
}

// Projects lists stored snapshots with their program counts.
func (s *Store) Projects(ctx context.Context) ([]ProjectInfo, error) {
	if s == nil {
		return nil, errors.New("store not initialized")
	}
	s.mu.RLock()
	entries, err := os.ReadDir(s.path)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	infos := make([]ProjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		projectID, ok := decodeProjectFile(entry.Name())
		if !ok {
			continue
		}
		programs, err := s.Programs(ctx, projectID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, ProjectInfo{ID: projectID, Programs: len(programs)})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// Root returns the underlying directory used for persistence.
func (s *Store) Root() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) projectFile(projectID string) (string, error) {
	trimmed := strings.TrimSpace(projectID)
	if trimmed == "" {
		return "", fmt.Errorf("project id required")
	}
	encoded := base64.RawURLEncoding.EncodeToString([]byte(trimmed))
	name := fmt.Sprintf("project_%s.jsonl", encoded)
	return filepath.Join(s.path, name), nil
}

func decodeProjectFile(name string) (string, bool) {
	if !strings.HasPrefix(name, "project_") || !strings.HasSuffix(name, ".jsonl") {
		return "", false
	}
	encoded := strings.TrimSuffix(strings.TrimPrefix(name, "project_"), ".jsonl")
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(data), true
}
