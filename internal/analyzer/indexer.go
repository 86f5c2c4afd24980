// File path: internal/analyzer/indexer.go
package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nicodishanthj/cobolscope/internal/common"
)

// CollectSources walks a directory tree and reads every file an analyzer
// claims. This is the only place the package touches the filesystem; Analyze
// itself operates purely on in-memory sources.
func CollectSources(root string, analyzers []SourceAnalyzer) ([]Source, error) {
	if len(analyzers) == 0 {
		analyzers = defaultAnalyzers()
	}
	logger := common.Logger()
	var sources []Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read file %s: %w", path, readErr)
		}
		for _, a := range analyzers {
			if a.Match(path, data) {
				sources = append(sources, Source{Path: path, Data: data})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("analyzer: sources collected", "root", root, "files", len(sources))
	return sources, nil
}

// AnalyzeDir is the convenience entry point used by the CLI and the API: it
// collects sources under root and runs them through the batch.
func (b *Batch) AnalyzeDir(ctx context.Context, root string) (Result, error) {
	sources, err := CollectSources(root, b.analyzers)
	if err != nil {
		return Result{}, err
	}
	return b.Analyze(ctx, sources)
}
