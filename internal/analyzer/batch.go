// File path: internal/analyzer/batch.go
package analyzer

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
	"github.com/nicodishanthj/cobolscope/internal/common"
)

const defaultWorkers = 8

// Batch runs per-file extraction across a set of sources. Files are
// independent, so extraction is fanned out across a bounded worker group; the
// Program records are joined before any of them is handed to the graph
// stage.
type Batch struct {
	analyzers []SourceAnalyzer
	workers   int
}

type BatchOption func(*Batch)

// WithWorkers bounds the number of concurrent extractions.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

func NewBatch(opts ...BatchOption) *Batch {
	b := &Batch{analyzers: defaultAnalyzers(), workers: defaultWorkers}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Analyze extracts facts from every source and assembles one Program record
// per file. A failed file never aborts its siblings: the failure is recorded
// and the file is carried as an unidentified Program. Output order is by
// source path, independent of scheduling.
func (b *Batch) Analyze(ctx context.Context, sources []Source) (Result, error) {
	logger := common.Logger()
	if len(sources) == 0 {
		return Result{}, nil
	}

	programs := make([]Program, len(sources))
	failures := make([]*ParseError, len(sources))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.workers)
	for i := range sources {
		idx := i
		group.Go(func() error {
			src := sources[idx]
			program, failure := b.analyzeOne(groupCtx, src)
			mu.Lock()
			programs[idx] = program
			failures[idx] = failure
			mu.Unlock()
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Programs: programs}
	for _, failure := range failures {
		if failure != nil {
			result.Failures = append(result.Failures, failure)
		}
	}
	sort.SliceStable(result.Programs, func(i, j int) bool {
		return result.Programs[i].SourcePath < result.Programs[j].SourcePath
	})
	logger.Info("analyzer: batch complete", "files", len(sources), "failures", len(result.Failures))
	return result, nil
}

func (b *Batch) analyzeOne(ctx context.Context, src Source) (Program, *ParseError) {
	logger := common.Logger()
	for _, a := range b.analyzers {
		if !a.Match(src.Path, src.Data) {
			continue
		}
		facts, err := a.Extract(ctx, src.Path, src.Data)
		if err != nil {
			logger.Warn("analyzer: extraction failed", "path", src.Path, "analyzer", a.Name(), "error", err)
			return BuildProgram(src.Path, src.Data, cobol.Facts{}), &ParseError{Path: src.Path, Err: err}
		}
		return BuildProgram(src.Path, src.Data, facts), nil
	}
	// No analyzer claimed the file; keep it in the batch as unidentified so
	// graph and report stages cover the whole input set.
	logger.Debug("analyzer: no analyzer matched", "path", src.Path)
	return BuildProgram(src.Path, src.Data, cobol.Facts{}), nil
}
