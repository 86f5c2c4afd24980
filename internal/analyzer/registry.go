// File path: internal/analyzer/registry.go
package analyzer

import (
	"context"

	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

// SourceAnalyzer extracts structural facts from one language's source files.
// COBOL is the only built-in implementation; the indirection keeps room for
// sibling technologies (JCL, copybook-only members) without touching the
// batch runner.
type SourceAnalyzer interface {
	Name() string
	Match(path string, data []byte) bool
	Extract(ctx context.Context, path string, data []byte) (cobol.Facts, error)
}

type cobolAnalyzer struct {
	extractor *cobol.Extractor
}

func (c *cobolAnalyzer) Name() string { return "cobol" }

func (c *cobolAnalyzer) Match(path string, data []byte) bool {
	return cobol.Matches(path, data)
}

func (c *cobolAnalyzer) Extract(ctx context.Context, path string, data []byte) (cobol.Facts, error) {
	return c.extractor.Extract(ctx, path, data)
}

func defaultAnalyzers() []SourceAnalyzer {
	return []SourceAnalyzer{
		&cobolAnalyzer{extractor: cobol.NewExtractor()},
	}
}
