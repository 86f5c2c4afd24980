// File path: internal/analyzer/types.go
package analyzer

import (
	"fmt"

	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

// Program is the immutable record produced for one analyzed source file. It
// is built exactly once per file; graph construction treats the batch's
// Program set as read-only input.
type Program struct {
	ID           string       `json:"id"`
	SourcePath   string       `json:"source_path"`
	Unidentified bool         `json:"unidentified,omitempty"`
	TotalLines   int          `json:"total_lines"`
	CodeLines    int          `json:"code_lines"`
	Procedures   []string     `json:"procedures,omitempty"`
	Calls        []cobol.Call `json:"calls,omitempty"`
	Files        []string     `json:"files,omitempty"`
	Copybooks    []string     `json:"copybooks,omitempty"`
}

// Source pairs a file's text with the path used as identity fallback. The
// caller owns all I/O; the analyzer only ever sees in-memory blobs.
type Source struct {
	Path string
	Data []byte
}

// ParseError marks a file whose text could not be interpreted. The file is
// still represented in the batch output as an unidentified Program.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result carries everything a batch produced: the full Program set (one entry
// per input file, parse failures included as unidentified programs) and the
// per-file failures for caller visibility.
type Result struct {
	Programs []Program     `json:"programs"`
	Failures []*ParseError `json:"-"`
}
