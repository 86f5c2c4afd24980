// File path: internal/analyzer/cobol/extractor.go
package cobol

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Facts holds the structural facts extracted from one COBOL source file.
// Procedures preserve source order; the remaining collections are deduplicated
// on their normalized (upper-case) form while the first-seen spelling is kept.
type Facts struct {
	ProgramID    string
	Procedures   []string
	Calls        []Call
	Files        []string
	Copybooks    []string
	TotalLines   int
	CodeLines    int
	CommentLines int
}

// CallKind distinguishes static literal CALL targets from dynamic ones driven
// by a data item. Dynamic targets can never be resolved to a program at
// analysis time.
type CallKind string

const (
	CallStatic  CallKind = "static"
	CallDynamic CallKind = "dynamic"
)

// Call records a single CALL statement operand.
type Call struct {
	Target string   `json:"target"`
	Kind   CallKind `json:"kind"`
}

var (
	programIDRe   = regexp.MustCompile(`(?i)\bPROGRAM-ID\.?\s+([A-Za-z0-9_-]+)`)
	sectionRe     = regexp.MustCompile(`(?i)^\s*([A-Za-z0-9][A-Za-z0-9-]*)\s+SECTION\s*\.`)
	paragraphRe   = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9-]*)\s*\.\s*$`)
	divisionRe    = regexp.MustCompile(`(?i)^\s*([A-Z-]+)\s+DIVISION\b`)
	// CALL must not be preceded by a hyphen or word character so END-CALL
	// never reads as a call statement.
	staticCallRe  = regexp.MustCompile(`(?i)(?:^|[^-\w])CALL\s+['"]([A-Za-z0-9_-]+)['"]`)
	dynamicCallRe = regexp.MustCompile(`(?i)(?:^|[^-\w])CALL\s+([A-Za-z][A-Za-z0-9-]*)\b`)
	selectRe      = regexp.MustCompile(`(?i)\bSELECT\s+([A-Za-z][A-Za-z0-9-]*)\s+ASSIGN\b`)
	openCloseRe   = regexp.MustCompile(`(?i)\b(?:OPEN\s+(?:INPUT|OUTPUT|I-O|EXTEND)|CLOSE)\s+([A-Za-z][A-Za-z0-9-]*)`)
	copyRe        = regexp.MustCompile(`(?i)\bCOPY\s+([A-Za-z][A-Za-z0-9-]*)`)
)

// reservedWords filters paragraph candidates that are COBOL keywords rather
// than user-defined procedure names.
var reservedWords = map[string]struct{}{
	"PROGRAM-ID": {}, "AUTHOR": {}, "INSTALLATION": {}, "DATE-WRITTEN": {},
	"DATE-COMPILED": {}, "SECURITY": {}, "ENVIRONMENT": {}, "CONFIGURATION": {},
	"INPUT-OUTPUT": {}, "FILE-CONTROL": {}, "DATA": {}, "FILE": {},
	"WORKING-STORAGE": {}, "LOCAL-STORAGE": {}, "LINKAGE": {}, "PROCEDURE": {},
	"IDENTIFICATION": {}, "DIVISION": {}, "SECTION": {}, "END-IF": {},
	"END-EVALUATE": {}, "END-PERFORM": {}, "END-READ": {}, "EXIT": {},
	"STOP": {}, "GOBACK": {}, "ELSE": {},
}

// callKeywords are identifiers that follow CALL in non-target positions and
// must not be mistaken for dynamic call operands.
var callKeywords = map[string]struct{}{
	"USING": {}, "BY": {}, "RETURNING": {}, "ON": {}, "END-CALL": {},
}

const (
	// DefaultMaxSourceBytes bounds pathological inputs; anything larger is
	// rejected with a per-file error rather than scanned.
	DefaultMaxSourceBytes = 8 << 20
	// DefaultMaxLines bounds the number of scanned lines per file.
	DefaultMaxLines = 200_000
)

// Extractor scans COBOL source text line by line and collects structural
// facts. It is a pattern matcher, not a grammar: a CALL-shaped line inside a
// string literal will still match. Comment and blank lines are skipped before
// any pattern is applied.
type Extractor struct {
	MaxSourceBytes int
	MaxLines       int
}

func NewExtractor() *Extractor {
	return &Extractor{MaxSourceBytes: DefaultMaxSourceBytes, MaxLines: DefaultMaxLines}
}

// Matches reports whether the path or content looks like COBOL source.
func Matches(path string, data []byte) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".cob") || strings.HasSuffix(lower, ".cbl") || strings.HasSuffix(lower, ".cpy") {
		return true
	}
	content := strings.ToUpper(string(data))
	return strings.Contains(content, "IDENTIFICATION DIVISION") || strings.Contains(content, "PROCEDURE DIVISION")
}

// Extract produces the structural facts for a single source file. Failures
// are scoped to the file; callers must treat them as non-fatal to a batch.
func (e *Extractor) Extract(ctx context.Context, path string, data []byte) (Facts, error) {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return Facts{}, ctx.Err()
		default:
		}
	}
	maxBytes := e.MaxSourceBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSourceBytes
	}
	if len(data) > maxBytes {
		return Facts{}, fmt.Errorf("source %s exceeds %d bytes", path, maxBytes)
	}
	lines := strings.Split(string(data), "\n")
	maxLines := e.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	if len(lines) > maxLines {
		return Facts{}, fmt.Errorf("source %s exceeds %d lines", path, maxLines)
	}

	facts := Facts{TotalLines: countLines(lines)}
	seenProcs := make(map[string]struct{})
	seenCalls := make(map[string]struct{})
	seenFiles := make(map[string]struct{})
	seenCopies := make(map[string]struct{})
	inProcedure := false

	for _, raw := range lines {
		if isBlankLine(raw) {
			continue
		}
		if IsCommentLine(raw) {
			facts.CommentLines++
			continue
		}
		facts.CodeLines++
		line := stripInlineComment(raw)

		if div := divisionRe.FindStringSubmatch(line); div != nil {
			inProcedure = strings.EqualFold(strings.TrimSpace(div[1]), "PROCEDURE")
			continue
		}
		if facts.ProgramID == "" {
			if m := programIDRe.FindStringSubmatch(line); m != nil {
				facts.ProgramID = strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
				continue
			}
		}
		if m := selectRe.FindStringSubmatch(line); m != nil {
			addUnique(&facts.Files, seenFiles, m[1])
		}
		for _, m := range openCloseRe.FindAllStringSubmatch(line, -1) {
			addUnique(&facts.Files, seenFiles, m[1])
		}
		if m := copyRe.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[1])
			if _, reserved := reservedWords[name]; !reserved {
				addUnique(&facts.Copybooks, seenCopies, m[1])
			}
		}
		if call, ok := extractCall(line); ok {
			key := string(call.Kind) + ":" + strings.ToUpper(call.Target)
			if _, dup := seenCalls[key]; !dup {
				seenCalls[key] = struct{}{}
				facts.Calls = append(facts.Calls, call)
			}
		}
		// Paragraph and section headers only count inside the procedure
		// division; the scan keeps going to end of file so later paragraphs
		// are never lost.
		if !inProcedure {
			continue
		}
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			addProcedure(&facts.Procedures, seenProcs, m[1])
			continue
		}
		if m := paragraphRe.FindStringSubmatch(line); m != nil {
			addProcedure(&facts.Procedures, seenProcs, m[1])
		}
	}
	return facts, nil
}

// IsCommentLine reports whether the line is a COBOL comment: fixed-format
// indicator '*' or '/' in column 7, or a free-format "*>" marker.
func IsCommentLine(line string) bool {
	if len(line) >= 7 && (line[6] == '*' || line[6] == '/') {
		return true
	}
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "*>") || strings.HasPrefix(trimmed, "*")
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

func stripInlineComment(line string) string {
	if idx := strings.Index(line, "*>"); idx >= 0 {
		return line[:idx]
	}
	return line
}

func extractCall(line string) (Call, bool) {
	if m := staticCallRe.FindStringSubmatch(line); m != nil {
		return Call{Target: m[1], Kind: CallStatic}, true
	}
	if m := dynamicCallRe.FindStringSubmatch(line); m != nil {
		target := m[1]
		if _, keyword := callKeywords[strings.ToUpper(target)]; keyword {
			return Call{}, false
		}
		return Call{Target: target, Kind: CallDynamic}, true
	}
	return Call{}, false
}

func addProcedure(out *[]string, seen map[string]struct{}, name string) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return
	}
	if _, reserved := reservedWords[upper]; reserved {
		return
	}
	if _, dup := seen[upper]; dup {
		return
	}
	seen[upper] = struct{}{}
	*out = append(*out, strings.TrimSpace(name))
}

func addUnique(out *[]string, seen map[string]struct{}, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	upper := strings.ToUpper(trimmed)
	if _, dup := seen[upper]; dup {
		return
	}
	seen[upper] = struct{}{}
	*out = append(*out, trimmed)
}

func countLines(lines []string) int {
	total := len(lines)
	if total > 0 && lines[total-1] == "" {
		total--
	}
	return total
}
