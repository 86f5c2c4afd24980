// File path: internal/analyzer/program.go
package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

// BuildProgram assembles the Program record for one file from the raw text
// and the extractor's facts. When the extractor found no PROGRAM-ID the
// record falls back to a filename-derived id and is flagged unidentified so
// downstream stages keep full coverage of the input file set.
func BuildProgram(path string, data []byte, facts cobol.Facts) Program {
	program := Program{
		ID:         strings.TrimSpace(facts.ProgramID),
		SourcePath: path,
		TotalLines: countRawLines(data),
		CodeLines:  facts.CodeLines,
		Procedures: append([]string(nil), facts.Procedures...),
		Calls:      append([]cobol.Call(nil), facts.Calls...),
		Files:      append([]string(nil), facts.Files...),
		Copybooks:  append([]string(nil), facts.Copybooks...),
	}
	if program.ID == "" {
		program.ID = FallbackID(path)
		program.Unidentified = true
	}
	return program
}

// FallbackID derives a program id from the file name when the source declares
// none. The result is upper-cased to line up with normalized id matching.
func FallbackID(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func countRawLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	count := 1
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	if data[len(data)-1] == '\n' {
		count--
	}
	return count
}
