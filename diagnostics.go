package ffmml

import (
	"fmt"
	"strings"
)

// lineCol converts a byte offset into a 1-based (line, column) pair, both
// counted in bytes (the grammar is ASCII in practice).
func lineCol(script string, offset int) (line, col int) {
	line = 1
	col = 1
	for i := 0; i < offset && i < len(script); i++ {
		if script[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// sourceLine returns the full line of script containing offset, without its
// trailing newline.
func sourceLine(script string, offset int) string {
	start := strings.LastIndexByte(script[:min(offset, len(script))], '\n') + 1
	end := strings.IndexByte(script[start:], '\n')
	if end < 0 {
		return script[start:]
	}
	return script[start : start+end]
}

// Render produces the canonical `file:line:col` diagnostic with a one-line
// source excerpt and a caret under the offending column.
func (e *ParseError) Render(script, filename string) string {
	return renderDiagnostic(script, filename, e.Span.Start, e.Reason)
}

func (e *PlayError) Render(script, filename string) string {
	return renderDiagnostic(script, filename, e.Span.Start, fmt.Sprintf("channel %c: %s", e.Channel, e.Reason))
}

func renderDiagnostic(script, filename string, offset int, reason string) string {
	line, col := lineCol(script, offset)
	excerpt := sourceLine(script, offset)
	caret := strings.Repeat(" ", col-1) + "^"
	return fmt.Sprintf("%s:%d:%d: %s\n%s\n%s", filename, line, col, reason, excerpt, caret)
}
