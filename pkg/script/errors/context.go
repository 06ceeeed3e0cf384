package errors

import (
	"fmt"
	"strings"

	"clausewitz-hq/almanac/pkg/script/ast"
)

// ExtractContext renders the lines around location from an in-memory source,
// marking the offending line with "->" and its column with a caret.
func ExtractContext(source []byte, location ast.Location, contextLines int) string {
	if location.Line <= 0 || len(source) == 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")

	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		errorLine = len(lines) - 1
	}
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), padding))
		}
	}

	return sb.String()
}

// WithContext fills err.Context from source.
func WithContext(err *Error, source []byte, contextLines int) *Error {
	err.Context = ExtractContext(source, err.Location, contextLines)
	return err
}
