package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"

	"clausewitz-hq/almanac/pkg/script/ast"
	scriptErrors "clausewitz-hq/almanac/pkg/script/errors"
)

// DefaultMaxFileSize bounds a single script file.
const DefaultMaxFileSize = 16 * 1024 * 1024

// Parser parses Clausewitz script files into ordered pair sequences.
// A Parser holds only configuration and is safe for concurrent use.
type Parser struct {
	maxFileSize   int64 // Maximum file size in bytes
	stripNonASCII bool  // Drop every byte >= 0x80 before parsing
	contextLines  int   // Source lines shown around syntax errors
}

// NewParser creates a parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize:   DefaultMaxFileSize,
		stripNonASCII: false,
		contextLines:  2,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithStripNonASCII removes non-ASCII bytes from file content before parsing.
// Game files mix UTF-8 and Windows-1252; stripping makes both parse the same way.
func (p *Parser) WithStripNonASCII(strip bool) *Parser {
	p.stripNonASCII = strip
	return p
}

// WithContextLines sets how many source lines surround a syntax error.
func (p *Parser) WithContextLines(n int) *Parser {
	p.contextLines = n
	return p
}

// Parse reads and parses the script file at path.
func (p *Parser) Parse(path string) ([]ast.Pair, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &scriptErrors.Error{
			Type:     scriptErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if info.Size() > p.maxFileSize {
		return nil, &scriptErrors.Error{
			Type:     scriptErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &scriptErrors.Error{
			Type:     scriptErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses script content from memory. sourcePath is used for locations only.
func (p *Parser) ParseBytes(data []byte, sourcePath string) ([]ast.Pair, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &scriptErrors.Error{
			Type:     scriptErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	if p.stripNonASCII {
		data = StripNonASCII(data)
	}

	cst, err := scriptParser.ParseBytes(sourcePath, data)
	if err != nil {
		return nil, p.syntaxError(err, data, sourcePath)
	}

	pairs, err := newBuilder(sourcePath).buildScript(cst)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// ParseString parses script content held in a string.
func (p *Parser) ParseString(text, sourcePath string) ([]ast.Pair, error) {
	return p.ParseBytes([]byte(text), sourcePath)
}

var unexpectedTokenPattern = regexp.MustCompile(`^unexpected token "(.*)"(?: \(expected (.*)\))?$`)

// syntaxError converts a participle error into a located script error.
func (p *Parser) syntaxError(err error, source []byte, sourcePath string) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return scriptErrors.WithContext(&scriptErrors.Error{
			Type:     scriptErrors.ErrorTypeSyntax,
			Message:  err.Error(),
			Location: ast.Location{File: sourcePath, Line: 1, Column: 1},
		}, source, p.contextLines)
	}

	pos := perr.Position()
	serr := &scriptErrors.Error{
		Type:    scriptErrors.ErrorTypeSyntax,
		Message: perr.Message(),
		Location: ast.Location{
			File:   sourcePath,
			Line:   pos.Line,
			Column: pos.Column,
		},
	}

	if m := unexpectedTokenPattern.FindStringSubmatch(perr.Message()); m != nil {
		serr.Unexpected = m[1]
		if m[2] != "" {
			serr.Expected = strings.Split(m[2], " | ")
		}
		if serr.Unexpected == "<EOF>" {
			serr.Unexpected = ""
			serr.Message = "unexpected end of file"
		}
	} else if remainder(source, pos.Offset) == `"` {
		serr.Unexpected = `"`
	}

	serr.Suggestion = scriptErrors.SuggestSyntaxFix(serr.Unexpected, serr.Expected)
	return scriptErrors.WithContext(serr, source, p.contextLines)
}

// remainder returns the byte at offset as a string, or "" past the end.
func remainder(source []byte, offset int) string {
	if offset < 0 || offset >= len(source) {
		return ""
	}
	return string(source[offset])
}

// StripNonASCII returns data without any byte outside the 7-bit ASCII range.
// The input slice is not modified.
func StripNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		if c < 0x80 {
			out = append(out, c)
		}
	}
	return out
}
