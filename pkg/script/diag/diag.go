// Package diag carries non-fatal findings out of the parser, coercion and
// projection layers.
//
// Nothing in the pipeline prints. Components report a Diagnostic to an injected
// Sink; the command line wires a LogSink (and a metrics collector), tests wire a
// Collector and assert on what was reported.
package diag

import (
	"context"
	"log/slog"
	"sync"

	"clausewitz-hq/almanac/pkg/script/ast"
)

// Code classifies a diagnostic.
type Code string

const (
	CodeSyntax             Code = "syntax_error"
	CodeStructuralMismatch Code = "structural_mismatch"
	CodeUnknownIdentifier  Code = "unknown_identifier"
	CodeCoercionFallback   Code = "coercion_fallback"
	CodeIO                 Code = "io_error"
)

// Severity orders diagnostics by how much attention they need.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Diagnostic is one finding. File and Location are empty when not known.
type Diagnostic struct {
	Code       Code
	Severity   Severity
	File       string
	Location   ast.Location
	Record     string // Record type being projected, e.g. "Country"
	Identifier string // Pair identifier the finding is about
	Message    string
	Suggestion string
}

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Tee fans a diagnostic out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return SinkFunc(func(d Diagnostic) {
		for _, s := range active {
			s.Report(d)
		}
	})
}

// Collector records diagnostics in memory.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// All returns a copy of every recorded diagnostic in report order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// ByCode returns the recorded diagnostics with the given code.
func (c *Collector) ByCode(code Code) []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, d := range c.items {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Reset drops everything recorded so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// LogSink writes diagnostics to a slog logger at the level of their severity.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging through logger (slog.Default() when nil).
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("component", "diag")}
}

// Report logs d.
func (s *LogSink) Report(d Diagnostic) {
	attrs := []any{"code", string(d.Code)}
	if d.File != "" {
		attrs = append(attrs, "file", d.File)
	}
	if d.Location.Line > 0 {
		attrs = append(attrs, "line", d.Location.Line, "column", d.Location.Column)
	}
	if d.Record != "" {
		attrs = append(attrs, "record", d.Record)
	}
	if d.Identifier != "" {
		attrs = append(attrs, "identifier", d.Identifier)
	}
	if d.Suggestion != "" {
		attrs = append(attrs, "suggestion", d.Suggestion)
	}
	s.logger.Log(context.Background(), d.Severity.Level(), d.Message, attrs...)
}
