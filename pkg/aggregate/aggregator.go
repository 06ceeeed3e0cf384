package aggregate

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
	scriptErrors "clausewitz-hq/almanac/pkg/script/errors"
	"clausewitz-hq/almanac/pkg/script/parser"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
	"clausewitz-hq/almanac/pkg/telemetry/metrics"
	"clausewitz-hq/almanac/pkg/telemetry/tracing"
)

// Aggregator reads and parses every script file of a directory.
// It holds only configuration and is safe for concurrent use.
type Aggregator struct {
	cfg      *config.Config
	parser   *parser.Parser
	sink     diag.Sink
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	progress Progress
	logger   *slog.Logger
}

// Progress receives file counts while an aggregation runs. Update is called
// from worker goroutines.
type Progress interface {
	Start(total int64)
	Update(current int64)
	Finish()
}

// New creates an aggregator. A nil cfg uses defaults, a nil sink discards
// diagnostics and a nil logger uses slog.Default().
func New(cfg *config.Config, sink diag.Sink, logger *slog.Logger) *Aggregator {
	if cfg == nil {
		cfg = config.Default()
	}
	if sink == nil {
		sink = diag.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := parser.NewParser().
		WithMaxFileSize(cfg.Parser.MaxFileSize).
		WithStripNonASCII(cfg.Parser.StripNonASCII).
		WithContextLines(cfg.Parser.ContextLines)

	return &Aggregator{
		cfg:    cfg,
		parser: p,
		sink:   sink,
		tracer: tracing.Noop(),
		logger: logger.With("component", "aggregate"),
	}
}

// WithMetrics records file and aggregation metrics to collector.
func (a *Aggregator) WithMetrics(collector *metrics.Collector) *Aggregator {
	a.metrics = collector
	return a
}

// WithTracer records a span per aggregation and per file.
func (a *Aggregator) WithTracer(tracer *tracing.Tracer) *Aggregator {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	a.tracer = tracer
	return a
}

// WithProgress reports the number of processed files to p.
func (a *Aggregator) WithProgress(p Progress) *Aggregator {
	a.progress = p
	return a
}

// Sink returns the diagnostics sink.
func (a *Aggregator) Sink() diag.Sink {
	return a.sink
}

// Config returns the configuration the aggregator was built with.
func (a *Aggregator) Config() *config.Config {
	return a.cfg
}

// LoadFile reads and parses a single file. Access failures return a
// *LoadError, invalid content a *ParseError.
func (a *Aggregator) LoadFile(path string) ([]ast.Pair, error) {
	pairs, _, err := a.loadFile(path)
	return pairs, err
}

// Raw aggregates root/subpath into unprojected pair sequences.
func (a *Aggregator) Raw(ctx context.Context, root, subpath string) (*Result[[]ast.Pair], error) {
	return run(ctx, a, root, subpath, func(_ string, pairs []ast.Pair) []ast.Pair {
		return pairs
	})
}

// Project aggregates root/subpath and projects every file through schema.
// Projection diagnostics go to the aggregator's sink, labelled with the file.
func Project[R any](ctx context.Context, a *Aggregator, root, subpath string, schema *projection.Schema[R]) (*Result[R], error) {
	return ProjectFunc(ctx, a, root, subpath, schema.Project)
}

// ProjectFunc is Project for records that are not described by a schema.
func ProjectFunc[R any](ctx context.Context, a *Aggregator, root, subpath string, project func([]ast.Pair, *projection.Context) R) (*Result[R], error) {
	return run(ctx, a, root, subpath, func(path string, pairs []ast.Pair) R {
		return project(pairs, projection.NewContext(a.sink, path))
	})
}

type fileMeta struct {
	bytes    int64
	checksum string
}

type outcome[T any] struct {
	status FileStatus
	value  T
}

// run is shared by Raw and Project. Files are processed by a worker pool into
// per-index slots and merged afterwards in discovery order.
func run[T any](ctx context.Context, a *Aggregator, root, subpath string, project func(path string, pairs []ast.Pair) T) (*Result[T], error) {
	started := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	ctx, span := a.tracer.Start(ctx, "aggregate.run")
	defer span.End()
	tracing.SetRunAttributes(span, runID, root, subpath)

	if err := ctx.Err(); err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	paths, err := a.Collect(root, subpath)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	a.logger.DebugContext(ctx, "Aggregating directory",
		"root", root,
		"subpath", subpath,
		"files", len(paths),
	)

	if a.progress != nil {
		a.progress.Start(int64(len(paths)))
	}

	outcomes := make([]outcome[T], len(paths))
	jobs := make(chan int)
	var processed atomic.Int64
	var wg sync.WaitGroup

	workers := a.workers()
	if workers > len(paths) {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = processFile(ctx, a, paths[i], project)
				if a.progress != nil {
					a.progress.Update(processed.Add(1))
				}
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		a.logger.WarnContext(ctx, "Aggregation cancelled", "root", root, "subpath", subpath)
		tracing.SetError(span, err)
		return nil, err
	}

	result := &Result[T]{
		RunID:   runID,
		Root:    root,
		Subpath: subpath,
		Entries: make(map[string]T, len(paths)),
		Files:   make([]FileStatus, 0, len(paths)),
		Started: started,
	}

	owners := make(map[string]string, len(paths))
	for _, o := range outcomes {
		result.Files = append(result.Files, o.status)
		if o.status.Status != StatusOK {
			continue
		}
		stem := o.status.Stem
		if previous, exists := owners[stem]; exists {
			result.Collisions = append(result.Collisions, Collision{
				Stem:     stem,
				Replaced: previous,
				Kept:     o.status.Path,
			})
			a.logger.WarnContext(ctx, "Duplicate file stem, later file wins",
				"stem", stem,
				"replaced", previous,
				"kept", o.status.Path,
			)
		}
		owners[stem] = o.status.Path
		result.Entries[stem] = o.value
	}
	result.Duration = time.Since(started)
	if a.progress != nil {
		a.progress.Finish()
	}

	failures := len(result.Failures())
	tracing.SetRunResult(span, len(result.Files), len(result.Entries), failures, len(result.Collisions))
	if a.metrics != nil {
		a.metrics.RecordAggregation(subpath, result.Duration, len(result.Entries), len(result.Collisions))
	}

	a.logger.InfoContext(ctx, "Aggregated directory",
		"root", root,
		"subpath", subpath,
		"files", len(result.Files),
		"entries", len(result.Entries),
		"failures", failures,
		"collisions", len(result.Collisions),
		"duration", result.Duration,
	)

	return result, nil
}

// processFile loads one file and projects it. It never fails: problems are
// recorded in the returned status and reported to the sink.
func processFile[T any](ctx context.Context, a *Aggregator, path string, project func(string, []ast.Pair) T) outcome[T] {
	ctx = logging.WithFile(ctx, path)
	_, span := a.tracer.Start(ctx, "aggregate.file")
	defer span.End()

	start := time.Now()
	status := FileStatus{Path: path, Stem: Stem(path)}

	pairs, meta, err := a.loadFile(path)
	status.Bytes = meta.bytes
	status.Checksum = meta.checksum

	var value T
	switch {
	case err != nil:
		status.Status = statusOf(err)
		status.Err = err
		a.reportFailure(path, err)
		a.logger.DebugContext(ctx, "Skipping file", "status", status.Status, "error", err)
		tracing.SetError(span, err)
	case len(pairs) == 0:
		status.Status = StatusEmpty
		a.logger.DebugContext(ctx, "Dropping file without pairs")
	default:
		status.Status = StatusOK
		status.Pairs = len(pairs)
		value = project(path, pairs)
	}
	status.Duration = time.Since(start)

	tracing.SetFileAttributes(span, path, string(status.Status), status.Bytes, status.Pairs)
	if a.metrics != nil {
		a.metrics.RecordFile(string(status.Status), status.Duration, status.Pairs)
	}

	return outcome[T]{status: status, value: value}
}

// loadFile stats, size-checks, reads and parses one file.
func (a *Aggregator) loadFile(path string) ([]ast.Pair, fileMeta, error) {
	var meta fileMeta

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, meta, &LoadError{Path: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, meta, &LoadError{Path: path, Message: "permission denied", Cause: err}
		}
		return nil, meta, &LoadError{Path: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, meta, &LoadError{Path: path, Message: "not a regular file"}
	}
	meta.bytes = info.Size()

	if limit := a.cfg.Parser.MaxFileSize; limit > 0 && info.Size() > limit {
		return nil, meta, &LoadError{
			Path:    path,
			Message: fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), limit),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, meta, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	meta.bytes = int64(len(data))
	meta.checksum = checksum(data)

	pairs, err := a.parser.ParseBytes(data, path)
	if err != nil {
		return nil, meta, toParseError(path, err)
	}
	return pairs, meta, nil
}

// toParseError wraps a parser failure, lifting the first location.
func toParseError(path string, err error) *ParseError {
	perr := &ParseError{Path: path, Message: err.Error(), Cause: err}

	var serr *scriptErrors.Error
	var list *scriptErrors.ErrorList
	switch {
	case errors.As(err, &serr):
	case errors.As(err, &list) && list.HasErrors():
		serr = list.Errors[0]
	}
	if serr != nil {
		perr.Line = serr.Location.Line
		perr.Column = serr.Location.Column
		perr.Message = serr.Message
	}
	return perr
}

// reportFailure sends a file-level failure to the sink.
func (a *Aggregator) reportFailure(path string, err error) {
	d := diag.Diagnostic{
		Code:     diag.CodeIO,
		Severity: diag.SeverityError,
		File:     path,
		Location: ast.Location{File: path},
		Message:  err.Error(),
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		d.Code = diag.CodeSyntax
		d.Message = perr.Message
		d.Location.Line = perr.Line
		d.Location.Column = perr.Column

		var serr *scriptErrors.Error
		if errors.As(err, &serr) {
			d.Suggestion = serr.Suggestion
		}
	}

	a.sink.Report(d)
}

func statusOf(err error) Status {
	var perr *ParseError
	if errors.As(err, &perr) {
		return StatusSyntaxError
	}
	return StatusIOError
}

func (a *Aggregator) workers() int {
	if n := a.cfg.Aggregate.Workers; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// checksum returns the first 16 hex digits of the SHA-256 of data.
func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])[:16]
}
