package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. Custom keys use the "almanac." namespace.
const (
	AttrRunID      = "almanac.run_id"
	AttrGame       = "almanac.game"
	AttrRoot       = "almanac.root"
	AttrSubpath    = "almanac.subpath"
	AttrFile       = "almanac.file"
	AttrFileStatus = "almanac.file.status"
	AttrFileBytes  = "almanac.file.bytes"
	AttrPairs      = "almanac.pairs"
	AttrFiles      = "almanac.files"
	AttrEntries    = "almanac.entries"
	AttrFailures   = "almanac.failures"
	AttrCollisions = "almanac.collisions"
)

// SetRunAttributes sets the attributes identifying an aggregation run.
func SetRunAttributes(span trace.Span, runID, root, subpath string) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrRoot, root),
		attribute.String(AttrSubpath, subpath),
	)
}

// SetRunResult sets the outcome counters of an aggregation run.
func SetRunResult(span trace.Span, files, entries, failures, collisions int) {
	span.SetAttributes(
		attribute.Int(AttrFiles, files),
		attribute.Int(AttrEntries, entries),
		attribute.Int(AttrFailures, failures),
		attribute.Int(AttrCollisions, collisions),
	)
}

// SetFileAttributes sets the attributes of one file parse.
func SetFileAttributes(span trace.Span, path, status string, bytes int64, pairs int) {
	span.SetAttributes(
		attribute.String(AttrFile, path),
		attribute.String(AttrFileStatus, status),
		attribute.Int64(AttrFileBytes, bytes),
		attribute.Int(AttrPairs, pairs),
	)
}
