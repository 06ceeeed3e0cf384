// Package coerce projects generic script values onto Go primitives.
//
// Every function is total: a value of the wrong shape degrades to the zero value
// of the target type and a coercion_fallback diagnostic, so a single malformed
// field never aborts projection of the record around it. Numbers outside the
// range of an integer target saturate to the nearest bound.
package coerce

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
)

// Coercer converts values and reports fallbacks to Sink, labelled with the
// record and pair being projected. The zero value is usable and discards
// diagnostics.
type Coercer struct {
	Sink       diag.Sink
	File       string
	Record     string
	Identifier string
	Location   ast.Location
}

// New returns a coercer reporting to sink.
func New(sink diag.Sink) Coercer {
	return Coercer{Sink: sink}
}

// At returns a copy of c labelled with the pair being converted.
func (c Coercer) At(p ast.Pair) Coercer {
	c.Identifier = p.Identifier
	c.Location = p.Location
	return c
}

// Bool maps the identifiers yes and no to true and false.
func (c Coercer) Bool(v ast.Value) bool {
	if id, ok := v.(ast.Identifier); ok {
		switch id {
		case "yes":
			return true
		case "no":
			return false
		}
	}
	c.fallback(v, "bool", false)
	return false
}

func (c Coercer) Int8(v ast.Value) int8   { return toInteger[int8](c, v, "int8") }
func (c Coercer) Int16(v ast.Value) int16 { return toInteger[int16](c, v, "int16") }
func (c Coercer) Int32(v ast.Value) int32 { return toInteger[int32](c, v, "int32") }
func (c Coercer) Int64(v ast.Value) int64 { return toInteger[int64](c, v, "int64") }

func (c Coercer) Uint8(v ast.Value) uint8   { return toInteger[uint8](c, v, "uint8") }
func (c Coercer) Uint16(v ast.Value) uint16 { return toInteger[uint16](c, v, "uint16") }
func (c Coercer) Uint32(v ast.Value) uint32 { return toInteger[uint32](c, v, "uint32") }

// Float64 returns the number unchanged.
func (c Coercer) Float64(v ast.Value) float64 {
	n, ok := v.(ast.Number)
	if !ok {
		c.fallback(v, "float64", 0)
		return 0
	}
	return float64(n)
}

// Float32 narrows the number, saturating at ±math.MaxFloat32.
func (c Coercer) Float32(v ast.Value) float32 {
	n, ok := v.(ast.Number)
	if !ok {
		c.fallback(v, "float32", 0)
		return 0
	}
	f := float64(n)
	switch {
	case math.IsNaN(f):
		c.fallback(v, "float32", 0)
		return 0
	case f > math.MaxFloat32:
		c.saturated(v, "float32", float32(math.MaxFloat32))
		return math.MaxFloat32
	case f < -math.MaxFloat32:
		c.saturated(v, "float32", float32(-math.MaxFloat32))
		return -math.MaxFloat32
	}
	return float32(f)
}

// String returns the text of strings and identifiers and the canonical
// rendering of any other value.
func (c Coercer) String(v ast.Value) string {
	if s, ok := ast.IsStringLike(v); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return v.String()
}

// StringList collects the string-like elements of an array, or the string-like
// pair values of an object. A lone string or identifier becomes a one-element
// list. Other elements are skipped with a diagnostic.
func (c Coercer) StringList(v ast.Value) []string {
	switch t := v.(type) {
	case ast.Array:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := ast.IsStringLike(item); ok {
				out = append(out, s)
				continue
			}
			c.fallback(item, "string list element", "skipped")
		}
		return out
	case ast.Object:
		out := make([]string, 0, len(t))
		for _, p := range t {
			if s, ok := ast.IsStringLike(p.Value); ok {
				out = append(out, s)
				continue
			}
			c.At(p).fallback(p.Value, "string list element", "skipped")
		}
		return out
	case ast.String, ast.Identifier:
		s, _ := ast.IsStringLike(t)
		return []string{s}
	}
	c.fallback(v, "string list", "[]")
	return nil
}

// IdentifiersOfObject returns the pair identifiers of an object in order, as in
// "set_technology = { infantry_weapons = 1 gw_artillery = 1 }". Arrays yield
// their string-like elements.
func (c Coercer) IdentifiersOfObject(v ast.Value) []string {
	switch t := v.(type) {
	case ast.Object:
		out := make([]string, 0, len(t))
		for _, p := range t {
			out = append(out, p.Identifier)
		}
		return out
	case ast.Array:
		return c.StringList(t)
	}
	c.fallback(v, "object identifiers", "[]")
	return nil
}

func toInteger[T constraints.Integer](c Coercer, v ast.Value, target string) T {
	lo, hi := bounds[T]()

	n, ok := v.(ast.Number)
	if !ok {
		c.fallback(v, target, 0)
		return 0
	}

	f := math.Trunc(float64(n))
	switch {
	case math.IsNaN(f):
		c.fallback(v, target, 0)
		return 0
	case f >= float64(hi):
		if f > float64(hi) {
			c.saturated(v, target, hi)
		}
		return hi
	case f <= float64(lo):
		if f < float64(lo) {
			c.saturated(v, target, lo)
		}
		return lo
	}
	return T(f)
}

// bounds returns the minimum and maximum of T.
func bounds[T constraints.Integer]() (lo, hi T) {
	var zero T
	if ^zero < zero {
		hi = T(uint64(1)<<(bitSize[T]()-1) - 1)
		return -hi - 1, hi
	}
	return zero, ^zero
}

func bitSize[T constraints.Integer]() uint {
	var probe T = 1
	var n uint
	for probe != 0 {
		probe <<= 1
		n++
	}
	return n
}

func (c Coercer) fallback(v ast.Value, target string, def any) {
	kind := "nil"
	text := ""
	if v != nil {
		kind = string(v.Kind())
		text = preview(v.String())
	}
	c.report(fmt.Sprintf("cannot use %s %s as %s; using %v", kind, text, target, def))
}

func (c Coercer) saturated(v ast.Value, target string, bound any) {
	c.report(fmt.Sprintf("number %s out of range for %s; saturated to %v", v.String(), target, bound))
}

func (c Coercer) report(msg string) {
	if c.Sink == nil {
		return
	}
	c.Sink.Report(diag.Diagnostic{
		Code:       diag.CodeCoercionFallback,
		Severity:   diag.SeverityWarn,
		File:       c.File,
		Location:   c.Location,
		Record:     c.Record,
		Identifier: c.Identifier,
		Message:    msg,
	})
}

func preview(s string) string {
	const limit = 40
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
