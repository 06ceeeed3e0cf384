// Package projection turns generic pair sequences into typed records.
//
// Each record type declares a Schema once: a table from identifier (and its
// case-sensitive aliases) to a tagged update action. Projection walks pairs in
// file order; scalar fields are overwritten, list fields appended, nested fields
// projected through the nested record's own schema. Identifiers missing from the
// table land in the record's Unknown bag (last occurrence wins) and are reported
// at debug level, so no input is silently dropped.
package projection

import (
	"fmt"
	"sort"

	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
	scriptErrors "clausewitz-hq/almanac/pkg/script/errors"
)

// Unknown maps unrecognized identifiers to the last value seen under them.
type Unknown map[string]ast.Value

// Kind tags how a field is updated.
type Kind int

const (
	KindScalar Kind = iota // overwrite, last occurrence wins
	KindList               // append every occurrence in file order
	KindNested             // project the value with another schema
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ApplyFunc updates rec from one pair.
type ApplyFunc[R any] func(rec *R, p ast.Pair, x *Context)

// Field is one entry of a schema.
type Field[R any] struct {
	Name    string
	Aliases []string
	Kind    Kind
	apply   ApplyFunc[R]
}

// Scalar declares an overwrite field.
func Scalar[R any](name string, apply ApplyFunc[R]) Field[R] {
	return Field[R]{Name: name, Kind: KindScalar, apply: apply}
}

// List declares an append field.
func List[R any](name string, apply ApplyFunc[R]) Field[R] {
	return Field[R]{Name: name, Kind: KindList, apply: apply}
}

// Nested declares a field holding another record. Nested fields that repeat
// should append inside apply.
func Nested[R any](name string, apply ApplyFunc[R]) Field[R] {
	return Field[R]{Name: name, Kind: KindNested, apply: apply}
}

// Alias returns f with additional identifiers that update the same field.
func (f Field[R]) Alias(names ...string) Field[R] {
	f.Aliases = append(append([]string(nil), f.Aliases...), names...)
	return f
}

// Identifiers returns the canonical name followed by the aliases.
func (f Field[R]) Identifiers() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Schema is the field table of one record type. It is immutable after
// construction and safe for concurrent use.
type Schema[R any] struct {
	record string
	bag    func(*R) *Unknown
	fields []Field[R]
	index  map[string]int
	known  []string
}

// NewSchema builds the table for record. bag returns the record's unknown bag.
// It panics if two fields claim the same identifier.
func NewSchema[R any](record string, bag func(*R) *Unknown, fields ...Field[R]) *Schema[R] {
	s := &Schema[R]{
		record: record,
		bag:    bag,
		fields: fields,
		index:  make(map[string]int),
	}
	for i, f := range fields {
		for _, id := range f.Identifiers() {
			if prev, dup := s.index[id]; dup {
				panic(fmt.Sprintf("projection: %s: identifier %q claimed by %q and %q",
					record, id, fields[prev].Name, f.Name))
			}
			s.index[id] = i
			s.known = append(s.known, id)
		}
	}
	sort.Strings(s.known)
	return s
}

// Record returns the record type name.
func (s *Schema[R]) Record() string { return s.record }

// Fields returns the declared fields in declaration order.
func (s *Schema[R]) Fields() []Field[R] {
	return append([]Field[R](nil), s.fields...)
}

// Lookup returns the field an identifier maps to. Matching is case-sensitive.
func (s *Schema[R]) Lookup(identifier string) (Field[R], bool) {
	i, ok := s.index[identifier]
	if !ok {
		return Field[R]{}, false
	}
	return s.fields[i], true
}

// Identifiers returns every recognized identifier, sorted.
func (s *Schema[R]) Identifiers() []string {
	return append([]string(nil), s.known...)
}

// Project builds a record from pairs.
func (s *Schema[R]) Project(pairs []ast.Pair, x *Context) R {
	var rec R
	x = x.enter(s.record)

	for _, p := range pairs {
		if i, ok := s.index[p.Identifier]; ok {
			s.fields[i].apply(&rec, p, x.at(p))
			continue
		}

		x.report(p, diag.Diagnostic{
			Code:       diag.CodeUnknownIdentifier,
			Severity:   diag.SeverityDebug,
			Message:    fmt.Sprintf("unknown %s identifier %s", s.record, preview(p)),
			Suggestion: scriptErrors.SuggestIdentifier(p.Identifier, s.known),
		})
		bag := s.bag(&rec)
		if *bag == nil {
			*bag = make(Unknown)
		}
		(*bag)[p.Identifier] = p.Value
	}

	return rec
}

// ProjectValue projects an object value. Any other value yields the zero
// record and a structural_mismatch diagnostic.
func (s *Schema[R]) ProjectValue(v ast.Value, x *Context) R {
	obj, ok := v.(ast.Object)
	if !ok {
		kind := "nil"
		if v != nil {
			kind = string(v.Kind())
		}
		x.report(ast.Pair{Identifier: x.Identifier, Location: x.Location}, diag.Diagnostic{
			Code:     diag.CodeStructuralMismatch,
			Severity: diag.SeverityWarn,
			Message:  fmt.Sprintf("%s requires an object, got %s; using defaults", s.record, kind),
		})
		var rec R
		return rec
	}
	return s.Project(obj, x)
}

func preview(p ast.Pair) string {
	s := p.Identifier + " " + p.Sign + " "
	if p.Value != nil {
		s += p.Value.String()
	}
	const limit = 60
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
