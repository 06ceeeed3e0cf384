package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind names the variant of a Value.
type Kind string

const (
	KindObject     Kind = "object"
	KindArray      Kind = "array"
	KindString     Kind = "string"
	KindNumber     Kind = "number"
	KindIdentifier Kind = "identifier"
	KindDate       Kind = "date"
	KindNamed      Kind = "named"
)

// Value is a node of the generic script tree. The set of implementations is
// closed: Object, Array, String, Number, Identifier, Date and Named.
type Value interface {
	fmt.Stringer

	// Kind reports which variant the value is.
	Kind() Kind

	isValue()
}

// Object is a brace block of pairs. Order is file order and identifiers may repeat.
type Object []Pair

// Array is a brace block of bare values.
type Array []Value

// String is a quoted literal with the quotes removed.
type String string

// Number is a numeric literal. Integer-looking tokens are stored as float64 too.
type Number float64

// Identifier is a bare word. The booleans yes and no are identifiers.
type Identifier string

// Date is a dotted YEAR.MONTH.DAY literal. No calendar validation is applied.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// Named is a bare word followed by positional values, as in "rgb { 255 0 0 }".
type Named struct {
	Name   string
	Values []Value
}

func (Object) Kind() Kind     { return KindObject }
func (Array) Kind() Kind      { return KindArray }
func (String) Kind() Kind     { return KindString }
func (Number) Kind() Kind     { return KindNumber }
func (Identifier) Kind() Kind { return KindIdentifier }
func (Date) Kind() Kind       { return KindDate }
func (Named) Kind() Kind      { return KindNamed }

func (Object) isValue()     {}
func (Array) isValue()      {}
func (String) isValue()     {}
func (Number) isValue()     {}
func (Identifier) isValue() {}
func (Date) isValue()       {}
func (Named) isValue()      {}

// String renders the object as "{\n", one indented line per pair, then "}".
// Nested blocks are not re-indented.
func (o Object) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, p := range o {
		sb.WriteString("   ")
		sb.WriteString(p.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Get returns the value of the last pair with the given identifier.
func (o Object) Get(identifier string) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Identifier == identifier {
			return o[i].Value, true
		}
	}
	return nil, false
}

// String renders the array as "{ v1 v2 }".
func (a Array) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, v := range a {
		sb.WriteString(render(v))
		sb.WriteByte(' ')
	}
	sb.WriteString("}")
	return sb.String()
}

func (s String) String() string {
	return `"` + string(s) + `"`
}

// String renders the shortest decimal form, so 42 prints as "42" and 3.140 as "3.14".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (i Identifier) String() string {
	return string(i)
}

func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

func (n Named) String() string {
	parts := make([]string, 0, len(n.Values)+1)
	parts = append(parts, n.Name)
	for _, v := range n.Values {
		parts = append(parts, render(v))
	}
	return strings.Join(parts, " ")
}

// IsStringLike reports whether v is a String or an Identifier, returning its text.
func IsStringLike(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Identifier:
		return string(t), true
	}
	return "", false
}

func render(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
