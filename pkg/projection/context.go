package projection

import (
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/coerce"
	"clausewitz-hq/almanac/pkg/script/diag"
)

// Context carries the diagnostics sink and labels through one projection.
// The embedded Coercer is labelled with the pair currently being applied, so
// apply functions call x.Uint16(p.Value), x.Bool(p.Value) and so on directly.
type Context struct {
	coerce.Coercer
}

// NewContext creates a context for projecting the content of file.
func NewContext(sink diag.Sink, file string) *Context {
	if sink == nil {
		sink = diag.Discard
	}
	c := coerce.New(sink)
	c.File = file
	return &Context{Coercer: c}
}

// enter returns a copy labelled with a record type.
func (x *Context) enter(record string) *Context {
	c := *x
	c.Record = record
	return &c
}

// at returns a copy labelled with a pair.
func (x *Context) at(p ast.Pair) *Context {
	c := *x
	c.Coercer = x.Coercer.At(p)
	return &c
}

func (x *Context) report(p ast.Pair, d diag.Diagnostic) {
	d.File = x.File
	d.Record = x.Record
	d.Identifier = p.Identifier
	d.Location = p.Location
	if x.Sink != nil {
		x.Sink.Report(d)
	}
}
