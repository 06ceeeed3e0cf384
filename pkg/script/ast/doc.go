// Package ast provides the generic value model for Clausewitz script files.
//
// Every parsed file becomes an ordered sequence of Pair values. A Pair binds an
// identifier to a Value through a sign (usually "=", but relational operators such
// as "<" or ">=" are kept verbatim because trigger blocks treat them as data).
//
// # Core Types
//
// Value: closed sum type implemented by Object, Array, String, Number, Identifier,
// Date and Named.
//
// Pair: one "identifier sign value" assignment with its source Location.
//
// # Rendering
//
// Every value has a canonical textual form returned by String():
//
//	a = { b = "x" }        ->  a = {\n   b = "x"\n}\n
//	list = { 1 2 3 }       ->  list = { 1 2 3 }\n
//	start = 1936.1.1       ->  start = 1936.1.1\n
//	color = rgb { 1 2 3 }  ->  color = rgb { 1 2 3 }\n
//
// The rendering is not byte-identical to the source: numbers lose their original
// formatting and comments are gone.
//
// Trees are built once per file by the parser package and must not be mutated
// afterwards; projections and the catalog share them freely across goroutines.
package ast
