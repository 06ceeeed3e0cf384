package ast

import "strings"

// Pair is one "identifier sign value" assignment.
type Pair struct {
	Identifier string
	Sign       string
	Value      Value
	Location   Location
}

// String renders "<identifier> <sign> <value>\n".
func (p Pair) String() string {
	return p.Identifier + " " + p.Sign + " " + render(p.Value) + "\n"
}

// Render concatenates the canonical form of every pair, one per line.
func Render(pairs []Pair) string {
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p.String())
	}
	return sb.String()
}
