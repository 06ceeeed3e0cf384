package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"clausewitz-hq/almanac/pkg/script/ast"
	scriptErrors "clausewitz-hq/almanac/pkg/script/errors"
)

// builder translates the concrete syntax tree into ast values. It performs no
// semantic validation; every node maps to exactly one value and child order is
// kept. Tokens the grammar accepted but that cannot be represented (a date
// component that overflows its width) are reported as structural errors.
type builder struct {
	sourcePath string
	errors     *scriptErrors.ErrorList
}

func newBuilder(sourcePath string) *builder {
	return &builder{
		sourcePath: sourcePath,
		errors:     scriptErrors.NewErrorList(),
	}
}

func (b *builder) buildScript(root *scriptGrammar) ([]ast.Pair, error) {
	pairs := b.buildPairs(root.Pairs)
	if err := b.errors.ToError(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (b *builder) buildPairs(nodes []*pairNode) []ast.Pair {
	pairs := make([]ast.Pair, 0, len(nodes))
	for _, n := range nodes {
		pairs = append(pairs, b.buildPair(n))
	}
	return pairs
}

func (b *builder) buildPair(n *pairNode) ast.Pair {
	return ast.Pair{
		Identifier: unquote(n.Key),
		Sign:       n.Sign,
		Value:      b.buildValue(n.Value),
		Location:   b.location(n.Pos),
	}
}

func (b *builder) buildValue(n *valueNode) ast.Value {
	switch {
	case n.Block != nil:
		return b.buildBlock(n.Block)
	case n.Named != nil:
		return ast.Named{
			Name:   n.Named.Name,
			Values: []ast.Value{b.buildBlock(n.Named.Block)},
		}
	case n.String != nil:
		return ast.String(unquote(*n.String))
	case n.Date != nil:
		return b.buildDate(*n.Date, n.Pos)
	case n.Number != nil:
		return b.buildNumber(*n.Number, n.Pos)
	case n.Word != nil:
		return ast.Identifier(*n.Word)
	}

	b.errors.AddError(scriptErrors.ErrorTypeStructural, "empty value node", b.location(n.Pos))
	return ast.Identifier("")
}

func (b *builder) buildBlock(n *blockNode) ast.Value {
	switch {
	case n.Body == nil:
		return ast.Object{}
	case len(n.Body.Pairs) > 0:
		return ast.Object(b.buildPairs(n.Body.Pairs))
	default:
		values := make(ast.Array, 0, len(n.Body.Values))
		for _, v := range n.Body.Values {
			values = append(values, b.buildValue(v))
		}
		return values
	}
}

func (b *builder) buildNumber(text string, pos lexer.Position) ast.Value {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		b.errors.AddError(scriptErrors.ErrorTypeStructural,
			fmt.Sprintf("invalid number %q: %v", text, err), b.location(pos))
		return ast.Number(0)
	}
	return ast.Number(f)
}

func (b *builder) buildDate(text string, pos lexer.Position) ast.Value {
	parts := strings.Split(text, ".")
	if len(parts) != 3 {
		b.errors.AddError(scriptErrors.ErrorTypeStructural,
			fmt.Sprintf("invalid date %q: want YEAR.MONTH.DAY", text), b.location(pos))
		return ast.Date{}
	}

	year, errY := strconv.ParseUint(parts[0], 10, 16)
	month, errM := strconv.ParseUint(parts[1], 10, 8)
	day, errD := strconv.ParseUint(parts[2], 10, 8)
	for _, err := range []error{errY, errM, errD} {
		if err != nil {
			b.errors.AddError(scriptErrors.ErrorTypeStructural,
				fmt.Sprintf("invalid date %q: %v", text, err), b.location(pos))
			return ast.Date{}
		}
	}

	return ast.Date{Year: uint16(year), Month: uint8(month), Day: uint8(day)}
}

func (b *builder) location(pos lexer.Position) ast.Location {
	return ast.Location{
		File:   b.sourcePath,
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// unquote strips the surrounding quotes of a string token. No escape
// sequences are interpreted.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
