package parser

import (
	"regexp"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// scriptLexer splits Clausewitz text into tokens. Bare words, numbers and dates
// share one surface pattern ("1939.1.1", "-5", "GER", "1st_army"), so they are
// all lexed as Word and retyped by classifyWord. Date and Number are listed last
// only to reserve their token types; the lexer itself never produces them.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\x{FEFF}]+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Operator", Pattern: `<=|>=|!=|==|\?=|[=<>]`},
	{Name: "Punct", Pattern: `[{}]`},
	{Name: "Word", Pattern: `[^\s{}=<>!?"#]+`},
	{Name: "Date", Pattern: `\d+\.\d+\.\d+`},
	{Name: "Number", Pattern: `[-+]?\d+(?:\.\d*)?`},
})

var (
	datePattern   = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	numberPattern = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)$`)

	symbols    = scriptLexer.Symbols()
	dateType   = symbols["Date"]
	numberType = symbols["Number"]
)

// classifyWord retypes Word tokens that are entirely a date or a number.
func classifyWord(tok lexer.Token) (lexer.Token, error) {
	switch {
	case datePattern.MatchString(tok.Value):
		tok.Type = dateType
	case numberPattern.MatchString(tok.Value):
		tok.Type = numberType
	}
	return tok, nil
}

// scriptGrammar is the concrete syntax tree root: a file is a flat sequence of pairs.
type scriptGrammar struct {
	Pairs []*pairNode `@@*`
}

// pairNode is "key sign value". Keys may be words, numbers ("123 = { }"),
// dates ("1939.1.1 = { }") or quoted strings ("\"GER\" = { }").
type pairNode struct {
	Pos   lexer.Position
	Key   string     `@(Word | Number | Date | String)`
	Sign  string     `@Operator`
	Value *valueNode `@@`
}

// valueNode is exactly one of its alternatives. Named is tried before Word so
// that "rgb { 1 2 3 }" binds the block to the word.
type valueNode struct {
	Pos    lexer.Position
	Block  *blockNode `  @@`
	Named  *namedNode `| @@`
	String *string    `| @String`
	Date   *string    `| @Date`
	Number *string    `| @Number`
	Word   *string    `| @Word`
}

// blockNode is a brace block. An empty block has no body and is an empty object.
type blockNode struct {
	Pos  lexer.Position
	Body *blockBody `"{" @@? "}"`
}

// blockBody is either one or more pairs (object) or one or more bare values (array).
type blockBody struct {
	Pairs  []*pairNode  `  @@+`
	Values []*valueNode `| @@+`
}

// namedNode is a word applied to a following block without a sign, as in
// "color = rgb { 255 0 0 }".
type namedNode struct {
	Pos   lexer.Position
	Name  string     `@Word`
	Block *blockNode `@@`
}

var scriptParser = participle.MustBuild[scriptGrammar](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Map(classifyWord, "Word"),
)
