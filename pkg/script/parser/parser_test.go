package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clausewitz-hq/almanac/pkg/script/ast"
	scriptErrors "clausewitz-hq/almanac/pkg/script/errors"
)

const sample = `# Germany
capital = 64
oob = "GER_1936"
set_research_slots = 4
set_stability = 0.6
1939.1.1 = {
	add_ideas = { limited_exports war_economy }
}
set_politics = {
	ruling_party = fascism
	last_election = 1933.3.5
	elections_allowed = no
}
color = rgb { 80 80 80 }
key15 < 1
threshold >= -2.5
`

func TestParser_ParseString_Sample(t *testing.T) {
	pairs, err := NewParser().ParseString(sample, "GER.txt")
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}

	want := []ast.Pair{
		{Identifier: "capital", Sign: "=", Value: ast.Number(64)},
		{Identifier: "oob", Sign: "=", Value: ast.String("GER_1936")},
		{Identifier: "set_research_slots", Sign: "=", Value: ast.Number(4)},
		{Identifier: "set_stability", Sign: "=", Value: ast.Number(0.6)},
		{Identifier: "1939.1.1", Sign: "=", Value: ast.Object{
			{Identifier: "add_ideas", Sign: "=", Value: ast.Array{ast.Identifier("limited_exports"), ast.Identifier("war_economy")}},
		}},
		{Identifier: "set_politics", Sign: "=", Value: ast.Object{
			{Identifier: "ruling_party", Sign: "=", Value: ast.Identifier("fascism")},
			{Identifier: "last_election", Sign: "=", Value: ast.Date{Year: 1933, Month: 3, Day: 5}},
			{Identifier: "elections_allowed", Sign: "=", Value: ast.Identifier("no")},
		}},
		{Identifier: "color", Sign: "=", Value: ast.Named{Name: "rgb", Values: []ast.Value{
			ast.Array{ast.Number(80), ast.Number(80), ast.Number(80)},
		}}},
		{Identifier: "key15", Sign: "<", Value: ast.Number(1)},
		{Identifier: "threshold", Sign: ">=", Value: ast.Number(-2.5)},
	}

	if len(pairs) != len(want) {
		t.Fatalf("len(pairs) = %d, want %d", len(pairs), len(want))
	}
	for i := range want {
		if !ast.PairsEqual(pairs[i:i+1], want[i:i+1]) {
			t.Errorf("pair %d = %q, want %q", i, pairs[i].String(), want[i].String())
		}
	}
}

func TestParser_Locations(t *testing.T) {
	pairs, err := NewParser().ParseString("a = 1\n  b = {\n    c = 2\n  }\n", "loc.txt")
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	if got := pairs[1].Location; got.Line != 2 || got.Column != 3 || got.File != "loc.txt" {
		t.Errorf("Location = %v, want loc.txt:2:3", got)
	}
	inner := pairs[1].Value.(ast.Object)
	if got := inner[0].Location.Line; got != 3 {
		t.Errorf("inner Location.Line = %d, want 3", got)
	}
}

func TestParser_TopLevelCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "whitespace only", input: " \n\t\r\n  ", want: 0},
		{name: "comments only", input: "# one\n# two\n", want: 0},
		{name: "single pair", input: "a = b", want: 1},
		{name: "same line", input: "a = 1 b = 2 c = 3", want: 3},
		{name: "repeated keys", input: "a = 1\na = 2\na = 3", want: 3},
		{name: "nested does not count", input: "a = { b = 1 c = 2 }\nd = 3", want: 2},
		{name: "byte order mark", input: "\ufeffa = 1", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := NewParser().ParseString(tt.input, "count.txt")
			if err != nil {
				t.Fatalf("ParseString() failed: %v", err)
			}
			if len(pairs) != tt.want {
				t.Errorf("len(pairs) = %d, want %d", len(pairs), tt.want)
			}
		})
	}
}

func TestParser_CommentStripping(t *testing.T) {
	pairs, err := NewParser().ParseString("key = \"v\" # comment\n# another = 1\n", "c.txt")
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	want := []ast.Pair{{Identifier: "key", Sign: "=", Value: ast.String("v")}}
	if !ast.PairsEqual(pairs, want) {
		t.Errorf("pairs = %q, want %q", ast.Render(pairs), ast.Render(want))
	}
}

func TestParser_Nesting(t *testing.T) {
	pairs, err := NewParser().ParseString(`a = { b = { c = "x" } }`, "n.txt")
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	want := []ast.Pair{{Identifier: "a", Sign: "=", Value: ast.Object{
		{Identifier: "b", Sign: "=", Value: ast.Object{
			{Identifier: "c", Sign: "=", Value: ast.String("x")},
		}},
	}}}
	if !ast.PairsEqual(pairs, want) {
		t.Errorf("pairs = %q, want %q", ast.Render(pairs), ast.Render(want))
	}
}

func TestParser_Values(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Value
	}{
		{name: "integer", input: "v = 42", want: ast.Number(42)},
		{name: "decimal", input: "v = 3.140", want: ast.Number(3.14)},
		{name: "negative", input: "v = -7", want: ast.Number(-7)},
		{name: "explicit plus", input: "v = +7", want: ast.Number(7)},
		{name: "leading dot", input: "v = .5", want: ast.Number(0.5)},
		{name: "yes", input: "v = yes", want: ast.Identifier("yes")},
		{name: "scoped identifier", input: "v = ROOT.capital", want: ast.Identifier("ROOT.capital")},
		{name: "variable reference", input: "v = @base_cost", want: ast.Identifier("@base_cost")},
		{name: "digit led identifier", input: "v = 1st_army", want: ast.Identifier("1st_army")},
		{name: "date", input: "v = 1936.1.1", want: ast.Date{Year: 1936, Month: 1, Day: 1}},
		{name: "string with spaces", input: `v = "Deutsches Reich"`, want: ast.String("Deutsches Reich")},
		{name: "empty string", input: `v = ""`, want: ast.String("")},
		{name: "string keeps backslash", input: `v = "a\nb"`, want: ast.String(`a\nb`)},
		{name: "empty block", input: "v = { }", want: ast.Object{}},
		{name: "array of strings", input: `v = { "a" "b" }`, want: ast.Array{ast.String("a"), ast.String("b")}},
		{name: "array of blocks", input: "v = { { a = 1 } { 2 3 } }", want: ast.Array{
			ast.Object{{Identifier: "a", Sign: "=", Value: ast.Number(1)}},
			ast.Array{ast.Number(2), ast.Number(3)},
		}},
		{name: "named object", input: "v = hsv { h = 0.5 }", want: ast.Named{Name: "hsv", Values: []ast.Value{
			ast.Object{{Identifier: "h", Sign: "=", Value: ast.Number(0.5)}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := NewParser().ParseString(tt.input, "v.txt")
			if err != nil {
				t.Fatalf("ParseString(%q) failed: %v", tt.input, err)
			}
			if len(pairs) != 1 {
				t.Fatalf("len(pairs) = %d, want 1", len(pairs))
			}
			if !ast.Equal(pairs[0].Value, tt.want) {
				t.Errorf("value = %#v, want %#v", pairs[0].Value, tt.want)
			}
		})
	}
}

func TestParser_Signs(t *testing.T) {
	for _, sign := range []string{"=", "<", ">", "<=", ">=", "!=", "==", "?="} {
		t.Run(sign, func(t *testing.T) {
			pairs, err := NewParser().ParseString("threshold "+sign+" 5", "s.txt")
			if err != nil {
				t.Fatalf("ParseString() failed: %v", err)
			}
			if pairs[0].Sign != sign {
				t.Errorf("Sign = %q, want %q", pairs[0].Sign, sign)
			}
			if !ast.Equal(pairs[0].Value, ast.Number(5)) {
				t.Errorf("Value = %v, want 5", pairs[0].Value)
			}
		})
	}

	pairs, err := NewParser().ParseString("threshold<5", "s.txt")
	if err != nil {
		t.Fatalf("ParseString() without spaces failed: %v", err)
	}
	if pairs[0].Identifier != "threshold" || pairs[0].Sign != "<" {
		t.Errorf("pair = %q", pairs[0].String())
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "unterminated object", input: "a = {\n  b = 1\n", wantLine: 3},
		{name: "extra closing brace", input: "a = 1\n}\n", wantLine: 2},
		{name: "missing value", input: "a =\n", wantLine: 2},
		{name: "missing sign", input: "a 1\n", wantLine: 1},
		{name: "mixed block", input: "a = { b = 1 c }", wantLine: 1},
		{name: "unterminated string", input: "a = \"open\nb = 2\n", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := NewParser().ParseString(tt.input, "bad.txt")
			if err == nil {
				t.Fatalf("ParseString() = %d pairs, want error", len(pairs))
			}
			if pairs != nil {
				t.Errorf("pairs = %v, want nil on error", pairs)
			}

			var serr *scriptErrors.Error
			if !errors.As(err, &serr) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if serr.Type != scriptErrors.ErrorTypeSyntax {
				t.Errorf("Type = %q, want %q", serr.Type, scriptErrors.ErrorTypeSyntax)
			}
			if serr.Location.File != "bad.txt" {
				t.Errorf("Location.File = %q, want bad.txt", serr.Location.File)
			}
			if serr.Location.Line != tt.wantLine {
				t.Errorf("Location.Line = %d, want %d", serr.Location.Line, tt.wantLine)
			}
			if serr.Context == "" {
				t.Error("Context is empty")
			}
		})
	}
}

func TestParser_UnterminatedObjectSuggestion(t *testing.T) {
	_, err := NewParser().ParseString("a = {\n  b = 1\n", "bad.txt")

	var serr *scriptErrors.Error
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if serr.Message != "unexpected end of file" {
		t.Errorf("Message = %q, want %q", serr.Message, "unexpected end of file")
	}
	if !strings.Contains(serr.Suggestion, "unclosed") {
		t.Errorf("Suggestion = %q, want mention of unclosed block", serr.Suggestion)
	}
}

func TestParser_DateOverflow(t *testing.T) {
	_, err := NewParser().ParseString("start = 1936.13.400", "d.txt")
	var serr *scriptErrors.Error
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want structural error", err)
	}
	if serr.Type != scriptErrors.ErrorTypeStructural {
		t.Errorf("Type = %q, want %q", serr.Type, scriptErrors.ErrorTypeStructural)
	}
}

func TestParser_KeyForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "word", input: "GER = { capital = 64 }", want: "GER"},
		{name: "number", input: "123 = { capital = 64 }", want: "123"},
		{name: "date", input: "1939.1.1 = { capital = 64 }", want: "1939.1.1"},
		{name: "quoted", input: `"GER" = { capital = 64 }`, want: "GER"},
		{name: "quoted with spaces", input: `"Deutsches Reich" = { capital = 64 }`, want: "Deutsches Reich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := NewParser().ParseString(tt.input, "k.txt")
			if err != nil {
				t.Fatalf("ParseString(%q) failed: %v", tt.input, err)
			}
			if len(pairs) != 1 {
				t.Fatalf("len(pairs) = %d, want 1", len(pairs))
			}
			if pairs[0].Identifier != tt.want {
				t.Errorf("Identifier = %q, want %q", pairs[0].Identifier, tt.want)
			}
			if _, ok := pairs[0].Value.(ast.Object); !ok {
				t.Errorf("Value = %T, want ast.Object", pairs[0].Value)
			}
		})
	}
}

func TestParser_Parse_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "GER.txt")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	pairs, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(pairs) != 9 {
		t.Errorf("len(pairs) = %d, want 9", len(pairs))
	}
	if pairs[0].Location.File != path {
		t.Errorf("Location.File = %q, want %q", pairs[0].Location.File, path)
	}
}

func TestParser_Parse_Errors(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "missing.txt"))
	var serr *scriptErrors.Error
	if !errors.As(err, &serr) || serr.Type != scriptErrors.ErrorTypeIO {
		t.Errorf("Parse(missing) error = %v, want io error", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, []byte("a = 1\nb = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	_, err = NewParser().WithMaxFileSize(4).Parse(path)
	if !errors.As(err, &serr) || serr.Type != scriptErrors.ErrorTypeIO {
		t.Errorf("Parse(oversized) error = %v, want io error", err)
	}
}

func TestParser_StripNonASCII(t *testing.T) {
	input := []byte("name = \"M\xc3\xbcnchen\"\ntag = GER\xe9\n")

	pairs, err := NewParser().WithStripNonASCII(true).ParseBytes(input, "u.txt")
	if err != nil {
		t.Fatalf("ParseBytes() failed: %v", err)
	}
	want := []ast.Pair{
		{Identifier: "name", Sign: "=", Value: ast.String("Mnchen")},
		{Identifier: "tag", Sign: "=", Value: ast.Identifier("GER")},
	}
	if !ast.PairsEqual(pairs, want) {
		t.Errorf("pairs = %q, want %q", ast.Render(pairs), ast.Render(want))
	}
	if input[9] != 0xc3 {
		t.Error("StripNonASCII modified its input")
	}
}
