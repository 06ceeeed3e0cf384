package stellaris

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
	"clausewitz-hq/almanac/pkg/script/parser"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
)

func TestProjectScriptedVariables(t *testing.T) {
	pairs, err := parser.NewParser().ParseString(`
@base_cost = 100
@upkeep = 1.5
@base_cost = 150
not_a_variable = yes
@ai_weight = { factor = 2 }
`, "00_defines.txt")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	collector := diag.NewCollector()
	rec := ProjectScriptedVariables(pairs, projection.NewContext(collector, "00_defines.txt"))

	if got := strings.Join(rec.Order, ","); got != "@base_cost,@upkeep,@ai_weight" {
		t.Errorf("Order = %s", got)
	}
	if v, ok := rec.Get("base_cost"); !ok || !ast.Equal(v, ast.Number(150)) {
		t.Errorf("Get(base_cost) = %v, %v, want 150", v, ok)
	}
	if v, ok := rec.Get("@upkeep"); !ok || !ast.Equal(v, ast.Number(1.5)) {
		t.Errorf("Get(@upkeep) = %v, %v, want 1.5", v, ok)
	}
	if v, _ := rec.Get("ai_weight"); v == nil || v.Kind() != ast.KindObject {
		t.Errorf("Get(ai_weight) = %v, want object", v)
	}

	if _, ok := rec.Unknown["not_a_variable"]; !ok {
		t.Errorf("Unknown = %v, want not_a_variable", rec.Unknown)
	}
	unknown := collector.ByCode(diag.CodeUnknownIdentifier)
	if len(unknown) != 1 || unknown[0].Identifier != "not_a_variable" || unknown[0].File != "00_defines.txt" {
		t.Errorf("unknown diagnostics = %+v", unknown)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"common/scripted_variables/00_a.txt":     "@x = 1\n@y = 2",
		"common/scripted_variables/01_b.txt":     "@y = 3\n@z = 4",
		"common/scripted_variables/02_empty.txt": "# nothing",
		"common/scripted_variables/03_bad.txt":   "@w = {",
		"common/scripted_variables/mod/00_a.txt": "@x = 10",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	collector := diag.NewCollector()
	agg := aggregate.New(config.Default(), collector, logging.Discard())

	game, err := Load(context.Background(), agg, root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := strings.Join(game.Files.Stems(), ","); got != "00_a,01_b" {
		t.Errorf("Stems() = %s, want 00_a,01_b", got)
	}
	if len(game.Files.Collisions) != 1 {
		t.Errorf("len(Collisions) = %d, want 1", len(game.Files.Collisions))
	}

	tests := []struct {
		name string
		want float64
	}{
		{"x", 10},
		{"y", 3},
		{"z", 4},
	}
	for _, tt := range tests {
		v, ok := game.Variable(tt.name)
		if !ok || !ast.Equal(v, ast.Number(tt.want)) {
			t.Errorf("Variable(%s) = %v, %v, want %v", tt.name, v, ok, tt.want)
		}
	}
	if _, ok := game.Variable("w"); ok {
		t.Error("Variable(w) found from a broken file")
	}
	if n := len(collector.ByCode(diag.CodeSyntax)); n != 1 {
		t.Errorf("syntax diagnostics = %d, want 1", n)
	}

	want := Summary{Files: 2, Variables: 3, Failures: 1}
	if got := game.Summarize(); got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
