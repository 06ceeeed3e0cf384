// Package stellaris projects Stellaris scripted variable files.
//
// A scripted variables file is a flat list of "@name = value" definitions.
// Variables are referenced by name from other scripts, so Load also merges
// every file into one table in file order.
package stellaris

import (
	"context"
	"fmt"
	"strings"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
)

// ScriptedVariablesPath is read by Load, relative to the game root.
const ScriptedVariablesPath = "common/scripted_variables"

// ScriptedVariables is one common/scripted_variables file.
type ScriptedVariables struct {
	// Variables maps names, including the leading @, to values. A name
	// defined twice keeps its last value.
	Variables map[string]ast.Value `json:"variables"`

	// Order lists names by first definition.
	Order []string `json:"order"`

	Unknown projection.Unknown `json:"unknown,omitempty"`
}

// Get returns the value of a variable. The leading @ is optional.
func (s ScriptedVariables) Get(name string) (ast.Value, bool) {
	v, ok := s.Variables[variableName(name)]
	return v, ok
}

// ProjectScriptedVariables builds a ScriptedVariables record from pairs.
// Pairs not naming a variable are kept in Unknown and reported.
func ProjectScriptedVariables(pairs []ast.Pair, x *projection.Context) ScriptedVariables {
	rec := ScriptedVariables{Variables: make(map[string]ast.Value, len(pairs))}

	for _, p := range pairs {
		if !strings.HasPrefix(p.Identifier, "@") {
			if rec.Unknown == nil {
				rec.Unknown = make(projection.Unknown)
			}
			rec.Unknown[p.Identifier] = p.Value
			if x.Sink != nil {
				x.Sink.Report(diag.Diagnostic{
					Code:       diag.CodeUnknownIdentifier,
					Severity:   diag.SeverityDebug,
					File:       x.File,
					Location:   p.Location,
					Record:     "ScriptedVariables",
					Identifier: p.Identifier,
					Message:    fmt.Sprintf("unknown ScriptedVariables identifier %s", p.Identifier),
				})
			}
			continue
		}
		if _, seen := rec.Variables[p.Identifier]; !seen {
			rec.Order = append(rec.Order, p.Identifier)
		}
		rec.Variables[p.Identifier] = p.Value
	}

	return rec
}

// Game holds the scripted variables of a Stellaris installation.
type Game struct {
	Files *aggregate.Result[ScriptedVariables] `json:"files"`

	// Variables merges every file in discovery order; later files override
	// earlier ones.
	Variables map[string]ast.Value `json:"variables"`
}

// Load aggregates common/scripted_variables under root.
func Load(ctx context.Context, a *aggregate.Aggregator, root string) (*Game, error) {
	files, err := aggregate.ProjectFunc(ctx, a, root, ScriptedVariablesPath, ProjectScriptedVariables)
	if err != nil {
		return nil, fmt.Errorf("failed to load scripted variables: %w", err)
	}

	game := &Game{
		Files:     files,
		Variables: make(map[string]ast.Value),
	}
	for _, f := range files.Files {
		if f.Status != aggregate.StatusOK {
			continue
		}
		// Only the last file of a colliding stem has an entry.
		rec, ok := files.Entries[f.Stem]
		if !ok || !keptPath(files, f) {
			continue
		}
		for _, name := range rec.Order {
			game.Variables[name] = rec.Variables[name]
		}
	}
	return game, nil
}

// Variable returns the merged value of a variable. The leading @ is optional.
func (g *Game) Variable(name string) (ast.Value, bool) {
	v, ok := g.Variables[variableName(name)]
	return v, ok
}

// keptPath reports whether f is the file whose entry the result kept.
func keptPath(r *aggregate.Result[ScriptedVariables], f aggregate.FileStatus) bool {
	for i := len(r.Collisions) - 1; i >= 0; i-- {
		c := r.Collisions[i]
		if c.Stem == f.Stem {
			return c.Kept == f.Path
		}
	}
	return true
}

func variableName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	return "@" + name
}

// Summary counts the loaded records.
type Summary struct {
	Files     int `json:"files"`
	Variables int `json:"variables"`
	Failures  int `json:"failures"`
	Unknown   int `json:"unknown_fields"`
}

// Summarize counts files, merged variables, failed files and unknown
// identifiers.
func (g *Game) Summarize() Summary {
	s := Summary{Variables: len(g.Variables)}
	if g.Files != nil {
		s.Files = g.Files.Len()
		s.Failures = len(g.Files.Failures())
		for _, rec := range g.Files.Entries {
			s.Unknown += len(rec.Unknown)
		}
	}
	return s
}
