package main

import (
	"fmt"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/catalog"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/game"
	"clausewitz-hq/almanac/pkg/hoi4"
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/script/diag"
	"clausewitz-hq/almanac/pkg/stellaris"
)

// resolveGame returns the game named by flag, or the one detected under root
// when flag is "auto" or empty.
func resolveGame(root, flag string) (game.Kind, error) {
	if flag != "" && flag != "auto" {
		kind, err := game.ParseKind(flag)
		if err != nil {
			return game.Unknown, cli.NewConfigError("game", err.Error())
		}
		return kind, nil
	}

	kind, err := game.Detect(root)
	if err != nil {
		return game.Unknown, err
	}
	if kind == game.Unknown {
		return game.Unknown, cli.NewConfigError("game", fmt.Sprintf("cannot detect the game under %s; pass --game", root))
	}
	return kind, nil
}

// unknownFunc projects one entry and returns its record name and unknown bag.
type unknownFunc func(pairs []ast.Pair, x *projection.Context) (string, projection.Unknown)

func schemaUnknown[R any](schema *projection.Schema[R], bag func(R) projection.Unknown) unknownFunc {
	return func(pairs []ast.Pair, x *projection.Context) (string, projection.Unknown) {
		return schema.Record(), bag(schema.Project(pairs, x))
	}
}

// indexedPaths lists, per game, the directories "almanac index" stores and the
// typed projection used to find their unknown identifiers.
var indexedPaths = map[game.Kind][]struct {
	subpath string
	unknown unknownFunc
}{
	game.HOI4: {
		{hoi4.CountriesPath, schemaUnknown(hoi4.CountrySchema, func(r hoi4.Country) projection.Unknown { return r.Unknown })},
		{hoi4.EventsPath, schemaUnknown(hoi4.EventSchema, func(r hoi4.Event) projection.Unknown { return r.Unknown })},
		{hoi4.FocusTreesPath, schemaUnknown(hoi4.FocusTreeBaseSchema, func(r hoi4.FocusTreeBase) projection.Unknown { return r.Unknown })},
	},
	game.Stellaris: {
		{stellaris.ScriptedVariablesPath, func(pairs []ast.Pair, x *projection.Context) (string, projection.Unknown) {
			return "ScriptedVariables", stellaris.ProjectScriptedVariables(pairs, x).Unknown
		}},
	},
}

// keptPaths maps each entry stem to the file it was taken from.
func keptPaths(files []aggregate.FileStatus) map[string]string {
	paths := make(map[string]string, len(files))
	for _, f := range files {
		if f.Status == aggregate.StatusOK {
			paths[f.Stem] = f.Path
		}
	}
	return paths
}

// newSnapshot builds the catalog snapshot of a raw aggregation, including the
// top-level unknown identifiers of each entry.
func newSnapshot(kind game.Kind, result *aggregate.Result[[]ast.Pair], unknown unknownFunc, sink diag.Sink) *catalog.Snapshot {
	snap := catalog.NewSnapshot(kind.String(), result)
	if unknown == nil {
		return snap
	}
	paths := keptPaths(result.Files)
	for _, stem := range result.Stems() {
		record, bag := unknown(result.Entries[stem], projection.NewContext(sink, paths[stem]))
		snap.AddUnknown(stem, record, bag)
	}
	return snap
}
