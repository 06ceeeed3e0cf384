package catalog

import (
	"sort"
	"time"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/projection"
	"clausewitz-hq/almanac/pkg/script/ast"
)

// Run is one stored aggregation.
type Run struct {
	ID         string        `json:"id"`
	Root       string        `json:"root"`
	Subpath    string        `json:"subpath"`
	Game       string        `json:"game"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Files      int           `json:"files"`
	Entries    int           `json:"entries"`
	Failures   int           `json:"failures"`
	Collisions int           `json:"collisions"`
}

// UnknownField is one identifier a typed projection did not recognize.
type UnknownField struct {
	Stem       string
	Record     string
	Identifier string
	Value      ast.Value
}

// Snapshot is everything SaveRun writes for one run.
type Snapshot struct {
	Run     Run
	Files   []aggregate.FileStatus
	Entries map[string][]ast.Pair
	Unknown []UnknownField
}

// NewSnapshot builds a snapshot from a generic aggregation result.
func NewSnapshot(game string, result *aggregate.Result[[]ast.Pair]) *Snapshot {
	return &Snapshot{
		Run: Run{
			ID:         result.RunID,
			Root:       result.Root,
			Subpath:    result.Subpath,
			Game:       game,
			StartedAt:  result.Started,
			Duration:   result.Duration,
			Files:      len(result.Files),
			Entries:    result.Len(),
			Failures:   len(result.Failures()),
			Collisions: len(result.Collisions),
		},
		Files:   result.Files,
		Entries: result.Entries,
	}
}

// AddUnknown records the unknown bag of a projected record, sorted by
// identifier.
func (s *Snapshot) AddUnknown(stem, record string, bag projection.Unknown) {
	ids := make([]string, 0, len(bag))
	for id := range bag {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.Unknown = append(s.Unknown, UnknownField{
			Stem:       stem,
			Record:     record,
			Identifier: id,
			Value:      bag[id],
		})
	}
}
