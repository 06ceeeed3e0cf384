package hoi4

import (
	"context"
	"fmt"

	"clausewitz-hq/almanac/pkg/aggregate"
)

// Directories read by Load, relative to the game root.
const (
	CountriesPath  = "history/countries"
	EventsPath     = "events"
	FocusTreesPath = "common/national_focus"
)

// Game holds the projected content of a Hearts of Iron IV installation, keyed
// by file stem.
type Game struct {
	Countries  *aggregate.Result[Country]       `json:"countries"`
	Events     *aggregate.Result[Event]         `json:"events"`
	FocusTrees *aggregate.Result[FocusTreeBase] `json:"focus_trees"`
}

// Load aggregates the country history, event and national focus directories
// under root. Per-file failures are reported to the aggregator's sink; the
// first directory that cannot be read aborts the load.
func Load(ctx context.Context, a *aggregate.Aggregator, root string) (*Game, error) {
	countries, err := aggregate.Project(ctx, a, root, CountriesPath, CountrySchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}

	events, err := aggregate.Project(ctx, a, root, EventsPath, EventSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	focusTrees, err := aggregate.Project(ctx, a, root, FocusTreesPath, FocusTreeBaseSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load focus trees: %w", err)
	}

	return &Game{
		Countries:  countries,
		Events:     events,
		FocusTrees: focusTrees,
	}, nil
}

// Focus returns the focus with id from any loaded focus tree.
func (g *Game) Focus(id string) (Focus, bool) {
	if g.FocusTrees == nil {
		return Focus{}, false
	}
	for _, stem := range g.FocusTrees.Stems() {
		base := g.FocusTrees.Entries[stem]
		for _, tree := range base.FocusTrees {
			for _, f := range tree.Focuses {
				if f.ID == id {
					return f, true
				}
			}
		}
	}
	return Focus{}, false
}

// Summary counts the loaded records.
type Summary struct {
	Countries  int `json:"countries"`
	Events     int `json:"events"`
	NewsEvents int `json:"news_events"`
	FocusTrees int `json:"focus_trees"`
	Focuses    int `json:"focuses"`
	Failures   int `json:"failures"`
	Unknown    int `json:"unknown_fields"`
}

// Summarize counts records, failed files and top-level unknown identifiers.
func (g *Game) Summarize() Summary {
	var s Summary
	if g.Countries != nil {
		s.Countries = g.Countries.Len()
		s.Failures += len(g.Countries.Failures())
		for _, c := range g.Countries.Entries {
			s.Unknown += len(c.Unknown)
		}
	}
	if g.Events != nil {
		s.Events = g.Events.Len()
		s.Failures += len(g.Events.Failures())
		for _, e := range g.Events.Entries {
			s.NewsEvents += len(e.NewsEvents)
			s.Unknown += len(e.Unknown)
		}
	}
	if g.FocusTrees != nil {
		s.Failures += len(g.FocusTrees.Failures())
		for _, b := range g.FocusTrees.Entries {
			s.FocusTrees += len(b.FocusTrees)
			for _, t := range b.FocusTrees {
				s.Focuses += len(t.Focuses)
			}
			s.Unknown += len(b.Unknown)
		}
	}
	return s
}
