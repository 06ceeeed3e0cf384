package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/hoi4"
)

func resetIndexFlags(db string) {
	indexFlags.db = db
	indexFlags.driver = "sqlite"
	indexFlags.game = "auto"
	indexFlags.schedule = ""
	indexFlags.keep = 0

	catalogFlags.db = db
	catalogFlags.driver = "sqlite"
	catalogFlags.run = ""
	catalogFlags.stem = ""
	catalogFlags.identifier = ""
	catalogFlags.limit = 0
}

func TestIndexAndQueryCatalog(t *testing.T) {
	root := hoi4Tree(t)
	db := filepath.Join(t.TempDir(), "catalog", "almanac.db")
	resetIndexFlags(db)

	cmd, out := newTestCommand(t, "json")
	err := indexGame(cmd, []string{root})
	if got := cli.ExitCode(err); got != cli.ExitPartial {
		t.Fatalf("ExitCode() = %v, want %v (err = %v)", got, cli.ExitPartial, err)
	}

	var runs []indexedRun
	if err := json.Unmarshal(out.Bytes(), &runs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	countries := runs[0]
	if countries.Subpath != hoi4.CountriesPath || countries.Files != 3 || countries.Failures != 1 || countries.Unknown != 1 {
		t.Errorf("countries run = %+v", countries)
	}

	t.Run("runs", func(t *testing.T) {
		cmd, out := newTestCommand(t, "json")
		if err := catalogRuns(cmd, nil); err != nil {
			t.Fatalf("catalogRuns() error = %v", err)
		}
		var stored []struct {
			ID   string `json:"id"`
			Game string `json:"game"`
		}
		if err := json.Unmarshal(out.Bytes(), &stored); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(stored) != 3 || stored[0].Game != "hoi4" {
			t.Errorf("runs = %+v", stored)
		}
	})

	t.Run("files", func(t *testing.T) {
		cmd, out := newTestCommand(t, "csv")
		if err := catalogFiles(cmd, []string{countries.ID}); err != nil {
			t.Fatalf("catalogFiles() error = %v", err)
		}
		if !strings.Contains(out.String(), "syntax_error") {
			t.Errorf("output = %q, want the broken file", out.String())
		}
	})

	t.Run("pairs", func(t *testing.T) {
		catalogFlags.stem = "GER - Germany"
		catalogFlags.identifier = "capital"
		defer func() { catalogFlags.stem, catalogFlags.identifier = "", "" }()

		cmd, out := newTestCommand(t, "json")
		if err := catalogPairs(cmd, nil); err != nil {
			t.Fatalf("catalogPairs() error = %v", err)
		}
		var pairs []struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(out.Bytes(), &pairs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(pairs) != 1 || pairs[0].Value != "64" {
			t.Errorf("pairs = %+v, want one capital = 64", pairs)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cmd, out := newTestCommand(t, "text")
		if err := catalogUnknown(cmd, []string{countries.ID}); err != nil {
			t.Fatalf("catalogUnknown() error = %v", err)
		}
		if !strings.Contains(out.String(), "mystery_field") {
			t.Errorf("output = %q, want mystery_field", out.String())
		}
	})
}

func TestIndexGame_Prune(t *testing.T) {
	root := stellarisTree(t)
	db := filepath.Join(t.TempDir(), "almanac.db")
	resetIndexFlags(db)
	indexFlags.keep = 2

	for i := 0; i < 3; i++ {
		cmd, _ := newTestCommand(t, "json")
		if err := indexGame(cmd, []string{root}); err != nil {
			t.Fatalf("indexGame() run %d error = %v", i, err)
		}
	}

	cmd, out := newTestCommand(t, "json")
	if err := catalogRuns(cmd, nil); err != nil {
		t.Fatalf("catalogRuns() error = %v", err)
	}
	var stored []json.RawMessage
	if err := json.Unmarshal(out.Bytes(), &stored); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("len(runs) = %d, want 2 after pruning", len(stored))
	}
}

func TestIndexGame_InvalidSchedule(t *testing.T) {
	root := stellarisTree(t)
	resetIndexFlags(filepath.Join(t.TempDir(), "almanac.db"))
	indexFlags.schedule = "every tuesday"
	defer func() { indexFlags.schedule = "" }()

	cmd, _ := newTestCommand(t, "json")
	err := indexGame(cmd, []string{root})
	if got := cli.ExitCode(err); got != cli.ExitUsage {
		t.Errorf("ExitCode() = %v, want %v (err = %v)", got, cli.ExitUsage, err)
	}
}

func TestCatalogUnknown_EmptyCatalog(t *testing.T) {
	resetIndexFlags(filepath.Join(t.TempDir(), "empty.db"))

	cmd, _ := newTestCommand(t, "text")
	if err := catalogUnknown(cmd, nil); err == nil {
		t.Error("catalogUnknown() on an empty catalog returned nil error")
	}
}
