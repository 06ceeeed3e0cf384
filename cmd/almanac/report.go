package main

import (
	"fmt"
	"io"
	"sort"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/script/ast"
)

// fileReport is the printable form of aggregate.FileStatus.
type fileReport struct {
	Path   string `json:"path" yaml:"path"`
	Stem   string `json:"stem" yaml:"stem"`
	Status string `json:"status" yaml:"status"`
	Pairs  int    `json:"pairs" yaml:"pairs"`
	Bytes  int64  `json:"bytes" yaml:"bytes"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func fileReports(files []aggregate.FileStatus) []fileReport {
	out := make([]fileReport, 0, len(files))
	for _, f := range files {
		out = append(out, fileReport{
			Path:   f.Path,
			Stem:   f.Stem,
			Status: string(f.Status),
			Pairs:  f.Pairs,
			Bytes:  f.Bytes,
			Error:  f.Error(),
		})
	}
	return out
}

func filesTable(files []aggregate.FileStatus) *cli.Table {
	table := &cli.Table{Headers: []string{"path", "stem", "status", "pairs", "bytes", "error"}}
	for _, f := range files {
		table.Append(f.Path, f.Stem, f.Status, f.Pairs, f.Bytes, f.Error())
	}
	return table
}

// pairsTable lists top-level pairs, one row per pair.
func pairsTable(entries map[string][]ast.Pair) *cli.Table {
	table := &cli.Table{Headers: []string{"stem", "position", "identifier", "sign", "kind", "value", "line"}}
	stems := make([]string, 0, len(entries))
	for stem := range entries {
		stems = append(stems, stem)
	}
	sort.Strings(stems)
	for _, stem := range stems {
		for i, p := range entries[stem] {
			table.Append(stem, i, p.Identifier, p.Sign, kindOf(p.Value), p.Value, p.Location.Line)
		}
	}
	return table
}

func kindOf(v ast.Value) string {
	if v == nil {
		return ""
	}
	return string(v.Kind())
}

// parseReport is the output of "almanac parse".
type parseReport struct {
	Files []parsedFile `json:"files" yaml:"files"`
}

type parsedFile struct {
	Path  string     `json:"path" yaml:"path"`
	Pairs []ast.Pair `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Error string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// RenderText prints the canonical form of every parsed file. Files are
// separated by a "# path" header when more than one was given.
func (r *parseReport) RenderText(w io.Writer) error {
	for i, f := range r.Files {
		if len(r.Files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", f.Path)
		}
		if f.Error != "" {
			fmt.Fprintf(w, "# error: %s\n", f.Error)
			continue
		}
		if _, err := io.WriteString(w, ast.Render(f.Pairs)); err != nil {
			return err
		}
	}
	return nil
}

func (r *parseReport) failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

func (r *parseReport) table() *cli.Table {
	entries := make(map[string][]ast.Pair, len(r.Files))
	for _, f := range r.Files {
		entries[f.Path] = f.Pairs
	}
	table := pairsTable(entries)
	table.Headers[0] = "file"
	return table
}

// dumpReport is the output of "almanac dump".
type dumpReport struct {
	RunID      string                `json:"run_id" yaml:"run_id"`
	Root       string                `json:"root" yaml:"root"`
	Subpath    string                `json:"subpath" yaml:"subpath"`
	Entries    map[string][]ast.Pair `json:"entries" yaml:"entries"`
	Files      []fileReport          `json:"files" yaml:"files"`
	Collisions []aggregate.Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

func newDumpReport(r *aggregate.Result[[]ast.Pair]) *dumpReport {
	return &dumpReport{
		RunID:      r.RunID,
		Root:       r.Root,
		Subpath:    r.Subpath,
		Entries:    r.Entries,
		Files:      fileReports(r.Files),
		Collisions: r.Collisions,
	}
}

// RenderText prints every entry under a "== stem ==" header, in stem order.
func (r *dumpReport) RenderText(w io.Writer) error {
	stems := make([]string, 0, len(r.Entries))
	for stem := range r.Entries {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	for i, stem := range stems {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", stem)
		if _, err := io.WriteString(w, ast.Render(r.Entries[stem])); err != nil {
			return err
		}
	}
	for _, f := range r.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "\n✗ %s: %s\n", f.Path, f.Error)
		}
	}
	return nil
}

// summaryReport is a flat list of named counts.
type summaryReport struct {
	Game     string       `json:"game" yaml:"game"`
	Root     string       `json:"root" yaml:"root"`
	Summary  interface{}  `json:"summary" yaml:"summary"`
	Failures []fileReport `json:"failures,omitempty" yaml:"failures,omitempty"`
	counts   [][2]string
}

// RenderText prints "name: count" lines followed by the failed files.
func (r *summaryReport) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Game: %s\n", r.Game)
	fmt.Fprintf(w, "Root: %s\n", r.Root)
	for _, c := range r.counts {
		fmt.Fprintf(w, "%s: %s\n", c[0], c[1])
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "✗ %s: %s\n", f.Path, f.Error)
	}
	return nil
}

func (r *summaryReport) count(name string, n int) {
	r.counts = append(r.counts, [2]string{name, fmt.Sprint(n)})
}

func (r *summaryReport) table() *cli.Table {
	table := &cli.Table{Headers: []string{"name", "count"}}
	for _, c := range r.counts {
		table.Append(c[0], c[1])
	}
	return table
}
