package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"clausewitz-hq/almanac/pkg/cli"
)

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"GER.txt": "capital = 64 # Berlin\nset_politics = { ruling_party = fascism }",
	})

	cmd, out := newTestCommand(t, "text")
	if err := parseFiles(cmd, []string{filepath.Join(dir, "GER.txt")}); err != nil {
		t.Fatalf("parseFiles() error = %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "capital = 64\n") {
		t.Errorf("output = %q, want canonical rendering", got)
	}
	if strings.Contains(got, "Berlin") {
		t.Error("comment survived parsing")
	}
	if !strings.Contains(got, "ruling_party = fascism") {
		t.Errorf("output = %q, missing nested pair", got)
	}
}

func TestParseFiles_JSON(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "x = 1", "b.txt": "y = \"two\""})

	cmd, out := newTestCommand(t, "json")
	err := parseFiles(cmd, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")})
	if err != nil {
		t.Fatalf("parseFiles() error = %v", err)
	}

	var report struct {
		Files []struct {
			Path  string `json:"path"`
			Pairs []struct {
				Identifier string `json:"identifier"`
				Value      struct {
					Kind string `json:"kind"`
				} `json:"value"`
			} `json:"pairs"`
		} `json:"files"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(report.Files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(report.Files))
	}
	if p := report.Files[1].Pairs[0]; p.Identifier != "y" || p.Value.Kind != "string" {
		t.Errorf("pair = %+v, want y string", p)
	}
}

func TestParseFiles_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"good.txt": "x = 1", "bad.txt": "x = {"})

	cmd, out := newTestCommand(t, "text")
	err := parseFiles(cmd, []string{filepath.Join(dir, "good.txt"), filepath.Join(dir, "bad.txt")})
	if got := cli.ExitCode(err); got != cli.ExitPartial {
		t.Fatalf("ExitCode() = %v, want %v (err = %v)", got, cli.ExitPartial, err)
	}
	if !strings.Contains(out.String(), "x = 1") || !strings.Contains(out.String(), "# error:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestParseFiles_CSV(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"GER.txt": "capital = 64\noob = GER_1936"})

	cmd, out := newTestCommand(t, "csv")
	if err := parseFiles(cmd, []string{filepath.Join(dir, "GER.txt")}); err != nil {
		t.Fatalf("parseFiles() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3: %q", len(lines), out.String())
	}
	if lines[0] != "file,position,identifier,sign,kind,value,line" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",0,capital,=,number,64,1") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestParseFiles_BadOutputFormat(t *testing.T) {
	cmd, _ := newTestCommand(t, "xml")
	err := parseFiles(cmd, []string{"unused.txt"})
	if got := cli.ExitCode(err); got != cli.ExitUsage {
		t.Errorf("ExitCode() = %v, want %v", got, cli.ExitUsage)
	}
}
