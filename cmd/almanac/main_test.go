package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestCommand resets the global flags and returns a command whose output
// is captured.
func newTestCommand(t *testing.T, format string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cfgFile = ""
	verbose = false
	outputFormat = format

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd, out
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
}

// hoi4Tree writes a small Hearts of Iron IV installation with one broken
// country file.
func hoi4Tree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"hoi4_rev.txt": "",
		"history/countries/GER - Germany.txt": `capital = 64
oob = "GER_1936"
set_politics = { ruling_party = fascism }
mystery_field = 1`,
		"history/countries/FRA - France.txt": "capital = 16",
		"history/countries/BRK - Broken.txt": "capital = { 1",
		"events/News.txt":                    "add_namespace = news\nnews_event = { id = news.1 }",
		"common/national_focus/germany.txt":  "focus_tree = { id = german_focus focus = { id = GER_rhineland } }",
	})
	return root
}

func stellarisTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"augustus_rev.txt":                       "",
		"common/scripted_variables/00_base.txt":  "@cost = 100\n@upkeep = 1.5",
		"common/scripted_variables/01_extra.txt": "@cost = 120\nstray = yes",
	})
	return root
}
