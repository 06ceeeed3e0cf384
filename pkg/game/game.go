// Package game identifies which Paradox title a directory holds.
package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is a supported game.
type Kind int

const (
	Unknown Kind = iota
	HOI4
	Stellaris
)

// markers are files present at the root of each installation.
var markers = []struct {
	file string
	kind Kind
}{
	{"hoi4_rev.txt", HOI4},
	{"augustus_rev.txt", Stellaris},
}

// String returns the short name used on the command line.
func (k Kind) String() string {
	switch k {
	case HOI4:
		return "hoi4"
	case Stellaris:
		return "stellaris"
	default:
		return "unknown"
	}
}

// ParseKind parses a short name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hoi4", "hearts_of_iron_iv":
		return HOI4, nil
	case "stellaris":
		return Stellaris, nil
	default:
		return Unknown, fmt.Errorf("unknown game %q (valid: hoi4, stellaris)", s)
	}
}

// Detect inspects root for a revision marker file.
func Detect(root string) (Kind, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Unknown, fmt.Errorf("failed to access game root: %w", err)
	}
	if !info.IsDir() {
		return Unknown, fmt.Errorf("game root %s is not a directory", root)
	}

	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(root, m.file)); err == nil {
			return m.kind, nil
		}
	}
	return Unknown, nil
}
