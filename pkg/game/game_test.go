package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		want   Kind
	}{
		{"hoi4", "hoi4_rev.txt", HOI4},
		{"stellaris", "augustus_rev.txt", Stellaris},
		{"none", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.marker != "" {
				if err := os.WriteFile(filepath.Join(root, tt.marker), []byte("rev"), 0o644); err != nil {
					t.Fatalf("WriteFile() error = %v", err)
				}
			}
			got, err := Detect(root)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_Errors(t *testing.T) {
	if _, err := Detect(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Detect() expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Detect(file); err == nil {
		t.Error("Detect() expected error for a file")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"hoi4", HOI4, false},
		{"HOI4", HOI4, false},
		{" stellaris ", Stellaris, false},
		{"eu4", Unknown, true},
		{"", Unknown, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	for kind, want := range map[Kind]string{HOI4: "hoi4", Stellaris: "stellaris", Unknown: "unknown", Kind(42): "unknown"} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
