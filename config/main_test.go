package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "senro.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "sight_distance = 350\ncheck_invariants = true\n")
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %s", err)
	}
	expected := Options{SightDistance: 350, AllPathsLength: 100, CheckInvariants: true}
	if !cmp.Equal(got, expected) {
		t.Fatalf("diff: %s", cmp.Diff(expected, got))
	}
}

func TestLoadFileEmpty(t *testing.T) {
	got, err := LoadFile(writeFile(t, ""))
	if err != nil {
		t.Fatalf("LoadFile: %s", err)
	}
	if !cmp.Equal(got, Default()) {
		t.Fatalf("diff: %s", cmp.Diff(Default(), got))
	}
}

func TestLoadFileInvalid(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "sight_distance = -1\n")); err == nil {
		t.Fatal("expected error for negative sight distance")
	}
	if _, err := LoadFile(writeFile(t, "sight_distance = \n")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadFile(writeFile(t, "bogus = 1\n")); err == nil {
		t.Fatal("expected error for unknown attribute")
	}
}
