package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/gravitypile/physics"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	got, err := Parse(embedded)
	if err != nil {
		t.Fatalf("embedded tuning: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("embedded tuning drifted from defaults (-want +got):\n%s", diff)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	got, err := Parse([]byte("physics:\n  gravity: 500\nlifecycle:\n  resize_debounce: 1s\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Physics.Gravity = 500
	want.Lifecycle.ResizeDebounce = time.Second
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("partial tuning mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"step_rate", "physics:\n  step_rate: 0\n", physics.ErrInvalidConfig},
		{"damping", "physics:\n  damping: 2\n", physics.ErrInvalidConfig},
		{"host", "host:\n  width: 0\n", ErrInvalidTuning},
		{"tap", "interaction:\n  tap_distance: -1\n", ErrInvalidTuning},
		{"stiffness", "interaction:\n  stiffness: 3\n", ErrInvalidTuning},
		{"overflow", "sync:\n  overflow: -5\n", ErrInvalidTuning},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := Parse([]byte("physics: [")); err == nil {
		t.Fatalf("expected a yaml error")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("host:\n  title: test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Host.Title != "test" || got.Host.Width != 960 {
		t.Fatalf("unexpected host config: %+v", got.Host)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	old := DiskPath
	DiskPath = filepath.Join(t.TempDir(), "nope.yaml")
	defer func() { DiskPath = old }()

	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
}
