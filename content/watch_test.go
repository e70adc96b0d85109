package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsFeedWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	feed := filepath.Join(dir, "feed.yaml")
	if err := os.WriteFile(feed, []byte(smallFeed), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != feed {
			t.Fatalf("expected event for %s, got %s", feed, name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no watcher event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
