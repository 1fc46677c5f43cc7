package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/threadview/internal/annotation"
)

// WriteFile writes body to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ThreadItems returns n top-level annotations with ids t00, t01, ...
func ThreadItems(n int) []annotation.Item {
	items := make([]annotation.Item, n)
	for i := range items {
		items[i] = annotation.Item{
			ID:   fmt.Sprintf("t%02d", i),
			User: fmt.Sprintf("acct:user%02d", i),
			Text: fmt.Sprintf("thread %d body", i),
		}
	}
	return items
}

// RepoRoot walks up from the working directory to the directory holding go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
