package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "sub", "b.JPG"))
	touch(t, filepath.Join(dir, ".hidden", "c.png"))
	touch(t, filepath.Join(dir, "notes.txt"))

	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources: got %d, want 2 (%+v)", len(sources), sources)
	}

	byKey := map[string]Source{}
	for _, s := range sources {
		byKey[s.Key] = s
	}

	a, ok := byKey["a"]
	if !ok {
		t.Fatal("a.png not found")
	}
	if a.Format != "png" || a.RelPath != "a.png" || a.Size != 1 {
		t.Errorf("a: %+v", a)
	}

	b, ok := byKey["sub/b"]
	if !ok {
		t.Fatal("sub/b.JPG not found")
	}
	if b.Format != "jpeg" {
		t.Errorf("jpg not normalized: %q", b.Format)
	}
}
