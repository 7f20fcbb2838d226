package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestFindFilesByExtension_RecursesAndFilters(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.hcl"), "")
	mustWrite(t, filepath.Join(dir, "a.txt"), "")
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	mustWrite(t, filepath.Join(sub, "b.hcl"), "")

	got, err := FindFilesByExtension(dir, ".hcl")
	if err != nil {
		t.Fatalf("FindFilesByExtension failed: %v", err)
	}
	sort.Strings(got)

	want := []string{filepath.Join(dir, "a.hcl"), filepath.Join(sub, "b.hcl")}
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an empty extension")
		}
	}()
	_, _ = FindFilesByExtension(t.TempDir(), "")
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
