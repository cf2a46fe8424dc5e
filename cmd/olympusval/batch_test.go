package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectResponseFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.md", "c.json", "ignore.py", "ignore.bin"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := collectResponseFiles([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "c.json"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCollectResponseFilesExplicitAndDeduplicated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resp.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := collectResponseFiles([]string{path, path, dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("files = %v, want single deduplicated entry", files)
	}
}

func TestCollectResponseFilesMissing(t *testing.T) {
	if _, err := collectResponseFiles([]string{filepath.Join(t.TempDir(), "nope.txt")}); err == nil {
		t.Error("expected error for missing input")
	}
}
