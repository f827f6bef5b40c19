package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Fatalf("expected %s to exist", dir)
	}
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if DirExists(file) {
		t.Fatalf("a regular file is not a directory")
	}
	if DirExists(filepath.Join(dir, "missing")) {
		t.Fatalf("missing dir reported as existing")
	}
}

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "items.db")
	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir: %v", err)
	}
	if !DirExists(filepath.Dir(target)) {
		t.Fatalf("parent dir not created")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("  3847 \t3885  130453_V14167 ")
	want := []string{"3847", "3885", "130453_V14167"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	if len(SplitList("")) != 0 {
		t.Fatalf("expected empty list")
	}
}
