package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkExecutablesFindsOnlyBareExecutableFiles(t *testing.T) {
	dir := t.TempDir()
	exec := filepath.Join(dir, "mytest")
	if err := os.WriteFile(exec, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write exec: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mytest.yaml"), []byte("test:\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi\n"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	var found []string
	if err := walkExecutables(dir, &found); err != nil {
		t.Fatalf("walkExecutables: %v", err)
	}
	if len(found) != 1 || found[0] != exec {
		t.Fatalf("found = %v, want exactly [%s]", found, exec)
	}
}
