package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunArchive(t *testing.T) {
	dir := useTestConfig(t)
	recordTestRebalances(t)

	archiveFlags.path = ""
	archiveFlags.format = "csv"
	t.Cleanup(func() { archiveFlags.format = "" })

	out, err := runCommand(t, runArchive, "")
	if err != nil {
		t.Fatalf("runArchive() error = %v", err)
	}
	if !strings.HasPrefix(out, "Archive run ") {
		t.Errorf("unexpected output %q", out)
	}

	files, err := filepath.Glob(filepath.Join(dir, "archives", "*.csv"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d archive files, want 2", len(files))
	}

	for _, f := range files {
		if !strings.Contains(out, f) {
			t.Errorf("output does not list %s", f)
		}
		if strings.HasPrefix(filepath.Base(f), "rebalance_history-") {
			data, err := os.ReadFile(f)
			if err != nil {
				t.Fatalf("read archive: %v", err)
			}
			if lines := strings.Count(string(data), "\n"); lines != 4 {
				t.Errorf("rebalance archive has %d lines, want header + 3", lines)
			}
		}
	}
}

func TestRunArchive_InvalidFormat(t *testing.T) {
	useTestConfig(t)

	archiveFlags.format = "xml"
	t.Cleanup(func() { archiveFlags.format = "" })

	if _, err := runCommand(t, runArchive, ""); err == nil {
		t.Error("expected error for unknown archive format")
	}
}
