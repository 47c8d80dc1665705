package main

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"lightning-jet/jet/pkg/telemetry/health"
)

func TestPrintVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	Version, GitCommit = "1.2.3-test", "abc123"
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	versionFlags.format = "text"
	out, err := runCommand(t, printVersion, "")
	if err != nil {
		t.Fatalf("printVersion() error = %v", err)
	}
	if !strings.HasPrefix(out, "jet 1.2.3-test\n") || !strings.Contains(out, "Git Commit: abc123") {
		t.Errorf("unexpected output %q", out)
	}

	versionFlags.format = "json"
	t.Cleanup(func() { versionFlags.format = "text" })
	out, err = runCommand(t, printVersion, "")
	if err != nil {
		t.Fatalf("printVersion() error = %v", err)
	}

	var info health.VersionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if info.Version != "1.2.3-test" || info.Commit != "abc123" || info.GoVersion != runtime.Version() {
		t.Errorf("unexpected version info %+v", info)
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.RunE == nil {
		t.Error("versionCmd.RunE should not be nil")
	}
}
