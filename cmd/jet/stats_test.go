package main

import (
	"encoding/json"
	"strings"
	"testing"

	"lightning-jet/jet/pkg/eventlog"
)

func TestShowStats(t *testing.T) {
	useTestConfig(t)
	recordTestRebalances(t)

	statsFlags.format = "json"
	out, err := runCommand(t, showStats, "")
	if err != nil {
		t.Fatalf("showStats() error = %v", err)
	}

	var stats []tableStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, out)
	}
	got := map[eventlog.Table]int64{}
	for _, s := range stats {
		got[s.Table] = s.Records
	}
	if got[eventlog.TableRebalanceHistory] != 3 || got[eventlog.TableFailedHtlc] != 0 {
		t.Errorf("stats = %v", got)
	}

	statsFlags.format = "text"
	out, err = runCommand(t, showStats, "")
	if err != nil {
		t.Fatalf("showStats() error = %v", err)
	}
	if !strings.HasPrefix(out, "TABLE") || !strings.Contains(out, "rebalance_history  3") {
		t.Errorf("text stats = %q", out)
	}
}
