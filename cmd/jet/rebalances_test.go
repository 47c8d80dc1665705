package main

import (
	"encoding/csv"
	"strings"
	"testing"

	"lightning-jet/jet/pkg/cli"
)

func resetRebalancesFlags() {
	rebalancesFlags.secs = 0
	rebalancesFlags.where = ""
	rebalancesFlags.limit = 0
	rebalancesFlags.format = "text"
	rebalancesFlags.output = ""
	rebalancesFlags.from = ""
	rebalancesFlags.to = ""
	rebalancesFlags.amount = 0
	rebalancesFlags.rebalanced = -1
	rebalancesFlags.errorText = ""
}

func recordTestRebalances(t *testing.T) {
	t.Helper()

	resetRebalancesFlags()
	rebalancesFlags.from, rebalancesFlags.to = "A", "B"
	rebalancesFlags.amount, rebalancesFlags.rebalanced = 1000, 600
	if _, err := runCommand(t, recordRebalance, ""); err != nil {
		t.Fatalf("record success: %v", err)
	}

	resetRebalancesFlags()
	rebalancesFlags.from, rebalancesFlags.to = "A", "C"
	rebalancesFlags.amount = 2000
	rebalancesFlags.errorText = "no route"
	if _, err := runCommand(t, recordRebalance, ""); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	resetRebalancesFlags()
	rebalancesFlags.from, rebalancesFlags.to = "B", "C"
	rebalancesFlags.amount = 3000
	if _, err := runCommand(t, recordRebalance, ""); err != nil {
		t.Fatalf("record full success: %v", err)
	}
}

func TestRebalancesRecordAndList(t *testing.T) {
	useTestConfig(t)
	recordTestRebalances(t)

	resetRebalancesFlags()
	rebalancesFlags.format = "csv"
	out, err := runCommand(t, listRebalances, "")
	if err != nil {
		t.Fatalf("listRebalances() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3: %v", len(rows), rows)
	}

	// id,date,from_node,to_node,amount,rebalanced,status,extra
	checks := []struct {
		id, from, to, amount, rebalanced, status, extra string
	}{
		{"1", "A", "B", "1000", "600", "1", ""},
		{"2", "A", "C", "2000", "0", "0", "no route"},
		{"3", "B", "C", "3000", "3000", "1", ""},
	}
	for i, want := range checks {
		row := rows[i+1]
		got := []string{row[0], row[2], row[3], row[4], row[5], row[6], row[7]}
		exp := []string{want.id, want.from, want.to, want.amount, want.rebalanced, want.status, want.extra}
		for j := range exp {
			if got[j] != exp[j] {
				t.Errorf("row %d column %d = %q, want %q", i+1, j, got[j], exp[j])
			}
		}
	}

	resetRebalancesFlags()
	rebalancesFlags.where = "!succeeded"
	out, err = runCommand(t, listRebalances, "")
	if err != nil {
		t.Fatalf("listRebalances() error = %v", err)
	}
	if !strings.Contains(out, "no route") || strings.Contains(out, "600") {
		t.Errorf("filtered table = %q", out)
	}
}

func TestRebalancesList_Limit(t *testing.T) {
	useTestConfig(t)
	recordTestRebalances(t)

	list := func() [][]string {
		t.Helper()
		rebalancesFlags.format = "csv"
		out, err := runCommand(t, listRebalances, "")
		if err != nil {
			t.Fatalf("listRebalances() error = %v", err)
		}
		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		if err != nil {
			t.Fatalf("output is not CSV: %v", err)
		}
		return rows[1:]
	}

	resetRebalancesFlags()
	rebalancesFlags.limit = 2
	rows := list()
	if len(rows) != 2 || rows[0][0] != "1" || rows[1][0] != "2" {
		t.Errorf("limit 2 rows = %v, want ids 1 and 2", rows)
	}

	// The limit counts filtered records.
	resetRebalancesFlags()
	rebalancesFlags.where = "succeeded"
	rebalancesFlags.limit = 2
	rows = list()
	if len(rows) != 2 || rows[0][0] != "1" || rows[1][0] != "3" {
		t.Errorf("filtered limit rows = %v, want ids 1 and 3", rows)
	}

	resetRebalancesFlags()
	rebalancesFlags.limit = -1
	if _, err := runCommand(t, listRebalances, ""); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("negative limit: error = %v, want a config error", err)
	}
}

func TestRecordRebalance_Validation(t *testing.T) {
	useTestConfig(t)

	tests := []struct {
		name  string
		setup func()
	}{
		{"missing from", func() { rebalancesFlags.to = "B" }},
		{"missing to", func() { rebalancesFlags.from = "A" }},
		{"negative amount", func() {
			rebalancesFlags.from, rebalancesFlags.to = "A", "B"
			rebalancesFlags.amount = -5
		}},
		{"error and rebalanced", func() {
			rebalancesFlags.from, rebalancesFlags.to = "A", "B"
			rebalancesFlags.rebalanced = 10
			rebalancesFlags.errorText = "timeout"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRebalancesFlags()
			tt.setup()

			_, err := runCommand(t, recordRebalance, "")
			if cli.ExitCode(err) != cli.ExitConfig {
				t.Errorf("error = %v, want a config error", err)
			}
		})
	}
}
