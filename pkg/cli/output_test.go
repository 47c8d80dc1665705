package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"lightning-jet/jet/pkg/eventlog"
)

type countsTable map[string]int

func (c countsTable) Header() []string { return []string{"table", "records"} }
func (c countsTable) Rows() [][]string {
	return [][]string{{"failed_htlc", "3"}, {"rebalance_history", "12"}}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err != nil && ExitCode(err) != ExitConfig {
			t.Errorf("ParseOutputFormat(%q) error is not a ConfigError", tt.in)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	t.Run("plain value", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := (&TextFormatter{}).FormatTo(buf, "jet v1.0.0"); err != nil {
			t.Fatalf("FormatTo() error = %v", err)
		}
		if buf.String() != "jet v1.0.0\n" {
			t.Errorf("FormatTo() = %q", buf.String())
		}
	})

	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := (&TextFormatter{}).FormatTo(buf, countsTable{}); err != nil {
			t.Fatalf("FormatTo() error = %v", err)
		}

		want := "TABLE              RECORDS\n" +
			"failed_htlc        3\n" +
			"rebalance_history  12\n"
		if buf.String() != want {
			t.Errorf("FormatTo() =\n%s\nwant\n%s", buf.String(), want)
		}
	})
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	data := map[string]int64{"failed_htlc": 3}

	if err := (&JSONFormatter{Indent: true}).FormatTo(buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got map[string]int64
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["failed_htlc"] != 3 {
		t.Errorf("got %v", got)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).FormatTo(buf, countsTable{}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if want := "table,records\nfailed_htlc,3\nrebalance_history,12\n"; buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if err := (&CSVFormatter{}).FormatTo(buf, "not a table"); err == nil {
		t.Error("expected error for non-tabular data")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatCSV).(*CSVFormatter); !ok {
		t.Error("csv should give a CSVFormatter")
	}
	if _, ok := NewFormatter("").(*TextFormatter); !ok {
		t.Error("default should be TextFormatter")
	}
}

func TestPrintFailedHtlcs(t *testing.T) {
	records := []*eventlog.FailedHtlcRecord{
		{Date: 1_700_000_000_000, FromChan: "111", ToChan: "222", Sats: 50},
	}

	buf := &bytes.Buffer{}
	if err := PrintFailedHtlcs(context.Background(), buf, FormatText, records); err != nil {
		t.Fatalf("PrintFailedHtlcs() error = %v", err)
	}
	if !strings.Contains(buf.String(), "2023-11-14 22:13:20  111") {
		t.Errorf("unexpected table %q", buf.String())
	}

	buf.Reset()
	if err := PrintFailedHtlcs(context.Background(), buf, FormatCSV, records); err != nil {
		t.Fatalf("PrintFailedHtlcs() error = %v", err)
	}
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("not csv: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "111" {
		t.Errorf("unexpected csv rows %v", rows)
	}
}

func TestPrintRebalances(t *testing.T) {
	records := []*eventlog.RebalanceRecord{
		{ID: 1, Date: 1_700_000_000_000, From: "A", To: "B", Amount: 1000, Rebalanced: 1000, Status: eventlog.StatusSuccess},
		{ID: 2, Date: 1_700_000_001_000, From: "A", To: "C", Amount: 500, Status: eventlog.StatusFailure, Extra: "no route"},
	}

	buf := &bytes.Buffer{}
	if err := PrintRebalances(context.Background(), buf, FormatText, records); err != nil {
		t.Fatalf("PrintRebalances() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ok") || !strings.Contains(out, "failed") || !strings.Contains(out, "no route") {
		t.Errorf("unexpected table %q", out)
	}

	buf.Reset()
	if err := PrintRebalances(context.Background(), buf, FormatJSON, records); err != nil {
		t.Fatalf("PrintRebalances() error = %v", err)
	}
	var decoded []eventlog.RebalanceRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Extra != "no route" {
		t.Errorf("unexpected records %+v", decoded)
	}
}
