package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf, "Recording").(*SimpleProgress)

	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	now := start
	progress.now = func() time.Time { return now }

	progress.Start(4)
	now = start.Add(time.Second)
	progress.Update(2)

	if !strings.Contains(buf.String(), "Recording: [") {
		t.Errorf("missing label in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "50.0% (2/4) 2.0 events/s") {
		t.Errorf("unexpected progress line %q", buf.String())
	}

	progress.Finish()
	if !strings.HasSuffix(buf.String(), "(4/4) 4.0 events/s\n") {
		t.Errorf("unexpected final line %q", buf.String())
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf, "")

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.String() != "\n" {
		t.Errorf("output = %q, want a bare newline", buf.String())
	}
}

func TestSimpleProgress_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf, "")

	progress.Start(10)
	progress.Error(errors.New("invalid event on line 3"))

	output := buf.String()
	if !strings.Contains(output, "Progress: [") {
		t.Error("default label should be Progress")
	}
	if !strings.Contains(output, "Error: invalid event on line 3") {
		t.Errorf("missing error in %q", output)
	}
}
