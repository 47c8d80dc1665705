package logging

import (
	"context"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	if GetOperation(ctx) != "" || GetTable(ctx) != "" || GetRunID(ctx) != "" {
		t.Fatal("expected empty fields on a bare context")
	}

	ctx = WithOperation(ctx, "record_failed_htlc")
	ctx = WithTable(ctx, "failed_htlc")
	ctx = WithRunID(ctx, "0b7c")

	if got := GetOperation(ctx); got != "record_failed_htlc" {
		t.Errorf("GetOperation() = %q", got)
	}
	if got := GetTable(ctx); got != "failed_htlc" {
		t.Errorf("GetTable() = %q", got)
	}
	if got := GetRunID(ctx); got != "0b7c" {
		t.Errorf("GetRunID() = %q", got)
	}

	if attrs := contextAttrs(ctx); len(attrs) != 3 {
		t.Errorf("contextAttrs() returned %d attrs, want 3", len(attrs))
	}
}
