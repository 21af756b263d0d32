package trace

import (
	"context"
	"strings"
	"testing"

	"ringscrape/internal/domain"
)

func TestGenerateTraceIDFormat(t *testing.T) {
	id := GenerateTraceID("node-1")
	if !strings.HasPrefix(id, "node-1-") {
		t.Errorf("GenerateTraceID() = %q, want prefix %q", id, "node-1-")
	}
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		t.Errorf("GenerateTraceID() = %q, want a ULID suffix", id)
	}
}

func TestGenerateTraceIDUnique(t *testing.T) {
	a := GenerateTraceID("n")
	b := GenerateTraceID("n")
	if a == b {
		t.Error("GenerateTraceID should produce distinct IDs on successive calls")
	}
}

func TestAttachAndGetTraceID(t *testing.T) {
	ctx, id := AttachTraceID(context.Background(), domain.ID(42))
	if id == "" {
		t.Fatal("AttachTraceID returned empty traceID")
	}
	if got := GetTraceID(ctx); got != id {
		t.Errorf("GetTraceID() = %q, want %q", got, id)
	}
}

func TestGetTraceIDAbsent(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("GetTraceID() = %q, want empty for a bare context", got)
	}
}
