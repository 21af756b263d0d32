package ctxutil

import (
	"context"
	"testing"
	"time"

	"ringscrape/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestNewContextPlain(t *testing.T) {
	ctx, cancel := NewContext()
	if cancel != nil {
		t.Error("NewContext() with no options should return a nil cancel func")
	}
	if TraceIDFromContext(ctx) != "" {
		t.Error("TraceIDFromContext should be empty with no WithTrace option")
	}
	if HopsFromContext(ctx) != -1 {
		t.Error("HopsFromContext should be -1 with no WithHops option")
	}
}

func TestNewContextWithTrace(t *testing.T) {
	ctx, cancel := NewContext(WithTrace(domain.ID(7)))
	if cancel != nil {
		t.Error("WithTrace alone should not set a cancel func")
	}
	if id := TraceIDFromContext(ctx); id == "" {
		t.Error("TraceIDFromContext should be non-empty after WithTrace")
	}
}

func TestNewContextWithTimeoutReturnsCancel(t *testing.T) {
	ctx, cancel := NewContext(WithTimeout(time.Minute))
	defer cancel()
	if cancel == nil {
		t.Fatal("WithTimeout should return a non-nil cancel func")
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("context should carry a deadline after WithTimeout")
	}
}

func TestNewContextWithHopsStartsAtZero(t *testing.T) {
	ctx, _ := NewContext(WithHops())
	if got := HopsFromContext(ctx); got != 0 {
		t.Errorf("HopsFromContext() = %d, want 0", got)
	}
}

func TestEnsureTraceIDAttachesOnlyOnce(t *testing.T) {
	ctx := EnsureTraceID(context.Background(), domain.ID(1))
	first := TraceIDFromContext(ctx)
	if first == "" {
		t.Fatal("EnsureTraceID should attach a traceID when absent")
	}
	ctx = EnsureTraceID(ctx, domain.ID(2))
	if got := TraceIDFromContext(ctx); got != first {
		t.Errorf("EnsureTraceID overwrote an existing traceID: got %q, want %q", got, first)
	}
}

func TestIncHopsIncrementsCounter(t *testing.T) {
	ctx, _ := NewContext(WithHops())
	ctx = IncHops(ctx)
	ctx = IncHops(ctx)
	if got := HopsFromContext(ctx); got != 2 {
		t.Errorf("HopsFromContext() = %d, want 2", got)
	}
}

func TestIncHopsNoopWithoutCounter(t *testing.T) {
	ctx := IncHops(context.Background())
	if got := HopsFromContext(ctx); got != -1 {
		t.Errorf("HopsFromContext() = %d, want -1 when no counter was ever set", got)
	}
}

func TestIncHopsLeavesSentinelUnchanged(t *testing.T) {
	ctx := context.WithValue(context.Background(), hopsKey{}, -1)
	ctx = IncHops(ctx)
	if got := HopsFromContext(ctx); got != -1 {
		t.Errorf("HopsFromContext() = %d, want -1 sentinel preserved", got)
	}
}

func TestCheckContextNilOnLiveContext(t *testing.T) {
	if err := CheckContext(context.Background()); err != nil {
		t.Errorf("CheckContext on a live context = %v, want nil", err)
	}
}

func TestCheckContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckContext(ctx)
	if status.Code(err) != codes.Canceled {
		t.Errorf("CheckContext on canceled ctx = %v, want codes.Canceled", err)
	}
}

func TestCheckContextDeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	err := CheckContext(ctx)
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("CheckContext on expired ctx = %v, want codes.DeadlineExceeded", err)
	}
}
