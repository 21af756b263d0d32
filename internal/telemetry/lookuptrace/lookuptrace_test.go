package lookuptrace

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestIsLookupFalseOnBareContext(t *testing.T) {
	if IsLookup(context.Background()) {
		t.Error("IsLookup on a bare context should be false")
	}
}

func TestWithLookupThenIsLookupRoundTrips(t *testing.T) {
	ctx := WithLookup(context.Background())
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok {
		t.Fatal("WithLookup did not attach outgoing metadata")
	}

	// Simulate the metadata crossing the wire: move it from outgoing to
	// incoming before checking IsLookup, which only reads incoming.
	incoming := metadata.NewIncomingContext(context.Background(), md)
	if !IsLookup(incoming) {
		t.Error("IsLookup should be true once the lookup flag round-trips through metadata")
	}
}

func TestMetadataCarrierGetSetKeys(t *testing.T) {
	md := metadata.MD{}
	mc := metadataCarrier(md)
	mc.Set("x-trace", "abc")
	if got := mc.Get("x-trace"); got != "abc" {
		t.Errorf("Get(x-trace) = %q, want abc", got)
	}
	if got := mc.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
	keys := mc.Keys()
	found := false
	for _, k := range keys {
		if k == "x-trace" {
			found = true
		}
	}
	if !found {
		t.Errorf("Keys() = %v, want to include x-trace", keys)
	}
}
