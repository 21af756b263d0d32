package telemetry

import (
	"context"
	"testing"

	"ringscrape/internal/config"
	"ringscrape/internal/domain"
)

func TestInitTracerDisabledReturnsNoop(t *testing.T) {
	shutdown := InitTracer(config.TelemetryConfig{}, "ringscrape-test", domain.ID(1))
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned %v, want nil", err)
	}
}

func TestInitTracerStdoutExporter(t *testing.T) {
	cfg := config.TelemetryConfig{
		Tracing: config.TracingConfig{Enabled: true, Exporter: "stdout"},
	}
	shutdown := InitTracer(cfg, "ringscrape-test", domain.ID(42))
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown = %v, want nil", err)
	}
}

func TestIDAttributesRendersHex(t *testing.T) {
	attrs := IDAttributes("ring.node.id", domain.ID(255))
	if len(attrs) != 1 {
		t.Fatalf("IDAttributes returned %d attrs, want 1", len(attrs))
	}
	if string(attrs[0].Key) != "ring.node.id" {
		t.Errorf("attribute key = %q, want ring.node.id", attrs[0].Key)
	}
}
