package bootstrap

import (
	"testing"

	"ringscrape/internal/config"
)

func TestNewRoute53BootstrapTrimsDomainSuffix(t *testing.T) {
	b, err := NewRoute53Bootstrap(config.RegisterConfig{
		HostedZoneID: "Z123",
		DomainSuffix: "ring.example.com.",
		TTL:          30,
	})
	if err != nil {
		t.Fatalf("NewRoute53Bootstrap: %v", err)
	}
	if b.domainSuffix != "ring.example.com" {
		t.Errorf("domainSuffix = %q, want trailing dot trimmed", b.domainSuffix)
	}
	if b.hostedZoneID != "Z123" {
		t.Errorf("hostedZoneID = %q, want Z123", b.hostedZoneID)
	}
	if b.ttl != 30 {
		t.Errorf("ttl = %d, want 30", b.ttl)
	}
}

var _ Bootstrap = (*Route53Bootstrap)(nil)
