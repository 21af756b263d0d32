package bootstrap

import (
	"context"
	"testing"
)

func TestStaticBootstrapDiscoverReturnsConfiguredPeers(t *testing.T) {
	peers := []string{"10.0.0.1:7000", "10.0.0.2:7000"}
	b := NewStaticBootstrap(peers)

	got, err := b.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != len(peers) || got[0] != peers[0] || got[1] != peers[1] {
		t.Errorf("Discover() = %v, want %v", got, peers)
	}
}

func TestStaticBootstrapRegisterAndDeregisterAreNoops(t *testing.T) {
	b := NewStaticBootstrap(nil)
	if err := b.Register(context.Background(), nil); err != nil {
		t.Errorf("Register = %v, want nil", err)
	}
	if err := b.Deregister(context.Background(), nil); err != nil {
		t.Errorf("Deregister = %v, want nil", err)
	}
}

var _ Bootstrap = (*StaticBootstrap)(nil)
