package discovery

import (
	"context"
	"testing"
	"time"

	"ringscrape/internal/config"
)

func testDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		MulticastGroup: "224.0.0.251",
		MulticastPort:  47891,
		BroadcastPort:  47892,
		Timeout:        50 * time.Millisecond,
	}
}

func TestDiscoverReturnsFalseWithNoListener(t *testing.T) {
	d := New(testDiscoveryConfig(), "self:7000")

	peer, ok := d.Discover(context.Background())
	if ok {
		t.Fatalf("Discover() = (%q, true), want no reply with nothing listening", peer)
	}
}

func TestDiscoverBroadcastReturnsFalseWithNoListener(t *testing.T) {
	d := New(testDiscoveryConfig(), "self:7000")

	peer, ok := d.DiscoverBroadcast(context.Background())
	if ok {
		t.Fatalf("DiscoverBroadcast() = (%q, true), want no reply with nothing listening", peer)
	}
}

func TestLanBootstrapDiscoverWrapsNoReplyAsEmptyList(t *testing.T) {
	b := NewLanBootstrap(New(testDiscoveryConfig(), "self:7000"))

	peers, err := b.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(peers) != 0 {
		t.Errorf("Discover() = %v, want no peers", peers)
	}
}

func TestLanBootstrapRegisterDeregisterLifecycle(t *testing.T) {
	b := NewLanBootstrap(New(testDiscoveryConfig(), "self:7000"))

	if err := b.Register(context.Background(), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// give the background listener goroutine a chance to start before
	// tearing it down, otherwise Deregister may race Serve's own setup.
	time.Sleep(10 * time.Millisecond)
	if err := b.Deregister(context.Background(), nil); err != nil {
		t.Fatalf("Deregister: %v", err)
	}
}
