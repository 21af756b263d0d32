package server

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"

	"ringscrape/internal/client"
	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
	"ringscrape/internal/ring"
)

func TestListenBindsEphemeralPort(t *testing.T) {
	ln, advertised, err := Listen("private", "127.0.0.1", "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if !strings.HasPrefix(advertised, "127.0.0.1:") {
		t.Errorf("advertised = %q, want 127.0.0.1:<port>", advertised)
	}
	if advertised == "127.0.0.1:0" {
		t.Error("advertised port should be the actual bound port, not 0")
	}
}

func TestListenRejectsPrivateHostWithPublicMode(t *testing.T) {
	_, _, err := Listen("public", "127.0.0.1", "10.0.0.5", 0)
	if err == nil {
		t.Error("expected an error advertising a private IP under mode=public")
	}
}

func TestListenAcceptsHostname(t *testing.T) {
	ln, advertised, err := Listen("private", "127.0.0.1", "node7", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	if !strings.HasPrefix(advertised, "node7:") {
		t.Errorf("advertised = %q, want node7:<port>", advertised)
	}
}

func TestServerServesRingRPCs(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	table := ring.NewTable(self)
	pool := client.New(time.Second, time.Second, 0)
	node := ring.New(table, pool)
	node.CreateRing()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}

	srv := New(lis, node, []grpc.ServerOption{}, WithLogger(&logger.NopLogger{}))
	go srv.Start()
	defer srv.Stop()

	clientPool := client.New(time.Second, time.Second, 0)
	defer clientPool.Close()

	if !clientPool.Ping(context.Background(), lis.Addr().String()) {
		t.Error("Ping against a live server should succeed")
	}
}
