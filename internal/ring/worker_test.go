package ring

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"

	ringv1 "ringscrape/internal/api/ring/v1"
	"ringscrape/internal/client"
	"ringscrape/internal/domain"
)

// startPeer boots a real gRPC server over a loopback listener backed by a
// solo ring.Node, so checkPredecessor's Ping/FindPred/UpdateSucc calls can
// be exercised against a live peer instead of only against unreachable
// addresses.
func startPeer(t *testing.T, self domain.Node) *Node {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	self.Addr = lis.Addr().String()

	table := NewTable(self)
	pool := client.New(time.Second, time.Second, 0)
	t.Cleanup(pool.Close)
	node := New(table, pool)
	node.CreateRing()

	s := grpc.NewServer()
	ringv1.RegisterRingServer(s, NewService(node))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	return node
}

func TestCheckPredecessorNoopWhenNoPredecessor(t *testing.T) {
	self := domain.Node{ID: 1, Addr: "self:1"}
	table := NewTable(self)
	pool := client.New(10*time.Millisecond, 10*time.Millisecond, 0)
	n := New(table, pool)

	// Should return immediately without attempting any network call.
	n.checkPredecessor(context.Background(), 10*time.Millisecond)

	if n.GetPredecessor() != nil {
		t.Error("checkPredecessor should not invent a predecessor")
	}
}

func TestCheckPredecessorRevertsToSoloWhenUnreachable(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	dead := domain.Node{ID: 50, Addr: "127.0.0.1:1"}
	table := NewTable(self)
	table.SetPredecessor(&dead)
	pool := client.New(10*time.Millisecond, 10*time.Millisecond, 0)
	n := New(table, pool)

	n.checkPredecessor(context.Background(), 200*time.Millisecond)

	if n.GetPredecessor() != nil {
		t.Error("predecessor should be cleared once unreachable with no fallback")
	}
	succ := n.GetSuccessor()
	if succ == nil || !succ.Equal(self) {
		t.Errorf("GetSuccessor() = %v, want self after reverting to solo ring", succ)
	}
}

func TestCheckPredecessorPromotesLivePred2(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	dead := domain.Node{ID: 90, Addr: "127.0.0.1:1"}
	peer := startPeer(t, domain.Node{ID: 50})

	table := NewTable(self)
	table.SetPredecessor(&dead)
	table.SetPredecessor2(&domain.Node{ID: peer.Self().ID, Addr: peer.Self().Addr})
	pool := client.New(200*time.Millisecond, 200*time.Millisecond, 0)
	t.Cleanup(pool.Close)
	n := New(table, pool)

	n.checkPredecessor(context.Background(), 200*time.Millisecond)

	pred := n.GetPredecessor()
	if pred == nil || !pred.Equal(peer.Self()) {
		t.Fatalf("GetPredecessor() = %v, want promoted pred2 %v", pred, peer.Self())
	}

	succ := peer.GetSuccessor()
	if succ == nil || !succ.Equal(self) {
		t.Errorf("promoted predecessor's successor = %v, want %v (UpdateSucc should close the loop)", succ, self)
	}
}

func TestCheckPredecessorReanchorsViaFindPredWhenPred2Dead(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	dead := domain.Node{ID: 90, Addr: "127.0.0.1:1"}
	deadPred2 := domain.Node{ID: 170, Addr: "127.0.0.1:1"}
	anchor := startPeer(t, domain.Node{ID: 150})

	table := NewTable(self)
	table.SetSuccessor(&domain.Node{ID: anchor.Self().ID, Addr: anchor.Self().Addr})
	table.SetFinger(0, &domain.Node{ID: anchor.Self().ID, Addr: anchor.Self().Addr})
	table.SetPredecessor(&dead)
	table.SetPredecessor2(&deadPred2)
	pool := client.New(200*time.Millisecond, 200*time.Millisecond, 0)
	t.Cleanup(pool.Close)
	n := New(table, pool)

	n.checkPredecessor(context.Background(), 200*time.Millisecond)

	pred := n.GetPredecessor()
	if pred == nil || !pred.Equal(anchor.Self()) {
		t.Fatalf("GetPredecessor() = %v, want re-anchored node %v", pred, anchor.Self())
	}

	succ := anchor.GetSuccessor()
	if succ == nil || !succ.Equal(self) {
		t.Errorf("re-anchored predecessor's successor = %v, want %v", succ, self)
	}
}

func TestFixFingersSetsFingerFromFindSuccessor(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	table := NewTable(self)
	pool := client.New(10*time.Millisecond, 10*time.Millisecond, 0)
	n := New(table, pool)
	n.CreateRing()

	// A fresh table's fix-fingers cursor starts at 0, so the first call
	// advances it to 1 and resolves finger[1].
	n.fixFingers(context.Background())

	got := table.Finger(1)
	if got == nil || !got.Equal(self) {
		t.Errorf("Finger(1) = %v, want self (the only member of a solo ring)", got)
	}
}
