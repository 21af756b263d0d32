package ring

import (
	"context"
	"testing"
	"time"

	"ringscrape/internal/client"
	"ringscrape/internal/domain"
)

func newTestNodeForRing(self domain.Node) *Node {
	table := NewTable(self)
	pool := client.New(time.Second, time.Second, 0)
	return New(table, pool)
}

func TestCreateRingInitializesSolo(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	n := newTestNodeForRing(self)
	n.CreateRing()

	succ := n.GetSuccessor()
	if succ == nil || !succ.Equal(self) {
		t.Fatalf("GetSuccessor() = %v, want self", succ)
	}
	if n.GetPredecessor() != nil {
		t.Fatal("a solo ring should have no predecessor")
	}
}

func TestFindSuccessorLocalArc(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	succ := domain.Node{ID: 50, Addr: "succ:1"}
	n := newTestNodeForRing(self)
	n.Table().SetSuccessor(&succ)

	got, err := n.FindSuccessor(context.Background(), 30)
	if err != nil {
		t.Fatalf("FindSuccessor: %v", err)
	}
	if !got.Equal(succ) {
		t.Errorf("FindSuccessor(30) = %v, want successor %v", got, succ)
	}
}

func TestFindSuccessorSelf(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	n := newTestNodeForRing(self)
	n.CreateRing()

	got, err := n.FindSuccessor(context.Background(), self.ID)
	if err != nil {
		t.Fatalf("FindSuccessor: %v", err)
	}
	if !got.Equal(self) {
		t.Errorf("FindSuccessor(self.ID) = %v, want self", got)
	}
}

func TestNotifyAdoptsFirstPredecessor(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	n := newTestNodeForRing(self)

	candidate := domain.Node{ID: 50, Addr: "candidate:1"}
	n.Notify(candidate)

	pred := n.GetPredecessor()
	if pred == nil || !pred.Equal(candidate) {
		t.Fatalf("GetPredecessor() = %v, want %v", pred, candidate)
	}
}

func TestNotifyIgnoresWorsePredecessor(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	n := newTestNodeForRing(self)

	closer := domain.Node{ID: 90, Addr: "closer:1"}
	farther := domain.Node{ID: 10, Addr: "farther:1"}
	n.Notify(closer)
	n.Notify(farther)

	pred := n.GetPredecessor()
	if pred == nil || !pred.Equal(closer) {
		t.Fatalf("GetPredecessor() = %v, want %v (closer predecessor should stick)", pred, closer)
	}
}

func TestFindPredLocalArc(t *testing.T) {
	self := domain.Node{ID: 10, Addr: "self:1"}
	succ := domain.Node{ID: 50, Addr: "succ:1"}
	n := newTestNodeForRing(self)
	n.Table().SetSuccessor(&succ)

	got, err := n.FindPred(context.Background(), 30)
	if err != nil {
		t.Fatalf("FindPred: %v", err)
	}
	if !got.Equal(self) {
		t.Errorf("FindPred(30) = %v, want self %v (self's successor owns 30)", got, self)
	}
}

func TestUpdateSuccAdoptsUnconditionally(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	n := newTestNodeForRing(self)
	n.CreateRing()

	newSucc := domain.Node{ID: 50, Addr: "new-succ:1"}
	n.UpdateSucc(newSucc)

	succ := n.GetSuccessor()
	if succ == nil || !succ.Equal(newSucc) {
		t.Fatalf("GetSuccessor() = %v, want %v", succ, newSucc)
	}
}

func TestNotAloneAdoptsBothPointers(t *testing.T) {
	self := domain.Node{ID: 100, Addr: "self:1"}
	n := newTestNodeForRing(self)
	n.CreateRing()

	joining := domain.Node{ID: 50, Addr: "joining:1"}
	n.NotAlone(joining)

	if succ := n.GetSuccessor(); succ == nil || !succ.Equal(joining) {
		t.Errorf("GetSuccessor() = %v, want %v", succ, joining)
	}
	if pred := n.GetPredecessor(); pred == nil || !pred.Equal(joining) {
		t.Errorf("GetPredecessor() = %v, want %v", pred, joining)
	}
}
