package ring

import (
	"context"
	"fmt"

	"ringscrape/internal/client"
	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
)

// Node is a ring member: its routing table plus the outbound client
// pool used to talk to neighbors. It has no knowledge of storage,
// scraping or HTTP; it is purely the membership/routing primitive those
// layers are built on top of, grounded on the original implementation's
// ChordNode.
type Node struct {
	lgr   logger.Logger
	table *Table
	pool  *client.Pool
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(n *Node) { n.lgr = lgr }
}

// New wires a routing table and client pool into a ring Node.
func New(table *Table, pool *client.Pool, opts ...Option) *Node {
	n := &Node{
		lgr:   &logger.NopLogger{},
		table: table,
		pool:  pool,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) Self() domain.Node  { return n.table.Self() }
func (n *Node) Table() *Table      { return n.table }
func (n *Node) Pool() *client.Pool { return n.pool }

// CreateRing initializes a brand-new, single-member ring.
func (n *Node) CreateRing() {
	n.table.InitSolo()
	n.lgr.Info("created new ring", logger.FNode("self", n.Self()))
}

// Join contacts an existing member at peerAddr and inserts self into
// its ring. Mirrors the original implementation's join(): resolve our
// successor via FindSuccessor on the peer, and if that successor turns
// out to be alone (its own successor), adopt it symmetrically and tell
// it about us via NotAlone.
func (n *Node) Join(ctx context.Context, peerAddr string) error {
	self := n.Self()

	if !n.pool.Ping(ctx, peerAddr) {
		return fmt.Errorf("join: peer %s does not respond", peerAddr)
	}

	succ, err := n.pool.FindSuccessor(ctx, peerAddr, self.ID)
	if err != nil {
		return fmt.Errorf("join: resolving successor via %s: %w", peerAddr, err)
	}
	n.table.SetSuccessor(&succ)
	n.lgr.Info("joined ring", logger.FNode("self", self), logger.FNode("successor", succ))

	succSucc, err := n.pool.GetSuccessor(ctx, succ.Addr)
	if err == nil && succSucc != nil && succSucc.ID.Equal(succ.ID) {
		n.table.SetPredecessor(&succ)
		n.table.SetPredecessor2(&self)
		if err := n.pool.NotAlone(ctx, succ.Addr, self); err != nil {
			n.lgr.Warn("notify-not-alone failed", logger.F("error", err.Error()))
		}
	}
	return nil
}

// FindSuccessor resolves the node responsible for id, recursing through
// remote peers when the answer isn't local. Grounded on the original
// implementation's FindSucc/closest-preceding-finger walk, generalized
// to an explicit recursive RPC chain rather than Koorde's de Bruijn
// routing.
func (n *Node) FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error) {
	self := n.Self()
	if id.Equal(self.ID) {
		return self, nil
	}

	succ := n.table.Successor()
	if succ == nil {
		return self, nil
	}
	if id.Between(self.ID, succ.ID) {
		return *succ, nil
	}

	for _, candidate := range n.table.PrecedingCandidates(id) {
		if !n.pool.Ping(ctx, candidate.Addr) {
			continue
		}
		if found, err := n.pool.FindSuccessor(ctx, candidate.Addr, id); err == nil {
			return found, nil
		}
	}
	// no finger qualified or all were unreachable: degrade to a linear walk
	return *succ, nil
}

// FindPred resolves the node whose successor is responsible for id,
// one hop short of FindSuccessor's answer. Used by check-predecessor to
// re-anchor the predecessor chain when both pred and pred2 have failed.
func (n *Node) FindPred(ctx context.Context, id domain.ID) (domain.Node, error) {
	self := n.Self()
	succ := n.table.Successor()
	if succ == nil || id.Between(self.ID, succ.ID) {
		return self, nil
	}

	for _, candidate := range n.table.PrecedingCandidates(id) {
		if !n.pool.Ping(ctx, candidate.Addr) {
			continue
		}
		if found, err := n.pool.FindPred(ctx, candidate.Addr, id); err == nil {
			return found, nil
		}
	}
	return self, nil
}

// GetPredecessor returns this node's predecessor, or nil if it has
// none.
func (n *Node) GetPredecessor() *domain.Node {
	return n.table.Predecessor()
}

// GetSuccessor returns this node's successor.
func (n *Node) GetSuccessor() *domain.Node {
	return n.table.Successor()
}

// Notify handles a remote node announcing itself as a candidate
// predecessor: adopt it if we have none, or if it sits strictly between
// our current predecessor and us.
func (n *Node) Notify(candidate domain.Node) {
	self := n.Self()
	if candidate.ID.Equal(self.ID) {
		return
	}
	cur := n.table.Predecessor()
	if cur == nil || candidate.ID.Between(cur.ID, self.ID) {
		if cur != nil {
			n.table.SetPredecessor2(cur)
		}
		n.table.SetPredecessor(&candidate)
		n.lgr.Info("predecessor updated via notify", logger.FNode("predecessor", candidate))
	}
}

// NotAlone handles the message a lone ring member receives when a
// second node joins: adopt it as both successor and predecessor.
func (n *Node) NotAlone(joining domain.Node) {
	self := n.Self()
	n.table.SetSuccessor(&joining)
	n.table.SetPredecessor(&joining)
	n.table.SetPredecessor2(&self)
	n.lgr.Info("adopted first peer", logger.FNode("peer", joining))
}

// UpdateSucc unconditionally adopts newSucc as this node's successor.
// Called by a node that just confirmed its old predecessor dead, so the
// reviving predecessor learns its new successor without waiting a full
// stabilization cycle.
func (n *Node) UpdateSucc(newSucc domain.Node) {
	n.table.SetSuccessor(&newSucc)
	n.lgr.Info("successor updated via update-succ", logger.FNode("successor", newSucc))
}

// Ping reports liveness; always true for a live Node reachable enough
// to handle the RPC.
func (n *Node) Ping() bool { return true }
