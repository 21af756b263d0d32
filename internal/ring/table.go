// Package ring implements Chord-style membership, routing and
// stabilization: a node's successor/predecessor/pred2 pointers and
// finger table, the recursive FindSuccessor lookup, and the background
// tasks that keep them converged after joins and failures.
package ring

import (
	"fmt"
	"sync"

	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
)

// entry is a single mutex-guarded routing table slot. Modeled on the
// teacher's routingEntry: a struct (not a bare pointer) so a nil node
// can be stored and read without racing the pointer itself.
type entry struct {
	node *domain.Node
	mu   sync.RWMutex
}

func (e *entry) get() *domain.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.node
}

func (e *entry) set(n *domain.Node) {
	e.mu.Lock()
	e.node = n
	e.mu.Unlock()
}

// Table holds one node's view of the ring: its successor, predecessor,
// second predecessor (kept for fast recovery when the predecessor
// fails) and finger table. It never holds a live connection — peers are
// addressed by domain.Node and dialed through a client pool owned
// elsewhere.
type Table struct {
	lgr  logger.Logger
	self domain.Node

	succ    *entry
	pred    *entry
	pred2   *entry
	fingers []*entry // fingers[i] ~ successor(self.ID + 2^i), i in [0, domain.Bits)

	nextFix int // round-robin cursor used by fix-fingers
	fixMu   sync.Mutex
}

// TableOption configures a Table at construction time.
type TableOption func(*Table)

// WithTableLogger attaches a structured logger.
func WithTableLogger(lgr logger.Logger) TableOption {
	return func(t *Table) { t.lgr = lgr }
}

// NewTable creates a routing table for self with every pointer unset.
func NewTable(self domain.Node, opts ...TableOption) *Table {
	t := &Table{
		lgr:     &logger.NopLogger{},
		self:    self,
		succ:    &entry{},
		pred:    &entry{},
		pred2:   &entry{},
		fingers: make([]*entry, domain.Bits),
	}
	for i := range t.fingers {
		t.fingers[i] = &entry{}
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lgr.Debug("routing table initialized", logger.FNode("self", t.self))
	return t
}

// InitSolo configures the table as a brand-new, single-member ring: the
// node is its own successor and has no predecessor.
func (t *Table) InitSolo() {
	self := t.self
	t.succ.set(&self)
	t.pred.set(nil)
	t.pred2.set(nil)
	t.lgr.Debug("routing table reset to solo ring", logger.FNode("self", t.self))
}

func (t *Table) Self() domain.Node { return t.self }

func (t *Table) Successor() *domain.Node   { return t.succ.get() }
func (t *Table) SetSuccessor(n *domain.Node) {
	t.succ.set(n)
	t.lgr.Debug("successor updated", logger.FNode("successor", derefOrZero(n)))
}

func (t *Table) Predecessor() *domain.Node { return t.pred.get() }
func (t *Table) SetPredecessor(n *domain.Node) {
	t.pred.set(n)
	t.lgr.Debug("predecessor updated", logger.FNode("predecessor", derefOrZero(n)))
}

func (t *Table) Predecessor2() *domain.Node { return t.pred2.get() }
func (t *Table) SetPredecessor2(n *domain.Node) {
	t.pred2.set(n)
}

// Finger returns the i-th finger table entry.
func (t *Table) Finger(i int) *domain.Node {
	if i < 0 || i >= len(t.fingers) {
		return nil
	}
	return t.fingers[i].get()
}

// SetFinger updates the i-th finger table entry.
func (t *Table) SetFinger(i int, n *domain.Node) {
	if i < 0 || i >= len(t.fingers) {
		t.lgr.Warn("SetFinger: index out of range", logger.F("index", i))
		return
	}
	t.fingers[i].set(n)
}

// NextFixTarget advances the fix-fingers round-robin cursor and returns
// the (index, target id) pair the caller should resolve next.
func (t *Table) NextFixTarget() (int, domain.ID) {
	t.fixMu.Lock()
	defer t.fixMu.Unlock()
	t.nextFix = (t.nextFix + 1) % len(t.fingers)
	return t.nextFix, t.self.ID.Offset(t.nextFix)
}

// FingerList returns every non-nil finger, for diagnostics.
func (t *Table) FingerList() []*domain.Node {
	out := make([]*domain.Node, 0, len(t.fingers))
	for _, e := range t.fingers {
		if n := e.get(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ClosestPrecedingFinger scans the finger table from the farthest entry
// down to the nearest and returns the closest known node preceding id
// that sits strictly between self and id. Falls back to self if no
// finger qualifies.
func (t *Table) ClosestPrecedingFinger(id domain.ID) domain.Node {
	for i := len(t.fingers) - 1; i >= 0; i-- {
		f := t.fingers[i].get()
		if f != nil && f.ID.Between(t.self.ID, id) && !f.ID.Equal(id) {
			return *f
		}
	}
	return t.self
}

// PrecedingCandidates returns every distinct finger strictly between
// self and id, ordered from farthest to nearest. FindSuccessor walks
// this list and asks the first one that responds to Ping, so a single
// dead finger doesn't force a fall back to the successor.
func (t *Table) PrecedingCandidates(id domain.ID) []domain.Node {
	seen := make(map[domain.ID]bool)
	out := make([]domain.Node, 0, len(t.fingers))
	for i := len(t.fingers) - 1; i >= 0; i-- {
		f := t.fingers[i].get()
		if f == nil || !f.ID.Between(t.self.ID, id) || f.ID.Equal(id) || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, *f)
	}
	return out
}

// DebugLog emits a single DEBUG snapshot of the table's pointers.
func (t *Table) DebugLog() {
	succ := derefOrZero(t.succ.get())
	pred := derefOrZero(t.pred.get())
	pred2 := derefOrZero(t.pred2.get())
	fingers := make([]string, 0, len(t.fingers))
	for i, e := range t.fingers {
		if n := e.get(); n != nil {
			fingers = append(fingers, fmt.Sprintf("%d:%s", i, n.ID.String()))
		}
	}
	t.lgr.Debug("ring status",
		logger.FNode("self", t.self),
		logger.FNode("successor", succ),
		logger.FNode("predecessor", pred),
		logger.FNode("predecessor2", pred2),
		logger.F("fingers", fingers),
	)
}

func derefOrZero(n *domain.Node) domain.Node {
	if n == nil {
		return domain.Node{}
	}
	return *n
}
