package ring

import (
	"context"
	"time"

	"ringscrape/internal/config"
	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
)

// StartStabilizers launches the background goroutines that keep a
// node's successor/predecessor/finger pointers converged: stabilize,
// fix-fingers, check-predecessor and a periodic status logger. Mirrors
// the original implementation's four daemon threads, one goroutine per
// loop with its own ticker instead of a shared scheduler.
func (n *Node) StartStabilizers(ctx context.Context, cfg config.RingConfig) {
	go n.stabilizeLoop(ctx, cfg.StabilizeInterval, cfg.FailureTimeout)
	go n.fixFingersLoop(ctx, cfg.FixFingersInterval)
	go n.checkPredecessorLoop(ctx, cfg.CheckPredecessorInterval, cfg.FailureTimeout)
	go n.statusLoop(ctx, cfg.StabilizeInterval*2)
}

func (n *Node) stabilizeLoop(ctx context.Context, interval, timeout time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.stabilize(ctx, timeout)
		}
	}
}

// stabilize asks our successor for its predecessor, adopts it if it
// looks closer than our current successor, and notifies the successor
// that we believe we might be its predecessor.
func (n *Node) stabilize(ctx context.Context, timeout time.Duration) {
	self := n.Self()
	succ := n.table.Successor()
	if succ == nil || succ.ID.Equal(self.ID) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !n.pool.Ping(cctx, succ.Addr) {
		n.lgr.Warn("successor unreachable during stabilize", logger.FNode("successor", *succ))
		return
	}

	succPred, err := n.pool.GetPredecessor(cctx, succ.Addr)
	if err == nil && succPred != nil && succPred.ID.Between(self.ID, succ.ID) && !succPred.ID.Equal(succ.ID) {
		n.table.SetSuccessor(succPred)
		n.lgr.Info("successor updated during stabilize", logger.FNode("successor", *succPred))
		succ = succPred
	}

	if err := n.pool.Notify(cctx, succ.Addr, self); err != nil {
		n.lgr.Warn("notify failed during stabilize", logger.F("error", err.Error()))
	}

	if pred := n.table.Predecessor(); pred != nil {
		if n.pool.Ping(cctx, pred.Addr) {
			if p2, err := n.pool.GetPredecessor(cctx, pred.Addr); err == nil {
				n.table.SetPredecessor2(p2)
			}
		}
	}
}

func (n *Node) fixFingersLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.fixFingers(ctx)
		}
	}
}

// fixFingers resolves the next finger table slot in round-robin order.
func (n *Node) fixFingers(ctx context.Context) {
	i, target := n.table.NextFixTarget()
	succ, err := n.FindSuccessor(ctx, target)
	if err != nil {
		n.lgr.Warn("fix-fingers lookup failed", logger.F("index", i), logger.F("error", err.Error()))
		return
	}
	n.table.SetFinger(i, &succ)
}

func (n *Node) checkPredecessorLoop(ctx context.Context, interval, timeout time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.checkPredecessor(ctx, timeout)
		}
	}
}

// checkPredecessor pings our predecessor and, if it has failed, falls
// back to the second predecessor; if that has also failed, re-anchors
// by asking our own FindPred for pred2's id. Grounded on the original
// implementation's _check_predecessor.
func (n *Node) checkPredecessor(ctx context.Context, timeout time.Duration) {
	pred := n.table.Predecessor()
	if pred == nil {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if n.pool.Ping(cctx, pred.Addr) {
		return
	}
	n.lgr.Info("predecessor unresponsive, replacing", logger.FNode("predecessor", *pred))

	self := n.Self()
	pred2 := n.table.Predecessor2()

	// Each fallback step gets a fresh timeout: a failed dial to a dead
	// peer can use up a whole budget and leave none for the next step.
	cancel()
	cctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	var newPred *domain.Node
	switch {
	case pred2 == nil:
		// No fallback to try; mirrors the original's unhandled-exception
		// path, which also collapses straight to solo in this case.
		n.resetToSolo()
		return
	case n.pool.Ping(cctx, pred2.Addr):
		newPred = pred2
	default:
		cancel()
		cctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		anchor, err := n.FindPred(cctx, pred2.ID)
		if err != nil {
			n.lgr.Warn("find-pred re-anchor failed", logger.F("error", err.Error()))
			n.resetToSolo()
			return
		}
		newPred = &anchor
	}

	if newPred.ID.Equal(self.ID) {
		n.resetToSolo()
		return
	}

	n.table.SetPredecessor(newPred)
	if np2, err := n.pool.GetPredecessor(cctx, newPred.Addr); err == nil {
		n.table.SetPredecessor2(np2)
	}
	n.lgr.Info("predecessor replaced", logger.FNode("predecessor", *newPred))

	if err := n.pool.UpdateSucc(cctx, newPred.Addr, self); err != nil {
		n.lgr.Warn("update-succ failed", logger.F("error", err.Error()))
	}
}

// resetToSolo clears predecessor state and reverts to a single-member
// ring, used once a node has lost every neighbor it knew about.
func (n *Node) resetToSolo() {
	self := n.Self()
	n.table.SetPredecessor(nil)
	n.table.SetPredecessor2(nil)
	n.table.SetSuccessor(&self)
	n.lgr.Info("lost all peers, reverted to solo ring")
}

func (n *Node) statusLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n.table.DebugLog()
		}
	}
}
