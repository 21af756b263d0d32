package client

import (
	"context"
	"errors"
	"fmt"

	ringv1 "ringscrape/internal/api/ring/v1"
	"ringscrape/internal/domain"
)

// ErrUnreachable wraps any transport-level failure talking to a peer
// (dial failure, RPC timeout, connection reset). Callers use it to
// decide whether a neighbor should be considered dead.
var ErrUnreachable = errors.New("peer unreachable")

func toNodeRef(n domain.Node) *ringv1.NodeRef {
	return &ringv1.NodeRef{Id: uint32(n.ID), Addr: n.Addr}
}

func fromNodeRef(r *ringv1.NodeRef) *domain.Node {
	if r == nil {
		return nil
	}
	return &domain.Node{ID: domain.ID(r.Id), Addr: r.Addr}
}

func wrapErr(addr string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %v", addr, ErrUnreachable, err)
}

// FindSuccessor asks the peer at addr who is responsible for id.
func (p *Pool) FindSuccessor(ctx context.Context, addr string, id domain.ID) (domain.Node, error) {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return domain.Node{}, wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	resp, err := c.FindSuccessor(ctx, &ringv1.FindSuccessorRequest{TargetId: uint32(id)})
	if err != nil {
		p.Evict(addr)
		return domain.Node{}, wrapErr(addr, err)
	}
	n := fromNodeRef(resp.GetNode())
	if n == nil {
		return domain.Node{}, fmt.Errorf("%s: %w: empty successor in response", addr, ErrUnreachable)
	}
	return *n, nil
}

// FindPred asks the peer at addr for the node whose successor owns id —
// used to re-anchor a predecessor chain when both pred and pred2 have
// failed.
func (p *Pool) FindPred(ctx context.Context, addr string, id domain.ID) (domain.Node, error) {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return domain.Node{}, wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	resp, err := c.FindPred(ctx, &ringv1.FindPredRequest{TargetId: uint32(id)})
	if err != nil {
		p.Evict(addr)
		return domain.Node{}, wrapErr(addr, err)
	}
	n := fromNodeRef(resp.GetNode())
	if n == nil {
		return domain.Node{}, fmt.Errorf("%s: %w: empty node in FindPred response", addr, ErrUnreachable)
	}
	return *n, nil
}

// GetPredecessor asks the peer at addr for its current predecessor. A
// nil result with a nil error means the peer has none yet.
func (p *Pool) GetPredecessor(ctx context.Context, addr string) (*domain.Node, error) {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return nil, wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	resp, err := c.GetPredecessor(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return nil, wrapErr(addr, err)
	}
	return fromNodeRef(resp.GetNode()), nil
}

// GetSuccessor asks the peer at addr for its current successor.
func (p *Pool) GetSuccessor(ctx context.Context, addr string) (*domain.Node, error) {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return nil, wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	resp, err := c.GetSuccessor(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return nil, wrapErr(addr, err)
	}
	return fromNodeRef(resp.GetNode()), nil
}

// Notify tells the peer at addr that self believes it might be its
// predecessor.
func (p *Pool) Notify(ctx context.Context, addr string, self domain.Node) error {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	if _, err := c.Notify(ctx, &ringv1.NotifyRequest{Node: toNodeRef(self)}); err != nil {
		p.Evict(addr)
		return wrapErr(addr, err)
	}
	return nil
}

// NotAlone tells the lone ring member at addr about the joining node so
// it adopts it as both successor and predecessor.
func (p *Pool) NotAlone(ctx context.Context, addr string, joining domain.Node) error {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	if _, err := c.NotAlone(ctx, &ringv1.NotAloneRequest{Node: toNodeRef(joining)}); err != nil {
		p.Evict(addr)
		return wrapErr(addr, err)
	}
	return nil
}

// UpdateSucc tells the peer at addr to unconditionally adopt self as its
// successor, called by a node that just confirmed its old predecessor
// dead so the reviving predecessor doesn't wait a full stabilization
// cycle to learn its new successor.
func (p *Pool) UpdateSucc(ctx context.Context, addr string, self domain.Node) error {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return wrapErr(addr, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	if _, err := c.UpdateSucc(ctx, &ringv1.UpdateSuccRequest{Node: toNodeRef(self)}); err != nil {
		p.Evict(addr)
		return wrapErr(addr, err)
	}
	return nil
}

// Ping checks liveness of the peer at addr.
func (p *Pool) Ping(ctx context.Context, addr string) bool {
	c, err := p.Get(ctx, addr)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.failureTimeout)
	defer cancel()
	resp, err := c.Ping(ctx, &ringv1.Empty{})
	if err != nil {
		p.Evict(addr)
		return false
	}
	return resp.GetOk()
}

// IsUnreachable reports whether err originated from a failed RPC rather
// than an application-level rejection.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
