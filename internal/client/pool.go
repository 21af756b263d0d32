// Package client manages outbound gRPC connections to ring peers: a
// small dial cache with idle eviction (the teacher's Manager pattern),
// and typed helpers wrapping the ring.v1 RPCs (the teacher's
// internal/client/query.go pattern). Peers are addressed by value
// (domain.Node); no ring component ever stores a live connection
// itself.
package client

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	ringv1 "ringscrape/internal/api/ring/v1"
	"ringscrape/internal/logger"
)

type connEntry struct {
	conn     *grpc.ClientConn
	lastUsed time.Time
}

// Pool caches gRPC connections by dial address.
type Pool struct {
	lgr logger.Logger

	mu             sync.RWMutex
	conns          map[string]*connEntry
	dialTimeout    time.Duration
	failureTimeout time.Duration
	idleTTL        time.Duration
	stopCh         chan struct{}
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(p *Pool) { p.lgr = lgr }
}

// New creates a pool. dialTimeout bounds how long a fresh dial may take;
// failureTimeout bounds every RPC issued through the pool; idleTTL, if
// >0, closes connections that have sat idle for that long.
func New(dialTimeout, failureTimeout, idleTTL time.Duration, opts ...Option) *Pool {
	p := &Pool{
		lgr:            &logger.NopLogger{},
		conns:          make(map[string]*connEntry),
		dialTimeout:    dialTimeout,
		failureTimeout: failureTimeout,
		idleTTL:        idleTTL,
		stopCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if idleTTL > 0 {
		go p.evictLoop()
	}
	return p
}

// FailureTimeout is the timeout background stabilization tasks should
// apply to a single RPC before treating the peer as unreachable.
func (p *Pool) FailureTimeout() time.Duration {
	return p.failureTimeout
}

// Close shuts down every cached connection and stops the eviction loop.
func (p *Pool) Close() error {
	close(p.stopCh)
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for addr, ce := range p.conns {
		if err := ce.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, addr)
	}
	return firstErr
}

// Get returns a RingClient bound to a cached or freshly-dialed
// connection to addr.
func (p *Pool) Get(ctx context.Context, addr string) (ringv1.RingClient, error) {
	conn, err := p.getConn(ctx, addr)
	if err != nil {
		return nil, err
	}
	return ringv1.NewRingClient(conn), nil
}

func (p *Pool) getConn(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	p.mu.RLock()
	if ce, ok := p.conns[addr]; ok {
		ce.lastUsed = time.Now()
		c := ce.conn
		p.mu.RUnlock()
		return c, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if ce, ok := p.conns[addr]; ok {
		ce.lastUsed = time.Now()
		return ce.conn, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithBlock())
	if err != nil {
		return nil, err
	}
	p.conns[addr] = &connEntry{conn: conn, lastUsed: time.Now()}
	p.lgr.Debug("dialed new connection", logger.F("addr", addr))
	return conn, nil
}

// Evict drops and closes any cached connection to addr, forcing the
// next Get to dial fresh. Used when a peer is declared dead.
func (p *Pool) Evict(addr string) {
	p.mu.Lock()
	ce, ok := p.conns[addr]
	if ok {
		delete(p.conns, addr)
	}
	p.mu.Unlock()
	if ok {
		_ = ce.conn.Close()
	}
}

func (p *Pool) evictLoop() {
	t := time.NewTicker(15 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-t.C:
			p.evictIdle()
		}
	}
}

func (p *Pool) evictIdle() {
	now := time.Now()
	var stale []*grpc.ClientConn
	p.mu.Lock()
	for addr, ce := range p.conns {
		if now.Sub(ce.lastUsed) >= p.idleTTL {
			stale = append(stale, ce.conn)
			delete(p.conns, addr)
		}
	}
	p.mu.Unlock()
	for _, c := range stale {
		_ = c.Close()
	}
}

// DebugLog emits a DEBUG-level snapshot of the pool's cached addresses.
func (p *Pool) DebugLog() {
	p.mu.RLock()
	addrs := make([]string, 0, len(p.conns))
	for addr := range p.conns {
		addrs = append(addrs, addr)
	}
	p.mu.RUnlock()
	p.lgr.Debug("client pool snapshot", logger.F("connections", addrs))
}
