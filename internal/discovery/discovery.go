// Package discovery implements LAN autodiscovery of an existing ring.
// Two independent probe channels coexist, mirroring the original
// implementation's AutoDiscoveryNode: a directed-broadcast channel used
// for node-to-node bootstrap (_discover_existing_nodes /
// _broadcast_listener) and a multicast channel used for client-to-node
// bootstrap (_multicast_listener). Both are best-effort UDP and never
// block the main routing path.
package discovery

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"ringscrape/internal/config"
	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
)

const (
	discoverMsg        = "DISCOVER"
	discoverRequestMsg = "DISCOVER_REQUEST"
)

// Discoverer answers and issues LAN discovery probes on both the
// broadcast and multicast channels.
type Discoverer struct {
	lgr       logger.Logger
	group     string
	port      int
	bcastPort int
	timeout   time.Duration
	self      string // advertised "host:port" this node answers probes with
}

// Option configures a Discoverer at construction time.
type Option func(*Discoverer)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(d *Discoverer) { d.lgr = lgr }
}

// New builds a Discoverer from the discovery section of the node
// config. self is the "host:port" this node advertises in response to
// probes.
func New(cfg config.DiscoveryConfig, self string, opts ...Option) *Discoverer {
	d := &Discoverer{
		lgr:       &logger.NopLogger{},
		group:     cfg.MulticastGroup,
		port:      cfg.MulticastPort,
		bcastPort: cfg.BroadcastPort,
		timeout:   cfg.Timeout,
		self:      self,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// selfIP returns the bare host portion of self, used to ignore our own
// broadcast replies (the directed broadcast reaches the sender too).
func (d *Discoverer) selfIP() string {
	host, _, err := net.SplitHostPort(d.self)
	if err != nil {
		return d.self
	}
	return host
}

// DiscoverBroadcast sends a DISCOVER_REQUEST to the LAN's directed
// broadcast address and waits up to its configured timeout for a
// unicast reply from an existing ring member. Grounded on the original
// implementation's _discover_existing_nodes: replies carrying our own
// IP are ignored, so a node never mistakes its own broadcast listener
// answering for a peer. Returns ("", false) if nothing answers, meaning
// the caller should start a brand-new ring.
func (d *Discoverer) DiscoverBroadcast(ctx context.Context) (string, bool) {
	bcastAddr, err := directedBroadcastAddr()
	if err != nil {
		d.lgr.Warn("no broadcast-capable interface found", logger.F("error", err.Error()))
		return "", false
	}

	lc := net.ListenConfig{Control: setBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		d.lgr.Warn("broadcast discovery socket failed", logger.F("error", err.Error()))
		return "", false
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	deadline := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	dst := &net.UDPAddr{IP: bcastAddr, Port: d.bcastPort}
	if _, err := conn.WriteToUDP([]byte(discoverRequestMsg), dst); err != nil {
		d.lgr.Warn("broadcast probe send failed", logger.F("error", err.Error()))
		return "", false
	}

	self := d.selfIP()
	buf := make([]byte, 256)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			d.lgr.Info("no existing ring discovered via broadcast")
			return "", false
		}
		peer := string(buf[:n])
		peerIP := peer
		if host, _, err := net.SplitHostPort(peer); err == nil {
			peerIP = host
		}
		if peerIP == self {
			continue
		}
		d.lgr.Info("discovered existing ring member via broadcast", logger.F("peer", peer))
		return peer, true
	}
}

// Discover sends a multicast probe and waits up to its configured
// timeout for a reply. Returns ("", false) if no existing ring member
// answered, meaning the caller should start a brand-new ring.
func (d *Discoverer) Discover(ctx context.Context) (string, bool) {
	addr := &net.UDPAddr{IP: net.ParseIP(d.group), Port: d.port}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		d.lgr.Warn("discovery dial failed", logger.F("error", err.Error()))
		return "", false
	}
	defer conn.Close()

	deadline := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(discoverMsg)); err != nil {
		d.lgr.Warn("discovery probe send failed", logger.F("error", err.Error()))
		return "", false
	}

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		d.lgr.Info("no existing ring discovered, starting new ring")
		return "", false
	}
	peer := string(buf[:n])
	d.lgr.Info("discovered existing ring member", logger.F("peer", peer))
	return peer, true
}

// ServeBroadcast listens on the broadcast port and answers every
// DISCOVER_REQUEST with self's advertised address. Grounded on the
// original implementation's _broadcast_listener. Blocks until ctx is
// canceled.
func (d *Discoverer) ServeBroadcast(ctx context.Context) error {
	lc := net.ListenConfig{Control: setReuseAddr}
	pc, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf(":%d", d.bcastPort))
	if err != nil {
		return fmt.Errorf("broadcast discovery listener: %w", err)
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	buf := make([]byte, 256)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if string(buf[:n]) != discoverRequestMsg {
			continue
		}
		if _, err := conn.WriteToUDP([]byte(d.self), raddr); err != nil {
			d.lgr.Warn("broadcast discovery reply failed", logger.F("error", err.Error()))
			continue
		}
		d.lgr.Debug("answered broadcast discovery probe", logger.F("from", raddr.String()))
	}
}

// Serve listens on the multicast group and answers every probe with
// self's advertised address. Blocks until ctx is canceled.
func (d *Discoverer) Serve(ctx context.Context) error {
	laddr := &net.UDPAddr{IP: net.IPv4zero, Port: d.port}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return fmt.Errorf("discovery listener: %w", err)
	}
	defer conn.Close()

	pc := ipv4.NewPacketConn(conn)
	if iface, err := firstMulticastInterface(); err == nil {
		if err := pc.JoinGroup(iface, &net.UDPAddr{IP: net.ParseIP(d.group)}); err != nil {
			d.lgr.Warn("joining multicast group failed", logger.F("error", err.Error()))
		}
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	buf := make([]byte, 256)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if string(buf[:n]) != discoverMsg {
			continue
		}
		if _, err := conn.WriteToUDP([]byte(d.self), raddr); err != nil {
			d.lgr.Warn("discovery reply failed", logger.F("error", err.Error()))
			continue
		}
		d.lgr.Debug("answered discovery probe", logger.F("from", raddr.String()))
	}
}

// LanBootstrap adapts a Discoverer to the bootstrap.Bootstrap interface:
// Discover probes the LAN once, Register/Deregister start and stop the
// background listener that answers other nodes' probes.
type LanBootstrap struct {
	d      *Discoverer
	cancel context.CancelFunc
}

// NewLanBootstrap wraps d as a bootstrap.Bootstrap.
func NewLanBootstrap(d *Discoverer) *LanBootstrap {
	return &LanBootstrap{d: d}
}

// Discover probes the broadcast channel first, since that's the one
// meant for node-to-node bootstrap, and falls back to the multicast
// channel if nothing answers.
func (b *LanBootstrap) Discover(ctx context.Context) ([]string, error) {
	if peer, ok := b.d.DiscoverBroadcast(ctx); ok {
		return []string{peer}, nil
	}
	if peer, ok := b.d.Discover(ctx); ok {
		return []string{peer}, nil
	}
	return nil, nil
}

// Register starts answering other nodes' discovery probes on both
// channels in the background until Deregister is called.
func (b *LanBootstrap) Register(ctx context.Context, _ *domain.Node) error {
	serveCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go func() {
		if err := b.d.Serve(serveCtx); err != nil {
			b.d.lgr.Warn("multicast discovery listener stopped", logger.F("error", err.Error()))
		}
	}()
	go func() {
		if err := b.d.ServeBroadcast(serveCtx); err != nil {
			b.d.lgr.Warn("broadcast discovery listener stopped", logger.F("error", err.Error()))
		}
	}()
	return nil
}

// Deregister stops answering discovery probes.
func (b *LanBootstrap) Deregister(ctx context.Context, _ *domain.Node) error {
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}

func firstMulticastInterface() (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		iface := ifaces[i]
		if iface.Flags&net.FlagMulticast != 0 && iface.Flags&net.FlagUp != 0 {
			return &iface, nil
		}
	}
	return nil, fmt.Errorf("no multicast-capable interface found")
}

// directedBroadcastAddr computes the subnet broadcast address (host |
// ^mask) of the first up, non-loopback IPv4 interface. The original
// implementation used a fixed BROADCAST_ADDRESS constant; deriving it
// from the live interface avoids hardcoding a LAN-specific value.
func directedBroadcastAddr() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		iface := ifaces[i]
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil {
				continue
			}
			bcast := make(net.IP, len(ip4))
			for i := range ip4 {
				bcast[i] = ip4[i] | ^ipnet.Mask[i]
			}
			return bcast, nil
		}
	}
	return nil, fmt.Errorf("no broadcast-capable IPv4 interface found")
}

// setBroadcast enables SO_BROADCAST on a raw socket so sends to the
// directed broadcast address aren't rejected by the kernel.
func setBroadcast(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

// setReuseAddr enables SO_REUSEADDR, matching the original broadcast
// listener so a restart doesn't fail to rebind the port.
func setReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}
