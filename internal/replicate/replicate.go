// Package replicate runs the periodic neighbor-replication task: every
// interval it diffs this node's owned pages and users against its
// successor and predecessor and pushes whatever they're missing.
// Grounded on the original implementation's replicator role, translated
// from aiohttp client calls to net/http and from fire-and-forget asyncio
// tasks to a ticker-driven goroutine in the teacher's worker.go style.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
	"ringscrape/internal/ring"
	"ringscrape/internal/storage"
)

// Replicator pushes owned records to its neighbors on a fixed interval.
type Replicator struct {
	lgr    logger.Logger
	node   *ring.Node
	store  *storage.Store
	client *http.Client

	interval time.Duration
	httpPort int
}

// Option configures a Replicator at construction time.
type Option func(*Replicator)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(r *Replicator) { r.lgr = lgr }
}

// WithHTTPClient overrides the default HTTP client, chiefly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Replicator) { r.client = c }
}

// New builds a Replicator. httpPort is the front door's listening port on
// every peer (replication runs over HTTP, not the ring's gRPC service).
func New(node *ring.Node, store *storage.Store, interval time.Duration, httpPort int, opts ...Option) *Replicator {
	r := &Replicator{
		lgr:      &logger.NopLogger{},
		node:     node,
		store:    store,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: interval,
		httpPort: httpPort,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the replication loop until ctx is canceled.
func (r *Replicator) Start(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.replicateOnce(ctx)
		}
	}
}

// neighbors returns the distinct peers this node replicates to: its
// successor and predecessor, excluding itself and any duplicate. It does
// not check liveness; a dead neighbor just fails its fetches.
func (r *Replicator) neighbors() []domain.Node {
	self := r.node.Self()
	var out []domain.Node
	succ := r.node.Table().Successor()
	if succ != nil && !succ.Equal(self) {
		out = append(out, *succ)
	}
	pred := r.node.Table().Predecessor()
	if pred != nil && !pred.Equal(self) && (succ == nil || !pred.Equal(*succ)) {
		out = append(out, *pred)
	}
	return out
}

// ownedArcs returns the (from, to] arcs this node is responsible for:
// (pred2, pred] and (pred, self], or the whole ring if it has no
// predecessor yet.
func (r *Replicator) ownedArcs() [][2]domain.ID {
	self := r.node.Self()
	pred := r.node.Table().Predecessor()
	if pred == nil {
		return [][2]domain.ID{{self.ID, self.ID}}
	}
	pred2 := r.node.Table().Predecessor2()
	arcs := [][2]domain.ID{{pred.ID, self.ID}}
	if pred2 != nil {
		arcs = append(arcs, [2]domain.ID{pred2.ID, pred.ID})
	}
	return arcs
}

func (r *Replicator) owns(id domain.ID) bool {
	for _, arc := range r.ownedArcs() {
		if id.Between(arc[0], arc[1]) {
			return true
		}
	}
	return false
}

func (r *Replicator) replicateOnce(ctx context.Context) {
	neighbors := r.neighbors()
	if len(neighbors) == 0 {
		return
	}

	var ownedPages []domain.Page
	for _, url := range r.store.AllPageURLs() {
		key := domain.Hash(url)
		if r.owns(key) {
			if p, err := r.store.GetPage(key); err == nil {
				ownedPages = append(ownedPages, p)
			}
		}
	}

	ownedUsers := make([]domain.User, 0)
	for _, u := range r.store.AllUsers() {
		if r.owns(u.Key) {
			ownedUsers = append(ownedUsers, u)
		}
	}

	for _, n := range neighbors {
		r.replicateTo(ctx, n, ownedPages, ownedUsers)
	}
}

func (r *Replicator) replicateTo(ctx context.Context, peer domain.Node, pages []domain.Page, users []domain.User) {
	host := peerHost(peer.Addr)
	base := fmt.Sprintf("http://%s:%d", host, r.httpPort)

	neighborURLs, err := r.fetchURLs(ctx, base)
	if err != nil {
		r.lgr.Warn("fetching neighbor urls failed", logger.F("peer", peer.Addr), logger.F("error", err.Error()))
	} else {
		have := make(map[string]bool, len(neighborURLs))
		for _, u := range neighborURLs {
			have[u] = true
		}
		for _, p := range pages {
			if !have[p.URL] {
				if err := r.pushPage(ctx, base, p); err != nil {
					r.lgr.Warn("pushing page failed", logger.F("peer", peer.Addr), logger.F("url", p.URL), logger.F("error", err.Error()))
				}
			}
		}
	}

	neighborUsers, err := r.fetchUsers(ctx, base)
	if err != nil {
		r.lgr.Warn("fetching neighbor users failed", logger.F("peer", peer.Addr), logger.F("error", err.Error()))
		return
	}
	have := make(map[string]bool, len(neighborUsers))
	for _, u := range neighborUsers {
		have[u.Username] = true
	}
	var missing []domain.User
	for _, u := range users {
		if !have[u.Username] {
			missing = append(missing, u)
		}
	}
	if len(missing) > 0 {
		if err := r.pushUsers(ctx, base, missing); err != nil {
			r.lgr.Warn("pushing users failed", logger.F("peer", peer.Addr), logger.F("error", err.Error()))
		}
	}
}

func (r *Replicator) fetchURLs(ctx context.Context, base string) ([]string, error) {
	var urls []string
	if err := r.getJSON(ctx, base+"/urls", &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

type userWire struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

func (r *Replicator) fetchUsers(ctx context.Context, base string) ([]userWire, error) {
	var users []userWire
	if err := r.getJSON(ctx, base+"/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Replicator) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *Replicator) pushPage(ctx context.Context, base string, p domain.Page) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("url", p.URL); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("content", p.Key.String()+".zip")
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, bytes.NewReader(p.Archive)); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/replicate", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	r.lgr.Debug("page replicated", logger.F("url", p.URL), logger.F("target", base))
	return nil
}

func (r *Replicator) pushUsers(ctx context.Context, base string, users []domain.User) error {
	wire := make([]userWire, 0, len(users))
	for _, u := range users {
		wire = append(wire, userWire{Username: u.Username, PasswordHash: u.PasswordHash})
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/replicate_users", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	r.lgr.Debug("users replicated", logger.F("count", len(users)), logger.F("target", base))
	return nil
}

// peerHost strips a trailing gRPC port off a "host:port" dial address,
// since neighbors are replicated to over their HTTP front door port, not
// the ring RPC port they were dialed on.
func peerHost(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
