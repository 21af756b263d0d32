// Package storage holds the two record kinds a ring node is responsible
// for: scraped pages and user accounts. Both are guarded by a single
// RWMutex, the same shape the teacher uses for its key-value store,
// generalized to two maps instead of one.
package storage

import (
	"sort"
	"sync"

	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
)

// Store is an in-memory, concurrency-safe holder of the pages and users
// a node currently holds, its own and those replicated to it. A FileMirror, if configured, persists pages to
// disk alongside the in-memory copy.
type Store struct {
	lgr logger.Logger

	mu    sync.RWMutex
	pages map[domain.ID]domain.Page
	users map[domain.ID]domain.User

	mirror *FileMirror
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(s *Store) { s.lgr = lgr }
}

// WithFileMirror persists every page put/delete to disk under dir.
func WithFileMirror(mirror *FileMirror) Option {
	return func(s *Store) { s.mirror = mirror }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		lgr:   &logger.NopLogger{},
		pages: make(map[domain.ID]domain.Page),
		users: make(map[domain.ID]domain.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutPage inserts or replaces a page.
func (s *Store) PutPage(p domain.Page) error {
	s.mu.Lock()
	_, existed := s.pages[p.Key]
	s.pages[p.Key] = p
	s.mu.Unlock()
	if s.mirror != nil {
		if err := s.mirror.Save(p); err != nil {
			return err
		}
	}
	if existed {
		s.lgr.Debug("page updated", logger.F("url", p.URL))
	} else {
		s.lgr.Debug("page inserted", logger.F("url", p.URL))
	}
	return nil
}

// GetPage returns the page for id, or domain.ErrNotFound.
func (s *Store) GetPage(id domain.ID) (domain.Page, error) {
	s.mu.RLock()
	p, ok := s.pages[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Page{}, domain.ErrNotFound
	}
	return p, nil
}

// HasPage reports whether a page for url is already stored, without
// copying its archive. Used by the scrape-coalescing gate.
func (s *Store) HasPage(id domain.ID) bool {
	s.mu.RLock()
	_, ok := s.pages[id]
	s.mu.RUnlock()
	return ok
}

// DeletePage removes a page, if present.
func (s *Store) DeletePage(id domain.ID) error {
	s.mu.Lock()
	p, ok := s.pages[id]
	if ok {
		delete(s.pages, id)
	}
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	if s.mirror != nil {
		return s.mirror.Remove(p)
	}
	return nil
}

// PagesBetween returns every page whose key lies in the arc (from, to].
func (s *Store) PagesBetween(from, to domain.ID) []domain.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Page
	for _, p := range s.pages {
		if p.Key.Between(from, to) {
			out = append(out, p)
		}
	}
	return out
}

// AllPageURLs returns the URLs of every page stored on this node,
// replicas included, sorted.
func (s *Store) AllPageURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		urls = append(urls, p.URL)
	}
	sort.Strings(urls)
	return urls
}

// PutUser inserts or replaces a user record.
func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	s.users[u.Key] = u
	s.mu.Unlock()
	s.lgr.Debug("user record stored", logger.F("username", u.Username))
}

// GetUser returns the user record for id, or domain.ErrNotFound.
func (s *Store) GetUser(id domain.ID) (domain.User, error) {
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// UsersBetween returns every user whose key lies in the arc (from, to].
func (s *Store) UsersBetween(from, to domain.ID) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Key.Between(from, to) {
			out = append(out, u)
		}
	}
	return out
}

// AllUsers returns a snapshot of every user record stored on this node,
// replicas included.
func (s *Store) AllUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out
}

// DebugLog emits a DEBUG-level snapshot of the store's contents.
func (s *Store) DebugLog() {
	s.mu.RLock()
	urls := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		urls = append(urls, p.URL)
	}
	users := make([]string, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Username)
	}
	s.mu.RUnlock()
	sort.Strings(urls)
	sort.Strings(users)
	s.lgr.Debug("store snapshot",
		logger.F("pages", urls),
		logger.F("users", users),
	)
}

// Wipe clears the in-memory store and removes the on-disk mirror, if
// any. Called during graceful shutdown.
func (s *Store) Wipe() error {
	s.mu.Lock()
	s.pages = make(map[domain.ID]domain.Page)
	s.users = make(map[domain.ID]domain.User)
	s.mu.Unlock()
	if s.mirror != nil {
		return s.mirror.WipeAll()
	}
	return nil
}
