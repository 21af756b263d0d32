// Package frontdoor is the node's HTTP surface: scraping, account
// registration/login and the replication push endpoints neighbors call
// into. A request for a key this node doesn't own is redirected (307) to
// the node the ring says is responsible, mirroring the original
// implementation's server_node/authenticator redirect behavior.
package frontdoor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ringscrape/internal/auth"
	"ringscrape/internal/domain"
	"ringscrape/internal/logger"
	"ringscrape/internal/ring"
	"ringscrape/internal/scraper"
	"ringscrape/internal/storage"
)

// Server is the HTTP front door backed by a ring Node, a Store and a
// Scraper.
type Server struct {
	lgr     logger.Logger
	node    *ring.Node
	store   *storage.Store
	scraper *scraper.Scraper
	issuer  *auth.Issuer

	httpPort int

	inflight   map[domain.ID]*sync.Mutex
	inflightMu sync.Mutex

	srv *http.Server
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger attaches a structured logger.
func WithLogger(lgr logger.Logger) Option {
	return func(s *Server) { s.lgr = lgr }
}

// New wires a ring Node, Store, Scraper and token Issuer into an HTTP
// front door. httpPort is this node's own front-door port; redirects
// point at the responsible node's host on this same port.
func New(node *ring.Node, store *storage.Store, scr *scraper.Scraper, issuer *auth.Issuer, httpPort int, opts ...Option) *Server {
	s := &Server{
		lgr:      &logger.NopLogger{},
		node:     node,
		store:    store,
		scraper:  scr,
		issuer:   issuer,
		httpPort: httpPort,
		inflight: make(map[domain.ID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/scrape", s.handleScrape)
	mux.HandleFunc("/authenticate", s.handleAuthenticate)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/urls", s.handleURLs)
	mux.HandleFunc("/users", s.handleUsers)
	mux.HandleFunc("/replicate", s.handleReplicate)
	mux.HandleFunc("/replicate_users", s.handleReplicateUsers)

	s.srv = &http.Server{
		Handler: otelhttp.NewHandler(mux, "frontdoor"),
	}
	return s
}

// ListenAndServeOn serves HTTP on addr until Shutdown is called.
func (s *Server) ListenAndServeOn(addr string) error {
	s.srv.Addr = addr
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) responsibleAddr(ctx context.Context, key domain.ID) (domain.Node, bool, error) {
	owner, err := s.node.FindSuccessor(ctx, key)
	if err != nil {
		return domain.Node{}, false, err
	}
	return owner, owner.Equal(s.node.Self()), nil
}

func peerHost(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}

func (s *Server) redirectTo(w http.ResponseWriter, r *http.Request, owner domain.Node) {
	url := fmt.Sprintf("http://%s:%d%s", peerHost(owner.Addr), s.httpPort, r.URL.RequestURI())
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// handleScrape serves POST /scrape?url=<target>. Requires a bearer
// token. Coalesces concurrent scrapes of the same URL so only one
// fetch happens at a time.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if _, err := s.requireToken(r); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}

	key := domain.Hash(url)
	owner, mine, err := s.responsibleAddr(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !mine {
		s.lgr.Info("redirecting scrape request", logger.F("url", url), logger.FNode("owner", owner))
		s.redirectTo(w, r, owner)
		return
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if !s.store.HasPage(key) {
		archive, err := s.scraper.Fetch(r.Context(), url)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		if err := s.store.PutPage(domain.Page{Key: key, URL: url, Archive: archive}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.lgr.Info("scraped page", logger.F("url", url))
	}

	page, err := s.store.GetPage(key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, key.String()))
	_, _ = w.Write(page.Archive)
}

func (s *Server) lockFor(key domain.ID) *sync.Mutex {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	l, ok := s.inflight[key]
	if !ok {
		l = &sync.Mutex{}
		s.inflight[key] = l
	}
	return l
}

func (s *Server) requireToken(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(hdr, prefix) {
		return "", fmt.Errorf("missing bearer token")
	}
	return s.issuer.VerifyToken(strings.TrimPrefix(hdr, prefix))
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return credentials{}, fmt.Errorf("invalid request body")
	}
	if c.Username == "" || c.Password == "" {
		return credentials{}, fmt.Errorf("username and password are required")
	}
	return c, nil
}

// handleAuthenticate serves POST /authenticate, registering a new user
// account and issuing a bearer token.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	creds, err := decodeCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := domain.Hash(creds.Username)
	owner, mine, err := s.responsibleAddr(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !mine {
		s.redirectTo(w, r, owner)
		return
	}

	if _, err := s.store.GetUser(key); err == nil {
		writeError(w, http.StatusConflict, fmt.Sprintf("user %s already exists", creds.Username))
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.store.PutUser(domain.User{Key: key, Username: creds.Username, PasswordHash: hash})

	token, err := s.issuer.IssueToken(creds.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

// handleLogin serves POST /login, verifying credentials and issuing a
// bearer token for an existing account.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	creds, err := decodeCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := domain.Hash(creds.Username)
	owner, mine, err := s.responsibleAddr(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !mine {
		s.redirectTo(w, r, owner)
		return
	}

	u, err := s.store.GetUser(key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "user not found, please register")
		return
	}
	if !auth.VerifyPassword(u.PasswordHash, creds.Password) {
		writeError(w, http.StatusConflict, "password does not match")
		return
	}

	token, err := s.issuer.IssueToken(creds.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

// handleURLs serves GET /urls, listing every URL stored locally, replicas
// included. Used by neighbors diffing what to replicate.
func (s *Server) handleURLs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.store.AllPageURLs())
}

type userWire struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// handleUsers serves GET /users, listing every user record stored
// locally, replicas included.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	users := s.store.AllUsers()
	wire := make([]userWire, 0, len(users))
	for _, u := range users {
		wire = append(wire, userWire{Username: u.Username, PasswordHash: u.PasswordHash})
	}
	writeJSON(w, http.StatusOK, wire)
}

// handleReplicate serves POST /replicate, a neighbor pushing a page this
// node should hold a copy of.
func (s *Server) handleReplicate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	url := r.FormValue("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url field")
		return
	}
	file, _, err := r.FormFile("content")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing content field")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	key := domain.Hash(url)
	if err := s.store.PutPage(domain.Page{Key: key, URL: url, Archive: content}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.lgr.Info("page received via replication", logger.F("url", url))
	writeJSON(w, http.StatusOK, map[string]string{"message": "replication successful"})
}

// handleReplicateUsers serves POST /replicate_users, a neighbor pushing
// user records this node should hold copies of.
func (s *Server) handleReplicateUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var wire []userWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, u := range wire {
		s.store.PutUser(domain.User{Key: domain.Hash(u.Username), Username: u.Username, PasswordHash: u.PasswordHash})
	}
	s.lgr.Info("users received via replication", logger.F("count", len(wire)))
	writeJSON(w, http.StatusOK, map[string]string{"message": "user replication successful"})
}
