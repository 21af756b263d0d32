// Package scraper fetches a URL, renders its HTML, and packages the
// result as a zip archive byte blob. Grounded on the original
// implementation's scrape()/compress(): BeautifulSoup's prettify
// becomes golang.org/x/net/html's tree walk + re-render, and the
// on-disk folder-then-zip dance becomes an in-memory
// archive/zip.Writer since stored artifacts are opaque byte blobs to
// the rest of the system.
package scraper

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (compatible; ringscrape/1.0)"

// ErrUpstream wraps any failure fetching the remote page: non-2xx
// status, network error, or a malformed response body.
type ErrUpstream struct {
	URL string
	Err error
}

func (e *ErrUpstream) Error() string { return fmt.Sprintf("scraping %s: %v", e.URL, e.Err) }
func (e *ErrUpstream) Unwrap() error { return e.Err }

// Scraper fetches pages over HTTP with a bounded timeout.
type Scraper struct {
	client  *http.Client
	timeout time.Duration
}

// New builds a Scraper with the given per-request timeout.
func New(timeout time.Duration) *Scraper {
	return &Scraper{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// Fetch retrieves url, re-serializes its HTML, and returns a zip
// archive containing a single index.html entry.
func (s *Scraper) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ErrUpstream{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ErrUpstream{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErrUpstream{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &ErrUpstream{URL: url, Err: fmt.Errorf("parsing response body: %w", err)}
	}

	var rendered bytes.Buffer
	if err := html.Render(&rendered, doc); err != nil {
		return nil, &ErrUpstream{URL: url, Err: fmt.Errorf("rendering document: %w", err)}
	}

	return pack(rendered.Bytes())
}

// pack wraps page content into a single-entry zip archive, the
// in-memory analogue of the original implementation's
// folder-of-index.html-then-zip step.
func pack(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(w, bytes.NewReader(content)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
