package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ringscrape/internal/domain"
)

// FileMirror persists scraped pages to disk under dir, one zip archive
// per URL plus an index.txt listing every URL currently stored, the
// layout a node keeps at database/<own-addr>/.
type FileMirror struct {
	dir string
	mu  sync.Mutex
}

// NewFileMirror creates the mirror directory (and its index file) if it
// does not already exist.
func NewFileMirror(dir string) (*FileMirror, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filemirror: mkdir %s: %w", dir, err)
	}
	idx := filepath.Join(dir, "index.txt")
	if _, err := os.Stat(idx); os.IsNotExist(err) {
		if err := os.WriteFile(idx, nil, 0o644); err != nil {
			return nil, fmt.Errorf("filemirror: create index: %w", err)
		}
	}
	return &FileMirror{dir: dir}, nil
}

// filename converts a URL into the archive filename convention: strip
// the scheme, replace every '/' with '_', append .zip.
func filename(url string) string {
	s := url
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.ReplaceAll(s, "/", "_")
	return s + ".zip"
}

// Save writes the page's archive to disk and appends its URL to the
// index if not already present.
func (m *FileMirror) Save(p domain.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.dir, filename(p.URL))
	if err := os.WriteFile(path, p.Archive, 0o644); err != nil {
		return fmt.Errorf("filemirror: write %s: %w", path, err)
	}
	return m.appendIndex(p.URL)
}

func (m *FileMirror) appendIndex(url string) error {
	idx := filepath.Join(m.dir, "index.txt")
	f, err := os.Open(idx)
	if err != nil {
		return fmt.Errorf("filemirror: open index: %w", err)
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == url {
			f.Close()
			return nil
		}
	}
	f.Close()

	out, err := os.OpenFile(idx, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("filemirror: append index: %w", err)
	}
	defer out.Close()
	_, err = fmt.Fprintln(out, url)
	return err
}

// Remove deletes the page's archive from disk and its index entry.
func (m *FileMirror) Remove(p domain.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.dir, filename(p.URL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filemirror: remove %s: %w", path, err)
	}
	return m.rewriteIndexWithout(p.URL)
}

func (m *FileMirror) rewriteIndexWithout(url string) error {
	idx := filepath.Join(m.dir, "index.txt")
	f, err := os.Open(idx)
	if err != nil {
		return fmt.Errorf("filemirror: open index: %w", err)
	}
	var kept []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != url {
			kept = append(kept, scanner.Text())
		}
	}
	f.Close()
	return os.WriteFile(idx, []byte(strings.Join(kept, "\n")+"\n"), 0o644)
}

// WipeAll removes the entire mirror directory. Called on shutdown: a
// node's scraped cache does not survive a restart.
func (m *FileMirror) WipeAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return os.RemoveAll(m.dir)
}
