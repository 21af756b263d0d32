package ringtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ringscrape/internal/logger"
	"ringscrape/internal/ringtest/writer"
)

type recordingWriter struct {
	rows []string
}

func (r *recordingWriter) WriteRow(node, result string, delay time.Duration) error {
	r.rows = append(r.rows, result)
	return nil
}
func (r *recordingWriter) Flush() error { return nil }
func (r *recordingWriter) Close() error { return nil }

func TestRandomIntRespectsBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := randomInt(2, 5)
		if got < 2 || got > 5 {
			t.Fatalf("randomInt(2,5) = %d, out of bounds", got)
		}
	}
	if got := randomInt(3, 3); got != 3 {
		t.Errorf("randomInt(3,3) = %d, want 3", got)
	}
	if got := randomInt(5, 2); got != 5 {
		t.Errorf("randomInt with min>max = %d, want min (5)", got)
	}
}

func TestDoScrapeRecordsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scrape" {
			t.Errorf("path = %q, want /scrape", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	rw := &recordingWriter{}
	d := NewDriver(DriverConfig{
		RequestTimeout: time.Second,
		URLs:           []string{"http://example.com"},
	}, &logger.NopLogger{}, rw, nil)

	d.doScrape([]string{host})

	if len(rw.rows) != 1 || rw.rows[0] != "SUCCESS" {
		t.Fatalf("rows = %v, want [SUCCESS]", rw.rows)
	}
}

func TestDoScrapeRecordsRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://other/scrape", http.StatusTemporaryRedirect)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	rw := &recordingWriter{}
	d := NewDriver(DriverConfig{
		RequestTimeout: time.Second,
		URLs:           []string{"http://example.com"},
	}, &logger.NopLogger{}, rw, nil)
	d.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	d.doScrape([]string{host})

	if len(rw.rows) != 1 || rw.rows[0] != "REDIRECT" {
		t.Fatalf("rows = %v, want [REDIRECT]", rw.rows)
	}
}

func TestDoScrapeNoURLsIsNoop(t *testing.T) {
	rw := &recordingWriter{}
	d := NewDriver(DriverConfig{RequestTimeout: time.Second}, &logger.NopLogger{}, rw, nil)

	d.doScrape([]string{"host:8080"})

	if len(rw.rows) != 0 {
		t.Errorf("rows = %v, want none when no URLs configured", rw.rows)
	}
}

var _ writer.Writer = (*recordingWriter)(nil)
