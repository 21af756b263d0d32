package scraper

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchPacksIndexHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		io.WriteString(w, "<html><body><h1>hi</h1></body></html>")
	}))
	defer srv.Close()

	s := New(2 * time.Second)
	archive, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("archive is not a valid zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "index.html" {
		t.Fatalf("archive entries = %v, want single index.html", zr.File)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("opening index.html: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	if !bytes.Contains(content, []byte("hi")) {
		t.Errorf("index.html content = %q, want it to contain %q", content, "hi")
	}
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(2 * time.Second)
	_, err := s.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	var upstream *ErrUpstream
	if !errors.As(err, &upstream) {
		t.Errorf("error = %v, want *ErrUpstream", err)
	}
}

func TestFetchContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	s := New(5 * time.Millisecond)
	_, err := s.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}
