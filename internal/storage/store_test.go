package storage

import (
	"path/filepath"
	"testing"

	"ringscrape/internal/domain"
)

func TestPutGetDeletePage(t *testing.T) {
	s := New()
	p := domain.Page{Key: domain.Hash("http://a.test"), URL: "http://a.test", Archive: []byte("zip")}

	if err := s.PutPage(p); err != nil {
		t.Fatalf("PutPage: %v", err)
	}
	if !s.HasPage(p.Key) {
		t.Fatal("HasPage false after PutPage")
	}
	got, err := s.GetPage(p.Key)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.URL != p.URL {
		t.Errorf("GetPage URL = %q, want %q", got.URL, p.URL)
	}

	if err := s.DeletePage(p.Key); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := s.GetPage(p.Key); err != domain.ErrNotFound {
		t.Errorf("GetPage after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeletePage(p.Key); err != domain.ErrNotFound {
		t.Errorf("DeletePage on missing key = %v, want ErrNotFound", err)
	}
}

func TestPagesBetween(t *testing.T) {
	s := New()
	inside := domain.Page{Key: 5, URL: "http://inside.test"}
	outside := domain.Page{Key: 50, URL: "http://outside.test"}
	s.PutPage(inside)
	s.PutPage(outside)

	got := s.PagesBetween(1, 10)
	if len(got) != 1 || got[0].URL != inside.URL {
		t.Errorf("PagesBetween(1,10) = %+v, want only %q", got, inside.URL)
	}
}

func TestAllPageURLsSorted(t *testing.T) {
	s := New()
	s.PutPage(domain.Page{Key: 1, URL: "http://b.test"})
	s.PutPage(domain.Page{Key: 2, URL: "http://a.test"})

	urls := s.AllPageURLs()
	if len(urls) != 2 || urls[0] != "http://a.test" || urls[1] != "http://b.test" {
		t.Errorf("AllPageURLs() = %v, want sorted [a.test, b.test]", urls)
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := New()
	u := domain.User{Key: domain.Hash("alice"), Username: "alice", PasswordHash: "hash"}
	s.PutUser(u)

	got, err := s.GetUser(u.Key)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("GetUser.Username = %q, want alice", got.Username)
	}

	if _, err := s.GetUser(domain.Hash("nobody")); err != domain.ErrNotFound {
		t.Errorf("GetUser missing = %v, want ErrNotFound", err)
	}
}

func TestWipeClearsStoreAndMirror(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "node")
	mirror, err := NewFileMirror(dir)
	if err != nil {
		t.Fatalf("NewFileMirror: %v", err)
	}
	s := New(WithFileMirror(mirror))
	p := domain.Page{Key: 1, URL: "http://wiped.test", Archive: []byte("zip")}
	if err := s.PutPage(p); err != nil {
		t.Fatalf("PutPage: %v", err)
	}

	if err := s.Wipe(); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	if s.HasPage(p.Key) {
		t.Error("page still present after Wipe")
	}
	if _, err := NewFileMirror(dir); err != nil {
		t.Fatalf("mirror directory should be recreatable after wipe: %v", err)
	}
}
