package logger

import (
	"testing"

	"ringscrape/internal/domain"
)

func TestFBuildsField(t *testing.T) {
	f := F("key", 42)
	if f.Key != "key" || f.Val != 42 {
		t.Errorf("F() = %+v, want {key 42}", f)
	}
}

func TestFNodeSerializesNode(t *testing.T) {
	n := domain.Node{ID: 7, Addr: "host:1"}
	f := FNode("self", n)
	if f.Key != "self" {
		t.Errorf("FNode key = %q, want %q", f.Key, "self")
	}
	m, ok := f.Val.(map[string]any)
	if !ok {
		t.Fatalf("FNode value is %T, want map[string]any", f.Val)
	}
	if m["addr"] != "host:1" {
		t.Errorf("FNode addr = %v, want host:1", m["addr"])
	}
}

func TestNopLoggerChainsWithoutPanicking(t *testing.T) {
	var l Logger = &NopLogger{}
	l = l.Named("x").With(F("a", 1)).WithNode(domain.Node{ID: 1, Addr: "a:1"})
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}
