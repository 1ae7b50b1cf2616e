package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")
	lb, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.Info("signed in as %s", "a@x.com")
	lb.Warn("announcement load failed")
	lb.Error("logout request failed")

	lines := lb.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("tail(2) returned %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("tail must keep the most recent entries: %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("nothing happens")
	if lb.Tail(5) != nil {
		t.Fatalf("nil logbook tail must be nil")
	}
	if lb.Path() != "" {
		t.Fatalf("nil logbook path must be empty")
	}
}
