package scribe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionManagerDefaultSession(t *testing.T) {
	m := NewSessionManager(t.TempDir())

	sess, err := m.Get("")
	if err != nil {
		t.Fatalf("Get(\"\"): %v", err)
	}
	if sess.ID != DefaultSession {
		t.Errorf("expected default session id, got %q", sess.ID)
	}

	again, err := m.Get(DefaultSession)
	if err != nil {
		t.Fatal(err)
	}
	if again != sess {
		t.Error("expected the same *Session for the same key")
	}
}

func TestSessionManagerIsolation(t *testing.T) {
	root := t.TempDir()
	m := NewSessionManager(root)

	a, err := m.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Get("bob")
	if err != nil {
		t.Fatal(err)
	}

	if a.Workspace.InputDir == b.Workspace.InputDir {
		t.Error("expected distinct input dirs per session")
	}
	if filepath.Dir(filepath.Dir(a.Workspace.InputDir)) != root {
		t.Errorf("expected session dirs under root, got %q", a.Workspace.InputDir)
	}
}

func TestSessionManagerSanitizesID(t *testing.T) {
	root := t.TempDir()
	m := NewSessionManager(root)

	sess, err := m.Get("../../escape")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.ID != "escape" {
		t.Errorf("expected sanitized id %q, got %q", "escape", sess.ID)
	}
	rel, err := filepath.Rel(root, sess.Workspace.InputDir)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		t.Errorf("workspace escaped root: %q", sess.Workspace.InputDir)
	}
}

func TestSessionManagerRejectsEmptyBase(t *testing.T) {
	m := NewSessionManager(t.TempDir())
	if _, err := m.Get("."); err == nil {
		t.Error("expected error for session id \".\"")
	}
}

func TestSessionManagerRejectsParentDir(t *testing.T) {
	root := t.TempDir()
	m := NewSessionManager(root)

	// A bare ".." survives filepath.Base untouched; accepting it would
	// lay the workspace out one level above the storage root and let
	// Reset delete directories outside it.
	if _, err := m.Get(".."); err == nil {
		t.Fatal("expected error for session id \"..\"")
	}
	if _, err := m.Get("a/.."); err == nil {
		t.Fatal("expected error for session id \"a/..\"")
	}
	if _, err := os.Stat(filepath.Join(root, "..", "input_files")); err == nil {
		t.Error("workspace escaped storage root")
	}
}
