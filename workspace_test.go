package scribe

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWorkspaceInitIdempotent(t *testing.T) {
	ws := NewWorkspace(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := ws.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	for _, dir := range []string{ws.InputDir, ws.OutputDir, ws.TempDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
		}
	}
}

func TestWorkspaceResetClearsInputAndOutput(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := stageInput(ws, "a.txt", "input"); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.WriteArtifact("a.txt", "artifact"); err != nil {
		t.Fatal(err)
	}
	tempFile := filepath.Join(ws.TempDir, "a_page_1.jpg")
	if err := os.WriteFile(tempFile, []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}

	if err := ws.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	for _, dir := range []string{ws.InputDir, ws.OutputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("expected %s to exist after reset: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Errorf("expected %s to be empty after reset, found %d entries", dir, len(entries))
		}
	}
	// Temp folder is not part of the reset target.
	if _, err := os.Stat(tempFile); err != nil {
		t.Errorf("expected temp file to survive reset: %v", err)
	}
}

func TestWorkspaceResetIdempotent(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := ws.Reset(); err != nil {
		t.Fatalf("Reset on already-empty folders: %v", err)
	}
}

func TestWorkspaceSaveUpload(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := ws.SaveUpload("report.pdf", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if path != ws.InputPath("report.pdf") {
		t.Errorf("SaveUpload path = %q, want %q", path, ws.InputPath("report.pdf"))
	}

	// Same-name upload overwrites.
	if _, err := ws.SaveUpload("report.pdf", strings.NewReader("v2")); err != nil {
		t.Fatalf("second SaveUpload: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Errorf("expected overwrite to win, got %q", data)
	}

	// Path components are stripped.
	path, err = ws.SaveUpload("../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload with path components: %v", err)
	}
	if filepath.Dir(path) != ws.InputDir {
		t.Errorf("expected upload confined to input dir, got %q", path)
	}
}

func TestWorkspaceArtifactPath(t *testing.T) {
	ws := NewWorkspace("root")
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "report.txt"},
		{"scan.jpeg", "scan.txt"},
		{"noext", "noext.txt"},
		{"dotted.name.pdf", "dotted.name.txt"},
	}
	for _, tt := range tests {
		got := ws.ArtifactPath(tt.name)
		if filepath.Base(got) != tt.want {
			t.Errorf("ArtifactPath(%q) base = %q, want %q", tt.name, filepath.Base(got), tt.want)
		}
		if filepath.Dir(got) != ws.OutputDir {
			t.Errorf("ArtifactPath(%q) dir = %q, want %q", tt.name, filepath.Dir(got), ws.OutputDir)
		}
	}
}

func TestWorkspaceListArtifactsSorted(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"zulu.pdf", "alpha.png", "mike.jpg"} {
		if _, err := ws.WriteArtifact(name, "text"); err != nil {
			t.Fatal(err)
		}
	}
	// Non-artifact files are ignored.
	if err := os.WriteFile(filepath.Join(ws.OutputDir, "stray.json"), []byte("{}"), 0o640); err != nil {
		t.Fatal(err)
	}

	names, err := ws.ListArtifacts()
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	want := []string{"alpha.txt", "mike.txt", "zulu.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListArtifacts() = %v, want %v", names, want)
	}
}

func TestWorkspaceHasArtifacts(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	has, err := ws.HasArtifacts()
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("expected no artifacts in fresh workspace")
	}

	if _, err := ws.WriteArtifact("a.pdf", "text"); err != nil {
		t.Fatal(err)
	}
	has, err = ws.HasArtifacts()
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Error("expected artifacts after write")
	}
}

func TestWorkspaceClearTemp(t *testing.T) {
	ws, err := newTestWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		name := filepath.Join(ws.TempDir, "p_page_"+string(rune('1'+i))+".jpg")
		if err := os.WriteFile(name, []byte("x"), 0o640); err != nil {
			t.Fatal(err)
		}
	}

	if err := ws.ClearTemp(); err != nil {
		t.Fatalf("ClearTemp: %v", err)
	}
	entries, err := os.ReadDir(ws.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp dir empty, found %d entries", len(entries))
	}

	// Missing temp dir is not an error.
	if err := os.RemoveAll(ws.TempDir); err != nil {
		t.Fatal(err)
	}
	if err := ws.ClearTemp(); err != nil {
		t.Errorf("ClearTemp on missing dir: %v", err)
	}
}
