package scribe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	inputDirName  = "input_files"
	outputDirName = "output_texts"
	tempDirName   = "temp_images"

	// ArtifactExt is the extension of extracted-text artifacts.
	ArtifactExt = ".txt"
)

// Workspace owns the folder triple backing one session: staged inputs,
// extracted-text artifacts, and temporary page images. The directory
// contents ARE the session state — no manifest, no database.
type Workspace struct {
	InputDir  string
	OutputDir string
	TempDir   string
}

// NewWorkspace lays out a workspace under root. Call Init before use.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		InputDir:  filepath.Join(root, inputDirName),
		OutputDir: filepath.Join(root, outputDirName),
		TempDir:   filepath.Join(root, tempDirName),
	}
}

// Init creates the three folders. Idempotent.
func (w *Workspace) Init() error {
	for _, dir := range []string{w.InputDir, w.OutputDir, w.TempDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Reset deletes and recreates the input and output folders. The temp
// folder is cleared per processing call, not here. Missing folders are
// not an error.
func (w *Workspace) Reset() error {
	for _, dir := range []string{w.InputDir, w.OutputDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("recreate %s: %w", dir, err)
		}
	}
	return nil
}

// SaveUpload writes r into the input folder under the base name of name.
// A same-named upload overwrites the previous one.
func (w *Workspace) SaveUpload(name string, r io.Reader) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("invalid upload name %q", name)
	}
	dst := filepath.Join(w.InputDir, base)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return dst, nil
}

// InputPath returns the staged path for an input filename.
func (w *Workspace) InputPath(name string) string {
	return filepath.Join(w.InputDir, filepath.Base(name))
}

// ArtifactPath returns the output path for an input filename: the input's
// stem with the text-artifact extension.
func (w *Workspace) ArtifactPath(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.OutputDir, stem+ArtifactExt)
}

// WriteArtifact stores text as the artifact for the input filename,
// overwriting any previous artifact of the same name. Returns the
// artifact path.
func (w *Workspace) WriteArtifact(name, text string) (string, error) {
	dst := w.ArtifactPath(name)
	if err := os.WriteFile(dst, []byte(text), 0o640); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", dst, err)
	}
	return dst, nil
}

// ReadArtifact returns the content of the named artifact file.
func (w *Workspace) ReadArtifact(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(w.OutputDir, filepath.Base(name)))
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", name, err)
	}
	return string(data), nil
}

// ListArtifacts returns the names of all text artifacts, sorted by
// filename so downstream concatenation is deterministic across platforms.
func (w *Workspace) ListArtifacts() ([]string, error) {
	entries, err := os.ReadDir(w.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ArtifactExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// HasArtifacts reports whether at least one text artifact exists.
func (w *Workspace) HasArtifacts() (bool, error) {
	names, err := w.ListArtifacts()
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ClearTemp removes everything inside the temp folder, keeping the folder
// itself. Page images live only for the duration of the processing call
// that created them.
func (w *Workspace) ClearTemp() error {
	entries, err := os.ReadDir(w.TempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear temp: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(w.TempDir, e.Name())); err != nil {
			return fmt.Errorf("clear temp: %w", err)
		}
	}
	return nil
}
