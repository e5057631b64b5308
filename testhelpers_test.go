package scribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fakeProvider returns canned content and records every request.
type fakeProvider struct {
	content  string
	err      error
	requests []ChatRequest
}

func (p *fakeProvider) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return ChatResponse{}, p.err
	}
	return ChatResponse{Content: p.content}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

// pageProvider replies with a distinct text per call, for page-order checks.
type pageProvider struct {
	calls int
	texts []string
	// failAt makes call number n (1-based) fail; 0 disables.
	failAt int
}

func (p *pageProvider) Chat(_ context.Context, _ ChatRequest) (ChatResponse, error) {
	p.calls++
	if p.failAt > 0 && p.calls == p.failAt {
		return ChatResponse{}, &ErrLLM{Provider: "fake", Message: "boom"}
	}
	if p.calls <= len(p.texts) {
		return ChatResponse{Content: p.texts[p.calls-1]}, nil
	}
	return ChatResponse{Content: fmt.Sprintf("page %d text", p.calls)}, nil
}

func (p *pageProvider) Name() string { return "fake" }

// fakeRasterizer writes n empty page images into destDir.
type fakeRasterizer struct {
	pages int
	err   error
}

func (r *fakeRasterizer) RasterizePDF(_ context.Context, pdfPath, destDir string) ([]Page, error) {
	if r.err != nil {
		return nil, r.err
	}
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	out := make([]Page, 0, r.pages)
	for i := 1; i <= r.pages; i++ {
		path := filepath.Join(destDir, fmt.Sprintf("%s_page_%d.jpg", stem, i))
		if err := os.WriteFile(path, []byte{0xff, 0xd8}, 0o640); err != nil {
			return nil, err
		}
		out = append(out, Page{Number: i, Path: path})
	}
	return out, nil
}

// fakeUploader records uploads and hands back deterministic URIs.
type fakeUploader struct {
	uploads []string
	err     error
}

func (u *fakeUploader) UploadFile(_ context.Context, path, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, path)
	return "https://files.example/" + filepath.Base(path), nil
}

// newTestWorkspace creates an initialized workspace under a temp root.
func newTestWorkspace(root string) (*Workspace, error) {
	ws := NewWorkspace(root)
	if err := ws.Init(); err != nil {
		return nil, err
	}
	return ws, nil
}

// stageInput writes an input file into the workspace.
func stageInput(ws *Workspace, name, content string) error {
	return os.WriteFile(ws.InputPath(name), []byte(content), 0o640)
}
