package scribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Prompts sent with every extraction call. The backend does the actual
// reading; these only frame the task.
const (
	ExtractionSystemPrompt = "Extract as much information as possible from this file."
	ExtractionUserPrompt   = "Please extract all detailed information from the uploaded file."
)

// Extractor turns one staged input file into one text artifact. PDFs are
// rasterized to page images first and extracted page by page; everything
// else goes to the backend as-is.
type Extractor struct {
	ws         *Workspace
	provider   Provider
	uploader   FileUploader
	rasterizer PageRasterizer
	logger     *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithUploader sets the out-of-band file uploader. Without one,
// attachments are sent inline.
func WithUploader(u FileUploader) ExtractorOption {
	return func(e *Extractor) { e.uploader = u }
}

// WithRasterizer sets the PDF page rasterizer.
func WithRasterizer(r PageRasterizer) ExtractorOption {
	return func(e *Extractor) { e.rasterizer = r }
}

// WithExtractorLogger sets the structured logger.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an extractor over ws backed by provider.
func NewExtractor(ws *Workspace, provider Provider, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ws:       ws,
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process extracts the staged input file and writes its text artifact.
// Returns the artifact path. If any page's extraction fails the whole
// operation fails and no artifact is written.
func (e *Extractor) Process(ctx context.Context, filename string) (string, error) {
	name := filepath.Base(filename)
	path := e.ws.InputPath(name)
	if _, err := os.Stat(path); err != nil {
		return "", &ErrFileNotFound{Path: path}
	}

	start := time.Now()
	var text string
	var err error
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		text, err = e.processPDF(ctx, name, path)
	} else {
		e.logger.Info("extract.start", "file", name, "kind", "direct")
		text, err = e.extract(ctx, path)
	}
	if err != nil {
		e.logger.Error("extract.failed", "file", name, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	out, err := e.ws.WriteArtifact(name, text)
	if err != nil {
		return "", err
	}
	e.logger.Info("extract.ok", "file", name, "output", out,
		"chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// processPDF rasterizes every page and extracts them in page order.
// Page images are removed before returning.
func (e *Extractor) processPDF(ctx context.Context, name, path string) (string, error) {
	if e.rasterizer == nil {
		return "", fmt.Errorf("process %s: no rasterizer configured", name)
	}
	defer func() {
		if err := e.ws.ClearTemp(); err != nil {
			e.logger.Warn("extract.temp_cleanup_failed", "file", name, "error", err)
		}
	}()

	pages, err := e.rasterizer.RasterizePDF(ctx, path, e.ws.TempDir)
	if err != nil {
		return "", fmt.Errorf("rasterize %s: %w", name, err)
	}
	e.logger.Info("extract.start", "file", name, "kind", "pdf", "pages", len(pages))

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		t, err := e.extract(ctx, page.Path)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page.Number, err)
		}
		texts = append(texts, t)
	}
	return strings.Join(texts, "\n"), nil
}

// extract submits one file to the backend and returns its text verbatim.
func (e *Extractor) extract(ctx context.Context, path string) (string, error) {
	mimeType, err := DetectMIMEType(path)
	if err != nil {
		return "", err
	}

	att := Attachment{MimeType: mimeType}
	if e.uploader != nil {
		url, err := e.uploader.UploadFile(ctx, path, mimeType)
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
		}
		att.URL = url
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		att.Data = data
	}

	resp, err := e.provider.Chat(ctx, ChatRequest{Messages: []ChatMessage{
		SystemMessage(ExtractionSystemPrompt),
		{Role: "user", Content: ExtractionUserPrompt, Attachments: []Attachment{att}},
	}})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
