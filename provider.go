package scribe

import "context"

// Provider abstracts a hosted generation backend.
type Provider interface {
	// Chat sends a request and returns a complete response.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Name returns the provider name (e.g. "gemini", "openai").
	Name() string
}

// FileUploader is an optional provider capability for out-of-band file
// uploads. Providers that implement it (e.g. the Gemini Files API) let the
// extractor upload an asset once and reference it by URL in an Attachment
// instead of inlining the bytes into every request.
type FileUploader interface {
	// UploadFile uploads the file at path and returns a URL that the
	// backend accepts in an Attachment.
	UploadFile(ctx context.Context, path, mimeType string) (string, error)
}

// PageRasterizer converts a PDF into one image file per page, written
// into destDir in page order.
type PageRasterizer interface {
	RasterizePDF(ctx context.Context, pdfPath, destDir string) ([]Page, error)
}
