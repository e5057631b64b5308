// Package convert rasterizes PDF documents to page images using MuPDF
// via go-fitz.
package convert

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	scribe "github.com/nevindra/scribe"
)

const (
	// DefaultDPI matches the resolution the extraction backend expects
	// for legible scans of dense documents.
	DefaultDPI = 300

	// DefaultQuality is the JPEG encoding quality.
	DefaultQuality = 95
)

// Rasterizer converts PDFs to one JPEG per page.
type Rasterizer struct {
	dpi     float64
	quality int
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithDPI sets the render resolution (default 300).
func WithDPI(dpi float64) Option {
	return func(r *Rasterizer) { r.dpi = dpi }
}

// WithQuality sets the JPEG quality, 1-100 (default 95).
func WithQuality(q int) Option {
	return func(r *Rasterizer) { r.quality = q }
}

// NewRasterizer creates a rasterizer with the given options.
func NewRasterizer(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		dpi:     DefaultDPI,
		quality: DefaultQuality,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RasterizePDF renders every page of the PDF at pdfPath into destDir and
// returns the pages in page order. Output files are named
// {stem}_page_{n}.jpg with a 1-based page index.
func (r *Rasterizer) RasterizePDF(ctx context.Context, pdfPath, destDir string) ([]scribe.Page, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", pdfPath, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", pdfPath)
	}

	pages := make([]scribe.Page, 0, total)
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d of %s: %w", i+1, pdfPath, err)
		}

		outPath := filepath.Join(destDir, PageFileName(pdfPath, i+1))
		f, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", outPath, err)
		}
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: r.quality})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("encode page %d of %s: %w", i+1, pdfPath, err)
		}

		pages = append(pages, scribe.Page{Number: i + 1, Path: outPath})
	}
	return pages, nil
}

// PageFileName derives the output name for one page of a source PDF:
// the source stem plus "_page_{n}.jpg".
func PageFileName(pdfPath string, page int) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_page_%d.jpg", stem, page)
}

// Compile-time interface check.
var _ scribe.PageRasterizer = (*Rasterizer)(nil)
