package observer

import (
	"context"
	"path/filepath"

	"github.com/nevindra/scribe"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedRasterizer wraps a scribe.PageRasterizer with OTEL instrumentation.
type ObservedRasterizer struct {
	inner scribe.PageRasterizer
	inst  *Instruments
}

// WrapRasterizer returns an instrumented rasterizer that emits a span per
// PDF and counts rasterized pages.
func WrapRasterizer(inner scribe.PageRasterizer, inst *Instruments) *ObservedRasterizer {
	return &ObservedRasterizer{inner: inner, inst: inst}
}

func (o *ObservedRasterizer) RasterizePDF(ctx context.Context, pdfPath, destDir string) ([]scribe.Page, error) {
	file := filepath.Base(pdfPath)
	ctx, span := o.inst.Tracer.Start(ctx, "pdf.rasterize", trace.WithAttributes(
		AttrFileName.String(file),
	))
	defer span.End()

	pages, err := o.inner.RasterizePDF(ctx, pdfPath, destDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(AttrPageCount.Int(len(pages)))
	o.inst.PagesRasterized.Add(ctx, int64(len(pages)), metric.WithAttributes(
		AttrFileName.String(file),
	))
	return pages, nil
}

// Compile-time interface check.
var _ scribe.PageRasterizer = (*ObservedRasterizer)(nil)
