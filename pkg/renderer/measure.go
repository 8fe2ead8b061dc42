package renderer

import (
	"bytes"
	"context"

	"github.com/nikogura/onepage-tailor/pkg/condense"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

// PDFRenderer produces PDF bytes for a resume.
type PDFRenderer interface {
	Render(ctx context.Context, doc resume.Document, format Format) ([]byte, error)
}

// PageMeasurer answers "does this fit on one page" by rendering a PDF and counting its pages.
type PageMeasurer struct {
	renderer PDFRenderer
	maxPages int
}

// NewPageMeasurer creates a measurer that fits at maxPages or fewer. Zero means one page.
func NewPageMeasurer(renderer PDFRenderer, maxPages int) (m *PageMeasurer) {
	if maxPages <= 0 {
		maxPages = 1
	}
	m = &PageMeasurer{renderer: renderer, maxPages: maxPages}
	return m
}

// Measure implements condense.Measurer.
func (m *PageMeasurer) Measure(ctx context.Context, doc resume.Document) (measurement condense.Measurement, err error) {
	var pdf []byte
	pdf, err = m.renderer.Render(ctx, doc, FormatPDF)
	if err != nil {
		err = errors.Wrap(err, "failed to render PDF for measurement")
		return measurement, err
	}

	var pages int
	pages, err = CountPages(pdf)
	if err != nil {
		return measurement, err
	}

	measurement = condense.Measurement{Fits: pages <= m.maxPages, PageCount: pages}
	return measurement, err
}

// CountPages returns the page count of a PDF held in memory.
func CountPages(pdf []byte) (pages int, err error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err = api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		err = errors.Wrap(err, "failed to count PDF pages")
		return pages, err
	}
	return pages, err
}

// CountPagesFile returns the page count of a PDF on disk.
func CountPagesFile(path string) (pages int, err error) {
	pages, err = api.PageCountFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to count pages in %s", path)
		return pages, err
	}
	return pages, err
}
