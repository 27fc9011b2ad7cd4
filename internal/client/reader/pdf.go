package reader

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Messages shown in place of a PDF that cannot be displayed.
const (
	MsgNoPDFContent = "No PDF content provided."
	MsgPDFLoad      = "Failed to load PDF file. It may be corrupted or an invalid format."
)

var (
	ErrNoContent     = errors.New("no content")
	ErrInvalidBase64 = errors.New("content is not valid base64")
)

// DecodePDF turns the stored content of a PDF document back into bytes.
// Surrounding whitespace and line breaks are tolerated; anything else that
// is not standard base64 is rejected.
func DecodePDF(content string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, content)
	if clean == "" {
		return nil, ErrNoContent
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	return raw, nil
}

// PageSize is a page's size in points (1/72 in) before zoom.
type PageSize struct {
	Width  float64
	Height float64
}

// Scale returns the size at zoom in pixels (one point per pixel at 1.0).
func (s PageSize) Scale(zoom float64) PageSize {
	return PageSize{Width: s.Width * zoom, Height: s.Height * zoom}
}

// Measurer reports the size of every page of a PDF, in page order.
type Measurer interface {
	Measure(ctx context.Context, pdf []byte) ([]PageSize, error)
}

var disableConfigDir sync.Once

// PDFCPUMeasurer reads page boxes with pdfcpu without rendering anything.
type PDFCPUMeasurer struct{}

func NewPDFCPUMeasurer() *PDFCPUMeasurer {
	// pdfcpu would otherwise create a config dir under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFCPUMeasurer{}
}

func (PDFCPUMeasurer) Measure(ctx context.Context, pdf []byte) ([]PageSize, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims, err := api.PageDims(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}
	if len(dims) == 0 {
		return nil, errors.New("pdf has no pages")
	}
	out := make([]PageSize, len(dims))
	for i, d := range dims {
		out[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return out, nil
}
