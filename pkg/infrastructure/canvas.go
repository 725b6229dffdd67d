package infrastructure

import (
	"context"
	"fmt"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
	"resume-renderer/pkg/fonts"
)

// Canvas back-end names.
const (
	BackendFPDF   = "fpdf"
	BackendHTML   = "html"
	BackendVector = "vector"
)

// Backends lists every name CanvasFactory.New accepts.
func Backends() []string {
	return []string{BackendFPDF, BackendHTML, BackendVector}
}

// CanvasFactory hands out a fresh canvas per render; canvases are stateful
// and never shared between requests.
type CanvasFactory struct {
	fonts   fonts.Family
	printer HTMLPrinter
}

func NewCanvasFactory(fam fonts.Family, printer HTMLPrinter) *CanvasFactory {
	return &CanvasFactory{fonts: fam, printer: printer}
}

func (f *CanvasFactory) New(ctx context.Context, backend string) (layout.Canvas, error) {
	switch backend {
	case BackendFPDF, "":
		return NewPDFCanvas(f.fonts), nil
	case BackendVector:
		return NewVectorCanvas(f.fonts), nil
	case BackendHTML:
		if f.printer == nil {
			return nil, fmt.Errorf("%w: %s has no printer configured", domain.ErrUnknownBackend, backend)
		}
		return NewHTMLCanvas(ctx, f.printer, f.fonts), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, backend)
	}
}
