// -----------------------------------------------------------------------
// Page Renderer Service - rasterizes PDF pages for OCR
// Uses go-fitz (MuPDF) for rendering at a configurable DPI
// -----------------------------------------------------------------------

package render

import (
	"context"

	"github.com/gen2brain/go-fitz"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

// Renderer implements the PageRenderer interface using go-fitz.
type Renderer struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.PageRenderer = (*Renderer)(nil)

// NewRenderer creates a new MuPDF-backed page renderer.
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderPages rasterizes exactly the given 1-indexed pages at the
// requested DPI. Any failure aborts the whole batch; there is no
// partial-page recovery at this stage. Duplicate page numbers in the
// selection are rendered once per occurrence.
func (r *Renderer) RenderPages(ctx context.Context, path string, pageNumbers []int, dpi int) ([]interfaces.RenderedPage, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, models.WrapError(models.KindDocumentRead, err, "failed to open PDF for rendering")
	}
	defer doc.Close()

	rendered := make([]interfaces.RenderedPage, 0, len(pageNumbers))
	for _, pageNum := range pageNumbers {
		if err := ctx.Err(); err != nil {
			return nil, models.WrapError(models.KindRecognition, err, "rendering interrupted")
		}

		if pageNum < 1 || pageNum > doc.NumPage() {
			return nil, models.NewRecognitionError("cannot render page %d: document has %d pages", pageNum, doc.NumPage())
		}

		// go-fitz pages are 0-indexed.
		img, err := doc.ImageDPI(pageNum-1, float64(dpi))
		if err != nil {
			return nil, models.WrapError(models.KindRecognition, err, "failed to render page %d", pageNum)
		}

		rendered = append(rendered, interfaces.RenderedPage{
			PageNumber: pageNum,
			Image:      img,
		})
	}

	r.logger.Debug().
		Str("path", path).
		Int("pages", len(rendered)).
		Int("dpi", dpi).
		Msg("Rendered pages for recognition")

	return rendered, nil
}
