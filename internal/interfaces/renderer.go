// -----------------------------------------------------------------------
// Page Renderer Interface - rasterize selected PDF pages for OCR
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"image"
)

// RenderedPage pairs a rasterized page image with its 1-indexed source
// page number. Selections with duplicate page numbers produce one entry
// per occurrence, in selection order.
type RenderedPage struct {
	PageNumber int
	Image      image.Image
}

// PageRenderer rasterizes selected pages of a PDF at a given resolution.
// A failure here aborts the whole batch: there is no partial-page
// recovery at the render stage.
type PageRenderer interface {
	// RenderPages renders the given 1-indexed pages at the requested DPI.
	// Exactly the selected pages are rendered; a single-page selection
	// renders only that page.
	RenderPages(ctx context.Context, path string, pageNumbers []int, dpi int) ([]RenderedPage, error)
}
