// -----------------------------------------------------------------------
// Document Reader Interface - PDF metadata and page-count access
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/folio/internal/models"
)

// DocumentReader abstracts the PDF-metadata capability the pipelines need:
// page count, document info, and open/parse validation. Implementations
// wrap a real PDF library (pdfcpu) so the orchestration core never touches
// PDF internals directly.
type DocumentReader interface {
	// Validate opens the document and fails with a document-read error
	// when it cannot be parsed or contains zero pages.
	Validate(ctx context.Context, path string) error

	// PageCount returns the total number of pages.
	PageCount(ctx context.Context, path string) (int, error)

	// Metadata returns the document info: page count, size, and the
	// optional info-dictionary fields (title, author, dates).
	Metadata(ctx context.Context, path string) (*models.DocumentInfo, error)
}
