package interfaces

import (
	"context"

	"github.com/ternarybob/folio/internal/models"
)

// TextService is the text-extraction pipeline consumed by handlers:
// validate, resolve pages, render, recognize, filter, join.
type TextService interface {
	// ExtractText OCRs the selected pages of the PDF at path and returns
	// per-page results in page order. selected is 1-indexed; empty means
	// all pages. threshold overrides the configured confidence cutoff
	// when >= 0.
	ExtractText(ctx context.Context, path, language string, selected []int, threshold int) (*models.TextResult, error)

	// FormatArtifact renders a text result as the downloadable UTF-8
	// artifact, one "=== Page N ===" header per page, blank-line
	// delimited.
	FormatArtifact(result *models.TextResult) string
}
