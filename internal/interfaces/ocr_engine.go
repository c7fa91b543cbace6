// -----------------------------------------------------------------------
// OCR Engine Interface - word-level recognition with confidence scores
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"image"

	"github.com/ternarybob/folio/internal/models"
)

// OCREngine recognizes words in a rasterized page image. Confidence
// scores are on the 0-100 scale; filtering against the configured
// threshold happens in the pipeline, not in the engine.
type OCREngine interface {
	// RecognizeWords runs OCR on the image in the given language
	// (Tesseract-style code, e.g. "eng", "fra") and returns every
	// recognized word with its confidence and bounding box.
	RecognizeWords(ctx context.Context, img image.Image, language string) ([]models.Word, error)

	// Close releases engine resources.
	Close() error
}
