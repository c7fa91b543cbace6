// -----------------------------------------------------------------------
// Table Engine Interface - locate tables and their cell structure in
// rendered page images
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/folio/internal/models"
)

// TableDetectOptions mirror the knobs of the underlying detection engine.
// The zero value disables everything; the table pipeline enables the full
// set for conversion requests.
type TableDetectOptions struct {
	// UseDilation merges nearby cell regions before structure analysis.
	UseDilation bool

	// DetectRotation corrects skewed page images before detection.
	DetectRotation bool

	// ImplicitRows infers row boundaries that have no ruling line.
	ImplicitRows bool

	// BorderlessTables detects tables without any visible borders.
	BorderlessTables bool

	// MinConfidence is the detection cutoff on the 0-100 scale, the same
	// scale used for text-mode word filtering.
	MinConfidence int

	// Language is the engine's own language code (2-letter), already
	// translated from the user-facing code by the table pipeline.
	Language string
}

// TableEngine locates tabular regions and their cell structure within
// rendered page images. One detection pass produces every table the
// pipeline derives its artifacts from.
type TableEngine interface {
	// DetectTables runs a single detection pass over the rendered pages
	// and returns the detected tables in page order.
	DetectTables(ctx context.Context, rendered []RenderedPage, opts TableDetectOptions) ([]models.DetectedTable, error)
}
