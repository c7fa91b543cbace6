package interfaces

import (
	"context"

	"github.com/ternarybob/folio/internal/models"
)

// TableService is the table-extraction pipeline consumed by handlers:
// validate, resolve pages, detect tables once, emit spreadsheet plus
// per-table metadata from the same pass.
type TableService interface {
	// ExtractTables detects tables on the selected pages and writes an
	// XLSX spreadsheet to a transient caller-owned path. The returned
	// metadata records describe the same tables as the spreadsheet
	// sheets, in the same order. The caller deletes the spreadsheet when
	// the request completes.
	ExtractTables(ctx context.Context, path, language string, selected []int, threshold int) (*models.TableResult, error)
}
