package models

// BoundingBox is a table or word location in rendered-image pixel
// coordinates, top-left origin.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() int {
	return b.Y2 - b.Y1
}

// DetectedTable is the raw table-engine output for one table: cell grid
// plus location and detection confidence. Cells are row-major; a missing
// cell value is an empty string, not an absent entry.
type DetectedTable struct {
	PageNumber int          `json:"page_number"`
	BBox       *BoundingBox `json:"bbox"` // nil when the engine reports no geometry
	Confidence float64      `json:"confidence"`
	Cells      [][]string   `json:"cells"`
}

// TableInfo is the per-table metadata record surfaced to the caller.
// BBox is nil (serialized as null, never omitted) when geometry is not
// available. A metadata extraction failure for one table is recorded in
// Error; the surrounding batch continues.
type TableInfo struct {
	TableID    int          `json:"table_id"`
	PageNumber int          `json:"page_number"`
	BBox       *BoundingBox `json:"bbox"`
	Confidence float64      `json:"confidence"`
	Rows       int          `json:"rows"`
	Columns    int          `json:"columns"`
	Error      string       `json:"error,omitempty"`
}

// TableResult is the full table-mode output: the spreadsheet handle plus
// the metadata records derived from the same detection pass. The sheet
// order and the metadata order always describe the same tables.
type TableResult struct {
	SpreadsheetPath string      `json:"spreadsheet_path"`
	Tables          []TableInfo `json:"tables"`
	PagesProcessed  int         `json:"pages_processed"`
}
