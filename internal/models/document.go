package models

// DocumentInfo describes a validated PDF document. Immutable once the
// document reader has populated it; the backing temp file is removed
// when the originating request completes.
type DocumentInfo struct {
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
	Encrypted bool   `json:"encrypted"`

	// Optional document info dictionary fields. Empty string when the
	// PDF does not carry the entry.
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	Creator          string `json:"creator,omitempty"`
	Producer         string `json:"producer,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
}

// Word is a single OCR-recognized word with its confidence score on the
// 0-100 scale used throughout the pipeline.
type Word struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// PageResult is the per-page outcome of the text pipeline. Pages are
// independently success- or failure-tagged: a failed page carries an
// Error and empty text, and never aborts the batch.
type PageResult struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether OCR for this page degraded to an empty result.
func (p PageResult) Failed() bool {
	return p.Error != ""
}

// TextResult is the full text-mode extraction output, in page order.
type TextResult struct {
	Pages          []PageResult `json:"pages"`
	PagesProcessed int          `json:"pages_processed"`
}
