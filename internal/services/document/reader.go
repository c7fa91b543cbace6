// -----------------------------------------------------------------------
// Document Reader Service - PDF validation, page count and metadata
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package document

import (
	"context"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

// Reader implements the DocumentReader interface using pdfcpu.
type Reader struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentReader = (*Reader)(nil)

// NewReader creates a new pdfcpu-backed document reader.
func NewReader(logger arbor.ILogger) *Reader {
	return &Reader{logger: logger}
}

// Validate opens the document and fails when it cannot be parsed or has
// zero pages. A zero-page document is rejected here, before any rendering
// is attempted.
func (r *Reader) Validate(ctx context.Context, path string) error {
	pdfCtx, err := r.readContext(path)
	if err != nil {
		return err
	}

	if pdfCtx.PageCount == 0 {
		return models.NewDocumentReadError("PDF file contains no pages")
	}

	r.logger.Debug().Str("path", path).Int("pages", pdfCtx.PageCount).Msg("PDF file validated")
	return nil
}

// PageCount returns the total number of pages in the document.
func (r *Reader) PageCount(ctx context.Context, path string) (int, error) {
	pdfCtx, err := r.readContext(path)
	if err != nil {
		return 0, err
	}

	if pdfCtx.PageCount == 0 {
		return 0, models.NewDocumentReadError("PDF file contains no pages")
	}

	return pdfCtx.PageCount, nil
}

// Metadata returns document info: page count, file size, encryption flag
// and the optional info-dictionary fields. Absent entries stay empty.
func (r *Reader) Metadata(ctx context.Context, path string) (*models.DocumentInfo, error) {
	pdfCtx, err := r.readContext(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, models.WrapError(models.KindDocumentRead, err, "cannot stat PDF file")
	}

	info := &models.DocumentInfo{
		FileName:         fi.Name(),
		FileSize:         fi.Size(),
		PageCount:        pdfCtx.PageCount,
		Encrypted:        pdfCtx.Encrypt != nil,
		Title:            pdfCtx.Title,
		Author:           pdfCtx.Author,
		Subject:          pdfCtx.Subject,
		Creator:          pdfCtx.Creator,
		Producer:         pdfCtx.Producer,
		CreationDate:     pdfCtx.XRefTable.CreationDate,
		ModificationDate: pdfCtx.ModDate,
	}

	r.logger.Debug().
		Str("path", path).
		Int("page_count", info.PageCount).
		Int64("file_size", info.FileSize).
		Bool("encrypted", info.Encrypted).
		Msg("Extracted PDF metadata")

	return info, nil
}

func (r *Reader) readContext(path string) (*model.Context, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, models.WrapError(models.KindDocumentRead, err, "failed to read PDF context")
	}
	return pdfCtx, nil
}
