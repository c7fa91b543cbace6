// -----------------------------------------------------------------------
// Metadata Handler - upload probe returning document metadata without
// running a conversion
// -----------------------------------------------------------------------

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
	"github.com/ternarybob/folio/internal/validation"
)

// MetadataHandler serves POST /api/metadata: page count, encryption flag
// and info-dictionary fields for an uploaded PDF.
type MetadataHandler struct {
	reader        interfaces.DocumentReader
	fileValidator *validation.FileValidator
	config        *common.Config
	logger        arbor.ILogger
}

// NewMetadataHandler creates a new metadata probe handler.
func NewMetadataHandler(reader interfaces.DocumentReader, fileValidator *validation.FileValidator, config *common.Config, logger arbor.ILogger) *MetadataHandler {
	return &MetadataHandler{
		reader:        reader,
		fileValidator: fileValidator,
		config:        config,
		logger:        logger,
	}
}

// MetadataHandler handles the metadata probe request.
func (h *MetadataHandler) MetadataHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := r.ParseMultipartForm(int64(h.config.Processing.MaxFileSizeMB) << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if err := h.fileValidator.ValidateFilename(header.Filename); err != nil {
		WriteProcessingError(w, err)
		return
	}
	if err := h.fileValidator.ValidateType(file); err != nil {
		WriteProcessingError(w, err)
		return
	}
	if err := h.fileValidator.ValidateSize(file, h.config.Processing.MaxFileSizeMB); err != nil {
		WriteProcessingError(w, err)
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		WriteProcessingError(w, models.WrapError(models.KindValidation, err, "cannot rewind upload"))
		return
	}

	path := filepath.Join(h.config.Processing.TempDir, fmt.Sprintf("probe-%s.pdf", uuid.New().String()))
	out, err := os.Create(path)
	if err != nil {
		WriteProcessingError(w, models.WrapError(models.KindConfiguration, err, "cannot create temp file"))
		return
	}
	defer os.Remove(path)

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		WriteProcessingError(w, models.WrapError(models.KindValidation, err, "cannot persist upload"))
		return
	}
	out.Close()

	info, err := h.reader.Metadata(r.Context(), path)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Metadata probe failed")
		WriteProcessingError(w, err)
		return
	}

	// Report the upload's name, not the temp file's.
	info.FileName = header.Filename

	WriteJSON(w, http.StatusOK, info)
}
