// -----------------------------------------------------------------------
// Convert Handler - multipart PDF upload to text or spreadsheet
// -----------------------------------------------------------------------

package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConvertHandler serves POST /api/convert: an uploaded PDF goes through
// the text or table pipeline and the artifact comes back in the response
// body.
type ConvertHandler struct {
	textService   interfaces.TextService
	tableService  interfaces.TableService
	fileValidator *validation.FileValidator
	config        *common.Config
	logger        arbor.ILogger
}

// NewConvertHandler creates a new conversion handler.
func NewConvertHandler(textService interfaces.TextService, tableService interfaces.TableService, fileValidator *validation.FileValidator, config *common.Config, logger arbor.ILogger) *ConvertHandler {
	return &ConvertHandler{
		textService:   textService,
		tableService:  tableService,
		fileValidator: fileValidator,
		config:        config,
		logger:        logger,
	}
}

// ConvertHandler handles the conversion request. Multipart fields: file
// (the PDF), mode (text|table), language (optional, defaults to the
// configured language), pages (optional comma-separated 1-indexed),
// threshold (optional 0-100). mode=table with format=json returns a JSON
// envelope instead of the raw spreadsheet.
func (h *ConvertHandler) ConvertHandler(w http.ResponseWriter, r *http.Request) {
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

	req, err := h.buildRequest(r, header.Filename)
	if err != nil {
		WriteProcessingError(w, err)
		return
	}

	if err := h.validateUpload(file, req.FileName); err != nil {
		WriteProcessingError(w, err)
		return
	}

	path, err := h.saveUpload(file)
	if err != nil {
		WriteProcessingError(w, err)
		return
	}
	defer os.Remove(path)

	h.logger.Info().
		Str("filename", req.FileName).
		Str("mode", string(req.Mode)).
		Str("language", req.Language).
		Msg("Conversion request accepted")

	switch req.Mode {
	case models.ModeTable:
		h.convertTable(w, r, path, req)
	default:
		h.convertText(w, r, path, req)
	}
}

// buildRequest decodes and validates the form fields into a typed
// request. Absent language falls back to the configured default; absent
// threshold falls back to the configured cutoff.
func (h *ConvertHandler) buildRequest(r *http.Request, filename string) (*models.ConversionRequest, error) {
	mode := r.FormValue("mode")
	if mode == "" {
		mode = string(models.ModeText)
	}

	language := r.FormValue("language")
	if language == "" {
		language = h.config.OCR.DefaultLanguage
	}

	selected, err := parsePageSelection(r.FormValue("pages"))
	if err != nil {
		return nil, err
	}

	threshold, err := parseThreshold(r.FormValue("threshold"))
	if err != nil {
		return nil, err
	}
	if threshold < 0 {
		threshold = h.config.OCR.ConfidenceThreshold
	}

	req := &models.ConversionRequest{
		FileName:  filename,
		Mode:      models.ConvertMode(mode),
		Language:  language,
		Pages:     selected,
		Threshold: threshold,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !h.config.IsLanguageSupported(req.Language) {
		return nil, models.NewValidationError("language %q is not supported", req.Language)
	}

	return req, nil
}

// validateUpload runs the filename, magic-byte and size checks. The first
// failure wins.
func (h *ConvertHandler) validateUpload(file multipart.File, filename string) error {
	if err := h.fileValidator.ValidateFilename(filename); err != nil {
		return err
	}
	if err := h.fileValidator.ValidateType(file); err != nil {
		return err
	}
	return h.fileValidator.ValidateSize(file, h.config.Processing.MaxFileSizeMB)
}

// saveUpload copies the upload to a uuid-named file under the configured
// temp directory. The caller removes it when the request completes.
func (h *ConvertHandler) saveUpload(file multipart.File) (string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", models.WrapError(models.KindValidation, err, "cannot rewind upload")
	}

	path := filepath.Join(h.config.Processing.TempDir, fmt.Sprintf("upload-%s.pdf", uuid.New().String()))
	out, err := os.Create(path)
	if err != nil {
		return "", models.WrapError(models.KindConfiguration, err, "cannot create temp file")
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", models.WrapError(models.KindValidation, err, "cannot persist upload")
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", models.WrapError(models.KindConfiguration, err, "cannot persist upload")
	}

	return path, nil
}

func (h *ConvertHandler) convertText(w http.ResponseWriter, r *http.Request, path string, req *models.ConversionRequest) {
	result, err := h.textService.ExtractText(r.Context(), path, req.Language, req.Pages, req.Threshold)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", req.FileName).Msg("Text conversion failed")
		WriteProcessingError(w, err)
		return
	}

	artifact := h.textService.FormatArtifact(result)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachmentDisposition(req.FileName, ".txt"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(artifact))
}

func (h *ConvertHandler) convertTable(w http.ResponseWriter, r *http.Request, path string, req *models.ConversionRequest) {
	result, err := h.tableService.ExtractTables(r.Context(), path, req.Language, req.Pages, req.Threshold)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", req.FileName).Msg("Table conversion failed")
		WriteProcessingError(w, err)
		return
	}
	defer os.Remove(result.SpreadsheetPath)

	if r.FormValue("format") == "json" {
		h.writeTableEnvelope(w, req, result)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachmentDisposition(req.FileName, ".xlsx"))
	http.ServeFile(w, r, result.SpreadsheetPath)
}

// writeTableEnvelope returns both artifacts of the detection pass in one
// JSON body: the per-table metadata plus the spreadsheet, base64-encoded.
func (h *ConvertHandler) writeTableEnvelope(w http.ResponseWriter, req *models.ConversionRequest, result *models.TableResult) {
	encoded, err := encodeFileBase64(result.SpreadsheetPath)
	if err != nil {
		WriteProcessingError(w, models.WrapError(models.KindConversion, err, "cannot encode spreadsheet"))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tables":               result.Tables,
		"pages_processed":      result.PagesProcessed,
		"spreadsheet_base64":   encoded,
		"spreadsheet_filename": artifactName(req.FileName, ".xlsx"),
	})
}
