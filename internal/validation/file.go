// -----------------------------------------------------------------------
// File Validator - magic bytes, size limit, and filename safety checks
// run before any document processing starts
// -----------------------------------------------------------------------

package validation

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/models"
)

// pdfSignature is the magic byte prefix every acceptable upload must carry.
const pdfSignature = "%PDF-"

// Sentinel causes for the individual validation failures. Each is wrapped
// in a models.ProcessingError of kind validation so callers can match with
// errors.Is on the cause or on the kind.
var (
	ErrInvalidFileType     = errors.New("file is not a valid PDF")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFilename       = errors.New("filename cannot be empty")
	ErrDisallowedExtension = errors.New("file extension not allowed")
	ErrUnsafeFilename      = errors.New("filename contains invalid characters")
)

// unsafeSubstrings are path-traversal and shell-metacharacter-like
// sequences rejected in uploaded filenames.
var unsafeSubstrings = []string{"..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// FileValidator answers whether an uploaded stream and its claimed
// filename are an acceptable PDF. The three checks are independent and
// composable; callers invoke them in sequence and the first failure wins.
type FileValidator struct {
	allowedExtensions []string
	logger            arbor.ILogger
}

// NewFileValidator creates a file validator. With no extensions given,
// only ".pdf" is allowed.
func NewFileValidator(allowedExtensions []string, logger arbor.ILogger) *FileValidator {
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{".pdf"}
	}
	return &FileValidator{
		allowedExtensions: allowedExtensions,
		logger:            logger,
	}
}

// ValidateType inspects the first bytes of the stream for the PDF
// signature. The read position is restored before returning, so the probe
// never consumes the stream.
func (v *FileValidator) ValidateType(rs io.ReadSeeker) error {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return models.WrapError(models.KindValidation, err, "cannot probe stream position")
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return models.WrapError(models.KindValidation, err, "cannot rewind stream")
	}

	header := make([]byte, 8)
	n, readErr := io.ReadFull(rs, header)

	// Restore position before any verdict.
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return models.WrapError(models.KindValidation, err, "cannot restore stream position")
	}

	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return models.WrapError(models.KindValidation, readErr, "cannot read file header")
	}

	if !strings.HasPrefix(string(header[:n]), pdfSignature) {
		return models.WrapError(models.KindValidation, ErrInvalidFileType, "file is not a valid PDF")
	}

	v.logger.Debug().Msg("Valid PDF signature detected")
	return nil
}

// ValidateSize computes the byte length of the stream without consuming
// it (probe end, restore position) and fails when the size in megabytes
// exceeds maxSizeMB.
func (v *FileValidator) ValidateSize(rs io.ReadSeeker, maxSizeMB int) error {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return models.WrapError(models.KindValidation, err, "cannot probe stream position")
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return models.WrapError(models.KindValidation, err, "cannot probe stream size")
	}

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return models.WrapError(models.KindValidation, err, "cannot restore stream position")
	}

	sizeMB := float64(end) / (1024 * 1024)
	v.logger.Debug().
		Float64("size_mb", sizeMB).
		Int("limit_mb", maxSizeMB).
		Msg("File size probed")

	if sizeMB > float64(maxSizeMB) {
		return models.WrapError(models.KindValidation, ErrFileTooLarge,
			"file size (%.2f MB) exceeds maximum allowed size (%d MB)", sizeMB, maxSizeMB)
	}

	return nil
}

// ValidateFilename checks the claimed filename: non-empty, allowed
// extension, and no path-traversal or shell-metacharacter substrings.
func (v *FileValidator) ValidateFilename(name string) error {
	if name == "" {
		return models.WrapError(models.KindValidation, ErrEmptyFilename, "filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, e := range v.allowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return models.WrapError(models.KindValidation, ErrDisallowedExtension,
			"file extension %q not allowed, allowed extensions: %s", ext, strings.Join(v.allowedExtensions, ", "))
	}

	for _, s := range unsafeSubstrings {
		if strings.Contains(name, s) {
			return models.WrapError(models.KindValidation, ErrUnsafeFilename,
				"filename %q contains invalid characters", name)
		}
	}

	v.logger.Debug().Str("filename", name).Msg("Filename validation passed")
	return nil
}
