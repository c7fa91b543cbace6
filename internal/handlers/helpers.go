package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/ternarybob/folio/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteProcessingError maps a pipeline error onto the HTTP status that
// fits its kind and writes the standard error body. User-correctable
// failures are 4xx; everything else is a 500.
func WriteProcessingError(w http.ResponseWriter, err error) error {
	return WriteError(w, statusForError(err), err.Error())
}

// statusForError maps error kinds to HTTP status codes. Validation
// failures are the caller's to fix; an unreadable document is a valid
// request carrying an unprocessable payload.
func statusForError(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindDocumentRead:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parsePageSelection parses a comma-separated list of 1-indexed page
// numbers. An empty value selects all pages. Non-numeric entries fail
// with a validation error; range checking happens in the resolver.
func parsePageSelection(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	selected := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, models.NewValidationError("invalid page number %q in selection", strings.TrimSpace(part))
		}
		selected = append(selected, n)
	}
	return selected, nil
}

// parseThreshold parses the optional confidence threshold parameter.
// Absent means "use the configured default", signalled as -1.
func parseThreshold(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, models.NewValidationError("invalid confidence threshold %q", value)
	}
	if n < 0 || n > 100 {
		return 0, models.NewValidationError("confidence threshold %d outside range 0-100", n)
	}
	return n, nil
}

// artifactName swaps the upload's extension for the artifact's.
func artifactName(uploadName, ext string) string {
	base := strings.TrimSuffix(uploadName, ".pdf")
	if base == "" {
		base = "converted"
	}
	return base + ext
}

// attachmentDisposition builds the Content-Disposition header for a
// downloadable artifact derived from the upload.
func attachmentDisposition(uploadName, ext string) string {
	return fmt.Sprintf("attachment; filename=%q", artifactName(uploadName, ext))
}

// encodeFileBase64 reads a file and returns its standard base64 encoding.
func encodeFileBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
