package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/services/status"
)

func newStatusHandler(t *testing.T) *StatusHandler {
	t.Helper()
	config := common.NewDefaultConfig()
	logger := arbor.NewLogger()
	return NewStatusHandler(status.NewService(config, logger), logger)
}

func TestGetStatusHandler(t *testing.T) {
	h := newStatusHandler(t)

	req := httptest.NewRequest("GET", "/api/status", nil)
	rec := httptest.NewRecorder()
	h.GetStatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "folio", body["service"])
	assert.Equal(t, "ok", body["status"])

	capabilities, ok := body["capabilities"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "eng", capabilities["default_language"])
}

func TestGetStatusHandler_MethodNotAllowed(t *testing.T) {
	h := newStatusHandler(t)

	req := httptest.NewRequest("POST", "/api/status", nil)
	rec := httptest.NewRecorder()
	h.GetStatusHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetLanguagesHandler(t *testing.T) {
	h := newStatusHandler(t)

	req := httptest.NewRequest("GET", "/api/languages", nil)
	rec := httptest.NewRecorder()
	h.GetLanguagesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Languages []string `json:"languages"`
		Default   string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "eng", body.Default)
	assert.Contains(t, body.Languages, "eng")
}
