package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/folio/internal/models"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "eng", config.OCR.DefaultLanguage)
	assert.Equal(t, []string{"eng", "fra"}, config.OCR.SupportedLanguages)
	assert.Equal(t, 50, config.OCR.ConfidenceThreshold)
	assert.Equal(t, 100, config.Processing.MaxFileSizeMB)
	assert.Equal(t, 300, config.Processing.RenderDPI)
	assert.Equal(t, []string{".pdf"}, config.Processing.AllowedExtensions)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"

[server]
port = 9090

[ocr]
default_language = "fra"
supported_languages = ["eng", "fra", "deu"]
confidence_threshold = 70

[processing]
max_file_size_mb = 25
render_dpi = 150
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "fra", config.OCR.DefaultLanguage)
	assert.Equal(t, 70, config.OCR.ConfidenceThreshold)
	assert.Equal(t, 25, config.Processing.MaxFileSizeMB)
	assert.Equal(t, 150, config.Processing.RenderDPI)
	// Untouched sections keep defaults.
	assert.Equal(t, "localhost", config.Server.Host)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 9000\nhost = \"0.0.0.0\"\n"), 0644))
	require.NoError(t, os.WriteFile(override, []byte("[server]\nport = 9001\n"), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9001, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestLoadFromFiles_MissingFileIsConfigurationError(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/folio.toml")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindConfiguration))
}

func TestLoadFromFiles_MalformedFileIsConfigurationError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0644))

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindConfiguration))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_SERVER_PORT", "7070")
	t.Setenv("FOLIO_DEFAULT_LANGUAGE", "fra")
	t.Setenv("FOLIO_CONFIDENCE_THRESHOLD", "80")
	t.Setenv("FOLIO_SUPPORTED_LANGUAGES", "eng, fra ,deu")
	t.Setenv("FOLIO_MAX_FILE_SIZE_MB", "10")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")
	t.Setenv("FOLIO_LOG_CONSOLE", "yes")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "fra", config.OCR.DefaultLanguage)
	assert.Equal(t, 80, config.OCR.ConfidenceThreshold)
	assert.Equal(t, []string{"eng", "fra", "deu"}, config.OCR.SupportedLanguages)
	assert.Equal(t, 10, config.Processing.MaxFileSizeMB)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.Logging.ConsoleOutput)
}

func TestEnvOverrides_IgnoresUnparsableInt(t *testing.T) {
	t.Setenv("FOLIO_SERVER_PORT", "not-a-number")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("yes"))
	assert.True(t, parseBool(" TRUE "))
	assert.False(t, parseBool("false"))
	assert.False(t, parseBool("0"))
	assert.False(t, parseBool(""))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "threshold above 100", mutate: func(c *Config) { c.OCR.ConfidenceThreshold = 101 }},
		{name: "negative threshold", mutate: func(c *Config) { c.OCR.ConfidenceThreshold = -1 }},
		{name: "zero dpi", mutate: func(c *Config) { c.Processing.RenderDPI = 0 }},
		{name: "zero size limit", mutate: func(c *Config) { c.Processing.MaxFileSizeMB = 0 }},
		{name: "no languages", mutate: func(c *Config) { c.OCR.SupportedLanguages = nil }},
		{name: "default not supported", mutate: func(c *Config) { c.OCR.DefaultLanguage = "jpn" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.True(t, models.IsKind(err, models.KindConfiguration))
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)

	ApplyFlagOverrides(config, 9999, "0.0.0.0")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "0.0.0.0:9999", config.Address())
}
