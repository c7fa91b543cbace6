// -----------------------------------------------------------------------
// Configuration - defaults merged with TOML file(s), FOLIO_* environment
// variables, and CLI flags. Loaded once at startup, read-only afterward.
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/folio/internal/models"
)

// Config represents the application configuration. It is constructed in
// main and passed explicitly to each component; nothing mutates it after
// startup.
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	OCR         OCRConfig        `toml:"ocr"`
	Processing  ProcessingConfig `toml:"processing"`
	Logging     LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// OCRConfig holds recognition settings shared by both pipelines.
type OCRConfig struct {
	DefaultLanguage     string   `toml:"default_language"`     // Tesseract-style code, e.g. "eng"
	SupportedLanguages  []string `toml:"supported_languages"`  // The menu offered to callers
	ConfidenceThreshold int      `toml:"confidence_threshold"` // 0-100, words below are discarded
}

// ProcessingConfig holds upload and pipeline limits.
type ProcessingConfig struct {
	MaxFileSizeMB     int      `toml:"max_file_size_mb"`   // Upload size limit
	TempDir           string   `toml:"temp_dir"`           // Request-scoped working files
	OutputDir         string   `toml:"output_dir"`         // Generated artifacts
	RenderDPI         int      `toml:"render_dpi"`         // Rasterization resolution for OCR
	AllowedExtensions []string `toml:"allowed_extensions"` // Upload filename extensions
}

type LoggingConfig struct {
	Level         string   `toml:"level"`          // "debug", "info", "warn", "error"
	Format        string   `toml:"format"`         // "json" or "text"
	Output        []string `toml:"output"`         // "stdout", "file"
	TimeFormat    string   `toml:"time_format"`    // Time format for logs
	ConsoleOutput bool     `toml:"console_output"` // Mirror file logs to the console
}

// NewDefaultConfig creates a configuration with default values. Only
// user-facing settings are exposed in folio.toml; anything tuning the
// engines themselves stays hardcoded near its use.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		OCR: OCRConfig{
			DefaultLanguage:     "eng",
			SupportedLanguages:  []string{"eng", "fra"},
			ConfidenceThreshold: 50,
		},
		Processing: ProcessingConfig{
			MaxFileSizeMB:     100,
			TempDir:           os.TempDir(),
			OutputDir:         "./output",
			RenderDPI:         300,
			AllowedExtensions: []string{".pdf"},
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "text",
			Output:        []string{"stdout"},
			TimeFormat:    "15:04:05",
			ConsoleOutput: true,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> environment. Later files override earlier files; env
// overrides all files. CLI flags are applied afterward by the caller via
// ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, models.WrapError(models.KindConfiguration, err,
				"failed to read config file %s", path)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, models.WrapError(models.KindConfiguration, err,
				"failed to parse config file %s (file %d of %d)", path, i+1, len(paths))
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings no component could run with. Called after the
// full merge so a bad file value can still be corrected by env or flags.
func (c *Config) Validate() error {
	if c.OCR.ConfidenceThreshold < 0 || c.OCR.ConfidenceThreshold > 100 {
		return models.NewConfigurationError("confidence_threshold must be in [0, 100], got %d", c.OCR.ConfidenceThreshold)
	}
	if c.Processing.RenderDPI <= 0 {
		return models.NewConfigurationError("render_dpi must be positive, got %d", c.Processing.RenderDPI)
	}
	if c.Processing.MaxFileSizeMB <= 0 {
		return models.NewConfigurationError("max_file_size_mb must be positive, got %d", c.Processing.MaxFileSizeMB)
	}
	if len(c.OCR.SupportedLanguages) == 0 {
		return models.NewConfigurationError("supported_languages must not be empty")
	}
	if !c.IsLanguageSupported(c.OCR.DefaultLanguage) {
		return models.NewConfigurationError("default_language %q is not in supported_languages %v",
			c.OCR.DefaultLanguage, c.OCR.SupportedLanguages)
	}
	return nil
}

// IsLanguageSupported reports whether lang is in the configured menu.
func (c *Config) IsLanguageSupported(lang string) bool {
	for _, l := range c.OCR.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies FOLIO_* environment variables to config.
// Coercion: integers via strconv.Atoi, booleans accept true/1/yes,
// strings and comma-separated lists as-is.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("FOLIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FOLIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// OCR configuration
	if lang := os.Getenv("FOLIO_DEFAULT_LANGUAGE"); lang != "" {
		config.OCR.DefaultLanguage = lang
	}
	if langs := os.Getenv("FOLIO_SUPPORTED_LANGUAGES"); langs != "" {
		if parsed := splitList(langs); len(parsed) > 0 {
			config.OCR.SupportedLanguages = parsed
		}
	}
	if threshold := os.Getenv("FOLIO_CONFIDENCE_THRESHOLD"); threshold != "" {
		if t, err := strconv.Atoi(threshold); err == nil {
			config.OCR.ConfidenceThreshold = t
		}
	}

	// Processing configuration
	if maxSize := os.Getenv("FOLIO_MAX_FILE_SIZE_MB"); maxSize != "" {
		if m, err := strconv.Atoi(maxSize); err == nil {
			config.Processing.MaxFileSizeMB = m
		}
	}
	if tempDir := os.Getenv("FOLIO_TEMP_DIR"); tempDir != "" {
		config.Processing.TempDir = tempDir
	}
	if outputDir := os.Getenv("FOLIO_OUTPUT_DIR"); outputDir != "" {
		config.Processing.OutputDir = outputDir
	}
	if dpi := os.Getenv("FOLIO_RENDER_DPI"); dpi != "" {
		if d, err := strconv.Atoi(dpi); err == nil {
			config.Processing.RenderDPI = d
		}
	}

	// Logging configuration
	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("FOLIO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("FOLIO_LOG_OUTPUT"); output != "" {
		if parsed := splitList(output); len(parsed) > 0 {
			config.Logging.Output = parsed
		}
	}
	if console := os.Getenv("FOLIO_LOG_CONSOLE"); console != "" {
		config.Logging.ConsoleOutput = parseBool(console)
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority).
// Zero values mean the flag was not set.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// parseBool accepts true/1/yes (case-insensitive) as true.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
