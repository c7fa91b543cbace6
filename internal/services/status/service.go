// -----------------------------------------------------------------------
// Status Service - service health and capability snapshot for the status
// endpoint
// -----------------------------------------------------------------------

package status

import (
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
)

// Service reports service status. The snapshot is derived from read-only
// config plus the process start time, so no locking is needed.
type Service struct {
	config  *common.Config
	logger  arbor.ILogger
	started time.Time
}

// NewService creates a new status service anchored at the current time.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		config:  config,
		logger:  logger,
		started: time.Now(),
	}
}

// Snapshot returns the current status: version, environment, uptime and
// the conversion capabilities the service is configured with.
func (s *Service) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"service":     "folio",
		"status":      "ok",
		"version":     common.GetVersion(),
		"environment": s.config.Environment,
		"uptime":      time.Since(s.started).Round(time.Second).String(),
		"timestamp":   time.Now().UTC(),
		"capabilities": map[string]interface{}{
			"modes":                []string{"text", "table"},
			"languages":            s.config.OCR.SupportedLanguages,
			"default_language":     s.config.OCR.DefaultLanguage,
			"confidence_threshold": s.config.OCR.ConfidenceThreshold,
			"max_file_size_mb":     s.config.Processing.MaxFileSizeMB,
			"render_dpi":           s.config.Processing.RenderDPI,
		},
	}
}

// Languages returns the configured language menu with the default first.
func (s *Service) Languages() map[string]interface{} {
	return map[string]interface{}{
		"languages": s.config.OCR.SupportedLanguages,
		"default":   s.config.OCR.DefaultLanguage,
	}
}
