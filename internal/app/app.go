// -----------------------------------------------------------------------
// Application Wiring - constructs the engines, pipelines and handlers
// behind the HTTP surface
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/handlers"
	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/services/document"
	"github.com/ternarybob/folio/internal/services/ocr"
	"github.com/ternarybob/folio/internal/services/render"
	"github.com/ternarybob/folio/internal/services/status"
	"github.com/ternarybob/folio/internal/services/table"
	"github.com/ternarybob/folio/internal/services/text"
	"github.com/ternarybob/folio/internal/validation"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Engines
	DocumentReader interfaces.DocumentReader
	PageRenderer   interfaces.PageRenderer
	OCREngine      interfaces.OCREngine
	TableEngine    interfaces.TableEngine

	// Conversion pipelines
	TextService  interfaces.TextService
	TableService interfaces.TableService

	// Supporting services
	StatusService *status.Service
	FileValidator *validation.FileValidator

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	ConvertHandler  *handlers.ConvertHandler
	MetadataHandler *handlers.MetadataHandler
	StatusHandler   *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare directories: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("default_language", cfg.OCR.DefaultLanguage).
		Int("render_dpi", cfg.Processing.RenderDPI).
		Int("max_file_size_mb", cfg.Processing.MaxFileSizeMB).
		Msg("Application initialization complete")

	return app, nil
}

// initDirectories ensures the temp and output directories exist.
func (a *App) initDirectories() error {
	for _, dir := range []string{a.Config.Processing.TempDir, a.Config.Processing.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory %q: %w", dir, err)
		}
	}
	return nil
}

// initServices constructs the engines and the two conversion pipelines.
func (a *App) initServices() error {
	a.DocumentReader = document.NewReader(a.Logger)
	a.PageRenderer = render.NewRenderer(a.Logger)

	engine, err := ocr.NewTesseractEngine(a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR engine: %w", err)
	}
	a.OCREngine = engine

	a.TableEngine = table.NewGeometricEngine(a.OCREngine, a.Logger)

	a.TextService = text.NewService(a.DocumentReader, a.PageRenderer, a.OCREngine, a.Config, a.Logger)
	a.TableService = table.NewService(a.DocumentReader, a.PageRenderer, a.TableEngine, a.Config, a.Logger)

	a.StatusService = status.NewService(a.Config, a.Logger)
	a.FileValidator = validation.NewFileValidator(a.Config.Processing.AllowedExtensions, a.Logger)

	a.Logger.Debug().Msg("Conversion services initialized")
	return nil
}

// initHandlers constructs the HTTP handlers over the services.
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.ConvertHandler = handlers.NewConvertHandler(a.TextService, a.TableService, a.FileValidator, a.Config, a.Logger)
	a.MetadataHandler = handlers.NewMetadataHandler(a.DocumentReader, a.FileValidator, a.Config, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.Logger)
}

// Close releases engine resources.
func (a *App) Close() error {
	if a.OCREngine != nil {
		if err := a.OCREngine.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close OCR engine")
			return err
		}
	}
	a.Logger.Debug().Msg("Application closed")
	return nil
}
