// -----------------------------------------------------------------------
// Table Extraction Service - validate, resolve pages, render, run one
// detection pass, persist the workbook, derive per-table metadata
// -----------------------------------------------------------------------

package table

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
	"github.com/ternarybob/folio/internal/pages"
)

// Service implements the TableService interface.
type Service struct {
	reader   interfaces.DocumentReader
	renderer interfaces.PageRenderer
	engine   interfaces.TableEngine
	config   *common.Config
	logger   arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TableService = (*Service)(nil)

// NewService creates the table-extraction pipeline.
func NewService(reader interfaces.DocumentReader, renderer interfaces.PageRenderer, engine interfaces.TableEngine, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		reader:   reader,
		renderer: renderer,
		engine:   engine,
		config:   config,
		logger:   logger,
	}
}

// ExtractTables detects tables on the selected pages and persists them as
// an XLSX workbook under the configured temp directory. The workbook and
// the returned metadata records come from the same detection pass, so
// sheet order and metadata order always agree. The caller owns the
// spreadsheet file and deletes it when done.
func (s *Service) ExtractTables(ctx context.Context, path, language string, selected []int, threshold int) (*models.TableResult, error) {
	if err := s.reader.Validate(ctx, path); err != nil {
		return nil, err
	}

	total, err := s.reader.PageCount(ctx, path)
	if err != nil {
		return nil, err
	}

	resolved, err := pages.Resolve(total, selected)
	if err != nil {
		return nil, err
	}

	if threshold < 0 {
		threshold = s.config.OCR.ConfidenceThreshold
	}

	engineLang := EngineLanguage(language)

	s.logger.Info().
		Str("language", language).
		Str("engine_language", engineLang).
		Int("threshold", threshold).
		Str("selection", pages.Describe(total, resolved)).
		Msg("Extracting tables")

	rendered, err := s.renderer.RenderPages(ctx, path, resolved, s.config.Processing.RenderDPI)
	if err != nil {
		return nil, err
	}

	detected, err := s.engine.DetectTables(ctx, rendered, interfaces.TableDetectOptions{
		UseDilation:      true,
		DetectRotation:   true,
		ImplicitRows:     true,
		BorderlessTables: true,
		MinConfidence:    threshold,
		Language:         engineLang,
	})
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(s.config.Processing.TempDir, fmt.Sprintf("tables-%s.xlsx", uuid.New().String()))
	if err := WriteWorkbook(detected, outPath); err != nil {
		return nil, err
	}

	infos := make([]models.TableInfo, 0, len(detected))
	for i, table := range detected {
		info, err := tableMetadata(i+1, table)
		if err != nil {
			// Metadata fault isolation: the entry is error-tagged, the
			// batch continues.
			s.logger.Warn().
				Int("table_id", i+1).
				Err(err).
				Msg("Metadata extraction failed for table")
			info = models.TableInfo{
				TableID:    i + 1,
				PageNumber: table.PageNumber,
				Error:      err.Error(),
			}
		}
		infos = append(infos, info)
	}

	s.logger.Info().
		Int("tables", len(infos)).
		Str("spreadsheet", outPath).
		Msg("Table extraction completed")

	return &models.TableResult{
		SpreadsheetPath: outPath,
		Tables:          infos,
		PagesProcessed:  len(rendered),
	}, nil
}

// tableMetadata builds the metadata record for one detected table. A
// table whose cell grid is empty or ragged cannot be described and
// reports a conversion error instead.
func tableMetadata(id int, table models.DetectedTable) (models.TableInfo, error) {
	if len(table.Cells) == 0 {
		return models.TableInfo{}, models.NewConversionError("table has no cell grid")
	}

	columns := len(table.Cells[0])
	for _, row := range table.Cells {
		if len(row) != columns {
			return models.TableInfo{}, models.NewConversionError("table cell grid is ragged")
		}
	}

	return models.TableInfo{
		TableID:    id,
		PageNumber: table.PageNumber,
		BBox:       table.BBox,
		Confidence: table.Confidence,
		Rows:       len(table.Cells),
		Columns:    columns,
	}, nil
}
