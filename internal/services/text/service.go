// -----------------------------------------------------------------------
// Text Extraction Service - validate, resolve pages, render, recognize,
// filter by confidence, join into per-page strings
// -----------------------------------------------------------------------

package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
	"github.com/ternarybob/folio/internal/pages"
)

// Service implements the TextService interface.
type Service struct {
	reader   interfaces.DocumentReader
	renderer interfaces.PageRenderer
	engine   interfaces.OCREngine
	config   *common.Config
	logger   arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TextService = (*Service)(nil)

// NewService creates the text-extraction pipeline.
func NewService(reader interfaces.DocumentReader, renderer interfaces.PageRenderer, engine interfaces.OCREngine, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		reader:   reader,
		renderer: renderer,
		engine:   engine,
		config:   config,
		logger:   logger,
	}
}

// ExtractText OCRs the selected pages and returns per-page results in
// page order.
//
// Rendering is all-or-nothing: a render failure aborts the batch. OCR is
// per-page isolated: a failed page degrades to an error-tagged empty
// result and the remaining pages continue. threshold < 0 selects the
// configured default.
func (s *Service) ExtractText(ctx context.Context, path, language string, selected []int, threshold int) (*models.TextResult, error) {
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

	s.logger.Info().
		Str("language", language).
		Int("threshold", threshold).
		Str("selection", pages.Describe(total, resolved)).
		Msg("Extracting text")

	rendered, err := s.renderer.RenderPages(ctx, path, resolved, s.config.Processing.RenderDPI)
	if err != nil {
		return nil, err
	}

	results := make([]models.PageResult, 0, len(rendered))
	for _, page := range rendered {
		words, err := s.engine.RecognizeWords(ctx, page.Image, language)
		if err != nil {
			// Per-page fault isolation: the page degrades to an empty
			// result, the batch continues.
			s.logger.Warn().
				Int("page", page.PageNumber).
				Err(err).
				Msg("OCR failed for page")
			results = append(results, models.PageResult{
				PageNumber: page.PageNumber,
				Text:       "",
				Error:      err.Error(),
			})
			continue
		}

		text, kept := FilterWords(words, threshold)
		results = append(results, models.PageResult{
			PageNumber: page.PageNumber,
			Text:       text,
			WordCount:  kept,
		})
	}

	s.logger.Info().Int("pages_processed", len(results)).Msg("Text extraction completed")

	return &models.TextResult{
		Pages:          results,
		PagesProcessed: len(results),
	}, nil
}

// FilterWords keeps words whose confidence meets or exceeds the threshold
// (inclusive) and whose trimmed text is non-empty, joined with single
// spaces. Returns the joined text and the number of words kept.
func FilterWords(words []models.Word, threshold int) (string, int) {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w.Confidence >= float64(threshold) && strings.TrimSpace(w.Text) != "" {
			kept = append(kept, w.Text)
		}
	}
	return strings.Join(kept, " "), len(kept)
}

// FormatArtifact renders the downloadable UTF-8 text artifact: a
// "=== Page N ===" header before each page's text, pages separated by
// blank lines.
func (s *Service) FormatArtifact(result *models.TextResult) string {
	var b strings.Builder
	for i, page := range result.Pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== Page %d ===\n", page.PageNumber)
		b.WriteString(page.Text)
	}
	return b.String()
}
