// -----------------------------------------------------------------------
// OCR Engine Service - word-level recognition with confidence scores
// Uses Tesseract via gosseract. Requires the tesseract library and the
// language data files for each configured language to be installed.
// -----------------------------------------------------------------------

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

// TesseractEngine implements the OCREngine interface using gosseract.
// The underlying client is not safe for concurrent use, so calls are
// serialized; conversion requests are request-scoped and synchronous, so
// this never contends in practice.
type TesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.OCREngine = (*TesseractEngine)(nil)

// NewTesseractEngine creates a Tesseract-backed OCR engine. The page
// segmentation mode is fixed to single-block, which matches how rendered
// full-page scans are fed to the engine.
func NewTesseractEngine(logger arbor.ILogger) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, models.WrapError(models.KindConfiguration, err, "failed to configure page segmentation mode")
	}

	return &TesseractEngine{
		client: client,
		logger: logger,
	}, nil
}

// RecognizeWords runs word-level OCR on the image in the given language
// and returns every recognized word with its confidence (0-100) and
// bounding box. Filtering against the threshold is the caller's job.
func (e *TesseractEngine) RecognizeWords(ctx context.Context, img image.Image, language string) ([]models.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.WrapError(models.KindRecognition, err, "recognition interrupted")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, models.WrapError(models.KindRecognition, err, "failed to encode page image")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetLanguage(language); err != nil {
		return nil, models.WrapError(models.KindRecognition, err, "unsupported OCR language %q", language)
	}

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, models.WrapError(models.KindRecognition, err, "failed to set page image")
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, models.WrapError(models.KindRecognition, err, "OCR failed")
	}

	words := make([]models.Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, models.Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			BBox: models.BoundingBox{
				X1: b.Box.Min.X,
				Y1: b.Box.Min.Y,
				X2: b.Box.Max.X,
				Y2: b.Box.Max.Y,
			},
		})
	}

	e.logger.Debug().
		Str("language", language).
		Int("words", len(words)).
		Msg("OCR pass completed")

	return words, nil
}

// Close releases Tesseract resources.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}
