package text

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/common"
	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

// fakeReader serves a fixed page count, or a read error.
type fakeReader struct {
	pageCount int
	err       error
}

func (f *fakeReader) Validate(ctx context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	if f.pageCount == 0 {
		return models.NewDocumentReadError("PDF file contains no pages")
	}
	return nil
}

func (f *fakeReader) PageCount(ctx context.Context, path string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.pageCount, nil
}

func (f *fakeReader) Metadata(ctx context.Context, path string) (*models.DocumentInfo, error) {
	return &models.DocumentInfo{PageCount: f.pageCount}, nil
}

// fakeRenderer records the pages it was asked for and returns one blank
// image per requested page.
type fakeRenderer struct {
	requested []int
	dpi       int
	err       error
}

func (f *fakeRenderer) RenderPages(ctx context.Context, path string, pageNumbers []int, dpi int) ([]interfaces.RenderedPage, error) {
	f.requested = append([]int(nil), pageNumbers...)
	f.dpi = dpi
	if f.err != nil {
		return nil, f.err
	}
	rendered := make([]interfaces.RenderedPage, 0, len(pageNumbers))
	for _, p := range pageNumbers {
		rendered = append(rendered, interfaces.RenderedPage{
			PageNumber: p,
			Image:      image.NewRGBA(image.Rect(0, 0, 1, 1)),
		})
	}
	return rendered, nil
}

// fakeEngine recognizes nothing; used where OCR output does not matter.
type fakeEngine struct{}

func (f *fakeEngine) RecognizeWords(ctx context.Context, img image.Image, language string) ([]models.Word, error) {
	return nil, nil
}

func (f *fakeEngine) Close() error { return nil }

// pageEngine keys recognition output by call order, matching the order of
// rendered pages.
type pageEngine struct {
	perCall []func() ([]models.Word, error)
	call    int
}

func (p *pageEngine) RecognizeWords(ctx context.Context, img image.Image, language string) ([]models.Word, error) {
	fn := p.perCall[p.call]
	p.call++
	return fn()
}

func (p *pageEngine) Close() error { return nil }

func newTestService(reader interfaces.DocumentReader, renderer interfaces.PageRenderer, engine interfaces.OCREngine) *Service {
	config := common.NewDefaultConfig()
	return NewService(reader, renderer, engine, config, arbor.NewLogger())
}

func words(pairs ...interface{}) []models.Word {
	out := make([]models.Word, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.Word{
			Text:       pairs[i].(string),
			Confidence: float64(pairs[i+1].(int)),
		})
	}
	return out
}

func TestExtractText_ConfidenceFiltering(t *testing.T) {
	// OCR yields [("Hello",85),("World",90),("x",10)] at threshold 50:
	// the page's text is exactly "Hello World".
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) {
			return words("Hello", 85, "World", 90, "x", 10), nil
		},
	}}
	renderer := &fakeRenderer{}
	svc := newTestService(&fakeReader{pageCount: 1}, renderer, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.Equal(t, "Hello World", result.Pages[0].Text)
	assert.Equal(t, 2, result.Pages[0].WordCount)
	assert.Equal(t, 1, result.PagesProcessed)
}

func TestExtractText_ThresholdInclusive(t *testing.T) {
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) {
			return words("exact", 50, "below", 49), nil
		},
	}}
	svc := newTestService(&fakeReader{pageCount: 1}, &fakeRenderer{}, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.NoError(t, err)
	assert.Equal(t, "exact", result.Pages[0].Text)
}

func TestExtractText_NegativeThresholdUsesConfigured(t *testing.T) {
	// Default configured threshold is 50.
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) {
			return words("keep", 60, "drop", 40), nil
		},
	}}
	svc := newTestService(&fakeReader{pageCount: 1}, &fakeRenderer{}, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, -1)
	require.NoError(t, err)
	assert.Equal(t, "keep", result.Pages[0].Text)
}

func TestExtractText_SinglePageSelectionRendersOnlyThatPage(t *testing.T) {
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) { return words("only", 99), nil },
	}}
	renderer := &fakeRenderer{}
	svc := newTestService(&fakeReader{pageCount: 10}, renderer, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", []int{7}, 50)
	require.NoError(t, err)

	// Exactly page 7 is rendered, not the range 1..7.
	assert.Equal(t, []int{7}, renderer.requested)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, 7, result.Pages[0].PageNumber)
}

func TestExtractText_PerPageFaultIsolation(t *testing.T) {
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) { return words("first", 90), nil },
		func() ([]models.Word, error) { return nil, models.NewRecognitionError("engine crashed") },
		func() ([]models.Word, error) { return words("third", 90), nil },
	}}
	svc := newTestService(&fakeReader{pageCount: 3}, &fakeRenderer{}, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.NoError(t, err)

	require.Len(t, result.Pages, 3)
	assert.Equal(t, "first", result.Pages[0].Text)
	assert.False(t, result.Pages[0].Failed())

	assert.Equal(t, "", result.Pages[1].Text)
	assert.True(t, result.Pages[1].Failed())

	assert.Equal(t, "third", result.Pages[2].Text)
	assert.Equal(t, 3, result.PagesProcessed)
}

func TestExtractText_RenderFailureAbortsBatch(t *testing.T) {
	renderer := &fakeRenderer{err: models.NewRecognitionError("mupdf exploded")}
	svc := newTestService(&fakeReader{pageCount: 3}, renderer, &fakeEngine{})

	_, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindRecognition))
}

func TestExtractText_ZeroPageDocumentFailsBeforeRendering(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newTestService(&fakeReader{pageCount: 0}, renderer, &fakeEngine{})

	_, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindDocumentRead))
	assert.Nil(t, renderer.requested)
}

func TestExtractText_InvalidSelectionNamesAllOffenders(t *testing.T) {
	svc := newTestService(&fakeReader{pageCount: 3}, &fakeRenderer{}, &fakeEngine{})

	_, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", []int{5, 0}, 50)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Contains(t, err.Error(), "5")
	assert.Contains(t, err.Error(), "0")
}

func TestExtractText_UnreadableDocument(t *testing.T) {
	reader := &fakeReader{err: models.NewDocumentReadError("corrupt xref")}
	svc := newTestService(reader, &fakeRenderer{}, &fakeEngine{})

	_, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindDocumentRead))
}

func TestFilterWords_Monotonic(t *testing.T) {
	// Raising the threshold never increases the set of retained words.
	ws := words("a", 10, "b", 35, "c", 50, "d", 75, "e", 90)

	prev := len(ws) + 1
	for threshold := 0; threshold <= 100; threshold += 5 {
		_, kept := FilterWords(ws, threshold)
		assert.LessOrEqual(t, kept, prev, "threshold %d retained more words than a lower threshold", threshold)
		prev = kept
	}
}

func TestFilterWords_DropsBlankText(t *testing.T) {
	ws := []models.Word{
		{Text: "  ", Confidence: 99},
		{Text: "\t", Confidence: 99},
		{Text: "real", Confidence: 99},
	}
	text, kept := FilterWords(ws, 50)
	assert.Equal(t, "real", text)
	assert.Equal(t, 1, kept)
}

func TestFormatArtifact(t *testing.T) {
	svc := newTestService(&fakeReader{pageCount: 2}, &fakeRenderer{}, &fakeEngine{})

	result := &models.TextResult{
		Pages: []models.PageResult{
			{PageNumber: 1, Text: "Hello World"},
			{PageNumber: 3, Text: "second selected page"},
		},
		PagesProcessed: 2,
	}

	artifact := svc.FormatArtifact(result)
	assert.Equal(t, "=== Page 1 ===\nHello World\n\n=== Page 3 ===\nsecond selected page", artifact)
}

func TestFormatArtifact_FailedPageHasEmptyBody(t *testing.T) {
	svc := newTestService(&fakeReader{pageCount: 1}, &fakeRenderer{}, &fakeEngine{})

	result := &models.TextResult{
		Pages: []models.PageResult{
			{PageNumber: 1, Text: "", Error: "ocr failed"},
			{PageNumber: 2, Text: "ok"},
		},
	}

	artifact := svc.FormatArtifact(result)
	assert.Equal(t, "=== Page 1 ===\n\n\n=== Page 2 ===\nok", artifact)
}

func TestExtractText_ContextErrorFromEngineIsIsolated(t *testing.T) {
	// Even non-ProcessingError failures from the engine degrade the page,
	// not the batch.
	engine := &pageEngine{perCall: []func() ([]models.Word, error){
		func() ([]models.Word, error) { return nil, errors.New("plain failure") },
		func() ([]models.Word, error) { return words("ok", 80), nil },
	}}
	svc := newTestService(&fakeReader{pageCount: 2}, &fakeRenderer{}, engine)

	result, err := svc.ExtractText(context.Background(), "doc.pdf", "eng", nil, 50)
	require.NoError(t, err)
	assert.True(t, result.Pages[0].Failed())
	assert.Equal(t, "ok", result.Pages[1].Text)
}
