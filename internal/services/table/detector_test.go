package table

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

// gridWords synthesizes word boxes laid out as a rows x cols table with
// the given cell text. Column pitch 100px, row pitch 24px, so adjacent
// cell edges cluster into shared grid boundaries.
func gridWords(texts [][]string) []models.Word {
	var words []models.Word
	for r, row := range texts {
		for c, text := range row {
			if text == "" {
				continue
			}
			x := 100 + c*100
			y := 100 + r*24
			words = append(words, models.Word{
				Text:       text,
				Confidence: 95,
				BBox:       models.BoundingBox{X1: x, Y1: y, X2: x + 60, Y2: y + 20},
			})
		}
	}
	return words
}

// wordOCR returns a fixed word set per recognition call.
type wordOCR struct {
	words     []models.Word
	err       error
	languages []string
}

func (o *wordOCR) RecognizeWords(ctx context.Context, img image.Image, language string) ([]models.Word, error) {
	o.languages = append(o.languages, language)
	return o.words, o.err
}

func (o *wordOCR) Close() error { return nil }

func renderedPage(n int) interfaces.RenderedPage {
	return interfaces.RenderedPage{
		PageNumber: n,
		Image:      image.NewRGBA(image.Rect(0, 0, 1, 1)),
	}
}

func detectOpts() interfaces.TableDetectOptions {
	return interfaces.TableDetectOptions{
		UseDilation:      true,
		DetectRotation:   true,
		ImplicitRows:     true,
		BorderlessTables: true,
		MinConfidence:    50,
		Language:         "en",
	}
}

func TestDetectTables_RegularGrid(t *testing.T) {
	texts := [][]string{
		{"Name", "Qty", "Price"},
		{"Bolt", "12", "0.40"},
		{"Nut", "30", "0.15"},
	}
	ocr := &wordOCR{words: gridWords(texts)}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	tables, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, detectOpts())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, 1, table.PageNumber)
	assert.Equal(t, texts, table.Cells)
	assert.GreaterOrEqual(t, table.Confidence, 50.0)

	require.NotNil(t, table.BBox)
	assert.LessOrEqual(t, table.BBox.X1, 100)
	assert.GreaterOrEqual(t, table.BBox.X2, 360)
}

func TestDetectTables_TranslatesEngineLanguageToTesseract(t *testing.T) {
	ocr := &wordOCR{words: gridWords([][]string{{"a", "b"}, {"c", "d"}})}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	opts := detectOpts()
	opts.Language = "de"

	_, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, opts)
	require.NoError(t, err)
	require.Len(t, ocr.languages, 1)
	assert.Equal(t, "deu", ocr.languages[0])
}

func TestDetectTables_ProseIsNotATable(t *testing.T) {
	// A single line of running text has no grid structure.
	words := []models.Word{
		{Text: "just", Confidence: 90, BBox: models.BoundingBox{X1: 10, Y1: 10, X2: 60, Y2: 30}},
		{Text: "a", Confidence: 90, BBox: models.BoundingBox{X1: 70, Y1: 10, X2: 85, Y2: 30}},
		{Text: "sentence", Confidence: 90, BBox: models.BoundingBox{X1: 95, Y1: 10, X2: 200, Y2: 30}},
	}
	ocr := &wordOCR{words: words}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	tables, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, detectOpts())
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestDetectTables_EmptyPage(t *testing.T) {
	ocr := &wordOCR{}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	tables, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, detectOpts())
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestDetectTables_ConfidenceCutoff(t *testing.T) {
	ocr := &wordOCR{words: gridWords([][]string{
		{"Name", "Qty", "Price"},
		{"Bolt", "12", "0.40"},
		{"Nut", "30", "0.15"},
	})}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	opts := detectOpts()
	opts.MinConfidence = 100

	tables, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, opts)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestDetectTables_RecognitionFailure(t *testing.T) {
	ocr := &wordOCR{err: models.NewRecognitionError("engine broke")}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	_, err := engine.DetectTables(context.Background(), []interfaces.RenderedPage{renderedPage(1)}, detectOpts())
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindRecognition))
}

func TestDetectTables_PageOrderPreserved(t *testing.T) {
	ocr := &wordOCR{words: gridWords([][]string{{"a", "b"}, {"c", "d"}})}
	engine := NewGeometricEngine(ocr, arbor.NewLogger())

	pages := []interfaces.RenderedPage{renderedPage(2), renderedPage(5)}
	tables, err := engine.DetectTables(context.Background(), pages, detectOpts())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 2, tables[0].PageNumber)
	assert.Equal(t, 5, tables[1].PageNumber)
}

func TestMergeAdjacentFragments(t *testing.T) {
	fragments := []fragment{
		{text: "unit", x1: 100, y1: 100, x2: 140, y2: 120},
		{text: "price", x1: 145, y1: 100, x2: 195, y2: 120},
		{text: "far", x1: 400, y1: 100, x2: 430, y2: 120},
	}

	merged := mergeAdjacentFragments(fragments)
	require.Len(t, merged, 2)
	assert.Equal(t, "unit price", merged[0].text)
	assert.Equal(t, 195.0, merged[0].x2)
	assert.Equal(t, "far", merged[1].text)
}

func TestClusterFragments_SplitsOnVerticalGap(t *testing.T) {
	fragments := []fragment{
		{text: "a", x1: 10, y1: 10, x2: 40, y2: 30},
		{text: "b", x1: 10, y1: 35, x2: 40, y2: 55},
		{text: "c", x1: 10, y1: 400, x2: 40, y2: 420},
	}

	clusters := clusterFragments(fragments)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2)
	assert.Len(t, clusters[1], 1)
}

func TestEdgeBoundaries_ImplicitRows(t *testing.T) {
	// One fragment's edges are unsupported by any other fragment. With
	// implicit inference they survive; without it they are dropped.
	fragments := []fragment{
		{text: "a", x1: 0, y1: 100, x2: 50, y2: 120},
		{text: "b", x1: 0, y1: 100, x2: 50, y2: 120},
		{text: "lone", x1: 0, y1: 300, x2: 50, y2: 320},
	}
	edges := func(f fragment) (float64, float64) { return f.y1, f.y2 }

	implicit := edgeBoundaries(fragments, 2, true, edges)
	assert.Equal(t, []float64{100, 300, 320}, implicit)

	explicit := edgeBoundaries(fragments, 2, false, edges)
	assert.Equal(t, []float64{100, 320}, explicit)
}

func TestDeskewFragments_SmallSkewUntouched(t *testing.T) {
	fragments := []fragment{
		{text: "a", x1: 100, y1: 100, x2: 150, y2: 120},
		{text: "b", x1: 200, y1: 100, x2: 250, y2: 120},
	}
	assert.Equal(t, fragments, deskewFragments(fragments))
}

func TestDeskewFragments_CorrectsBaselineSlope(t *testing.T) {
	// Words climbing about 2 degrees across the line.
	fragments := []fragment{
		{text: "a", x1: 100, y1: 100, x2: 150, y2: 120},
		{text: "b", x1: 200, y1: 96, x2: 250, y2: 116},
		{text: "c", x1: 300, y1: 93, x2: 350, y2: 113},
		{text: "d", x1: 400, y1: 89, x2: 450, y2: 109},
	}

	corrected := deskewFragments(fragments)
	require.Len(t, corrected, 4)

	// After correction the vertical spread of word centers shrinks.
	spread := func(fs []fragment) float64 {
		min, max := fs[0].centerY(), fs[0].centerY()
		for _, f := range fs[1:] {
			if f.centerY() < min {
				min = f.centerY()
			}
			if f.centerY() > max {
				max = f.centerY()
			}
		}
		return max - min
	}
	assert.Less(t, spread(corrected), spread(fragments))
}
