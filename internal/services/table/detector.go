// -----------------------------------------------------------------------
// Geometric Table Engine - locates tabular structure in rendered page
// images from word-level OCR geometry: cluster fragments, derive a grid
// from aligned edges, score it, assign text to cells
// -----------------------------------------------------------------------

package table

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/folio/internal/interfaces"
	"github.com/ternarybob/folio/internal/models"
)

const (
	minTableRows = 2
	minTableCols = 2

	// clusterGapFactor times the median fragment height is the vertical
	// gap that separates two table candidates.
	clusterGapFactor = 2.5

	// skewThresholdRadians is the smallest baseline skew worth correcting
	// (about 0.5 degrees).
	skewThresholdRadians = 0.009
)

// GeometricEngine implements the TableEngine interface on top of word
// geometry from OCR. It carries no engine-side state between calls.
type GeometricEngine struct {
	ocr    interfaces.OCREngine
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TableEngine = (*GeometricEngine)(nil)

// NewGeometricEngine creates a geometric table engine backed by the given
// OCR engine for word extraction.
func NewGeometricEngine(ocr interfaces.OCREngine, logger arbor.ILogger) *GeometricEngine {
	return &GeometricEngine{
		ocr:    ocr,
		logger: logger,
	}
}

// fragment is a word or a run of merged words with its box in pixel
// coordinates, top-left origin.
type fragment struct {
	text string
	x1   float64
	y1   float64
	x2   float64
	y2   float64
}

func (f fragment) width() float64   { return f.x2 - f.x1 }
func (f fragment) height() float64  { return f.y2 - f.y1 }
func (f fragment) centerX() float64 { return (f.x1 + f.x2) / 2 }
func (f fragment) centerY() float64 { return (f.y1 + f.y2) / 2 }

// DetectTables runs one detection pass over the rendered pages and
// returns every table found, in page order.
func (e *GeometricEngine) DetectTables(ctx context.Context, rendered []interfaces.RenderedPage, opts interfaces.TableDetectOptions) ([]models.DetectedTable, error) {
	language := tesseractLanguage(opts.Language)

	var tables []models.DetectedTable
	for _, page := range rendered {
		if err := ctx.Err(); err != nil {
			return nil, models.WrapError(models.KindRecognition, err, "table detection interrupted")
		}

		words, err := e.ocr.RecognizeWords(ctx, page.Image, language)
		if err != nil {
			return nil, models.WrapError(models.KindRecognition, err, "word extraction failed on page %d", page.PageNumber)
		}

		fragments := wordsToFragments(words)
		if opts.DetectRotation {
			fragments = deskewFragments(fragments)
		}
		if opts.UseDilation {
			fragments = mergeAdjacentFragments(fragments)
		}

		pageTables := e.detectOnPage(page.PageNumber, fragments, opts)
		tables = append(tables, pageTables...)
	}

	e.logger.Debug().
		Int("pages", len(rendered)).
		Int("tables", len(tables)).
		Str("language", opts.Language).
		Msg("Table detection pass completed")

	return tables, nil
}

// detectOnPage clusters the page's fragments into candidate regions and
// keeps each region that forms a grid above the confidence cutoff.
func (e *GeometricEngine) detectOnPage(pageNumber int, fragments []fragment, opts interfaces.TableDetectOptions) []models.DetectedTable {
	var tables []models.DetectedTable
	for _, cluster := range clusterFragments(fragments) {
		if table := e.detectInCluster(pageNumber, cluster, opts); table != nil {
			tables = append(tables, *table)
		}
	}
	return tables
}

// detectInCluster builds a grid from the cluster's aligned edges and
// converts it to a detected table when it scores above the cutoff.
func (e *GeometricEngine) detectInCluster(pageNumber int, fragments []fragment, opts interfaces.TableDetectOptions) *models.DetectedTable {
	if len(fragments) < minTableRows*minTableCols {
		return nil
	}

	tolerance := alignmentTolerance(fragments)
	rows := edgeBoundaries(fragments, tolerance, opts.ImplicitRows, func(f fragment) (float64, float64) { return f.y1, f.y2 })
	cols := edgeBoundaries(fragments, tolerance, true, func(f fragment) (float64, float64) { return f.x1, f.x2 })

	if len(rows) < minTableRows+1 || len(cols) < minTableCols+1 {
		return nil
	}

	confidence := scoreGrid(fragments, rows, cols, tolerance)
	occupancy := cellOccupancy(fragments, rows, cols)

	// Without visible borders to confirm structure, only densely occupied
	// grids qualify.
	if !opts.BorderlessTables && occupancy < 0.85 {
		return nil
	}
	if confidence < float64(opts.MinConfidence) {
		return nil
	}

	cells := assignCells(fragments, rows, cols)

	return &models.DetectedTable{
		PageNumber: pageNumber,
		BBox: &models.BoundingBox{
			X1: int(math.Floor(cols[0])),
			Y1: int(math.Floor(rows[0])),
			X2: int(math.Ceil(cols[len(cols)-1])),
			Y2: int(math.Ceil(rows[len(rows)-1])),
		},
		Confidence: confidence,
		Cells:      cells,
	}
}

// wordsToFragments converts OCR words into detection fragments, dropping
// blank text.
func wordsToFragments(words []models.Word) []fragment {
	fragments := make([]fragment, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		fragments = append(fragments, fragment{
			text: w.Text,
			x1:   float64(w.BBox.X1),
			y1:   float64(w.BBox.Y1),
			x2:   float64(w.BBox.X2),
			y2:   float64(w.BBox.Y2),
		})
	}
	return fragments
}

// deskewFragments estimates the page's baseline skew from consecutive
// words on shared baselines and rotates fragment boxes to compensate.
// The image itself is untouched; only the geometry is corrected.
func deskewFragments(fragments []fragment) []fragment {
	angle := estimateSkew(fragments)
	if math.Abs(angle) < skewThresholdRadians {
		return fragments
	}

	var cx, cy float64
	for _, f := range fragments {
		cx += f.centerX()
		cy += f.centerY()
	}
	cx /= float64(len(fragments))
	cy /= float64(len(fragments))

	sin, cos := math.Sincos(-angle)
	corrected := make([]fragment, len(fragments))
	for i, f := range fragments {
		dx := f.centerX() - cx
		dy := f.centerY() - cy
		ncx := cx + dx*cos - dy*sin
		ncy := cy + dx*sin + dy*cos

		corrected[i] = fragment{
			text: f.text,
			x1:   ncx - f.width()/2,
			y1:   ncy - f.height()/2,
			x2:   ncx + f.width()/2,
			y2:   ncy + f.height()/2,
		}
	}
	return corrected
}

// estimateSkew returns the median slope angle between horizontally
// adjacent fragments that share a baseline.
func estimateSkew(fragments []fragment) float64 {
	sorted := make([]fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].x1 != sorted[j].x1 {
			return sorted[i].x1 < sorted[j].x1
		}
		return sorted[i].y1 < sorted[j].y1
	})

	var angles []float64
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		// Same baseline when vertical overlap exceeds half a glyph.
		overlap := math.Min(prev.y2, cur.y2) - math.Max(prev.y1, cur.y1)
		if overlap < prev.height()/2 {
			continue
		}
		dx := cur.centerX() - prev.centerX()
		dy := cur.centerY() - prev.centerY()
		if dx > 0 {
			angles = append(angles, math.Atan2(dy, dx))
		}
	}

	if len(angles) == 0 {
		return 0
	}
	sort.Float64s(angles)
	return angles[len(angles)/2]
}

// mergeAdjacentFragments joins words on the same baseline whose
// horizontal gap is smaller than half a glyph height, so multi-word cell
// content becomes one fragment.
func mergeAdjacentFragments(fragments []fragment) []fragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].y1 != sorted[j].y1 {
			return sorted[i].y1 < sorted[j].y1
		}
		return sorted[i].x1 < sorted[j].x1
	})

	merged := []fragment{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		last := &merged[len(merged)-1]
		cur := sorted[i]

		overlap := math.Min(last.y2, cur.y2) - math.Max(last.y1, cur.y1)
		gap := cur.x1 - last.x2

		if overlap >= last.height()/2 && gap >= 0 && gap <= last.height()/2 {
			last.text += " " + cur.text
			last.x2 = math.Max(last.x2, cur.x2)
			last.y1 = math.Min(last.y1, cur.y1)
			last.y2 = math.Max(last.y2, cur.y2)
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// clusterFragments groups fragments by vertical proximity. A gap larger
// than clusterGapFactor times the median fragment height starts a new
// candidate region.
func clusterFragments(fragments []fragment) [][]fragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].y1 < sorted[j].y1
	})

	gapThreshold := clusterGapFactor * medianHeight(sorted)

	var clusters [][]fragment
	current := []fragment{sorted[0]}
	bottom := sorted[0].y2

	for i := 1; i < len(sorted); i++ {
		if sorted[i].y1-bottom > gapThreshold {
			clusters = append(clusters, current)
			current = nil
		}
		current = append(current, sorted[i])
		bottom = math.Max(bottom, sorted[i].y2)
	}
	clusters = append(clusters, current)

	return clusters
}

// edgeBoundaries clusters fragment leading edges along one axis into
// grid boundaries and closes the grid with the largest trailing extent.
// Leading edges are the reliable signal in OCR geometry; trailing edges
// vary with content length. When implicit is false, an interior boundary
// needs support from at least two fragments to survive.
func edgeBoundaries(fragments []fragment, tolerance float64, implicit bool, edges func(fragment) (float64, float64)) []float64 {
	values := make([]float64, 0, len(fragments))
	closing := math.Inf(-1)
	for _, f := range fragments {
		lo, hi := edges(f)
		values = append(values, lo)
		closing = math.Max(closing, hi)
	}
	sort.Float64s(values)

	var boundaries []float64
	var counts []int
	for _, v := range values {
		if len(boundaries) == 0 || v-boundaries[len(boundaries)-1] > tolerance {
			boundaries = append(boundaries, v)
			counts = append(counts, 1)
			continue
		}
		last := len(boundaries) - 1
		boundaries[last] = (boundaries[last]*float64(counts[last]) + v) / float64(counts[last]+1)
		counts[last]++
	}

	if !implicit {
		supported := boundaries[:0]
		for i, b := range boundaries {
			if counts[i] >= 2 {
				supported = append(supported, b)
			}
		}
		boundaries = supported
	}

	return append(boundaries, closing)
}

// alignmentTolerance derives the edge-clustering tolerance from fragment
// size, so detection scales with render DPI.
func alignmentTolerance(fragments []fragment) float64 {
	return math.Max(2, medianHeight(fragments)/4)
}

func medianHeight(fragments []fragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	heights := make([]float64, len(fragments))
	for i, f := range fragments {
		heights[i] = f.height()
	}
	sort.Float64s(heights)
	return heights[len(heights)/2]
}

// scoreGrid computes a 0-100 confidence from grid regularity, fragment
// alignment and cell occupancy.
func scoreGrid(fragments []fragment, rows, cols []float64, tolerance float64) float64 {
	regularity := gridRegularity(rows, cols)
	alignment := alignmentQuality(fragments, rows, cols, tolerance)
	occupancy := cellOccupancy(fragments, rows, cols)

	return 100 * (regularity*0.3 + alignment*0.4 + occupancy*0.3)
}

// gridRegularity scores how uniform row heights and column widths are,
// using the coefficient of variation.
func gridRegularity(rows, cols []float64) float64 {
	rowSizes := spans(rows)
	colSizes := spans(cols)
	if len(rowSizes) == 0 || len(colSizes) == 0 {
		return 0
	}

	rowScore := math.Max(0, 1-coefficientOfVariation(rowSizes))
	colScore := math.Max(0, 1-coefficientOfVariation(colSizes))
	return (rowScore + colScore) / 2
}

// alignmentQuality is the fraction of fragments with at least two edges
// on grid boundaries.
func alignmentQuality(fragments []fragment, rows, cols []float64, tolerance float64) float64 {
	if len(fragments) == 0 {
		return 0
	}

	aligned := 0
	for _, f := range fragments {
		edgesOnGrid := 0
		if nearBoundary(f.x1, cols, tolerance) {
			edgesOnGrid++
		}
		if nearBoundary(f.x2, cols, tolerance) {
			edgesOnGrid++
		}
		if nearBoundary(f.y1, rows, tolerance) {
			edgesOnGrid++
		}
		if nearBoundary(f.y2, rows, tolerance) {
			edgesOnGrid++
		}
		if edgesOnGrid >= 2 {
			aligned++
		}
	}
	return float64(aligned) / float64(len(fragments))
}

func nearBoundary(value float64, boundaries []float64, tolerance float64) bool {
	for _, b := range boundaries {
		if math.Abs(value-b) <= tolerance*2 {
			return true
		}
	}
	return false
}

// cellOccupancy is the fraction of grid cells containing at least one
// fragment center.
func cellOccupancy(fragments []fragment, rows, cols []float64) float64 {
	rowCount := len(rows) - 1
	colCount := len(cols) - 1
	if rowCount <= 0 || colCount <= 0 {
		return 0
	}

	occupied := make(map[[2]int]bool)
	for _, f := range fragments {
		row, col := findCell(f.centerX(), f.centerY(), rows, cols)
		if row >= 0 && col >= 0 {
			occupied[[2]int{row, col}] = true
		}
	}
	return float64(len(occupied)) / float64(rowCount*colCount)
}

// assignCells places each fragment's text into the cell containing its
// center. Fragments landing in the same cell are joined with spaces.
func assignCells(fragments []fragment, rows, cols []float64) [][]string {
	rowCount := len(rows) - 1
	colCount := len(cols) - 1

	cells := make([][]string, rowCount)
	for i := range cells {
		cells[i] = make([]string, colCount)
	}

	sorted := make([]fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].y1 != sorted[j].y1 {
			return sorted[i].y1 < sorted[j].y1
		}
		return sorted[i].x1 < sorted[j].x1
	})

	for _, f := range sorted {
		row, col := findCell(f.centerX(), f.centerY(), rows, cols)
		if row < 0 || col < 0 || row >= rowCount || col >= colCount {
			continue
		}
		if cells[row][col] != "" {
			cells[row][col] += " "
		}
		cells[row][col] += f.text
	}
	return cells
}

// findCell returns the row and column containing the point, or -1 for
// either axis when the point falls outside the grid.
func findCell(x, y float64, rows, cols []float64) (row, col int) {
	row, col = -1, -1
	for i := 0; i < len(rows)-1; i++ {
		if y >= rows[i] && y <= rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < len(cols)-1; i++ {
		if x >= cols[i] && x <= cols[i+1] {
			col = i
			break
		}
	}
	return row, col
}

func spans(boundaries []float64) []float64 {
	if len(boundaries) < 2 {
		return nil
	}
	out := make([]float64, len(boundaries)-1)
	for i := range out {
		out[i] = boundaries[i+1] - boundaries[i]
	}
	return out
}

func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return math.Sqrt(variance(values)) / m
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}
