// -----------------------------------------------------------------------
// Page-Range Resolver - normalizes a user-supplied page selection against
// the document's total page count
// -----------------------------------------------------------------------

package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/folio/internal/models"
)

// Resolve normalizes a 1-indexed page selection against total.
//
// An empty or nil selection resolves to the full range 1..total. Otherwise
// every entry must lie in [1, total]; out-of-range entries are rejected as
// a batch, with the failure naming every offending value. Valid selections
// are returned sorted ascending. Duplicate page numbers are kept as-is;
// the renderer processes each occurrence.
func Resolve(total int, selected []int) ([]int, error) {
	if total <= 0 {
		return nil, models.NewDocumentReadError("document has no pages")
	}

	if len(selected) == 0 {
		all := make([]int, total)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	var invalid []int
	for _, p := range selected {
		if p < 1 || p > total {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		return nil, models.NewValidationError("invalid page numbers: %s (document has %d pages)",
			joinInts(invalid), total)
	}

	resolved := make([]int, len(selected))
	copy(resolved, selected)
	sort.Ints(resolved)
	return resolved, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// Describe renders a selection for logging, collapsing the full range to
// a compact form.
func Describe(total int, resolved []int) string {
	if len(resolved) == total {
		return fmt.Sprintf("all %d pages", total)
	}
	return fmt.Sprintf("pages %s of %d", joinInts(resolved), total)
}
