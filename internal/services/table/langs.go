// -----------------------------------------------------------------------
// Table Engine Language Mapping - translates the three-letter Tesseract
// language codes used on the API surface into the two-letter codes the
// table detection engine expects
// -----------------------------------------------------------------------

package table

// engineLanguages maps Tesseract language codes to table-engine codes.
// Both simplified and traditional Chinese collapse to the single "ch"
// model the engine ships.
var engineLanguages = map[string]string{
	"eng":     "en",
	"fra":     "fr",
	"deu":     "de",
	"spa":     "es",
	"ita":     "it",
	"por":     "pt",
	"rus":     "ru",
	"jpn":     "ja",
	"kor":     "ko",
	"chi_sim": "ch",
	"chi_tra": "ch",
}

// tesseractLanguages is the reverse mapping, used when the engine needs
// word geometry from Tesseract for a two-letter code. "ch" maps back to
// the simplified data files.
var tesseractLanguages = map[string]string{
	"en": "eng",
	"fr": "fra",
	"de": "deu",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"ru": "rus",
	"ja": "jpn",
	"ko": "kor",
	"ch": "chi_sim",
}

// EngineLanguage returns the two-letter engine code for a Tesseract
// language code. Unmapped codes fall back to "en" rather than failing the
// conversion.
func EngineLanguage(tesseractCode string) string {
	if code, ok := engineLanguages[tesseractCode]; ok {
		return code
	}
	return "en"
}

// tesseractLanguage returns the Tesseract data code for a two-letter
// engine code, falling back to "eng".
func tesseractLanguage(engineCode string) string {
	if code, ok := tesseractLanguages[engineCode]; ok {
		return code
	}
	return "eng"
}
