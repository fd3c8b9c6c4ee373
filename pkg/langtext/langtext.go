// Package langtext provides language-tag and text normalization helpers
// shared by the CSV adapter, the spelling checker and voice selection.
package langtext

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSimilarityThreshold is the ratio above which two answers are
// considered the same word with a spelling slip.
const DefaultSimilarityThreshold = 0.8

// tagPattern accepts BCP-47-ish tags: a 2-3 letter primary subtag plus
// optional region/script/variant subtags (en, fr-FR, zh-CN, de-DE-1901).
var tagPattern = regexp.MustCompile(`^(?i)[a-z]{2,3}(-[a-z]{2})?(-[a-z0-9]{5,8})?(-[a-z0-9]{1,8})?(-[a-z0-9]{1,8})?$`)

// IsValidTag reports whether tag looks like a usable language tag.
func IsValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

// BaseCode returns the primary language subtag ("fr" for "fr-CA").
func BaseCode(tag string) string {
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lowercases, strips diacritics and punctuation and collapses
// whitespace so that answers can be compared leniently.
func NormalizeText(text string) string {
	lowered := strings.ToLower(text)
	decomposed, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		decomposed = lowered
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns a 0..1 ratio between two normalized strings,
// 1 meaning identical.
func Similarity(a, b string) float64 {
	na, nb := NormalizeText(a), NormalizeText(b)
	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(na, nb)
	return float64(longest-distance) / float64(longest)
}

// IsSimilar reports whether two strings are close enough to count as the
// same word. A non-positive threshold falls back to the default.
func IsSimilar(a, b string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if NormalizeText(a) == NormalizeText(b) {
		return true
	}
	return Similarity(a, b) >= threshold
}

// displayNames covers the tags the import UI most commonly sees. Unknown
// tags are rendered as-is.
var displayNames = map[string]string{
	"en":    "English",
	"en-US": "English (US)",
	"en-GB": "English (UK)",
	"fr":    "French",
	"fr-FR": "French (France)",
	"fr-CA": "French (Canada)",
	"es":    "Spanish",
	"es-ES": "Spanish (Spain)",
	"es-MX": "Spanish (Mexico)",
	"de":    "German",
	"de-DE": "German (Germany)",
	"it":    "Italian",
	"pt":    "Portuguese",
	"pt-BR": "Portuguese (Brazil)",
	"ru":    "Russian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh":    "Chinese",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"th":    "Thai",
	"vi":    "Vietnamese",
}

// DisplayName returns a human readable name for a language tag, trying the
// exact tag first and then its US-region variant.
func DisplayName(tag string) string {
	if name, ok := displayNames[tag]; ok {
		return name
	}
	if name, ok := displayNames[tag+"-US"]; ok {
		return name
	}
	return tag
}
