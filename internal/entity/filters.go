package entity

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Filters narrows a pairwise item listing. Zero values mean "no constraint";
// ErrorsMax and the review bounds use pointers so 0 stays expressible.
type Filters struct {
	SrcLanguages []string
	TgtLanguages []string
	ErrorsMin    int
	ErrorsMax    *int
	ReviewedFrom *time.Time
	ReviewedTo   *time.Time
	Keyword      string
}

// Match reports whether a single item satisfies every set constraint.
func (f Filters) Match(it WordItem) bool {
	if len(f.SrcLanguages) > 0 && !lo.Contains(f.SrcLanguages, it.Key.Src) {
		return false
	}
	if len(f.TgtLanguages) > 0 && !lo.Contains(f.TgtLanguages, it.Key.Tgt) {
		return false
	}
	if it.Errors < f.ErrorsMin {
		return false
	}
	if f.ErrorsMax != nil && it.Errors > *f.ErrorsMax {
		return false
	}
	if f.ReviewedFrom != nil {
		if it.LastReview == nil || it.LastReview.Before(*f.ReviewedFrom) {
			return false
		}
	}
	if f.ReviewedTo != nil && it.LastReview != nil && it.LastReview.After(*f.ReviewedTo) {
		return false
	}
	if f.Keyword != "" {
		needle := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(it.TextSrc), needle) &&
			!strings.Contains(strings.ToLower(it.TextTgt), needle) &&
			!strings.Contains(strings.ToLower(it.Notes), needle) {
			return false
		}
	}
	return true
}

// Apply filters a listing, leaving the input untouched.
func (f Filters) Apply(items []WordItem) []WordItem {
	return lo.Filter(items, func(it WordItem, _ int) bool {
		return f.Match(it)
	})
}
