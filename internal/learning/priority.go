// Package learning ranks word items by how urgently they need review.
package learning

import (
	"math"
	"sort"
	"time"

	"github.com/eslsoft/polyglot/internal/entity"
)

// Compare orders two items by learning priority. Lower return values sort
// first. Unlearned items precede learned ones; within a tier, more errors
// first, then the oldest review first. A missing review time counts as the
// epoch, so never-reviewed learned items surface before recently reviewed
// ones.
func Compare(a, b entity.WordItem) int {
	switch {
	case !a.Learned() && b.Learned():
		return -1
	case a.Learned() && !b.Learned():
		return 1
	}
	if a.Errors != b.Errors {
		if a.Errors > b.Errors {
			return -1
		}
		return 1
	}
	ea, eb := reviewEpoch(a.LastReview), reviewEpoch(b.LastReview)
	switch {
	case ea < eb:
		return -1
	case ea > eb:
		return 1
	}
	return 0
}

// SortByPriority returns a priority-ordered copy of items. The sort is
// stable, so equally urgent items keep their input order.
func SortByPriority(items []entity.WordItem) []entity.WordItem {
	out := make([]entity.WordItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

// Score collapses priority into one scalar; lower means more urgent. It
// agrees with Compare on ordering as long as error counts stay below the
// tier width.
func Score(it entity.WordItem) float64 {
	base := 0.0
	if it.Learned() {
		base = 1000
	}
	return base - float64(it.Errors)*10 + float64(reviewEpoch(it.LastReview))/1e6
}

// NeedsReview reports whether the item is due. Unlearned items and items
// with recorded errors are always due; otherwise the last review must be at
// least days old, with a missing review counting as due.
func NeedsReview(it entity.WordItem, now time.Time, days int) bool {
	if !it.Learned() || it.Errors > 0 {
		return true
	}
	if it.LastReview == nil {
		return true
	}
	return now.Sub(*it.LastReview) >= time.Duration(days)*24*time.Hour
}

// ProgressPercent is the success rate of past reviews, rounded to a whole
// percent. Items without a successful review sit at 0.
func ProgressPercent(it entity.WordItem) int {
	if it.Times <= 0 {
		return 0
	}
	total := it.Times + it.Errors
	return int(math.Round(float64(it.Times) / float64(total) * 100))
}

func reviewEpoch(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}
