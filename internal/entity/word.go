package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Star rating bounds for a word row.
const (
	MinStars = 0
	MaxStars = 5
)

// PairProgress carries per-direction review counters. It is persisted and
// round-tripped but no operation populates it yet.
type PairProgress struct {
	Times      int
	Errors     int
	LastReview *time.Time
}

// WordRow is the canonical multi-language vocabulary entry. Words maps a
// language tag to the text in that language; review counters live at the row
// level and are shared by every direction derived from the row.
type WordRow struct {
	ID          string
	Words       map[string]string
	Times       int
	Errors      int
	LastReview  *time.Time
	SpellErrors int
	Notes       string
	Stars       int
	Progress    map[string]PairProgress
}

// NewRowID returns a fresh row id. UUIDs contain no underscore, so generated
// ids always compose into parseable pair ids.
func NewRowID() string {
	return uuid.NewString()
}

// Normalize initializes nil maps and clamps counters into their valid ranges.
func (r *WordRow) Normalize() {
	if r.Words == nil {
		r.Words = make(map[string]string)
	}
	if r.Progress == nil {
		r.Progress = make(map[string]PairProgress)
	}
	if r.Stars < MinStars {
		r.Stars = MinStars
	}
	if r.Stars > MaxStars {
		r.Stars = MaxStars
	}
	r.Times = max(r.Times, 0)
	r.Errors = max(r.Errors, 0)
	r.SpellErrors = max(r.SpellErrors, 0)
}

// Validate checks the structural invariants of a row: a usable id and at
// least two non-empty language texts.
func (r *WordRow) Validate() error {
	if r.ID == "" || strings.Contains(r.ID, "_") {
		return ErrInvalidRowID
	}
	if r.populatedLanguages() < 2 {
		return ErrTooFewLanguages
	}
	return nil
}

func (r *WordRow) populatedLanguages() int {
	n := 0
	for _, text := range r.Words {
		if strings.TrimSpace(text) != "" {
			n++
		}
	}
	return n
}

// Languages returns the row's language tags with non-empty text, sorted so
// that derived pair ordering is deterministic.
func (r *WordRow) Languages() []string {
	langs := make([]string, 0, len(r.Words))
	for lang, text := range r.Words {
		if strings.TrimSpace(text) != "" {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// Learned reports whether the row has been reviewed at least once.
func (r *WordRow) Learned() bool {
	return r.Times > 0
}

// Clone returns a deep copy so callers can mutate snapshots freely.
func (r WordRow) Clone() WordRow {
	out := r
	out.Words = make(map[string]string, len(r.Words))
	for k, v := range r.Words {
		out.Words[k] = v
	}
	out.Progress = make(map[string]PairProgress, len(r.Progress))
	for k, v := range r.Progress {
		out.Progress[k] = v
	}
	if r.LastReview != nil {
		t := *r.LastReview
		out.LastReview = &t
	}
	return out
}

// Stats summarizes a word collection.
type Stats struct {
	TotalWords   int
	LearnedWords int
	TotalReviews int
	TotalErrors  int
	ErrorRate    float64
	Languages    map[string]int
}

// Summarize computes collection-level statistics over rows.
func Summarize(rows []WordRow) Stats {
	stats := Stats{Languages: make(map[string]int)}
	for _, row := range rows {
		stats.TotalWords++
		if row.Learned() {
			stats.LearnedWords++
		}
		stats.TotalReviews += row.Times
		stats.TotalErrors += row.Errors
		for _, lang := range row.Languages() {
			stats.Languages[lang]++
		}
	}
	if attempts := stats.TotalReviews + stats.TotalErrors; attempts > 0 {
		stats.ErrorRate = float64(stats.TotalErrors) / float64(attempts)
	}
	return stats
}
