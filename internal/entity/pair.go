package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// PairKey identifies one directed language pair of a word row.
type PairKey struct {
	RowID string
	Src   string
	Tgt   string
}

// String renders the legacy composite id used by CSV exports and persisted
// snapshots: rowID_src_tgt. Row ids never contain underscores (Validate
// rejects them), so the form is unambiguous.
func (k PairKey) String() string {
	return k.RowID + "_" + k.Src + "_" + k.Tgt
}

// ProgressKey renders the per-direction key used by WordRow.Progress.
func (k PairKey) ProgressKey() string {
	return k.Src + "-" + k.Tgt
}

// ParsePairID splits a legacy composite id back into its parts. Ids without
// language segments are treated as bare row ids.
func ParsePairID(id string) PairKey {
	parts := strings.SplitN(id, "_", 3)
	key := PairKey{RowID: parts[0]}
	if len(parts) > 1 {
		key.Src = parts[1]
	}
	if len(parts) > 2 {
		key.Tgt = parts[2]
	}
	return key
}

// WordItem is the pairwise projection of a word row: one source/target
// direction with the row's texts and review counters copied onto it.
type WordItem struct {
	Key         PairKey
	TextSrc     string
	TextTgt     string
	Times       int
	Errors      int
	LastReview  *time.Time
	SpellErrors int
	Notes       string
	Stars       int
}

// Learned reports whether the item's row has been reviewed at least once.
func (it WordItem) Learned() bool {
	return it.Times > 0
}

// LanguagePair is an ordered source/target direction.
type LanguagePair struct {
	Src string
	Tgt string
}

func (p LanguagePair) String() string {
	return p.Src + "-" + p.Tgt
}

func (r WordRow) pairItem(src, tgt string) WordItem {
	return WordItem{
		Key:         PairKey{RowID: r.ID, Src: src, Tgt: tgt},
		TextSrc:     r.Words[src],
		TextTgt:     r.Words[tgt],
		Times:       r.Times,
		Errors:      r.Errors,
		LastReview:  r.LastReview,
		SpellErrors: r.SpellErrors,
		Notes:       r.Notes,
		Stars:       r.Stars,
	}
}

// ExpandRow derives every directed pair of a row. A row with N populated
// languages yields exactly N*(N-1) items, in sorted-language order.
func ExpandRow(row WordRow) []WordItem {
	langs := row.Languages()
	items := make([]WordItem, 0, len(langs)*(len(langs)-1))
	for _, src := range langs {
		for _, tgt := range langs {
			if src == tgt {
				continue
			}
			items = append(items, row.pairItem(src, tgt))
		}
	}
	return items
}

// ExpandRows derives the pairwise view of a whole collection, preserving row
// order.
func ExpandRows(rows []WordRow) []WordItem {
	return lo.FlatMap(rows, func(row WordRow, _ int) []WordItem {
		return ExpandRow(row)
	})
}

// PairItems derives only one direction across the collection, skipping rows
// that lack either language.
func PairItems(rows []WordRow, src, tgt string) []WordItem {
	items := make([]WordItem, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Words[src]) == "" || strings.TrimSpace(row.Words[tgt]) == "" {
			continue
		}
		items = append(items, row.pairItem(src, tgt))
	}
	return items
}

// AvailablePairs lists every direction some row can actually serve. Pairs
// are computed per row and unioned, so a collection holding en/fr rows and
// de/it rows does not report en/de.
func AvailablePairs(rows []WordRow) []LanguagePair {
	seen := make(map[LanguagePair]struct{})
	var pairs []LanguagePair
	for _, row := range rows {
		langs := row.Languages()
		for _, src := range langs {
			for _, tgt := range langs {
				if src == tgt {
					continue
				}
				pair := LanguagePair{Src: src, Tgt: tgt}
				if _, ok := seen[pair]; ok {
					continue
				}
				seen[pair] = struct{}{}
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}

// CollapseItems groups pairwise items back into rows by row id, unioning the
// language texts of every direction. Groups keep first-seen order. When the
// items of one group carry diverging counters the set with the most recent
// review wins; an absent review time counts as the epoch.
func CollapseItems(items []WordItem) []WordRow {
	byRow := make(map[string]*WordRow)
	var order []string

	for _, it := range items {
		rowID := it.Key.RowID
		row, ok := byRow[rowID]
		if !ok {
			fresh := WordRow{
				ID:          rowID,
				Words:       make(map[string]string),
				Times:       it.Times,
				Errors:      it.Errors,
				LastReview:  it.LastReview,
				SpellErrors: it.SpellErrors,
				Notes:       it.Notes,
				Stars:       it.Stars,
				Progress:    make(map[string]PairProgress),
			}
			row = &fresh
			byRow[rowID] = row
			order = append(order, rowID)
		} else if reviewEpoch(it.LastReview) > reviewEpoch(row.LastReview) {
			row.Times = it.Times
			row.Errors = it.Errors
			row.LastReview = it.LastReview
			row.SpellErrors = it.SpellErrors
			row.Notes = it.Notes
			row.Stars = it.Stars
		}
		if it.TextSrc != "" {
			row.Words[it.Key.Src] = it.TextSrc
		}
		if it.TextTgt != "" {
			row.Words[it.Key.Tgt] = it.TextTgt
		}
	}

	rows := make([]WordRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byRow[id])
	}
	return rows
}

// FindPair resolves a pair key against the collection.
func FindPair(rows []WordRow, key PairKey) (WordItem, error) {
	for _, row := range rows {
		if row.ID != key.RowID {
			continue
		}
		if strings.TrimSpace(row.Words[key.Src]) == "" || strings.TrimSpace(row.Words[key.Tgt]) == "" {
			return WordItem{}, fmt.Errorf("%w: %s", ErrPairNotFound, key)
		}
		return row.pairItem(key.Src, key.Tgt), nil
	}
	return WordItem{}, fmt.Errorf("%w: %s", ErrPairNotFound, key)
}

func reviewEpoch(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
