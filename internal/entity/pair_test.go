package entity

import (
	"testing"
	"time"
)

func sampleRow() WordRow {
	row := WordRow{
		ID: "r1",
		Words: map[string]string{
			"en": "hello",
			"fr": "bonjour",
			"es": "hola",
		},
		Times:  2,
		Errors: 1,
		Notes:  "greeting",
		Stars:  3,
	}
	row.Normalize()
	return row
}

func TestPairKeyRoundTrip(t *testing.T) {
	key := PairKey{RowID: "r1", Src: "en", Tgt: "fr"}
	if key.String() != "r1_en_fr" {
		t.Fatalf("unexpected composite id %q", key.String())
	}
	if got := ParsePairID("r1_en_fr"); got != key {
		t.Fatalf("ParsePairID = %+v, want %+v", got, key)
	}
	if got := ParsePairID("r1"); got.RowID != "r1" || got.Src != "" || got.Tgt != "" {
		t.Fatalf("bare row id should parse with empty languages, got %+v", got)
	}
}

func TestExpandRowPairCount(t *testing.T) {
	row := sampleRow()
	items := ExpandRow(row)
	if len(items) != 6 {
		t.Fatalf("three languages should yield 6 directed pairs, got %d", len(items))
	}
	seen := make(map[string]bool)
	for _, it := range items {
		if it.Key.Src == it.Key.Tgt {
			t.Fatalf("self pair %s", it.Key)
		}
		if seen[it.Key.String()] {
			t.Fatalf("duplicate pair %s", it.Key)
		}
		seen[it.Key.String()] = true
		if it.Times != row.Times || it.Errors != row.Errors || it.Stars != row.Stars {
			t.Fatalf("item %s did not inherit row counters", it.Key)
		}
	}
}

func TestExpandRowSkipsEmptyLanguages(t *testing.T) {
	row := WordRow{ID: "r1", Words: map[string]string{"en": "hello", "fr": "  ", "de": "hallo"}}
	row.Normalize()
	items := ExpandRow(row)
	if len(items) != 2 {
		t.Fatalf("blank texts should not produce pairs, got %d items", len(items))
	}
	for _, it := range items {
		if it.Key.Src == "fr" || it.Key.Tgt == "fr" {
			t.Fatalf("blank language leaked into %s", it.Key)
		}
	}
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	review := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rowA := sampleRow()
	rowA.LastReview = &review
	rowB := WordRow{ID: "r2", Words: map[string]string{"de": "hund", "it": "cane"}}
	rowB.Normalize()

	rows := CollapseItems(ExpandRows([]WordRow{rowA, rowB}))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows back, got %d", len(rows))
	}
	if rows[0].ID != "r1" || rows[1].ID != "r2" {
		t.Fatalf("collapse should keep first-seen order, got %s, %s", rows[0].ID, rows[1].ID)
	}

	got := rows[0]
	if len(got.Words) != 3 || got.Words["fr"] != "bonjour" {
		t.Fatalf("language union lost texts: %v", got.Words)
	}
	if got.Times != rowA.Times || got.Errors != rowA.Errors || got.Notes != rowA.Notes || got.Stars != rowA.Stars {
		t.Fatalf("counters changed in round trip: %+v", got)
	}
	if got.LastReview == nil || !got.LastReview.Equal(review) {
		t.Fatalf("review time changed in round trip: %v", got.LastReview)
	}
}

func TestCollapseItemsLatestReviewWins(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 5, 0)
	items := []WordItem{
		{Key: PairKey{RowID: "r1", Src: "en", Tgt: "fr"}, TextSrc: "hello", TextTgt: "bonjour", Times: 1, LastReview: &older},
		{Key: PairKey{RowID: "r1", Src: "fr", Tgt: "en"}, TextSrc: "bonjour", TextTgt: "hello", Times: 4, Errors: 2, LastReview: &newer},
	}
	rows := CollapseItems(items)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Times != 4 || rows[0].Errors != 2 {
		t.Fatalf("stats from the most recent review should win, got %+v", rows[0])
	}
}

func TestPairItems(t *testing.T) {
	rowA := sampleRow()
	rowB := WordRow{ID: "r2", Words: map[string]string{"en": "dog", "de": "hund"}}
	rowB.Normalize()

	items := PairItems([]WordRow{rowA, rowB}, "en", "fr")
	if len(items) != 1 {
		t.Fatalf("only rowA serves en->fr, got %d items", len(items))
	}
	if items[0].TextSrc != "hello" || items[0].TextTgt != "bonjour" {
		t.Fatalf("unexpected texts %q -> %q", items[0].TextSrc, items[0].TextTgt)
	}
}

func TestAvailablePairsPerRowUnion(t *testing.T) {
	rowA := WordRow{ID: "r1", Words: map[string]string{"en": "hello", "fr": "bonjour"}}
	rowB := WordRow{ID: "r2", Words: map[string]string{"de": "hund", "it": "cane"}}
	rowA.Normalize()
	rowB.Normalize()

	pairs := AvailablePairs([]WordRow{rowA, rowB})
	if len(pairs) != 4 {
		t.Fatalf("expected en/fr and de/it directions only, got %v", pairs)
	}
	for _, p := range pairs {
		if (p.Src == "en" || p.Src == "fr") && (p.Tgt == "de" || p.Tgt == "it") {
			t.Fatalf("cross-row pair %v should not be offered", p)
		}
	}
}

func TestFindPair(t *testing.T) {
	rows := []WordRow{sampleRow()}
	it, err := FindPair(rows, PairKey{RowID: "r1", Src: "en", Tgt: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.TextTgt != "hola" {
		t.Fatalf("unexpected target text %q", it.TextTgt)
	}
	if _, err := FindPair(rows, PairKey{RowID: "r1", Src: "en", Tgt: "de"}); err == nil {
		t.Fatal("missing language should fail")
	}
	if _, err := FindPair(rows, PairKey{RowID: "nope", Src: "en", Tgt: "fr"}); err == nil {
		t.Fatal("missing row should fail")
	}
}

func TestValidate(t *testing.T) {
	row := sampleRow()
	if err := row.Validate(); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}

	bad := row.Clone()
	bad.ID = "has_underscore"
	if err := bad.Validate(); err != ErrInvalidRowID {
		t.Fatalf("expected ErrInvalidRowID, got %v", err)
	}

	sparse := WordRow{ID: "r3", Words: map[string]string{"en": "one"}}
	if err := sparse.Validate(); err != ErrTooFewLanguages {
		t.Fatalf("expected ErrTooFewLanguages, got %v", err)
	}
}

func TestNormalizeClampsStars(t *testing.T) {
	row := WordRow{ID: "r1", Stars: 9}
	row.Normalize()
	if row.Stars != MaxStars {
		t.Fatalf("stars should clamp to %d, got %d", MaxStars, row.Stars)
	}
	row.Stars = -2
	row.Normalize()
	if row.Stars != MinStars {
		t.Fatalf("stars should clamp to %d, got %d", MinStars, row.Stars)
	}
}

func TestNewRowIDHasNoUnderscore(t *testing.T) {
	for i := 0; i < 10; i++ {
		row := WordRow{ID: NewRowID(), Words: map[string]string{"en": "a", "fr": "b"}}
		if err := row.Validate(); err != nil {
			t.Fatalf("generated id rejected: %v", err)
		}
	}
}
