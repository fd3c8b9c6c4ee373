package entity

import (
	"testing"
	"time"
)

func TestFiltersMatch(t *testing.T) {
	review := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	item := WordItem{
		Key:        PairKey{RowID: "r1", Src: "en", Tgt: "fr"},
		TextSrc:    "hello",
		TextTgt:    "bonjour",
		Errors:     3,
		Notes:      "greeting",
		LastReview: &review,
	}

	if !(Filters{}).Match(item) {
		t.Fatal("zero filters should match everything")
	}
	if !(Filters{SrcLanguages: []string{"en", "de"}}).Match(item) {
		t.Fatal("source language list should match")
	}
	if (Filters{TgtLanguages: []string{"de"}}).Match(item) {
		t.Fatal("target language mismatch should exclude")
	}
	if (Filters{ErrorsMin: 4}).Match(item) {
		t.Fatal("error floor should exclude")
	}
	two := 2
	if (Filters{ErrorsMax: &two}).Match(item) {
		t.Fatal("error ceiling should exclude")
	}
	if !(Filters{Keyword: "BONJ"}).Match(item) {
		t.Fatal("keyword match should be case-insensitive")
	}
	after := review.AddDate(0, 1, 0)
	if (Filters{ReviewedFrom: &after}).Match(item) {
		t.Fatal("review lower bound should exclude")
	}
	if !(Filters{ReviewedTo: &after}).Match(item) {
		t.Fatal("review upper bound should include")
	}
}

func TestFiltersReviewedFromExcludesUnreviewed(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	item := WordItem{Key: PairKey{RowID: "r1", Src: "en", Tgt: "fr"}}
	if (Filters{ReviewedFrom: &from}).Match(item) {
		t.Fatal("items never reviewed should not satisfy a lower bound")
	}
}

func TestFiltersApply(t *testing.T) {
	items := []WordItem{
		{Key: PairKey{RowID: "r1", Src: "en", Tgt: "fr"}, Errors: 5},
		{Key: PairKey{RowID: "r2", Src: "en", Tgt: "fr"}, Errors: 0},
	}
	got := (Filters{ErrorsMin: 1}).Apply(items)
	if len(got) != 1 || got[0].Key.RowID != "r1" {
		t.Fatalf("unexpected filter result %v", got)
	}
	if len(items) != 2 {
		t.Fatal("Apply must not mutate its input")
	}
}
