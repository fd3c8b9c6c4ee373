package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/repository"
)

func newTestWords(t *testing.T) (WordsUsecase, *countingStore, *Writer) {
	t.Helper()
	store := newCountingStore()
	writer := NewWriter(store, nil)
	t.Cleanup(writer.Close)
	return NewWordsUsecase(store, writer, nil), store, writer
}

func TestImportCSVAllOrNothing(t *testing.T) {
	uc, store, _ := newTestWords(t)
	ctx := context.Background()

	good := "id,word_en,word_fr\nr1,hello,bonjour\nr2,dog,chien\n"
	report, err := uc.ImportCSV(ctx, strings.NewReader(good))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.OK || report.Imported != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	uc.Flush()
	if store.setCount(repository.KeyWords) == 0 {
		t.Fatal("successful import should persist")
	}

	bad := "id,word_en,word_fr\nr9,lonely,\n"
	report, err = uc.ImportCSV(ctx, strings.NewReader(bad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.OK || len(report.Errors) == 0 {
		t.Fatalf("invalid document must be rejected, got %+v", report)
	}
	if len(uc.Rows()) != 2 {
		t.Fatal("a rejected import must leave the collection untouched")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	uc, store, writer := newTestWords(t)
	ctx := context.Background()

	doc := "id,word_en,word_fr\nr1,hello,bonjour\n"
	if report, _ := uc.ImportCSV(ctx, strings.NewReader(doc)); !report.OK {
		t.Fatalf("import failed: %+v", report)
	}
	uc.Flush()

	fresh := NewWordsUsecase(store, writer, nil)
	if err := fresh.Restore(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	rows := fresh.Rows()
	if len(rows) != 1 || rows[0].ID != "r1" || rows[0].Words["fr"] != "bonjour" {
		t.Fatalf("restore lost data: %+v", rows)
	}
}

func TestRestoreDegradesToEmptyOnGarbage(t *testing.T) {
	uc, store, _ := newTestWords(t)
	ctx := context.Background()

	if err := store.Set(ctx, repository.KeyWords, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := uc.Restore(ctx); err != nil {
		t.Fatalf("unreadable snapshot should not fail restore: %v", err)
	}
	if len(uc.Rows()) != 0 {
		t.Fatal("unreadable snapshot should restore as empty")
	}
}

func TestApplyReview(t *testing.T) {
	uc, _, _ := newTestWords(t)
	ctx := context.Background()

	doc := "id,word_en,word_fr\nr1,hello,bonjour\n"
	if report, _ := uc.ImportCSV(ctx, strings.NewReader(doc)); !report.OK {
		t.Fatalf("import failed: %+v", report)
	}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	impl := uc.(*wordsUsecase)
	impl.clock = func() time.Time { return now }

	key := entity.PairKey{RowID: "r1", Src: "en", Tgt: "fr"}
	item, err := uc.ApplyReview(key, true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Times != 1 || item.Errors != 0 {
		t.Fatalf("correct answer should bump times, got %+v", item)
	}
	if item.LastReview == nil || !item.LastReview.Equal(now) {
		t.Fatalf("review time not stamped: %v", item.LastReview)
	}

	item, err = uc.ApplyReview(key, false, "bonjoure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Errors != 1 || item.SpellErrors != 1 {
		t.Fatalf("near-miss answer should bump both error counters, got %+v", item)
	}

	item, err = uc.ApplyReview(key, false, "completely wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Errors != 2 || item.SpellErrors != 1 {
		t.Fatalf("unrelated answer is not a spelling slip, got %+v", item)
	}

	if _, err := uc.ApplyReview(entity.PairKey{RowID: "nope", Src: "en", Tgt: "fr"}, true, ""); err == nil {
		t.Fatal("unknown row should fail")
	}
}

func TestRowEditing(t *testing.T) {
	uc, _, _ := newTestWords(t)

	row, err := uc.AddRow(entity.WordRow{Words: map[string]string{"en": "cat", "fr": "chat"}})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if row.ID == "" {
		t.Fatal("AddRow should generate an id")
	}

	notes := "feline"
	updated, err := uc.UpdateRow(row.ID, RowPatch{
		Words: map[string]string{"es": "gato"},
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Words["es"] != "gato" || updated.Notes != "feline" {
		t.Fatalf("patch not applied: %+v", updated)
	}

	if _, err := uc.UpdateRow(row.ID, RowPatch{Words: map[string]string{"es": "", "fr": ""}}); err == nil {
		t.Fatal("removing languages below two must fail validation")
	}

	if err := uc.DeleteRow(row.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(uc.Rows()) != 0 {
		t.Fatal("row should be gone")
	}
}

func TestFilteredUsesCEL(t *testing.T) {
	uc, _, _ := newTestWords(t)
	ctx := context.Background()

	doc := "id,word_en,word_fr,word_de,errors\n" +
		"r1,hello,bonjour,hallo,5\n" +
		"r2,dog,chien,hund,0\n"
	if report, _ := uc.ImportCSV(ctx, strings.NewReader(doc)); !report.OK {
		t.Fatalf("import failed: %+v", report)
	}

	items, err := uc.Filtered("lang_src in ['en'] && lang_tgt == 'fr' && errors >= 1")
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(items) != 1 || items[0].Key.RowID != "r1" {
		t.Fatalf("unexpected filter result %v", items)
	}

	if _, err := uc.Filtered("errors >= 1 || errors <= 0"); err == nil {
		t.Fatal("OR filters must be rejected")
	}

	all, err := uc.Filtered("")
	if err != nil {
		t.Fatalf("empty filter failed: %v", err)
	}
	if len(all) != 12 {
		t.Fatalf("two 3-language rows should expand to 12 items, got %d", len(all))
	}
}

func TestLastExportStamp(t *testing.T) {
	uc, _, _ := newTestWords(t)
	ctx := context.Background()

	now := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	impl := uc.(*wordsUsecase)
	impl.clock = func() time.Time { return now }

	if _, ok, _ := uc.LastExport(ctx); ok {
		t.Fatal("no export recorded yet")
	}
	var sink strings.Builder
	if err := uc.ExportCSV(ctx, &sink); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	stamp, ok, err := uc.LastExport(ctx)
	if err != nil || !ok {
		t.Fatalf("expected a stamp, got ok=%v err=%v", ok, err)
	}
	if !stamp.Equal(now) {
		t.Fatalf("unexpected stamp %v", stamp)
	}
}

func TestStats(t *testing.T) {
	uc, _, _ := newTestWords(t)
	ctx := context.Background()

	doc := "id,word_en,word_fr,times,errors\nr1,hello,bonjour,2,1\nr2,dog,chien,0,0\n"
	if report, _ := uc.ImportCSV(ctx, strings.NewReader(doc)); !report.OK {
		t.Fatalf("import failed: %+v", report)
	}

	stats := uc.Stats()
	if stats.TotalWords != 2 || stats.LearnedWords != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Languages["en"] != 2 || stats.Languages["fr"] != 2 {
		t.Fatalf("unexpected language distribution %v", stats.Languages)
	}
}
