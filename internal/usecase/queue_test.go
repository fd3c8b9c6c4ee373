package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/eslsoft/polyglot/internal/repository"
)

func newTestQueue(t *testing.T) (QueueUsecase, WordsUsecase, *countingStore) {
	t.Helper()
	store := newCountingStore()
	writer := NewWriter(store, nil)
	t.Cleanup(writer.Close)
	words := NewWordsUsecase(store, writer, nil)
	queue := NewQueueUsecase(store, writer, words, nil)
	return queue, words, store
}

func seedWords(t *testing.T, words WordsUsecase) {
	t.Helper()
	doc := "id,word_en,word_fr\nr1,hello,bonjour\nr2,dog,chien\nr3,cat,chat\n"
	report, err := words.ImportCSV(context.Background(), strings.NewReader(doc))
	if err != nil || !report.OK {
		t.Fatalf("seed import failed: %v %+v", err, report)
	}
}

func TestQueueAddDeduplicates(t *testing.T) {
	queue, _, store := newTestQueue(t)

	if added := queue.Add([]string{"r1_en_fr", "r2_en_fr", "r1_en_fr"}); added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	queue.Flush()
	writes := store.setCount(repository.KeyQueue)

	if added := queue.Add([]string{"r1_en_fr", "r2_en_fr"}); added != 0 {
		t.Fatalf("duplicates should not be added, got %d", added)
	}
	queue.Flush()
	if got := store.setCount(repository.KeyQueue); got != writes {
		t.Fatalf("a no-op add must not persist: %d writes before, %d after", writes, got)
	}

	if queue.Len() != 2 {
		t.Fatalf("unexpected queue length %d", queue.Len())
	}
}

func TestQueueOrderingOps(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	queue.Add([]string{"a", "b", "c", "d"})

	if !queue.MoveToFront("c") {
		t.Fatal("MoveToFront failed")
	}
	if got := queue.IDs(); got[0] != "c" {
		t.Fatalf("expected c first, got %v", got)
	}
	if !queue.MoveToBack("a") {
		t.Fatal("MoveToBack failed")
	}
	if got := queue.IDs(); got[len(got)-1] != "a" {
		t.Fatalf("expected a last, got %v", got)
	}
	if queue.MoveToFront("zz") {
		t.Fatal("moving an unknown id should report false")
	}

	if err := queue.Reorder(0, 2); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if err := queue.Reorder(0, 99); err == nil {
		t.Fatal("out-of-range reorder must fail")
	}
}

func TestQueueRemoveAndClear(t *testing.T) {
	queue, _, store := newTestQueue(t)
	queue.Add([]string{"a", "b", "c"})

	if !queue.Remove("b") {
		t.Fatal("remove failed")
	}
	if queue.Remove("b") {
		t.Fatal("double remove should report false")
	}
	if removed := queue.RemoveBatch([]string{"a", "zz"}); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	queue.Flush()
	writes := store.setCount(repository.KeyQueue)
	queue.Clear()
	queue.Clear() // second clear is a no-op
	queue.Flush()
	if got := store.setCount(repository.KeyQueue); got != writes+1 {
		t.Fatalf("expected exactly one extra write for clear, got %d vs %d", got, writes)
	}
	if queue.Len() != 0 {
		t.Fatal("queue should be empty")
	}
}

func TestQueueItemsJoin(t *testing.T) {
	queue, words, _ := newTestQueue(t)
	seedWords(t, words)

	queue.Add([]string{"r1_fr_en", "r2", "ghost_en_fr"})
	items := queue.Items()
	if len(items) != 2 {
		t.Fatalf("ghost ids should be skipped, got %d items", len(items))
	}
	if items[0].Item.TextSrc != "bonjour" || items[0].Item.TextTgt != "hello" {
		t.Fatalf("pair id should resolve its direction, got %+v", items[0].Item)
	}
	if items[1].Item.Key.RowID != "r2" {
		t.Fatalf("bare row id should resolve to the row's first pair, got %+v", items[1].Item)
	}

	next, ok := queue.Next()
	if !ok || next.ID != "r1_fr_en" {
		t.Fatalf("Next should return the head, got %+v (%v)", next, ok)
	}
}

func TestQueueShuffleDeterministic(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	queue.Add([]string{"a", "b", "c", "d"})

	impl := queue.(*queueUsecase)
	impl.intn = func(n int) int { return 0 }
	queue.Shuffle()

	// Fisher-Yates with j always 0: [a b c d] -> [d b c a] -> [c b d a] -> [b c d a].
	want := []string{"b", "c", "d", "a"}
	got := queue.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestQueueRandomUsesInjectedSource(t *testing.T) {
	queue, words, _ := newTestQueue(t)
	seedWords(t, words)
	queue.Add([]string{"r1_en_fr", "r2_en_fr", "r3_en_fr"})

	impl := queue.(*queueUsecase)
	impl.intn = func(n int) int { return n - 1 }

	item, ok := queue.Random()
	if !ok || item.ID != "r3_en_fr" {
		t.Fatalf("expected the last item, got %+v (%v)", item, ok)
	}
}

func TestQueueRestore(t *testing.T) {
	queue, words, store := newTestQueue(t)
	queue.Add([]string{"a", "b"})
	queue.Flush()

	writer := NewWriter(store, nil)
	t.Cleanup(writer.Close)
	fresh := NewQueueUsecase(store, writer, words, nil)
	if err := fresh.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got := fresh.IDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("restore lost order: %v", got)
	}
}
