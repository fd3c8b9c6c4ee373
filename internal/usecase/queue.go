package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/repository"
)

// QueueUsecase manages the persisted study queue: an ordered, duplicate-free
// list of ids joined live against the word collection.
type QueueUsecase interface {
	Restore(ctx context.Context) error

	IDs() []string
	Items() []entity.QueueItem
	Len() int
	Contains(id string) bool

	Add(ids []string) int
	AddSingle(id string) bool
	Remove(id string) bool
	RemoveBatch(ids []string) int
	Clear()
	MoveToFront(id string) bool
	MoveToBack(id string) bool
	Reorder(from, to int) error
	Shuffle()

	Next() (entity.QueueItem, bool)
	Random() (entity.QueueItem, bool)

	Flush()
	Err() error
}

type queueUsecase struct {
	store  repository.KVStore
	writer *Writer
	words  WordsUsecase
	log    logrus.FieldLogger
	clock  func() time.Time
	// intn picks a random index; injectable for deterministic tests.
	intn func(n int) int

	mu  sync.RWMutex
	ids []string
}

func NewQueueUsecase(store repository.KVStore, writer *Writer, words WordsUsecase, log logrus.FieldLogger) QueueUsecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &queueUsecase{
		store:  store,
		writer: writer,
		words:  words,
		log:    log,
		clock:  time.Now,
		intn:   rand.Intn,
	}
}

// Restore loads the persisted queue; a missing or unreadable snapshot
// degrades to an empty queue.
func (uc *queueUsecase) Restore(ctx context.Context) error {
	data, ok, err := uc.store.Get(ctx, repository.KeyQueue)
	if err != nil {
		return fmt.Errorf("restore queue: %w", err)
	}
	var ids []string
	if ok {
		ids, err = repository.DecodeQueue(data)
		if err != nil {
			uc.log.WithError(err).Warn("stored queue unreadable, starting empty")
			ids = nil
		}
	}
	uc.mu.Lock()
	uc.ids = ids
	uc.mu.Unlock()
	return nil
}

func (uc *queueUsecase) IDs() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]string, len(uc.ids))
	copy(out, uc.ids)
	return out
}

// Items joins the queued ids with the live word collection. Full pair ids
// resolve to that direction; bare row ids resolve to the row's first pair.
// Ids whose row no longer exists are skipped, not removed.
func (uc *queueUsecase) Items() []entity.QueueItem {
	ids := uc.IDs()
	rows := uc.words.Rows()
	now := uc.clock()

	byID := make(map[string]entity.WordItem)
	firstOfRow := make(map[string]entity.WordItem)
	for _, row := range rows {
		for i, it := range entity.ExpandRow(row) {
			byID[it.Key.String()] = it
			if i == 0 {
				firstOfRow[row.ID] = it
			}
		}
	}

	items := make([]entity.QueueItem, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			it, ok = firstOfRow[entity.ParsePairID(id).RowID]
		}
		if !ok {
			continue
		}
		items = append(items, entity.QueueItem{ID: id, Item: it, AddedAt: now})
	}
	return items
}

func (uc *queueUsecase) Len() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.ids)
}

func (uc *queueUsecase) Contains(id string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return lo.Contains(uc.ids, id)
}

// Add appends ids that are not yet queued and reports how many were added.
// When every id is already present nothing is persisted.
func (uc *queueUsecase) Add(ids []string) int {
	uc.mu.Lock()
	added := 0
	for _, id := range ids {
		if id == "" || lo.Contains(uc.ids, id) {
			continue
		}
		uc.ids = append(uc.ids, id)
		added++
	}
	uc.mu.Unlock()
	if added > 0 {
		uc.persist()
	}
	return added
}

func (uc *queueUsecase) AddSingle(id string) bool {
	return uc.Add([]string{id}) > 0
}

func (uc *queueUsecase) Remove(id string) bool {
	return uc.RemoveBatch([]string{id}) > 0
}

func (uc *queueUsecase) RemoveBatch(ids []string) int {
	uc.mu.Lock()
	before := len(uc.ids)
	uc.ids = lo.Filter(uc.ids, func(id string, _ int) bool {
		return !lo.Contains(ids, id)
	})
	removed := before - len(uc.ids)
	uc.mu.Unlock()
	if removed > 0 {
		uc.persist()
	}
	return removed
}

func (uc *queueUsecase) Clear() {
	uc.mu.Lock()
	changed := len(uc.ids) > 0
	uc.ids = nil
	uc.mu.Unlock()
	if changed {
		uc.persist()
	}
}

func (uc *queueUsecase) MoveToFront(id string) bool {
	return uc.move(id, true)
}

func (uc *queueUsecase) MoveToBack(id string) bool {
	return uc.move(id, false)
}

func (uc *queueUsecase) move(id string, front bool) bool {
	uc.mu.Lock()
	idx := lo.IndexOf(uc.ids, id)
	if idx < 0 {
		uc.mu.Unlock()
		return false
	}
	uc.ids = append(uc.ids[:idx], uc.ids[idx+1:]...)
	if front {
		uc.ids = append([]string{id}, uc.ids...)
	} else {
		uc.ids = append(uc.ids, id)
	}
	uc.mu.Unlock()
	uc.persist()
	return true
}

// Reorder moves the entry at position from to position to.
func (uc *queueUsecase) Reorder(from, to int) error {
	uc.mu.Lock()
	n := len(uc.ids)
	if from < 0 || from >= n || to < 0 || to >= n {
		uc.mu.Unlock()
		return fmt.Errorf("%w: move %d to %d in queue of %d", entity.ErrIndexOutOfRange, from, to, n)
	}
	id := uc.ids[from]
	uc.ids = append(uc.ids[:from], uc.ids[from+1:]...)
	uc.ids = append(uc.ids[:to], append([]string{id}, uc.ids[to:]...)...)
	uc.mu.Unlock()
	uc.persist()
	return nil
}

// Shuffle randomizes the queue order with a Fisher-Yates pass.
func (uc *queueUsecase) Shuffle() {
	uc.mu.Lock()
	for i := len(uc.ids) - 1; i > 0; i-- {
		j := uc.intn(i + 1)
		uc.ids[i], uc.ids[j] = uc.ids[j], uc.ids[i]
	}
	changed := len(uc.ids) > 1
	uc.mu.Unlock()
	if changed {
		uc.persist()
	}
}

// Next returns the head of the queue without removing it.
func (uc *queueUsecase) Next() (entity.QueueItem, bool) {
	items := uc.Items()
	if len(items) == 0 {
		return entity.QueueItem{}, false
	}
	return items[0], true
}

// Random returns a uniformly random queued item.
func (uc *queueUsecase) Random() (entity.QueueItem, bool) {
	items := uc.Items()
	if len(items) == 0 {
		return entity.QueueItem{}, false
	}
	return items[uc.intn(len(items))], true
}

func (uc *queueUsecase) Flush() {
	uc.writer.Flush()
}

func (uc *queueUsecase) Err() error {
	return uc.writer.Err()
}

func (uc *queueUsecase) persist() {
	uc.mu.RLock()
	data, err := repository.EncodeQueue(uc.ids)
	uc.mu.RUnlock()
	if err != nil {
		uc.log.WithError(err).Error("encode queue for persistence")
		return
	}
	uc.writer.Enqueue(repository.KeyQueue, data)
}
