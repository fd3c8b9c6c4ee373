package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/adapter/csvio"
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/learning"
	"github.com/eslsoft/polyglot/internal/repository"
	"github.com/eslsoft/polyglot/pkg/langtext"
)

// ImportReport is the outcome of a CSV import. When OK is false nothing was
// changed and Errors explains why.
type ImportReport struct {
	OK       bool
	Errors   []string
	Total    int
	Imported int
}

// RowPatch is a partial row update; nil fields stay untouched. Words
// entries with empty values remove that language.
type RowPatch struct {
	Words map[string]string
	Notes *string
	Stars *int
}

// WordsUsecase owns the word collection: import/export, row editing, review
// grading and the derived pairwise listings.
type WordsUsecase interface {
	Restore(ctx context.Context) error
	ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	LastExport(ctx context.Context) (time.Time, bool, error)

	Rows() []entity.WordRow
	Row(id string) (entity.WordRow, error)
	AddRow(row entity.WordRow) (entity.WordRow, error)
	UpdateRow(id string, patch RowPatch) (entity.WordRow, error)
	DeleteRow(id string) error
	ApplyReview(key entity.PairKey, correct bool, answer string) (entity.WordItem, error)

	AllItems() []entity.WordItem
	PairItems(src, tgt string) []entity.WordItem
	AvailablePairs() []entity.LanguagePair
	Filtered(filter string) ([]entity.WordItem, error)
	SortedByPriority() []entity.WordItem
	NeedsReview(days int) []entity.WordItem
	Stats() entity.Stats

	Flush()
	Err() error
}

type wordsUsecase struct {
	store  repository.KVStore
	writer *Writer
	log    logrus.FieldLogger
	clock  func() time.Time

	mu   sync.RWMutex
	rows []entity.WordRow
}

func NewWordsUsecase(store repository.KVStore, writer *Writer, log logrus.FieldLogger) WordsUsecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &wordsUsecase{
		store:  store,
		writer: writer,
		log:    log,
		clock:  time.Now,
	}
}

// Restore loads the persisted collection. A missing or unreadable snapshot
// degrades to an empty collection; only store I/O failures propagate.
func (uc *wordsUsecase) Restore(ctx context.Context) error {
	data, ok, err := uc.store.Get(ctx, repository.KeyWords)
	if err != nil {
		return fmt.Errorf("restore words: %w", err)
	}
	var rows []entity.WordRow
	if ok {
		rows, err = repository.DecodeWordRows(data)
		if err != nil {
			uc.log.WithError(err).Warn("stored words unreadable, starting empty")
			rows = nil
		}
	}
	uc.mu.Lock()
	uc.rows = rows
	uc.mu.Unlock()
	return nil
}

// ImportCSV parses a words-layout document and replaces the collection when
// every row is valid. Any validation error leaves the collection untouched.
func (uc *wordsUsecase) ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	result, err := csvio.ParseRows(r)
	if err != nil {
		return ImportReport{}, err
	}
	report := ImportReport{
		Errors: result.Errors,
		Total:  result.Meta.TotalRows,
	}
	if len(result.Errors) > 0 {
		return report, nil
	}
	for i := range result.Rows {
		if err := result.Rows[i].Validate(); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	if len(report.Errors) > 0 {
		return report, nil
	}

	uc.mu.Lock()
	uc.rows = result.Rows
	uc.mu.Unlock()
	uc.persist()

	report.OK = true
	report.Imported = len(result.Rows)
	return report, nil
}

// ExportCSV writes the pairwise layout and stamps the export time.
func (uc *wordsUsecase) ExportCSV(ctx context.Context, w io.Writer) error {
	uc.mu.RLock()
	rows := uc.snapshotLocked()
	uc.mu.RUnlock()

	if err := csvio.WriteRows(w, rows); err != nil {
		return fmt.Errorf("export words: %w", err)
	}

	stamp, err := repository.EncodeTimestamp(uc.clock())
	if err != nil {
		return fmt.Errorf("export words: %w", err)
	}
	if err := uc.store.Set(ctx, repository.KeyLastExport, stamp); err != nil {
		return fmt.Errorf("record export time: %w", err)
	}
	return nil
}

// LastExport reports when the collection was last exported, if ever.
func (uc *wordsUsecase) LastExport(ctx context.Context) (time.Time, bool, error) {
	data, ok, err := uc.store.Get(ctx, repository.KeyLastExport)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := repository.DecodeTimestamp(data)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (uc *wordsUsecase) Rows() []entity.WordRow {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.snapshotLocked()
}

func (uc *wordsUsecase) snapshotLocked() []entity.WordRow {
	out := make([]entity.WordRow, len(uc.rows))
	for i, row := range uc.rows {
		out[i] = row.Clone()
	}
	return out
}

func (uc *wordsUsecase) Row(id string) (entity.WordRow, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, row := range uc.rows {
		if row.ID == id {
			return row.Clone(), nil
		}
	}
	return entity.WordRow{}, fmt.Errorf("%w: %s", entity.ErrRowNotFound, id)
}

func (uc *wordsUsecase) AddRow(row entity.WordRow) (entity.WordRow, error) {
	if row.ID == "" {
		row.ID = entity.NewRowID()
	}
	row.Normalize()
	if err := row.Validate(); err != nil {
		return entity.WordRow{}, err
	}

	uc.mu.Lock()
	for _, existing := range uc.rows {
		if existing.ID == row.ID {
			uc.mu.Unlock()
			return entity.WordRow{}, fmt.Errorf("row %s already exists", row.ID)
		}
	}
	uc.rows = append(uc.rows, row.Clone())
	uc.mu.Unlock()
	uc.persist()
	return row, nil
}

func (uc *wordsUsecase) UpdateRow(id string, patch RowPatch) (entity.WordRow, error) {
	uc.mu.Lock()
	idx := -1
	for i, row := range uc.rows {
		if row.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		uc.mu.Unlock()
		return entity.WordRow{}, fmt.Errorf("%w: %s", entity.ErrRowNotFound, id)
	}

	updated := uc.rows[idx].Clone()
	for lang, text := range patch.Words {
		if text == "" {
			delete(updated.Words, lang)
		} else {
			updated.Words[lang] = text
		}
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	if patch.Stars != nil {
		updated.Stars = *patch.Stars
	}
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		uc.mu.Unlock()
		return entity.WordRow{}, err
	}
	uc.rows[idx] = updated
	uc.mu.Unlock()
	uc.persist()
	return updated.Clone(), nil
}

func (uc *wordsUsecase) DeleteRow(id string) error {
	uc.mu.Lock()
	idx := -1
	for i, row := range uc.rows {
		if row.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		uc.mu.Unlock()
		return fmt.Errorf("%w: %s", entity.ErrRowNotFound, id)
	}
	uc.rows = append(uc.rows[:idx], uc.rows[idx+1:]...)
	uc.mu.Unlock()
	uc.persist()
	return nil
}

// ApplyReview grades one direction of a row. Counters live at the row
// level, so the whole group advances together. A typed answer that is close
// to the expected text but not equal also bumps the spelling counter.
func (uc *wordsUsecase) ApplyReview(key entity.PairKey, correct bool, answer string) (entity.WordItem, error) {
	now := uc.clock()

	uc.mu.Lock()
	idx := -1
	for i, row := range uc.rows {
		if row.ID == key.RowID {
			idx = i
			break
		}
	}
	if idx < 0 {
		uc.mu.Unlock()
		return entity.WordItem{}, fmt.Errorf("%w: %s", entity.ErrRowNotFound, key.RowID)
	}
	row := uc.rows[idx].Clone()
	expected := row.Words[key.Tgt]
	if expected == "" {
		uc.mu.Unlock()
		return entity.WordItem{}, fmt.Errorf("%w: %s", entity.ErrPairNotFound, key)
	}

	if correct {
		row.Times++
	} else {
		row.Errors++
		if answer != "" && langtext.IsSimilar(answer, expected, 0) {
			row.SpellErrors++
		}
	}
	row.LastReview = &now
	uc.rows[idx] = row
	uc.mu.Unlock()
	uc.persist()

	item, err := entity.FindPair([]entity.WordRow{row}, key)
	if err != nil {
		return entity.WordItem{}, err
	}
	return item, nil
}

func (uc *wordsUsecase) AllItems() []entity.WordItem {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return entity.ExpandRows(uc.rows)
}

func (uc *wordsUsecase) PairItems(src, tgt string) []entity.WordItem {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return entity.PairItems(uc.rows, src, tgt)
}

func (uc *wordsUsecase) AvailablePairs() []entity.LanguagePair {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return entity.AvailablePairs(uc.rows)
}

// Filtered applies a CEL filter string over the pairwise view.
func (uc *wordsUsecase) Filtered(filter string) ([]entity.WordItem, error) {
	filters, err := ParseWordFilter(filter)
	if err != nil {
		return nil, err
	}
	return filters.Apply(uc.AllItems()), nil
}

func (uc *wordsUsecase) SortedByPriority() []entity.WordItem {
	return learning.SortByPriority(uc.AllItems())
}

func (uc *wordsUsecase) NeedsReview(days int) []entity.WordItem {
	now := uc.clock()
	var due []entity.WordItem
	for _, it := range uc.AllItems() {
		if learning.NeedsReview(it, now, days) {
			due = append(due, it)
		}
	}
	return due
}

func (uc *wordsUsecase) Stats() entity.Stats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return entity.Summarize(uc.rows)
}

// Flush blocks until queued persistence has been written.
func (uc *wordsUsecase) Flush() {
	uc.writer.Flush()
}

// Err reports the most recent background persistence failure.
func (uc *wordsUsecase) Err() error {
	return uc.writer.Err()
}

func (uc *wordsUsecase) persist() {
	uc.mu.RLock()
	data, err := repository.EncodeWordRows(uc.rows)
	uc.mu.RUnlock()
	if err != nil {
		uc.log.WithError(err).Error("encode words for persistence")
		return
	}
	uc.writer.Enqueue(repository.KeyWords, data)
}
