// Package csvio maps between CSV documents and word rows. Character-level
// parsing is stdlib encoding/csv; this package owns column detection,
// per-row validation and the legacy pairwise export layout.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/pkg/langtext"
)

// Format identifies the CSV layout of a document.
type Format string

const (
	// FormatWords is the row-per-word layout with word_<lang> columns.
	FormatWords Format = "words"
	// FormatPairs is the historical row-per-direction layout with
	// lang_src/lang_tgt columns.
	FormatPairs Format = "pairs"
	// FormatUnknown is anything else.
	FormatUnknown Format = "unknown"
)

const wordColumnPrefix = "word_"

// exportHeader is the pairwise export layout. The learned column is kept
// for older consumers and always carries 0.
var exportHeader = []string{
	"id", "lang_src", "lang_tgt", "text_src", "text_tgt",
	"times", "learned", "errors", "last_review", "spell_errors", "notes", "stars",
}

// Meta describes what an import saw.
type Meta struct {
	Fields    []string
	TotalRows int
	ValidRows int
}

// Result is the outcome of parsing one document. Invalid rows are dropped;
// their messages stay in Errors so callers can decide whether to proceed.
type Result struct {
	Rows   []entity.WordRow
	Errors []string
	Meta   Meta
}

// acceptedTimeLayouts are tried in order when parsing last_review values.
var acceptedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseReviewTime(raw string) (*time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("Invalid last_review date format: %s", raw)
}

// languageColumns extracts the language tag of every word_* header, keeping
// header order. Tags are accepted directly or through their -US variant.
func languageColumns(header []string) []string {
	var langs []string
	for _, field := range header {
		if !strings.HasPrefix(field, wordColumnPrefix) {
			continue
		}
		lang := strings.TrimPrefix(field, wordColumnPrefix)
		if langtext.IsValidTag(lang) || langtext.IsValidTag(lang+"-US") {
			langs = append(langs, lang)
		}
	}
	return langs
}

// ParseRows reads a word_* layout document. The whole document is rejected
// when fewer than two language columns exist; otherwise each data row is
// validated independently and failures are reported as "Row N: ..." with the
// individual problems joined by "; ".
func ParseRows(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Result{Errors: []string{"At least 2 language columns (word_*) are required"}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	header = lo.Map(header, func(f string, _ int) string { return strings.TrimSpace(f) })

	result := Result{Meta: Meta{Fields: header}}
	langs := languageColumns(header)
	if len(langs) < 2 {
		result.Errors = append(result.Errors, "At least 2 language columns (word_*) are required")
		return result, nil
	}

	index := make(map[string]int, len(header))
	for i, field := range header {
		index[field] = i
	}

	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Meta.TotalRows++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Meta.TotalRows++

		row, rowErrs := buildRow(record, index, langs)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, strings.Join(rowErrs, "; ")))
			continue
		}
		result.Meta.ValidRows++
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func buildRow(record []string, index map[string]int, langs []string) (entity.WordRow, []string) {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var errs []string

	id := get("id")
	if id == "" {
		id = entity.NewRowID()
	} else if strings.Contains(id, "_") {
		errs = append(errs, fmt.Sprintf("Id must not contain underscores: %s", id))
	}

	row := entity.WordRow{
		ID:          id,
		Words:       make(map[string]string),
		Times:       parseCount(get("times")),
		Errors:      parseCount(get("errors")),
		SpellErrors: parseCount(get("spell_errors")),
		Notes:       get("notes"),
		Stars:       parseCount(get("stars")),
	}

	populated := 0
	for _, lang := range langs {
		text := get(wordColumnPrefix + lang)
		if text == "" {
			continue
		}
		row.Words[lang] = text
		populated++
	}
	if populated < 2 {
		errs = append(errs, "At least 2 languages must have text")
	}

	if raw := get("last_review"); raw != "" {
		t, err := parseReviewTime(raw)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			row.LastReview = t
		}
	}

	row.Normalize()
	return row, errs
}

// parseCount reads a non-negative counter; anything unparseable becomes 0.
func parseCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParsePairs reads the historical pairwise layout and regroups it into rows.
func ParsePairs(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	header = lo.Map(header, func(f string, _ int) string { return strings.TrimSpace(f) })

	index := make(map[string]int, len(header))
	for i, field := range header {
		index[field] = i
	}

	result := Result{Meta: Meta{Fields: header}}
	var items []entity.WordItem
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Meta.TotalRows++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Meta.TotalRows++

		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var rowErrs []string
		src, tgt := get("lang_src"), get("lang_tgt")
		if src == "" || tgt == "" {
			rowErrs = append(rowErrs, "lang_src and lang_tgt are required")
		}
		textSrc, textTgt := get("text_src"), get("text_tgt")
		if textSrc == "" || textTgt == "" {
			rowErrs = append(rowErrs, "text_src and text_tgt are required")
		}

		id := get("id")
		if id == "" {
			id = entity.NewRowID()
		}
		key := entity.ParsePairID(id)
		if src != "" {
			key.Src = src
		}
		if tgt != "" {
			key.Tgt = tgt
		}

		it := entity.WordItem{
			Key:         key,
			TextSrc:     textSrc,
			TextTgt:     textTgt,
			Times:       parseCount(get("times")),
			Errors:      parseCount(get("errors")),
			SpellErrors: parseCount(get("spell_errors")),
			Notes:       get("notes"),
			Stars:       parseCount(get("stars")),
		}
		if raw := get("last_review"); raw != "" {
			t, err := parseReviewTime(raw)
			if err != nil {
				rowErrs = append(rowErrs, err.Error())
			} else {
				it.LastReview = t
			}
		}

		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, strings.Join(rowErrs, "; ")))
			continue
		}
		result.Meta.ValidRows++
		items = append(items, it)
	}

	result.Rows = entity.CollapseItems(items)
	for i := range result.Rows {
		result.Rows[i].Normalize()
	}
	return result, nil
}

// DetectFormat inspects a document's header. It returns the format and, for
// the words layout, the language tags found.
func DetectFormat(r io.Reader) (Format, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return FormatUnknown, nil, nil
	}
	if err != nil {
		return FormatUnknown, nil, fmt.Errorf("read csv header: %w", err)
	}
	header = lo.Map(header, func(f string, _ int) string { return strings.TrimSpace(f) })

	if langs := languageColumns(header); len(langs) >= 2 {
		return FormatWords, langs, nil
	}
	if lo.Contains(header, "lang_src") && lo.Contains(header, "lang_tgt") {
		return FormatPairs, nil, nil
	}
	return FormatUnknown, nil, nil
}

// WriteItems writes the pairwise export layout.
func WriteItems(w io.Writer, items []entity.WordItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		lastReview := ""
		if it.LastReview != nil {
			lastReview = it.LastReview.UTC().Format(time.RFC3339)
		}
		record := []string{
			it.Key.String(),
			it.Key.Src,
			it.Key.Tgt,
			it.TextSrc,
			it.TextTgt,
			strconv.Itoa(it.Times),
			"0",
			strconv.Itoa(it.Errors),
			lastReview,
			strconv.Itoa(it.SpellErrors),
			it.Notes,
			strconv.Itoa(it.Stars),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRows expands every row into its directed pairs and writes them.
func WriteRows(w io.Writer, rows []entity.WordRow) error {
	return WriteItems(w, entity.ExpandRows(rows))
}

// ExampleWords renders a small words-layout document for documentation and
// the import command's --example flag.
func ExampleWords() string {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	_ = writer.Write([]string{"id", "word_en", "word_fr", "word_es", "times", "errors", "last_review", "notes", "stars"})
	_ = writer.Write([]string{"", "hello", "bonjour", "hola", "0", "0", "", "greeting", "0"})
	_ = writer.Write([]string{"", "thank you", "merci", "gracias", "2", "1", "2025-06-01", "", "3"})
	writer.Flush()
	return b.String()
}
