package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eslsoft/polyglot/internal/entity"
)

// storedWord is the persisted word shape: the flattened pairwise layout with
// the historical snake_case field names. Existing snapshots must keep
// loading, so these names are frozen.
type storedWord struct {
	ID          string `json:"id"`
	LangSrc     string `json:"lang_src"`
	LangTgt     string `json:"lang_tgt"`
	TextSrc     string `json:"text_src"`
	TextTgt     string `json:"text_tgt"`
	Times       int    `json:"times"`
	Errors      int    `json:"errors"`
	LastReview  string `json:"last_review,omitempty"`
	SpellErrors int    `json:"spell_errors"`
	Notes       string `json:"notes,omitempty"`
	Stars       int    `json:"stars,omitempty"`
}

type storedSettings struct {
	TTSProvider string            `json:"ttsProvider"`
	Voices      map[string]string `json:"webVoices"`
	Google      struct {
		APIKey string `json:"apiKey,omitempty"`
	} `json:"google"`
}

// EncodeWordRows flattens rows into the persisted pairwise layout.
func EncodeWordRows(rows []entity.WordRow) ([]byte, error) {
	return EncodeWordItems(entity.ExpandRows(rows))
}

// EncodeWordItems marshals the pairwise view into the stored JSON shape.
func EncodeWordItems(items []entity.WordItem) ([]byte, error) {
	stored := make([]storedWord, 0, len(items))
	for _, it := range items {
		sw := storedWord{
			ID:          it.Key.String(),
			LangSrc:     it.Key.Src,
			LangTgt:     it.Key.Tgt,
			TextSrc:     it.TextSrc,
			TextTgt:     it.TextTgt,
			Times:       it.Times,
			Errors:      it.Errors,
			SpellErrors: it.SpellErrors,
			Notes:       it.Notes,
			Stars:       it.Stars,
		}
		if it.LastReview != nil {
			sw.LastReview = it.LastReview.UTC().Format(time.RFC3339)
		}
		stored = append(stored, sw)
	}
	return json.Marshal(stored)
}

// DecodeWordRows unmarshals a stored snapshot and regroups it into rows.
func DecodeWordRows(data []byte) ([]entity.WordRow, error) {
	items, err := DecodeWordItems(data)
	if err != nil {
		return nil, err
	}
	rows := entity.CollapseItems(items)
	for i := range rows {
		rows[i].Normalize()
	}
	return rows, nil
}

// DecodeWordItems unmarshals the stored pairwise layout.
func DecodeWordItems(data []byte) ([]entity.WordItem, error) {
	var stored []storedWord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode stored words: %w", err)
	}
	items := make([]entity.WordItem, 0, len(stored))
	for _, sw := range stored {
		key := entity.ParsePairID(sw.ID)
		if sw.LangSrc != "" {
			key.Src = sw.LangSrc
		}
		if sw.LangTgt != "" {
			key.Tgt = sw.LangTgt
		}
		it := entity.WordItem{
			Key:         key,
			TextSrc:     sw.TextSrc,
			TextTgt:     sw.TextTgt,
			Times:       sw.Times,
			Errors:      sw.Errors,
			SpellErrors: sw.SpellErrors,
			Notes:       sw.Notes,
			Stars:       sw.Stars,
		}
		if sw.LastReview != "" {
			t, err := time.Parse(time.RFC3339, sw.LastReview)
			if err != nil {
				return nil, fmt.Errorf("decode stored words: last_review %q: %w", sw.LastReview, err)
			}
			it.LastReview = &t
		}
		items = append(items, it)
	}
	return items, nil
}

// EncodeSettings marshals settings into the stored camelCase shape.
func EncodeSettings(s entity.Settings) ([]byte, error) {
	stored := storedSettings{
		TTSProvider: s.TTSProvider,
		Voices:      s.Voices,
	}
	stored.Google.APIKey = s.Google.APIKey
	return json.Marshal(stored)
}

// DecodeSettings unmarshals stored settings, normalizing missing fields.
func DecodeSettings(data []byte) (entity.Settings, error) {
	var stored storedSettings
	if err := json.Unmarshal(data, &stored); err != nil {
		return entity.Settings{}, fmt.Errorf("decode stored settings: %w", err)
	}
	s := entity.Settings{
		TTSProvider: stored.TTSProvider,
		Voices:      stored.Voices,
	}
	s.Google.APIKey = stored.Google.APIKey
	s.Normalize()
	return s, nil
}

// EncodeQueue marshals the ordered queued ids.
func EncodeQueue(ids []string) ([]byte, error) {
	return json.Marshal(ids)
}

// DecodeQueue unmarshals the ordered queued ids.
func DecodeQueue(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode stored queue: %w", err)
	}
	return ids, nil
}

// EncodeTimestamp marshals a moment as an RFC3339 JSON string.
func EncodeTimestamp(t time.Time) ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// DecodeTimestamp unmarshals a moment stored by EncodeTimestamp.
func DecodeTimestamp(data []byte) (time.Time, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return time.Time{}, fmt.Errorf("decode stored timestamp: %w", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode stored timestamp: %w", err)
	}
	return t, nil
}
