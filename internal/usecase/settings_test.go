package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/eslsoft/polyglot/internal/adapter/tts"
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/repository"
)

type recordingSynth struct {
	mu     sync.Mutex
	utters []tts.Utterance
}

func (s *recordingSynth) Voices(_ context.Context, _ string) ([]entity.VoiceInfo, error) {
	return []entity.VoiceInfo{{ID: "v1", Name: "Test", Lang: "en-US"}}, nil
}

func (s *recordingSynth) Utter(_ context.Context, u tts.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utters = append(s.utters, u)
	return nil
}

func (s *recordingSynth) Stop() {}

func (s *recordingSynth) last() (tts.Utterance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.utters) == 0 {
		return tts.Utterance{}, false
	}
	return s.utters[len(s.utters)-1], true
}

func newTestSettings(t *testing.T) (SettingsUsecase, *recordingSynth, *countingStore) {
	t.Helper()
	store := newCountingStore()
	writer := NewWriter(store, nil)
	t.Cleanup(writer.Close)
	synth := &recordingSynth{}
	engine := tts.NewEngineWith(synth, nil)
	t.Cleanup(engine.Close)
	return NewSettingsUsecase(store, writer, engine, nil), synth, store
}

func TestSettingsPersistRoundTrip(t *testing.T) {
	uc, _, store := newTestSettings(t)
	ctx := context.Background()

	uc.SetVoice("fr", "Thomas")
	uc.SetTTSProvider("espeak")
	uc.Flush()
	if store.setCount(repository.KeySettings) == 0 {
		t.Fatal("settings mutations should persist")
	}

	writer := NewWriter(store, nil)
	t.Cleanup(writer.Close)
	fresh := NewSettingsUsecase(store, writer, nil, nil)
	if err := fresh.Restore(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if voice, ok := fresh.VoiceForLanguage("fr-FR"); !ok || voice != "Thomas" {
		t.Fatalf("restored settings lost the voice, got %q", voice)
	}
}

func TestSettingsRestoreDefaults(t *testing.T) {
	uc, _, _ := newTestSettings(t)
	if err := uc.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if uc.Settings().TTSProvider != entity.DefaultTTSProvider {
		t.Fatalf("expected default provider, got %q", uc.Settings().TTSProvider)
	}
}

func TestSpeakUsesStoredVoice(t *testing.T) {
	uc, synth, _ := newTestSettings(t)
	ctx := context.Background()

	uc.SetVoice("fr", "Thomas")
	if err := uc.Speak(ctx, "bonjour", "fr-FR", ""); err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	utt, ok := synth.last()
	if !ok || utt.VoiceID != "Thomas" {
		t.Fatalf("stored voice should be used, got %+v", utt)
	}

	if err := uc.Speak(ctx, "bonjour", "fr-FR", "Chantal"); err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	utt, _ = synth.last()
	if utt.VoiceID != "Chantal" {
		t.Fatalf("explicit voice should win, got %+v", utt)
	}
}

func TestClearVoice(t *testing.T) {
	uc, _, _ := newTestSettings(t)
	uc.SetVoice("fr", "Thomas")
	uc.SetVoice("fr", "")
	if _, ok := uc.VoiceForLanguage("fr"); ok {
		t.Fatal("empty voice id should clear the preference")
	}
}
