package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/adapter/tts"
	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/internal/repository"
)

// SettingsUsecase owns the persisted user configuration and fronts the
// speech engine with the stored voice preferences.
type SettingsUsecase interface {
	Restore(ctx context.Context) error
	Settings() entity.Settings
	SetTTSProvider(provider string)
	SetVoice(lang, voiceID string)
	VoiceForLanguage(lang string) (string, bool)

	Voices(ctx context.Context, lang string) ([]entity.VoiceInfo, error)
	Speak(ctx context.Context, text, lang, voiceID string) error
	CancelSpeech()

	Flush()
	Err() error
}

type settingsUsecase struct {
	store  repository.KVStore
	writer *Writer
	engine *tts.Engine
	log    logrus.FieldLogger

	mu       sync.RWMutex
	settings entity.Settings
}

func NewSettingsUsecase(store repository.KVStore, writer *Writer, engine *tts.Engine, log logrus.FieldLogger) SettingsUsecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &settingsUsecase{
		store:    store,
		writer:   writer,
		engine:   engine,
		log:      log,
		settings: entity.DefaultSettings(),
	}
}

// Restore loads persisted settings; a missing or unreadable snapshot
// degrades to the defaults.
func (uc *settingsUsecase) Restore(ctx context.Context) error {
	data, ok, err := uc.store.Get(ctx, repository.KeySettings)
	if err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}
	settings := entity.DefaultSettings()
	if ok {
		decoded, err := repository.DecodeSettings(data)
		if err != nil {
			uc.log.WithError(err).Warn("stored settings unreadable, using defaults")
		} else {
			settings = decoded
		}
	}
	uc.mu.Lock()
	uc.settings = settings
	uc.mu.Unlock()
	return nil
}

func (uc *settingsUsecase) Settings() entity.Settings {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := uc.settings
	out.Voices = make(map[string]string, len(uc.settings.Voices))
	for k, v := range uc.settings.Voices {
		out.Voices[k] = v
	}
	return out
}

func (uc *settingsUsecase) SetTTSProvider(provider string) {
	uc.mu.Lock()
	uc.settings.TTSProvider = provider
	uc.settings.Normalize()
	uc.mu.Unlock()
	uc.persist()
}

// SetVoice stores the preferred voice for a language tag. An empty voice id
// clears the preference.
func (uc *settingsUsecase) SetVoice(lang, voiceID string) {
	uc.mu.Lock()
	if voiceID == "" {
		delete(uc.settings.Voices, lang)
	} else {
		uc.settings.Voices[lang] = voiceID
	}
	uc.mu.Unlock()
	uc.persist()
}

func (uc *settingsUsecase) VoiceForLanguage(lang string) (string, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.settings.VoiceForLanguage(lang)
}

func (uc *settingsUsecase) Voices(ctx context.Context, lang string) ([]entity.VoiceInfo, error) {
	return uc.engine.ListVoices(ctx, lang)
}

// Speak pronounces text, preferring the explicit voice, then the stored
// preference for the language.
func (uc *settingsUsecase) Speak(ctx context.Context, text, lang, voiceID string) error {
	if voiceID == "" {
		voiceID, _ = uc.VoiceForLanguage(lang)
	}
	return uc.engine.Speak(ctx, text, lang, voiceID)
}

func (uc *settingsUsecase) CancelSpeech() {
	uc.engine.Cancel()
}

func (uc *settingsUsecase) Flush() {
	uc.writer.Flush()
}

func (uc *settingsUsecase) Err() error {
	return uc.writer.Err()
}

func (uc *settingsUsecase) persist() {
	uc.mu.RLock()
	data, err := repository.EncodeSettings(uc.settings)
	uc.mu.RUnlock()
	if err != nil {
		uc.log.WithError(err).Error("encode settings for persistence")
		return
	}
	uc.writer.Enqueue(repository.KeySettings, data)
}
