package entity

import (
	"strings"

	"github.com/eslsoft/polyglot/pkg/langtext"
)

// GoogleTTSConfig holds the optional cloud synthesis credential. It is
// persisted with settings but only used when the matching provider is active.
type GoogleTTSConfig struct {
	APIKey string
}

// Settings is the persisted user configuration.
type Settings struct {
	TTSProvider string
	// Voices maps a language tag to a preferred voice id.
	Voices map[string]string
	Google GoogleTTSConfig
}

// DefaultTTSProvider is used when no settings have been persisted yet.
const DefaultTTSProvider = "espeak"

// DefaultSettings returns the configuration used before anything is stored.
func DefaultSettings() Settings {
	return Settings{
		TTSProvider: DefaultTTSProvider,
		Voices:      make(map[string]string),
	}
}

// Normalize initializes nil maps and fills an empty provider.
func (s *Settings) Normalize() {
	if s.Voices == nil {
		s.Voices = make(map[string]string)
	}
	if s.TTSProvider == "" {
		s.TTSProvider = DefaultTTSProvider
	}
}

// VoiceForLanguage resolves the stored voice for a language tag in three
// tiers: the exact tag, the bare language code, then any stored regional
// variant of the same code. The first hit wins.
func (s Settings) VoiceForLanguage(lang string) (string, bool) {
	if voice, ok := s.Voices[lang]; ok && voice != "" {
		return voice, true
	}
	base := langtext.BaseCode(lang)
	if voice, ok := s.Voices[base]; ok && voice != "" {
		return voice, true
	}
	// Map order is random, so pick the smallest matching tag for stability.
	prefix := base + "-"
	bestTag := ""
	for tag, voice := range s.Voices {
		if voice == "" || !strings.HasPrefix(tag, prefix) {
			continue
		}
		if bestTag == "" || tag < bestTag {
			bestTag = tag
		}
	}
	if bestTag != "" {
		return s.Voices[bestTag], true
	}
	return "", false
}

// VoiceInfo describes one voice offered by a speech synthesizer.
type VoiceInfo struct {
	ID   string
	Name string
	Lang string
}
