package tts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eslsoft/polyglot/internal/entity"
)

// scriptedSynth returns canned results per language and records every
// utterance it is asked to speak.
type scriptedSynth struct {
	mu       sync.Mutex
	utters   []Utterance
	failLang map[string]error
	voices   []entity.VoiceInfo
	block    chan struct{}
}

func newScriptedSynth() *scriptedSynth {
	return &scriptedSynth{failLang: make(map[string]error)}
}

func (s *scriptedSynth) Voices(_ context.Context, lang string) ([]entity.VoiceInfo, error) {
	return s.voices, nil
}

func (s *scriptedSynth) Utter(_ context.Context, u Utterance) error {
	s.mu.Lock()
	s.utters = append(s.utters, u)
	err := s.failLang[u.Lang]
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (s *scriptedSynth) Stop() {}

func (s *scriptedSynth) spoken() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Utterance, len(s.utters))
	copy(out, s.utters)
	return out
}

func TestSpeakSuccess(t *testing.T) {
	synth := newScriptedSynth()
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	if err := engine.Speak(context.Background(), "bonjour", "fr-FR", "Thomas"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spoken := synth.spoken()
	if len(spoken) != 1 || spoken[0].VoiceID != "Thomas" || spoken[0].Lang != "fr-FR" {
		t.Fatalf("unexpected utterances %+v", spoken)
	}
}

func TestSpeakInterruptedIsSuccess(t *testing.T) {
	synth := newScriptedSynth()
	synth.failLang["fr-FR"] = ErrInterrupted
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	if err := engine.Speak(context.Background(), "bonjour", "fr-FR", ""); err != nil {
		t.Fatalf("interrupt must resolve as success, got %v", err)
	}
	if len(synth.spoken()) != 1 {
		t.Fatal("an interrupted utterance must not trigger fallbacks")
	}
}

func TestSpeakFallbackChain(t *testing.T) {
	boom := errors.New("no such voice")
	synth := newScriptedSynth()
	synth.failLang["fr-CA"] = boom
	synth.failLang["fr"] = boom
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	if err := engine.Speak(context.Background(), "bonjour", "fr-CA", ""); err != nil {
		t.Fatalf("English fallback should succeed, got %v", err)
	}
	spoken := synth.spoken()
	if len(spoken) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(spoken))
	}
	if spoken[0].Lang != "fr-CA" || spoken[1].Lang != "fr" || spoken[2].Lang != "en-US" {
		t.Fatalf("unexpected fallback order %+v", spoken)
	}
}

func TestSpeakHardFailure(t *testing.T) {
	boom := errors.New("synth broken")
	synth := newScriptedSynth()
	synth.failLang["de-DE"] = boom
	synth.failLang["de"] = boom
	synth.failLang["en-US"] = boom
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	if err := engine.Speak(context.Background(), "hallo", "de-DE", ""); !errors.Is(err, boom) {
		t.Fatalf("expected the hard failure, got %v", err)
	}
}

func TestCancelDrainsQueue(t *testing.T) {
	synth := newScriptedSynth()
	synth.block = make(chan struct{})
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	first := make(chan error, 1)
	go func() {
		first <- engine.Speak(context.Background(), "one", "en", "")
	}()

	// Wait for the first utterance to reach the synthesizer.
	deadline := time.After(2 * time.Second)
	for len(synth.spoken()) == 0 {
		select {
		case <-deadline:
			t.Fatal("first utterance never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	queued := make(chan error, 1)
	go func() {
		queued <- engine.Speak(context.Background(), "two", "en", "")
	}()
	time.Sleep(20 * time.Millisecond)

	engine.Cancel()
	close(synth.block)

	if err := <-queued; !errors.Is(err, ErrCanceled) {
		t.Fatalf("queued request should fail with ErrCanceled, got %v", err)
	}
	if err := <-first; err != nil {
		t.Fatalf("in-flight utterance resolves normally on cancel, got %v", err)
	}
}

func TestAbandonedRequestIsNeverSpoken(t *testing.T) {
	synth := newScriptedSynth()
	synth.block = make(chan struct{})
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	first := make(chan error, 1)
	go func() {
		first <- engine.Speak(context.Background(), "one", "en", "")
	}()

	deadline := time.After(2 * time.Second)
	for len(synth.spoken()) == 0 {
		select {
		case <-deadline:
			t.Fatal("first utterance never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	queued := make(chan error, 1)
	go func() {
		queued <- engine.Speak(ctx, "two", "en", "")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-queued; !errors.Is(err, context.Canceled) {
		t.Fatalf("abandoned request should report its context error, got %v", err)
	}

	close(synth.block)
	if err := <-first; err != nil {
		t.Fatalf("in-flight utterance resolves normally, got %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	for _, u := range synth.spoken() {
		if u.Text == "two" {
			t.Fatal("abandoned utterance must not reach the synthesizer")
		}
	}
}

func TestListVoices(t *testing.T) {
	synth := newScriptedSynth()
	synth.voices = []entity.VoiceInfo{{ID: "fr1", Name: "Thomas", Lang: "fr-FR"}}
	engine := NewEngineWith(synth, nil)
	defer engine.Close()

	voices, err := engine.ListVoices(context.Background(), "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voices) != 1 || voices[0].ID != "fr1" {
		t.Fatalf("unexpected voices %+v", voices)
	}
}

func TestNewEngineUnknownProvider(t *testing.T) {
	if _, err := NewEngine("webspeech", "", nil); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
