// Package tts wraps a speech synthesizer behind a serialized utterance
// queue with fallback voices and cancellation.
package tts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/entity"
	"github.com/eslsoft/polyglot/pkg/langtext"
)

var (
	// ErrCanceled is returned to every request drained by Cancel.
	ErrCanceled = errors.New("speech canceled")
	// ErrInterrupted marks an utterance cut off by a newer one or by Stop.
	// The engine treats it as success.
	ErrInterrupted = errors.New("speech interrupted")
	// ErrUnknownProvider is returned by the factory for unsupported
	// provider names.
	ErrUnknownProvider = errors.New("unknown tts provider")
)

const englishFallback = "en-US"

// Utterance is one synthesis request.
type Utterance struct {
	Text    string
	Lang    string
	VoiceID string
}

// Synthesizer is the capability the engine drives. Utter blocks until the
// utterance finishes; Stop aborts the in-flight utterance, making Utter
// return ErrInterrupted.
type Synthesizer interface {
	Voices(ctx context.Context, lang string) ([]entity.VoiceInfo, error)
	Utter(ctx context.Context, u Utterance) error
	Stop()
}

type request struct {
	ctx  context.Context
	utt  Utterance
	done chan error
}

// Engine serializes utterances through one worker goroutine so overlapping
// Speak calls play in order.
type Engine struct {
	synth Synthesizer
	log   logrus.FieldLogger

	mu      sync.Mutex
	pending []*request
	wake    chan struct{}
	closed  bool
}

// NewEngine builds an engine for a named provider. Unknown provider names
// are a configuration error, not a silent fallback.
func NewEngine(provider, command string, log logrus.FieldLogger) (*Engine, error) {
	switch provider {
	case "espeak":
		return NewEngineWith(NewExecSynthesizer(command), log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// NewEngineWith wraps an existing synthesizer; used by tests.
func NewEngineWith(synth Synthesizer, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Engine{
		synth: synth,
		log:   log,
		wake:  make(chan struct{}, 1),
	}
	go e.run()
	return e
}

// Speak enqueues an utterance and blocks until it has been spoken, failed,
// or been canceled. Interrupted utterances count as spoken.
func (e *Engine) Speak(ctx context.Context, text, lang, voiceID string) error {
	req := &request{
		ctx:  ctx,
		utt:  Utterance{Text: text, Lang: lang, VoiceID: voiceID},
		done: make(chan error, 1),
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrCanceled
	}
	e.pending = append(e.pending, req)
	e.mu.Unlock()
	e.signal()

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		e.remove(req)
		return ctx.Err()
	}
}

// remove drops an abandoned request from the queue so the worker never
// speaks it. A request already handed to the worker is left alone; its
// buffered done channel absorbs the late result.
func (e *Engine) remove(req *request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, queued := range e.pending {
		if queued == req {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return
		}
	}
}

// Cancel stops the in-flight utterance and fails every queued request with
// ErrCanceled.
func (e *Engine) Cancel() {
	e.mu.Lock()
	drained := e.pending
	e.pending = nil
	e.mu.Unlock()

	e.synth.Stop()
	for _, req := range drained {
		req.done <- ErrCanceled
	}
}

// Close cancels outstanding work and stops the worker.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.Cancel()
	e.signal()
}

// ListVoices returns the voices for a language, polling briefly when the
// synthesizer has not produced its list yet.
func (e *Engine) ListVoices(ctx context.Context, lang string) ([]entity.VoiceInfo, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	for {
		voices, err := e.synth.Voices(ctx, lang)
		if err != nil {
			return nil, err
		}
		if len(voices) > 0 {
			return voices, nil
		}
		select {
		case <-ctx.Done():
			return voices, nil
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) run() {
	for range e.wake {
		for {
			e.mu.Lock()
			if e.closed {
				e.mu.Unlock()
				return
			}
			if len(e.pending) == 0 {
				e.mu.Unlock()
				break
			}
			req := e.pending[0]
			e.pending = e.pending[1:]
			e.mu.Unlock()

			if err := req.ctx.Err(); err != nil {
				req.done <- err
				continue
			}
			req.done <- e.speakWithFallback(req.ctx, req.utt)
		}
	}
}

// speakWithFallback tries the requested voice, then the bare language
// family, then English. An interrupted utterance is a success at any tier.
func (e *Engine) speakWithFallback(ctx context.Context, utt Utterance) error {
	err := e.synth.Utter(ctx, utt)
	if err == nil || errors.Is(err, ErrInterrupted) {
		return nil
	}

	base := langtext.BaseCode(utt.Lang)
	if base != "" && base != utt.Lang {
		e.log.WithError(err).WithField("lang", utt.Lang).Debug("retrying speech with base language")
		err = e.synth.Utter(ctx, Utterance{Text: utt.Text, Lang: base})
		if err == nil || errors.Is(err, ErrInterrupted) {
			return nil
		}
	}

	if utt.Lang != englishFallback {
		e.log.WithError(err).WithField("lang", utt.Lang).Debug("retrying speech in English")
		err = e.synth.Utter(ctx, Utterance{Text: utt.Text, Lang: englishFallback})
		if err == nil || errors.Is(err, ErrInterrupted) {
			return nil
		}
	}

	return fmt.Errorf("speak %q: %w", utt.Lang, err)
}
