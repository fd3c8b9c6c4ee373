package tts

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/eslsoft/polyglot/internal/entity"
)

const defaultCommand = "espeak-ng"

// ExecSynthesizer shells out to an espeak-ng compatible binary. Stop kills
// the in-flight process, which surfaces as ErrInterrupted to the engine.
type ExecSynthesizer struct {
	command string

	mu      sync.Mutex
	current *exec.Cmd
	stopped bool
}

func NewExecSynthesizer(command string) *ExecSynthesizer {
	if command == "" {
		command = defaultCommand
	}
	return &ExecSynthesizer{command: command}
}

// Voices parses `espeak-ng --voices[=lang]` output. Columns are
// Pty Language Age/Gender VoiceName File Other.
func (s *ExecSynthesizer) Voices(ctx context.Context, lang string) ([]entity.VoiceInfo, error) {
	arg := "--voices"
	if lang != "" {
		arg = "--voices=" + lang
	}
	out, err := exec.CommandContext(ctx, s.command, arg).Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}

	var voices []entity.VoiceInfo
	scanner := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, entity.VoiceInfo{
			ID:   fields[3],
			Name: fields[3],
			Lang: fields[1],
		})
	}
	return voices, nil
}

func (s *ExecSynthesizer) Utter(ctx context.Context, u Utterance) error {
	voice := u.VoiceID
	if voice == "" {
		voice = u.Lang
	}
	args := []string{}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, "--", u.Text)

	cmd := exec.CommandContext(ctx, s.command, args...)

	s.mu.Lock()
	s.current = cmd
	s.stopped = false
	s.mu.Unlock()

	err := cmd.Run()

	s.mu.Lock()
	stopped := s.stopped
	s.current = nil
	s.mu.Unlock()

	if err != nil {
		if stopped {
			return ErrInterrupted
		}
		return fmt.Errorf("run %s: %w", s.command, err)
	}
	return nil
}

func (s *ExecSynthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Process != nil {
		s.stopped = true
		_ = s.current.Process.Kill()
	}
}
