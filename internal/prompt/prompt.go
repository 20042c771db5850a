// Package prompt abstracts the interactive steps of pack generation: choosing a file and
// showing a notice.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned by ChooseFile when the user dismisses the prompt.
var ErrCancelled = errors.New("prompt cancelled")

// UserPrompt is the capability the pipeline needs from a user interface.
type UserPrompt interface {
	// ChooseFile asks for a file, starting at hintDir when it is non-empty.
	ChooseFile(hintDir string) (string, error)
	// Notify shows an informational message and returns once it is acknowledged.
	Notify(message string) error
}

// Alerter is implemented by prompts that can show failures differently from notices.
type Alerter interface {
	Alert(message string) error
}

// Terminal prompts over a line-oriented stream. An empty answer or end of input cancels.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	title string
}

func NewTerminal(in io.Reader, out io.Writer, title string) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, title: title}
}

func (t *Terminal) ChooseFile(hintDir string) (string, error) {
	if hintDir != "" {
		fmt.Fprintf(t.out, "(suggested location: %s)\n", hintDir)
	}
	fmt.Fprint(t.out, "Path (empty to cancel): ")

	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	path := strings.Trim(strings.TrimSpace(line), `"'`)
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}

func (t *Terminal) Notify(message string) error {
	_, err := fmt.Fprintf(t.out, "[%s] %s\n", t.title, message)
	return err
}

func (t *Terminal) Alert(message string) error {
	_, err := fmt.Fprintf(t.out, "[%s] ERROR: %s\n", t.title, message)
	return err
}

// Scripted answers file prompts from a fixed list and records everything shown.
// An exhausted list or an empty answer cancels.
type Scripted struct {
	Answers  []string
	Hints    []string
	Messages []string
	Alerts   []string
}

func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) ChooseFile(hintDir string) (string, error) {
	s.Hints = append(s.Hints, hintDir)
	if len(s.Answers) == 0 {
		return "", ErrCancelled
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	if answer == "" {
		return "", ErrCancelled
	}
	return answer, nil
}

func (s *Scripted) Notify(message string) error {
	s.Messages = append(s.Messages, message)
	return nil
}

func (s *Scripted) Alert(message string) error {
	s.Alerts = append(s.Alerts, message)
	return nil
}

// Prefilled answers file prompts from Paths in order and defers to Next once a path is
// empty or the list is used up. Notices always go to Next.
type Prefilled struct {
	Paths []string
	Next  UserPrompt
}

func (p *Prefilled) ChooseFile(hintDir string) (string, error) {
	if len(p.Paths) > 0 {
		path := p.Paths[0]
		p.Paths = p.Paths[1:]
		if path != "" {
			return path, nil
		}
	}
	return p.Next.ChooseFile(hintDir)
}

func (p *Prefilled) Notify(message string) error {
	return p.Next.Notify(message)
}

func (p *Prefilled) Alert(message string) error {
	if a, ok := p.Next.(Alerter); ok {
		return a.Alert(message)
	}
	return p.Next.Notify(message)
}
