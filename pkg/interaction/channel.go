// Package interaction provides the prompt-and-wait channel that
// human-in-the-loop tools use to talk to the operator.
package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Channel shows text to the operator and blocks for an answer.
type Channel interface {
	Show(lines ...string)
	Ask(ctx context.Context, prompt string) (string, error)
}

// ConsoleChannel is a line based Channel over a reader and a writer.
// A single goroutine owns the reader for the lifetime of the channel, so a
// line typed after an Ask was abandoned goes to the next Ask.
// It is not safe for use by concurrent agent runs.
type ConsoleChannel struct {
	mu         sync.Mutex
	in         io.Reader
	out        io.Writer
	cursor     *color.Color
	readerOnce sync.Once
	lines      chan answer
}

type answer struct {
	line string
	err  error
}

// NewConsole wires a ConsoleChannel to r and w.
func NewConsole(r io.Reader, w io.Writer) *ConsoleChannel {
	return &ConsoleChannel{
		in:     r,
		out:    w,
		cursor: color.New(color.FgCyan, color.Bold),
		lines:  make(chan answer),
	}
}

var (
	consoleOnce sync.Once
	console     *ConsoleChannel
)

// Console returns the process-wide channel on stdin and stdout, creating it
// on first use.
func Console() *ConsoleChannel {
	consoleOnce.Do(func() {
		console = NewConsole(os.Stdin, os.Stdout)
	})
	return console
}

// Show prints each line.
func (c *ConsoleChannel) Show(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
}

// Ask prints prompt and waits for one line. The answer is trimmed. If ctx is
// cancelled first, Ask returns the context error and the pending line is
// kept for the next call. Once the input is exhausted Ask returns an error
// wrapping io.EOF.
func (c *ConsoleChannel) Ask(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cursor.Fprint(c.out, prompt)
	c.readerOnce.Do(func() { go c.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a, ok := <-c.lines:
		if !ok {
			return "", errors.Wrap(io.EOF, "failed to read answer")
		}
		if a.err != nil && !(errors.Is(a.err, io.EOF) && a.line != "") {
			return "", errors.Wrap(a.err, "failed to read answer")
		}
		return strings.TrimSpace(a.line), nil
	}
}

// readLines feeds c.lines until the reader fails, then closes it.
func (c *ConsoleChannel) readLines() {
	defer close(c.lines)
	in := bufio.NewReader(c.in)
	for {
		line, err := in.ReadString('\n')
		c.lines <- answer{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// ScriptedChannel replays canned answers and records everything shown.
// Tests and non-interactive runs use it in place of the console.
type ScriptedChannel struct {
	mu      sync.Mutex
	answers []string
	shown   []string
	prompts []string
}

// NewScripted returns a channel that answers with the given lines in order.
func NewScripted(answers ...string) *ScriptedChannel {
	return &ScriptedChannel{answers: answers}
}

// Show records lines.
func (s *ScriptedChannel) Show(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, lines...)
}

// Ask returns the next scripted answer, or an error wrapping io.EOF once
// they run out.
func (s *ScriptedChannel) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", errors.Wrap(io.EOF, "no scripted answer left")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return strings.TrimSpace(next), nil
}

// Shown returns every line passed to Show.
func (s *ScriptedChannel) Shown() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shown...)
}

// Prompts returns every prompt passed to Ask.
func (s *ScriptedChannel) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
