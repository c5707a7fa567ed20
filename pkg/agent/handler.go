package agent

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

const (
	maxArgumentsPreview = 120
	maxResultPreview    = 150
)

// MessageHandler receives progress events from a run
type MessageHandler interface {
	HandleIteration(n int)
	HandleText(text string)
	HandleToolUse(toolName string, arguments string)
	HandleToolResult(toolName string, result string)
	HandleDone()
}

// NopHandler discards every event
type NopHandler struct{}

func (NopHandler) HandleIteration(int)             {}
func (NopHandler) HandleText(string)               {}
func (NopHandler) HandleToolUse(string, string)    {}
func (NopHandler) HandleToolResult(string, string) {}
func (NopHandler) HandleDone()                     {}

// ConsoleHandler prints iteration progress, tool calls and truncated results
type ConsoleHandler struct {
	Out    io.Writer
	Silent bool
}

// NewConsoleHandler returns a handler writing to stdout
func NewConsoleHandler() *ConsoleHandler {
	return &ConsoleHandler{Out: os.Stdout}
}

func (h *ConsoleHandler) printf(format string, args ...any) {
	if h.Silent {
		return
	}
	out := h.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

func (h *ConsoleHandler) HandleIteration(n int) {
	h.printf("\n--- Итерация %d ---\n", n)
}

func (h *ConsoleHandler) HandleText(text string) {
	h.printf("\nОтвет: %s\n", text)
}

func (h *ConsoleHandler) HandleToolUse(toolName string, arguments string) {
	h.printf("Tool: %s(%s)\n", toolName, truncate(arguments, maxArgumentsPreview))
}

func (h *ConsoleHandler) HandleToolResult(_ string, result string) {
	h.printf("→ %s\n", truncate(result, maxResultPreview))
}

func (h *ConsoleHandler) HandleDone() {}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
