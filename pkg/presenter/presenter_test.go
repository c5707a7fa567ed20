package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillagent/pkg/skills"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var output, errorOutput bytes.Buffer
	return NewWithOptions(&output, &errorOutput, ColorNever), &output, &errorOutput
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, os.Stdout, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.IsQuiet())
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		envColor string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "always", ColorNever},
		{"always", "", "always", ColorAlways},
		{"force", "", "force", ColorAlways},
		{"never", "", "never", ColorNever},
		{"off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"unknown value", "", "sometimes", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLAGENT_COLOR", tt.envColor)
			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestMessages(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Warning("careful")
	p.Info("plain")
	p.Error(errors.New("boom"), "running")
	p.Error(errors.New("bare"), "")
	p.Error(nil, "ignored")

	assert.Equal(t, "⚠ careful\nplain\n", out.String())
	assert.Equal(t, "[ERROR] running: boom\n[ERROR] bare\n", errOut.String())
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Навыки")
	assert.Equal(t, "Навыки\n------\n", out.String())
}

func TestCatalog(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Catalog([]skills.Metadata{
		{Name: "bash", Description: "Run shell commands"},
		{Name: "reasoning", Description: "Think step by step"},
	})

	assert.Equal(t,
		"📋 Discovery: найдено 2 skill(s)\n  • bash: Run shell commands\n  • reasoning: Think step by step\n",
		out.String())
}

func TestUsage(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Usage(1200, 80, 3)
	assert.Equal(t, "[Usage Stats] Input tokens: 1200 | Output tokens: 80 | Total: 1280 | Iterations: 3\n", out.String())
}

func TestSeparator(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Separator()
	assert.Equal(t, strings.Repeat("-", 60)+"\n", out.String())
}

func TestQuiet(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)

	p.Warning("x")
	p.Info("x")
	p.Section("x")
	p.Separator()
	p.Catalog([]skills.Metadata{{Name: "x"}})
	p.Usage(1, 1, 1)
	p.Answer("final")
	p.Error(errors.New("still shown"), "")

	assert.Equal(t, "final\n", out.String())
	assert.Contains(t, errOut.String(), "still shown")
}
