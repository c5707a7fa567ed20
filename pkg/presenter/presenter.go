// Package presenter provides consistent CLI output for user-facing messages,
// with color support and quiet mode.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/jingkaihe/skillagent/pkg/skills"
)

// Presenter defines the interface for consistent CLI output
type Presenter interface {
	Error(err error, context string)
	Warning(message string)
	Info(message string)
	Section(title string)
	Catalog(list []skills.Metadata)
	Answer(content string)
	Usage(promptTokens, completionTokens, iterations int)
	Separator()
	SetQuiet(quiet bool)
	IsQuiet() bool
}

// TerminalPresenter implements Presenter for terminal output
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	colorMode   ColorMode
	quiet       bool
}

// ColorMode represents different color output modes
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal support
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output
	ColorAlways
	// ColorNever disables colored output
	ColorNever
)

// New creates a TerminalPresenter on stdout and stderr
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with custom settings
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}

	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		colorMode:   colorMode,
	}
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("SKILLAGENT_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error displays an error message to stderr
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Warning displays a warning message
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info displays an informational message
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section displays a bold header underlined to its width
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}

	headerColor := color.New(color.Bold)
	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", strings.Repeat("-", len([]rune(title))))
}

// Catalog prints the discovered skills, one bullet per skill.
func (p *TerminalPresenter) Catalog(list []skills.Metadata) {
	if p.quiet {
		return
	}

	fmt.Fprintf(p.output, "📋 Discovery: найдено %d skill(s)\n", len(list))
	nameColor := color.New(color.FgCyan)
	for _, s := range list {
		fmt.Fprint(p.output, "  • ")
		nameColor.Fprint(p.output, s.Name)
		fmt.Fprintf(p.output, ": %s\n", s.Description)
	}
}

// Answer prints the final model answer. It is shown in quiet mode too.
func (p *TerminalPresenter) Answer(content string) {
	fmt.Fprintf(p.output, "%s\n", content)
}

// Usage displays token usage of a run
func (p *TerminalPresenter) Usage(promptTokens, completionTokens, iterations int) {
	if p.quiet {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(p.output,
		"[Usage Stats] Input tokens: %d | Output tokens: %d | Total: %d | Iterations: %d\n",
		promptTokens, completionTokens, promptTokens+completionTokens, iterations)
}

// Separator displays a visual separator
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// SetQuiet enables or disables quiet mode
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet returns whether quiet mode is enabled
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

var defaultPresenter = New()

// Error displays an error message using the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Warning displays a warning message using the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info displays an informational message using the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section displays a section header using the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// Catalog prints the discovered skills using the default presenter.
func Catalog(list []skills.Metadata) { defaultPresenter.Catalog(list) }

// Answer prints the final answer using the default presenter.
func Answer(content string) { defaultPresenter.Answer(content) }

// Usage displays token usage using the default presenter.
func Usage(promptTokens, completionTokens, iterations int) {
	defaultPresenter.Usage(promptTokens, completionTokens, iterations)
}

// Separator displays a visual separator using the default presenter.
func Separator() { defaultPresenter.Separator() }

// SetQuiet enables or disables quiet mode for the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }

// IsQuiet reports quiet mode of the default presenter.
func IsQuiet() bool { return defaultPresenter.IsQuiet() }
