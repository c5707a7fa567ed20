package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/jingkaihe/skillagent/pkg/logger"
	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// DefaultShellTimeout bounds every run_bash call.
const DefaultShellTimeout = 10 * time.Second

// shellWaitDelay is how long pipes may drain after the command was killed.
const shellWaitDelay = 500 * time.Millisecond

// RunBashInput defines the input parameters for run_bash
type RunBashInput struct {
	Command string `json:"command" jsonschema:"description=Команда"`
}

type shellRunner struct {
	timeout time.Duration
}

// ShellOption configures the bash skill
type ShellOption func(*shellRunner)

// WithShellTimeout overrides DefaultShellTimeout. Non-positive values are
// ignored.
func WithShellTimeout(timeout time.Duration) ShellOption {
	return func(r *shellRunner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewShellSkill provides run_bash.
func NewShellSkill(meta skills.Activated, opts ...ShellOption) skills.Skill {
	r := &shellRunner{timeout: DefaultShellTimeout}
	for _, opt := range opts {
		opt(r)
	}

	return skills.Skill{
		Activated: meta,
		Tools: []tooltypes.Definition{
			definition[RunBashInput]("run_bash", "Выполнить bash-команду"),
		},
		Handlers: map[string]tooltypes.Handler{
			"run_bash": r.run,
		},
	}
}

func (r *shellRunner) run(ctx context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[RunBashInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if strings.TrimSpace(input.Command) == "" {
		return tooltypes.ErrorText(errors.New("command is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "bash", "-c", input.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Cancel = func() error {
		killChildren(ctx, cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	// children that inherited the pipes must not hold Wait past the deadline
	cmd.WaitDelay = shellWaitDelay

	err = cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String())
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.G(ctx).WithField("command", input.Command).WithField("timeout", r.timeout).Warn("bash command timed out")
		return tooltypes.ErrorTextf("команда не завершилась за %s", r.timeout)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return tooltypes.ErrorPrefix + msg
	}
	return tooltypes.ErrorText(err)
}

// killChildren kills the descendants of pid, deepest first.
func killChildren(ctx context.Context, pid int) {
	parent, err := process.NewProcess(int32(pid))
	if err != nil {
		return
	}
	children, err := parent.Children()
	if err != nil {
		return
	}
	for _, child := range children {
		killChildren(ctx, int(child.Pid))
		if err := child.Kill(); err != nil {
			logger.G(ctx).WithError(err).WithField("pid", child.Pid).Debug("failed to kill child process")
		}
	}
}
