package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellSkill_Shape(t *testing.T) {
	s := NewShellSkill(activated("bash"))

	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"run_bash"}, s.ToolNames())
	assert.Equal(t, []string{"command"}, s.Tools[0].Parameters.Required)
}

func TestShellSkill_Run(t *testing.T) {
	s := NewShellSkill(activated("bash"))

	tests := []struct {
		name     string
		command  string
		expected string
		contains string
	}{
		{name: "trimmed stdout", command: "echo '  hello  '", expected: "hello"},
		{name: "pipeline", command: "printf 'a\\nb\\n' | wc -l | tr -d ' '", expected: "2"},
		{name: "stderr on failure", command: "echo boom >&2; exit 3", expected: "Ошибка: boom"},
		{name: "exit without stderr", command: "exit 4", contains: "exit status 4"},
		{name: "empty command", command: "   ", contains: "command is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, s, "run_bash", RunBashInput{Command: tt.command})
			if tt.expected != "" {
				assert.Equal(t, tt.expected, result)
			}
			if tt.contains != "" {
				assert.Contains(t, result, "Ошибка: ")
				assert.Contains(t, result, tt.contains)
			}
		})
	}
}

func TestShellSkill_Timeout(t *testing.T) {
	s := NewShellSkill(activated("bash"), WithShellTimeout(300*time.Millisecond))

	start := time.Now()
	// the trailing echo keeps bash from exec-ing sleep directly
	result := call(t, s, "run_bash", RunBashInput{Command: "sleep 5; echo done"})
	elapsed := time.Since(start)

	assert.Contains(t, result, "Ошибка: ")
	assert.Contains(t, result, "300ms")
	assert.Less(t, elapsed, 3*time.Second)
}

func TestWithShellTimeout_IgnoresNonPositive(t *testing.T) {
	r := &shellRunner{timeout: DefaultShellTimeout}
	WithShellTimeout(0)(r)
	assert.Equal(t, DefaultShellTimeout, r.timeout)
	WithShellTimeout(time.Second)(r)
	assert.Equal(t, time.Second, r.timeout)
}
