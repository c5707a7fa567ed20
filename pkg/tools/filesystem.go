package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// ReadFileInput defines the input parameters for read_file
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"description=Путь к файлу"`
}

// WriteFileInput defines the input parameters for write_file
type WriteFileInput struct {
	Path    string `json:"path" jsonschema:"description=Путь к файлу"`
	Content string `json:"content" jsonschema:"description=Содержимое"`
}

// ListDirInput defines the input parameters for list_dir
type ListDirInput struct {
	Path string `json:"path" jsonschema:"description=Путь к директории"`
}

// NewFilesystemSkill provides read_file, write_file and list_dir.
func NewFilesystemSkill(meta skills.Activated) skills.Skill {
	return skills.Skill{
		Activated: meta,
		Tools: []tooltypes.Definition{
			definition[ReadFileInput]("read_file", "Прочитать файл"),
			definition[WriteFileInput]("write_file", "Записать содержимое в файл"),
			definition[ListDirInput]("list_dir", "Список файлов в директории"),
		},
		Handlers: map[string]tooltypes.Handler{
			"read_file":  readFile,
			"write_file": writeFile,
			"list_dir":   listDir,
		},
	}
}

func readFile(_ context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[ReadFileInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	content, err := os.ReadFile(input.Path)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	return string(content)
}

func writeFile(_ context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[WriteFileInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if err := os.WriteFile(input.Path, []byte(input.Content), 0o644); err != nil {
		return tooltypes.ErrorText(err)
	}
	return fmt.Sprintf("Файл %s записан", input.Path)
}

// listDir returns the raw `ls -la` listing. The path is passed as an
// argument, never through a shell.
func listDir(ctx context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[ListDirInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if input.Path == "" {
		input.Path = "."
	}

	output, err := exec.CommandContext(ctx, "ls", "-la", "--", input.Path).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return tooltypes.ErrorText(errors.New(strings.TrimSpace(string(exitErr.Stderr))))
		}
		return tooltypes.ErrorText(err)
	}
	return string(output)
}
