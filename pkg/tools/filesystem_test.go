package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillagent/pkg/skills"
)

func call(t *testing.T, s skills.Skill, tool string, args any) string {
	t.Helper()
	handler, ok := s.Handlers[tool]
	require.True(t, ok, "handler %s missing", tool)
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return handler(context.Background(), raw)
}

func activated(name string) skills.Activated {
	return skills.Activated{
		Metadata:     skills.Metadata{Name: name, Description: name + " skill", Location: "/skills/" + name},
		Instructions: "use " + name,
	}
}

func TestFilesystemSkill_Shape(t *testing.T) {
	s := NewFilesystemSkill(activated("filesystem"))

	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"read_file", "write_file", "list_dir"}, s.ToolNames())
	assert.Equal(t, "use filesystem", s.Instructions)
	assert.Equal(t, []string{"path", "content"}, s.Tools[1].Parameters.Required)
}

func TestFilesystemSkill_WriteThenRead(t *testing.T) {
	s := NewFilesystemSkill(activated("filesystem"))
	path := filepath.Join(t.TempDir(), "note.txt")

	result := call(t, s, "write_file", WriteFileInput{Path: path, Content: "привет"})
	assert.Equal(t, "Файл "+path+" записан", result)

	assert.Equal(t, "привет", call(t, s, "read_file", ReadFileInput{Path: path}))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "привет", string(onDisk))
}

func TestFilesystemSkill_ErrorsBecomeText(t *testing.T) {
	s := NewFilesystemSkill(activated("filesystem"))
	missing := filepath.Join(t.TempDir(), "missing", "file.txt")

	result := call(t, s, "read_file", ReadFileInput{Path: missing})
	assert.Contains(t, result, "Ошибка: ")
	assert.Contains(t, result, "no such file or directory")

	result = call(t, s, "write_file", WriteFileInput{Path: missing, Content: "x"})
	assert.Contains(t, result, "Ошибка: ")

	result = s.Handlers["read_file"](context.Background(), json.RawMessage(`{"path":`))
	assert.Contains(t, result, "Ошибка: ")
}

func TestFilesystemSkill_ListDir(t *testing.T) {
	s := NewFilesystemSkill(activated("filesystem"))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta; rm -rf x"), []byte("b"), 0o644))

	result := call(t, s, "list_dir", ListDirInput{Path: dir})
	assert.Contains(t, result, "alpha.txt")
	assert.Contains(t, result, "beta; rm -rf x")
	assert.Contains(t, result, "total")

	result = call(t, s, "list_dir", ListDirInput{Path: filepath.Join(dir, "nope")})
	assert.Contains(t, result, "Ошибка: ")
}
