package tools

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Ошибка: disk full", ErrorText(errors.New("disk full")))
	assert.Equal(t, "Ошибка: exit 3", ErrorTextf("exit %d", 3))
}

func TestDecode(t *testing.T) {
	type input struct {
		Path string `json:"path"`
	}

	t.Run("valid", func(t *testing.T) {
		got, err := Decode[input](json.RawMessage(`{"path": "/tmp/a"}`))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/a", got.Path)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := Decode[input](nil)
		require.NoError(t, err)
		assert.Empty(t, got.Path)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Decode[input](json.RawMessage(`{"path":`))
		assert.Error(t, err)
	})
}
