// Package tools holds the types shared between skills, tool factories and
// the agent runtime: tool signatures and the handler contract.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ErrorPrefix starts every handler result that reports a failure.
const ErrorPrefix = "Ошибка: "

// Definition is the signature of a tool as offered to the model.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// Handler executes a tool call. It receives the raw JSON arguments and
// returns the text the model sees. Handlers report failures in the returned
// text rather than through an error, so the loop never has to recover from
// one.
type Handler func(ctx context.Context, arguments json.RawMessage) string

// ErrorText renders err as a tool result.
func ErrorText(err error) string {
	return ErrorPrefix + err.Error()
}

// ErrorTextf formats a tool failure result.
func ErrorTextf(format string, args ...any) string {
	return ErrorPrefix + fmt.Sprintf(format, args...)
}

// Decode unmarshals tool arguments into T. Empty input decodes to the zero
// value so tools without required parameters accept "".
func Decode[T any](arguments json.RawMessage) (T, error) {
	var v T
	if len(arguments) == 0 {
		return v, nil
	}
	err := json.Unmarshal(arguments, &v)
	return v, err
}
