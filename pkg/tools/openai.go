package tools

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// ToOpenAITools converts tool definitions to the chat completion format
func ToOpenAITools(defs []tooltypes.Definition) []openai.Tool {
	openaiTools := make([]openai.Tool, len(defs))
	for i, def := range defs {
		openaiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  parametersMap(def),
			},
		}
	}
	return openaiTools
}

func parametersMap(def tooltypes.Definition) map[string]any {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	if def.Parameters == nil {
		return params
	}

	schemaBytes, err := json.Marshal(def.Parameters)
	if err != nil {
		return params
	}
	if err := json.Unmarshal(schemaBytes, &params); err != nil {
		return params
	}
	delete(params, "$schema")
	delete(params, "$id")
	return params
}
