package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// WebSearchInput defines the input parameters for web_search
type WebSearchInput struct {
	Query string `json:"query" jsonschema:"description=Поисковый запрос"`
}

// NewWebSearchSkill provides web_search. Results are placeholders; a real
// search backend plugs in behind the same handler.
func NewWebSearchSkill(meta skills.Activated) skills.Skill {
	return skills.Skill{
		Activated: meta,
		Tools: []tooltypes.Definition{
			definition[WebSearchInput]("web_search", "Поиск в интернете"),
		},
		Handlers: map[string]tooltypes.Handler{
			"web_search": webSearch,
		},
	}
}

func webSearch(_ context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[WebSearchInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	return fmt.Sprintf("[Заглушка] Результаты поиска по %q: "+
		"1. Official docs — https://example.com/docs\n"+
		"2. Tutorial — https://example.com/tutorial", input.Query)
}
