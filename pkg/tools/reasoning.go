package tools

import (
	"context"
	"encoding/json"

	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

// ThinkInput defines the input parameters for think
type ThinkInput struct {
	Thought string `json:"thought" jsonschema:"description=Твои мысли\\, план\\, рассуждения"`
}

// thinkAck is returned for every thought.
const thinkAck = "OK"

// NewReasoningSkill provides think, a scratchpad with no side effects.
func NewReasoningSkill(meta skills.Activated) skills.Skill {
	return skills.Skill{
		Activated: meta,
		Tools: []tooltypes.Definition{
			definition[ThinkInput]("think",
				"Используй этот инструмент чтобы подумать, спланировать или порассуждать. "+
					"Результат не виден пользователю — это твой внутренний блокнот."),
		},
		Handlers: map[string]tooltypes.Handler{
			"think": func(context.Context, json.RawMessage) string { return thinkAck },
		},
	}
}
