package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillagent/pkg/interaction"
	"github.com/jingkaihe/skillagent/pkg/skills"
	tooltypes "github.com/jingkaihe/skillagent/pkg/types/tools"
)

const frameWidth = 50

var (
	heavyRule = strings.Repeat("═", frameWidth)
	lightRule = strings.Repeat("─", frameWidth)

	// affirmativeTokens are compared against the lower-cased answer.
	affirmativeTokens = []string{"y", "yes", "д", "да"}
)

// ChoiceOption is one answer offered by ask_user_choice
type ChoiceOption struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AskUserChoiceInput defines the input parameters for ask_user_choice
type AskUserChoiceInput struct {
	Question    string         `json:"question" jsonschema:"description=Вопрос для пользователя"`
	Options     []ChoiceOption `json:"options" jsonschema:"description=Варианты (2-5 штук)"`
	AllowCustom bool           `json:"allow_custom,omitempty" jsonschema:"description=Разрешить свой вариант"`
}

// AskUserInputInput defines the input parameters for ask_user_input
type AskUserInputInput struct {
	Question     string `json:"question" jsonschema:"description=Что спросить"`
	Hint         string `json:"hint,omitempty" jsonschema:"description=Подсказка"`
	DefaultValue string `json:"default_value,omitempty" jsonschema:"description=Значение по умолчанию"`
}

// AskUserConfirmInput defines the input parameters for ask_user_confirm
type AskUserConfirmInput struct {
	Question string `json:"question" jsonschema:"description=Что подтвердить"`
	Details  string `json:"details,omitempty" jsonschema:"description=Детали для решения"`
}

// NewInteractionSkill provides the human-in-the-loop tools. Every handler
// blocks on ch until the operator answers and returns a sentence describing
// the answer.
func NewInteractionSkill(meta skills.Activated, ch interaction.Channel) skills.Skill {
	h := &interactionHandlers{ch: ch}

	return skills.Skill{
		Activated: meta,
		Tools: []tooltypes.Definition{
			definition[AskUserChoiceInput]("ask_user_choice",
				"Предложить пользователю выбор из нескольких вариантов. "+
					"Используй когда есть несколько хороших решений."),
			definition[AskUserInputInput]("ask_user_input",
				"Запросить текстовый ввод. Используй когда нужна конкретная информация."),
			definition[AskUserConfirmInput]("ask_user_confirm",
				"Запросить подтверждение да/нет. Используй перед важными действиями."),
		},
		Handlers: map[string]tooltypes.Handler{
			"ask_user_choice":  h.choice,
			"ask_user_input":   h.input,
			"ask_user_confirm": h.confirm,
		},
	}
}

type interactionHandlers struct {
	ch interaction.Channel
}

func (h *interactionHandlers) choice(ctx context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[AskUserChoiceInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if len(input.Options) == 0 {
		return tooltypes.ErrorText(errors.New("options are required"))
	}

	lines := []string{"", heavyRule, "🤔 " + input.Question, lightRule}
	for i, opt := range input.Options {
		lines = append(lines,
			fmt.Sprintf("  %d) %s", i+1, opt.Label),
			fmt.Sprintf("     %s", opt.Description),
		)
	}
	maxChoice := len(input.Options)
	if input.AllowCustom {
		maxChoice++
		lines = append(lines, fmt.Sprintf("  %d) Свой вариант...", maxChoice))
	}
	lines = append(lines, lightRule)
	h.ch.Show(lines...)

	answer, err := h.ch.Ask(ctx, fmt.Sprintf("Выбор [1-%d]: ", maxChoice))
	if err != nil {
		return tooltypes.ErrorText(err)
	}

	num, convErr := strconv.Atoi(answer)
	if convErr == nil && input.AllowCustom && num == len(input.Options)+1 {
		custom, err := h.ch.Ask(ctx, "Введите свой вариант: ")
		if err != nil {
			return tooltypes.ErrorText(err)
		}
		return fmt.Sprintf("Пользователь выбрал свой вариант: %q", custom)
	}
	if convErr == nil && num >= 1 && num <= len(input.Options) {
		chosen := input.Options[num-1]
		return fmt.Sprintf("Пользователь выбрал: %q — %s", chosen.Label, chosen.Description)
	}
	return fmt.Sprintf("Пользователь ответил: %q", answer)
}

func (h *interactionHandlers) input(ctx context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[AskUserInputInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}

	lines := []string{"", heavyRule, "📝 " + input.Question}
	if input.Hint != "" {
		lines = append(lines, "   💡 "+input.Hint)
	}
	if input.DefaultValue != "" {
		lines = append(lines, fmt.Sprintf("   (Enter = %q)", input.DefaultValue))
	}
	lines = append(lines, lightRule)
	h.ch.Show(lines...)

	answer, err := h.ch.Ask(ctx, "> ")
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if answer == "" {
		answer = input.DefaultValue
	}
	return fmt.Sprintf("Пользователь ввёл: %q", answer)
}

func (h *interactionHandlers) confirm(ctx context.Context, arguments json.RawMessage) string {
	input, err := tooltypes.Decode[AskUserConfirmInput](arguments)
	if err != nil {
		return tooltypes.ErrorText(err)
	}

	lines := []string{"", heavyRule, "❓ " + input.Question}
	if input.Details != "" {
		lines = append(lines, "   "+input.Details)
	}
	lines = append(lines, lightRule)
	h.ch.Show(lines...)

	answer, err := h.ch.Ask(ctx, "Да/Нет [y/n]: ")
	if err != nil {
		return tooltypes.ErrorText(err)
	}
	if IsAffirmative(answer) {
		return "Пользователь подтвердил: ДА"
	}
	return "Пользователь отказал: НЕТ"
}

// IsAffirmative reports whether answer is one of the accepted yes tokens,
// ignoring case and surrounding space.
func IsAffirmative(answer string) bool {
	return slices.Contains(affirmativeTokens, strings.ToLower(strings.TrimSpace(answer)))
}
