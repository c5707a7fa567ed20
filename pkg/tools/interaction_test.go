package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillagent/pkg/interaction"
)

var deployOptions = []ChoiceOption{
	{Label: "Docker", Description: "контейнер"},
	{Label: "Bare metal", Description: "прямо на сервер"},
}

func TestInteractionSkill_Shape(t *testing.T) {
	s := NewInteractionSkill(activated("interaction"), interaction.NewScripted())

	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"ask_user_choice", "ask_user_input", "ask_user_confirm"}, s.ToolNames())
	assert.Equal(t, []string{"question", "options"}, s.Tools[0].Parameters.Required)
	assert.Equal(t, []string{"question"}, s.Tools[1].Parameters.Required)
	assert.Equal(t, []string{"question"}, s.Tools[2].Parameters.Required)
}

func TestAskUserChoice(t *testing.T) {
	tests := []struct {
		name        string
		answers     []string
		allowCustom bool
		expected    string
	}{
		{name: "numbered option", answers: []string{"2"}, expected: `Пользователь выбрал: "Bare metal" — прямо на сервер`},
		{name: "custom option", answers: []string{"3", "Kubernetes"}, allowCustom: true, expected: `Пользователь выбрал свой вариант: "Kubernetes"`},
		{name: "custom slot without allow_custom", answers: []string{"3"}, expected: `Пользователь ответил: "3"`},
		{name: "free text", answers: []string{"не знаю"}, expected: `Пользователь ответил: "не знаю"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := interaction.NewScripted(tt.answers...)
			s := NewInteractionSkill(activated("interaction"), ch)

			result := call(t, s, "ask_user_choice", AskUserChoiceInput{
				Question:    "Как деплоить?",
				Options:     deployOptions,
				AllowCustom: tt.allowCustom,
			})
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAskUserChoice_Rendering(t *testing.T) {
	ch := interaction.NewScripted("1")
	s := NewInteractionSkill(activated("interaction"), ch)

	call(t, s, "ask_user_choice", AskUserChoiceInput{Question: "Как деплоить?", Options: deployOptions, AllowCustom: true})

	shown := ch.Shown()
	assert.Contains(t, shown, heavyRule)
	assert.Contains(t, shown, "🤔 Как деплоить?")
	assert.Contains(t, shown, "  1) Docker")
	assert.Contains(t, shown, "     контейнер")
	assert.Contains(t, shown, "  3) Свой вариант...")
	assert.Equal(t, []string{"Выбор [1-3]: "}, ch.Prompts())
}

func TestAskUserChoice_NoOptions(t *testing.T) {
	s := NewInteractionSkill(activated("interaction"), interaction.NewScripted())
	result := call(t, s, "ask_user_choice", AskUserChoiceInput{Question: "?"})
	assert.Equal(t, "Ошибка: options are required", result)
}

func TestAskUserInput(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		ch := interaction.NewScripted("my-app")
		s := NewInteractionSkill(activated("interaction"), ch)

		result := call(t, s, "ask_user_input", AskUserInputInput{Question: "Имя проекта?", Hint: "латиница", DefaultValue: "demo"})
		assert.Equal(t, `Пользователь ввёл: "my-app"`, result)
		assert.Contains(t, ch.Shown(), "   💡 латиница")
		assert.Contains(t, ch.Shown(), `   (Enter = "demo")`)
	})

	t.Run("empty answer uses default", func(t *testing.T) {
		s := NewInteractionSkill(activated("interaction"), interaction.NewScripted(""))
		result := call(t, s, "ask_user_input", AskUserInputInput{Question: "Имя проекта?", DefaultValue: "demo"})
		assert.Equal(t, `Пользователь ввёл: "demo"`, result)
	})
}

func TestAskUserConfirm(t *testing.T) {
	yes := "Пользователь подтвердил: ДА"
	no := "Пользователь отказал: НЕТ"

	for answer, expected := range map[string]string{
		"y": yes, "Y": yes, "yes": yes, "YES": yes,
		"д": yes, "Д": yes, "да": yes, "Да": yes,
		"n": no, "no": no, "нет": no, "": no, "yep": no,
	} {
		t.Run(answer, func(t *testing.T) {
			s := NewInteractionSkill(activated("interaction"), interaction.NewScripted(answer))
			result := call(t, s, "ask_user_confirm", AskUserConfirmInput{Question: "Удалить?", Details: "безвозвратно"})
			assert.Equal(t, expected, result)
		})
	}
}

func TestInteraction_ChannelErrorBecomesText(t *testing.T) {
	s := NewInteractionSkill(activated("interaction"), interaction.NewScripted())
	result := call(t, s, "ask_user_confirm", AskUserConfirmInput{Question: "Удалить?"})
	assert.Equal(t, "Ошибка: no scripted answer left: EOF", result)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	raw, err := json.Marshal(AskUserInputInput{Question: "?"})
	require.NoError(t, err)
	result = s.Handlers["ask_user_input"](ctx, raw)
	assert.Equal(t, "Ошибка: context canceled", result)
}
