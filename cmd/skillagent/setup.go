package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillagent/pkg/agent"
	"github.com/jingkaihe/skillagent/pkg/interaction"
	"github.com/jingkaihe/skillagent/pkg/llm"
	"github.com/jingkaihe/skillagent/pkg/presenter"
	"github.com/jingkaihe/skillagent/pkg/skills"
	"github.com/jingkaihe/skillagent/pkg/sysprompt"
	"github.com/jingkaihe/skillagent/pkg/tools"
)

func skillsConfigFromViper() skills.Config {
	return skills.Config{
		Dirs:    viper.GetStringSlice("skills.dirs"),
		Allowed: viper.GetStringSlice("skills.allowed"),
	}
}

// loadSkills discovers and activates the configured skills. Skills that
// failed to load are reported as a warning and left out.
func loadSkills(ctx context.Context) ([]skills.Activated, error) {
	loaded, err := skills.Load(ctx, skillsConfigFromViper())
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		presenter.Warning(err.Error())
	}
	return loaded, nil
}

// listSkills discovers the configured skills without activating them.
func listSkills(ctx context.Context) ([]skills.Metadata, error) {
	found, err := skills.List(ctx, skillsConfigFromViper())
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		presenter.Warning(err.Error())
	}
	return found, nil
}

// buildSkills turns activated skills into runnable ones. Interactive tools
// use the process-wide console.
func buildSkills(loaded []skills.Activated, ch interaction.Channel) ([]skills.Skill, error) {
	registry := tools.NewRegistry(ch, tools.WithShellTimeout(viper.GetDuration("shell_timeout")))
	built := registry.BuildAll(loaded)
	for _, s := range built {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return built, nil
}

func newAgent(client llm.Client, llmConfig llm.Config, built []skills.Skill, handler agent.MessageHandler) (*agent.Agent, error) {
	var template string
	if path := viper.GetString("system_prompt_file"); path != "" {
		var err error
		if template, err = sysprompt.LoadTemplate(path); err != nil {
			return nil, err
		}
	}

	return agent.New(client, built,
		agent.WithModel(llmConfig.Model),
		agent.WithMaxTokens(llmConfig.MaxTokens),
		agent.WithMaxIterations(viper.GetInt("max_iterations")),
		agent.WithSystemPrompt(template),
		agent.WithMessageHandler(handler),
	)
}

// setupAgent wires configuration, skills and the endpoint client into an
// agent and prints the discovery catalog.
func setupAgent(ctx context.Context, handler agent.MessageHandler) (*agent.Agent, error) {
	loaded, err := loadSkills(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]skills.Metadata, len(loaded))
	for i, s := range loaded {
		catalog[i] = s.Metadata
	}
	presenter.Catalog(catalog)

	built, err := buildSkills(loaded, interaction.Console())
	if err != nil {
		return nil, err
	}

	llmConfig, err := llm.GetConfigFromViper()
	if err != nil {
		return nil, err
	}

	a, err := newAgent(llm.NewClientFromConfig(llmConfig), llmConfig, built, handler)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build agent")
	}
	return a, nil
}
