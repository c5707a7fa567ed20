package main

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillagent/pkg/agent"
	"github.com/jingkaihe/skillagent/pkg/interaction"
	"github.com/jingkaihe/skillagent/pkg/logger"
	"github.com/jingkaihe/skillagent/pkg/presenter"
)

var exitCommands = []string{"exit", "quit", "выход"}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Answer queries read from the console until exit",
	Long: `Start an interactive session. Every line is answered as an independent query;
no transcript is carried between queries. Type exit or quit to leave.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a, err := setupAgent(ctx, &agent.ConsoleHandler{Out: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		return chatLoop(ctx, a, interaction.Console())
	},
}

type runner interface {
	Run(ctx context.Context, userMessage string) (agent.Result, error)
}

func chatLoop(ctx context.Context, a runner, ch interaction.Channel) error {
	presenter.Section("skillagent chat")
	for {
		query, err := ch.Ask(ctx, "\nВы: ")
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "failed to read query")
		}
		if query == "" {
			continue
		}
		if isExit(query) {
			return nil
		}

		result, err := a.Run(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.G(ctx).WithError(err).Error("query failed")
			presenter.Error(err, "query failed")
			continue
		}
		reportResult(result)
		presenter.Separator()
	}
}

func isExit(query string) bool {
	return slices.Contains(exitCommands, strings.ToLower(strings.TrimSpace(query)))
}
