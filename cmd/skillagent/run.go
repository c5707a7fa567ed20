package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillagent/pkg/agent"
	"github.com/jingkaihe/skillagent/pkg/presenter"
)

// RunOptions contains all options for the run command
type RunOptions struct {
	quiet bool
}

var runOptions = &RunOptions{}

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Answer a one-shot query",
	Long: `Answer a one-shot query with the discovered skills. The query is taken from the
arguments; piped stdin is appended to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		query, err := readQuery(args, os.Stdin)
		if err != nil {
			return err
		}

		presenter.SetQuiet(runOptions.quiet)
		handler := &agent.ConsoleHandler{Out: cmd.OutOrStdout(), Silent: runOptions.quiet}

		a, err := setupAgent(ctx, handler)
		if err != nil {
			return err
		}

		result, err := a.Run(ctx, query)
		if err != nil {
			return err
		}
		reportResult(result)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runOptions.quiet, "quiet", "q", false, "Print only the final answer")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// readQuery joins the arguments and, when stdin is piped, appends its content.
func readQuery(args []string, stdin *os.File) (string, error) {
	query := strings.Join(args, " ")

	if stat, err := stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		if piped := strings.TrimSpace(string(content)); piped != "" {
			if query != "" {
				query += "\n"
			}
			query += piped
		}
	}

	if strings.TrimSpace(query) == "" {
		return "", errors.New("no query provided")
	}
	return query, nil
}

func reportResult(result agent.Result) {
	if presenter.IsQuiet() && result.Content != "" {
		presenter.Answer(result.Content)
	}
	if result.Status == agent.StatusExhausted {
		presenter.Warning(fmt.Sprintf("Stopped after %d iterations without a final answer", result.Iterations))
		if result.Content != "" && !presenter.IsQuiet() {
			presenter.Info("Last reply: " + result.Content)
		}
	}
	presenter.Usage(result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Iterations)
}
