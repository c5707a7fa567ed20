package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillagent/pkg/agent"
	"github.com/jingkaihe/skillagent/pkg/logger"
	"github.com/jingkaihe/skillagent/pkg/tools"
)

func init() {
	viper.SetDefault("max_iterations", agent.DefaultMaxIterations)
	viper.SetDefault("shell_timeout", tools.DefaultShellTimeout)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("tracing.sampler", "always")
	viper.SetDefault("tracing.ratio", 1.0)

	viper.SetEnvPrefix("SKILLAGENT")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillagent")
	viper.AddConfigPath(".")

	// a missing config file is fine
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillagent",
	Short: "Tool-using agent driven by SKILL.md skills",
	Long: `skillagent discovers skills described by SKILL.md files, activates them and
lets a chat completion model answer queries with the tools those skills provide.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return logger.Configure(viper.GetString("log_level"), viper.GetString("log_format"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runCmd.RunE(cmd, args)
		}
		return cmd.Help()
	},
}

func main() {
	// credentials may live in a local .env file
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.String("model", "", "Model to use (overrides config)")
	flags.String("base-url", "", "OpenAI compatible endpoint base URL")
	flags.Int("max-tokens", 0, "Maximum tokens per completion")
	flags.Int("max-iterations", agent.DefaultMaxIterations, "Maximum completion requests per query")
	flags.StringSlice("skills-dir", nil, "Skill directories to search, in order (default ./.skillagent/skills and ~/.skillagent/skills)")
	flags.StringSlice("allow", nil, "Glob patterns of skill names to enable (default all)")
	flags.Duration("shell-timeout", tools.DefaultShellTimeout, "Timeout for each run_bash call")
	flags.String("system-prompt", "", "Template file for the system prompt; {{SKILLS}} is replaced by the skills catalog")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "text", "Log format (text or json)")

	viper.BindPFlag("model", flags.Lookup("model"))
	viper.BindPFlag("base_url", flags.Lookup("base-url"))
	viper.BindPFlag("max_tokens", flags.Lookup("max-tokens"))
	viper.BindPFlag("max_iterations", flags.Lookup("max-iterations"))
	viper.BindPFlag("skills.dirs", flags.Lookup("skills-dir"))
	viper.BindPFlag("skills.allowed", flags.Lookup("allow"))
	viper.BindPFlag("shell_timeout", flags.Lookup("shell-timeout"))
	viper.BindPFlag("system_prompt_file", flags.Lookup("system-prompt"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))

	rootCmd.AddCommand(withTracing(runCmd))
	rootCmd.AddCommand(withTracing(chatCmd))
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
