package llm

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "anthropic/claude-sonnet-4.5"
	// DefaultBaseURL points at an OpenAI compatible router.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultAPIKeyEnv names the environment variable holding the credential.
	DefaultAPIKeyEnv = "OPENROUTER_API_KEY"
)

// RetryConfig controls retries of completion requests. Delays are in
// milliseconds.
type RetryConfig struct {
	Attempts     int    `mapstructure:"attempts"`
	InitialDelay int    `mapstructure:"initial_delay"`
	MaxDelay     int    `mapstructure:"max_delay"`
	BackoffType  string `mapstructure:"backoff_type"` // "fixed" or "exponential"
}

// DefaultRetryConfig applies when no retry attempts are configured.
var DefaultRetryConfig = RetryConfig{
	Attempts:     3,
	InitialDelay: 1000,
	MaxDelay:     10000,
	BackoffType:  "exponential",
}

// Config holds what is needed to talk to the completion endpoint.
type Config struct {
	Model     string      `mapstructure:"model"`
	BaseURL   string      `mapstructure:"base_url"`
	APIKeyEnv string      `mapstructure:"api_key_env"`
	MaxTokens int         `mapstructure:"max_tokens"`
	Retry     RetryConfig `mapstructure:"retry"`

	// APIKey is read from APIKeyEnv once, when the config is loaded. An
	// empty key is not rejected here; the endpoint reports it on first use.
	APIKey string `mapstructure:"-"`
}

// GetConfigFromViper builds the config from viper and the environment.
func GetConfigFromViper() (Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal llm configuration")
	}
	return withDefaults(config), nil
}

func withDefaults(config Config) Config {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKeyEnv == "" {
		config.APIKeyEnv = DefaultAPIKeyEnv
	}
	if config.Retry.Attempts == 0 {
		config.Retry = DefaultRetryConfig
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv(config.APIKeyEnv)
	}
	return config
}
