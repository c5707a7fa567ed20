// Package llm is the boundary to the hosted chat completion endpoint. The
// agent depends only on the Client interface; the go-openai client talks to
// any OpenAI compatible endpoint and tests substitute a scripted double.
package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Client sends one chat completion request.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient builds a go-openai client for config. Retries are layered on
// with WithRetry.
func NewClient(config Config) *openai.Client {
	config = withDefaults(config)

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL

	return openai.NewClientWithConfig(clientConfig)
}

// NewClientFromConfig returns the endpoint client with retries applied.
func NewClientFromConfig(config Config) Client {
	config = withDefaults(config)
	return WithRetry(NewClient(config), config.Retry)
}
