package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/jingkaihe/skillagent/pkg/logger"
)

type retryingClient struct {
	client Client
	config RetryConfig
}

// WithRetry retries rate limited, server side and transport failures of
// client. Other errors, such as a rejected credential, are returned at once.
func WithRetry(client Client, config RetryConfig) Client {
	if config.Attempts <= 1 {
		return client
	}
	return &retryingClient{client: client, config: config}
}

func (r *retryingClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var response openai.ChatCompletionResponse

	delayType := retry.BackOffDelay
	if r.config.BackoffType == "fixed" {
		delayType = retry.FixedDelay
	}

	err := retry.Do(
		func() error {
			var apiErr error
			response, apiErr = r.client.CreateChatCompletion(ctx, request)
			return apiErr
		},
		retry.RetryIf(isRetryableError),
		retry.Attempts(uint(r.config.Attempts)),
		retry.Delay(time.Duration(r.config.InitialDelay)*time.Millisecond),
		retry.MaxDelay(time.Duration(r.config.MaxDelay)*time.Millisecond),
		retry.DelayType(delayType),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("attempt", n+1).
				WithField("max_attempts", r.config.Attempts).
				Warn("retrying chat completion")
		}),
	)

	return response, err
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 ||
			reqErr.HTTPStatusCode == http.StatusTooManyRequests ||
			reqErr.HTTPStatusCode >= 500
	}

	return false
}
