// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// GetCompletion performs a single completion call. No retry or backoff:
// callers decide what a failed generation means.
func (p *OpenAIProvider) GetCompletion(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", &AIError{Type: ErrTypeValidation, Operation: "completion", Message: "prompt cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
		},
	)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", NewTimeoutError("completion", err)
		}
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}
