package llm

import (
	"context"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const openAISystemPrompt = "You are a delivery lead writing a concise daily recap of one person's Jira activity."

// OpenAIClient summarises through the OpenAI chat completions API or any
// server compatible with it.
type OpenAIClient struct {
	key   string
	model string
	cli   openai.Client
}

// NewOpenAIClient creates a client. baseURL may be empty for the public API.
func NewOpenAIClient(key, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(1)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAIClient{key: key, model: model, cli: openai.NewClient(opts...)}
}

func (c *OpenAIClient) Summarize(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.key) == "" {
		return "", ErrMissingKey
	}
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(prompt),
		},
	}
	resp, err := c.cli.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}
