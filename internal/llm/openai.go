package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAI implements Client using the OpenAI Chat Completions API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI client. The SDK reads OPENAI_API_KEY from
// the environment.
func NewOpenAI() *OpenAI {
	return &OpenAI{client: openai.NewClient()}
}

// Name implements Client.
func (o *OpenAI) Name() string { return "openai" }

// Complete implements Client.
func (o *OpenAI) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
