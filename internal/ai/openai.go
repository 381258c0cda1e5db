package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI asks a chat model for the same tools Mock provides.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey), model: openai.GPT3Dot5Turbo}
}

// NewOpenAIWithConfig is used to point the client at another base URL.
func NewOpenAIWithConfig(cfg openai.ClientConfig) *OpenAI {
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: openai.GPT3Dot5Turbo}
}

func (o *OpenAI) complete(ctx context.Context, prompt string, jsonOut bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
		TopP:        0.8,
	}
	if jsonOut {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return o.complete(ctx, `Summarize this note in at most two plain sentences.

Note:
`+text, false)
}

func (o *OpenAI) Keywords(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	out, err := o.complete(ctx, `Extract up to five keywords from this note.
Respond ONLY with JSON of the form {"keywords": ["..."]}.

Note:
`+text, true)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	if len(parsed.Keywords) > keywordCount {
		parsed.Keywords = parsed.Keywords[:keywordCount]
	}
	return parsed.Keywords, nil
}
