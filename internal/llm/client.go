package llm

import (
	"context"
	"fmt"
	"time"

	ai "github.com/sashabaranov/go-openai"

	"github.com/dsartori/tool-agent/internal/config"
)

// LLM is the interface for the chat-completion backend.
type LLM interface {
	Complete(ctx context.Context, req *CompletionRequest) (ai.ChatCompletionMessage, error)
}

type CompletionRequest struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Messages    []ai.ChatCompletionMessage
	Tools       []ai.Tool
}

func NewCompletionRequest(cfg *config.Configuration, messages []ai.ChatCompletionMessage, tools []ai.Tool) *CompletionRequest {
	return &CompletionRequest{
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     cfg.API.Timeout,
		Messages:    messages,
		Tools:       tools,
	}
}

var _ LLM = (*OpenAIClient)(nil)

// OpenAIClient speaks the OpenAI chat-completions wire protocol against
// a configurable base URL.
type OpenAIClient struct {
	client *ai.Client
}

func NewOpenAIClient(api *config.APIConfig) *OpenAIClient {
	cfg := ai.DefaultConfig(api.Key)
	if api.BaseURL != "" {
		cfg.BaseURL = api.BaseURL
	}
	return &OpenAIClient{client: ai.NewClientWithConfig(cfg)}
}

// Complete performs one blocking chat completion and returns the first
// choice. Failures are returned as-is; the caller decides how to surface
// them (there is no retry).
func (o *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (ai.ChatCompletionMessage, error) {
	timeout := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		timeout, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	ccr := ai.ChatCompletionRequest{
		Model:               req.Model,
		Messages:            req.Messages,
		Temperature:         req.Temperature,
		MaxCompletionTokens: req.MaxTokens,
	}
	if len(req.Tools) > 0 {
		ccr.Tools = req.Tools
		ccr.ToolChoice = "auto"
	}

	resp, err := o.client.CreateChatCompletion(timeout, ccr)
	if err != nil {
		return ai.ChatCompletionMessage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ai.ChatCompletionMessage{}, fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message, nil
}
