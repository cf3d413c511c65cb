package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	ai "github.com/sashabaranov/go-openai"

	"github.com/dsartori/tool-agent/internal/config"
	"github.com/dsartori/tool-agent/internal/llm"
	"github.com/dsartori/tool-agent/internal/tools"
)

// Agent drives the bounded request/execute/respond cycle against the
// model backend. It owns the transcript; nothing else touches it.
type Agent struct {
	config     *config.Configuration
	client     llm.LLM
	registry   *tools.Registry
	transcript []ai.ChatCompletionMessage

	// Optional display hooks, nil-safe. Used by the CLI for progress output.
	OnRound    func(round, max int)
	OnToolCall func(name string, args map[string]any)
	OnToolDone func(name, result string, err error)
}

func New(cfg *config.Configuration, client llm.LLM, registry *tools.Registry) *Agent {
	return &Agent{
		config:   cfg,
		client:   client,
		registry: registry,
		transcript: []ai.ChatCompletionMessage{
			{Role: ai.ChatMessageRoleSystem, Content: cfg.Model.SystemPrompt},
		},
	}
}

// Transcript returns a copy of the conversation history.
func (a *Agent) Transcript() []ai.ChatCompletionMessage {
	out := make([]ai.ChatCompletionMessage, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// Chat appends the user message and runs rounds of {model call,
// optional tool executions} until the model stops requesting tools or
// the round limit is reached. Backend failures end the turn and are
// returned to the caller; tool failures never do.
func (a *Agent) Chat(ctx context.Context, input string) (string, error) {
	turn := uuid.NewString()[:8]
	log := slog.With("turn", turn)

	a.transcript = append(a.transcript, ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleUser,
		Content: input,
	})

	defs := a.registry.Definitions()
	maxRounds := a.config.Agent.MaxRounds

	var last ai.ChatCompletionMessage
	for round := 1; round <= maxRounds; round++ {
		if a.OnRound != nil {
			a.OnRound(round, maxRounds)
		}
		log.Debug("requesting completion", "round", round, "messages", len(a.transcript))

		req := llm.NewCompletionRequest(a.config, a.Transcript(), defs)
		msg, err := a.client.Complete(ctx, req)
		if err != nil {
			return "", err
		}

		a.transcript = append(a.transcript, msg)
		last = msg

		if len(msg.ToolCalls) == 0 {
			log.Debug("turn complete", "rounds", round)
			return msg.Content, nil
		}

		// Resolve each request in the order received, no parallelism.
		for _, call := range msg.ToolCalls {
			a.transcript = append(a.transcript, a.executeToolCall(ctx, log, call))
		}
	}

	log.Debug("round limit reached", "rounds", maxRounds)
	if last.Content != "" {
		return fmt.Sprintf("%s\n\nMaximum rounds (%d) reached.", last.Content, maxRounds), nil
	}
	return fmt.Sprintf("Maximum rounds (%d) reached. No final response generated.", maxRounds), nil
}

// executeToolCall resolves a single tool-call request into a tool-result
// message tagged with the originating call id. Every failure mode ends
// up as result text for the model to react to.
func (a *Agent) executeToolCall(ctx context.Context, log *slog.Logger, call ai.ToolCall) ai.ChatCompletionMessage {
	name := call.Function.Name

	var args map[string]any
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		args = map[string]any{}
	}

	if a.OnToolCall != nil {
		a.OnToolCall(name, args)
	}
	log.Info("executing tool", "tool", name, "args", args)

	result, err := a.registry.Invoke(ctx, name, args)
	if err != nil {
		result = "Error: " + err.Error()
		log.Warn("tool failed", "tool", name, "error", err)
	}
	if a.OnToolDone != nil {
		a.OnToolDone(name, result, err)
	}

	return ai.ChatCompletionMessage{
		Role:       ai.ChatMessageRoleTool,
		Name:       name,
		Content:    result,
		ToolCallID: call.ID,
	}
}
