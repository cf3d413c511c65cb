package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	ai "github.com/sashabaranov/go-openai"
)

// ErrUnknownTool is returned by Invoke when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is the generic interface for all tools
type Tool interface {
	GetName() string
	GetSchema() *jsonschema.Schema
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry manages available tools
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	resolved map[string]*jsonschema.Resolved
}

func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Tool),
		resolved: make(map[string]*jsonschema.Resolved),
	}
}

// Register adds a tool to the registry, resolving its schema for
// argument validation. A tool with an unresolvable schema is rejected.
func (r *Registry) Register(tool Tool) error {
	name := tool.GetName()
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}

	resolved, err := tool.GetSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve schema for %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = tool
	r.resolved[name] = resolved
	slog.Debug("registered tool", "tool", name)
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns all registered tools
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// Definitions returns the OpenAI function definitions for all
// registered tools, for inclusion in a completion request.
func (r *Registry) Definitions() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ai.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, ConvertToOpenAI(tool.GetSchema()))
	}
	return defs
}

// Invoke validates the arguments against the tool's schema and executes
// it. Unknown names, validation failures, and execution failures are all
// returned as errors; callers surface them as tool-result text so the
// model can react.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	resolved := r.resolved[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := resolved.Validate(args); err != nil {
		return "", fmt.Errorf("invalid arguments for %s: %w", name, err)
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", name, err)
	}
	return result, nil
}

// stringArg reads an optional string argument.
func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// intArg reads an optional numeric argument, tolerating the float64
// that JSON decoding produces.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
