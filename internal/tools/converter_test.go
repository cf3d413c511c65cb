package tools

import (
	"testing"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	ai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

func TestConvertToOpenAI(t *testing.T) {
	schema := &gjsonschema.Schema{
		Title:       "demo",
		Description: "A demo tool",
		Type:        "object",
		Properties: map[string]*gjsonschema.Schema{
			"name": {Type: "string", Description: "a name"},
			"count": {
				Type: "integer",
			},
			"tags": {
				Type:  "array",
				Items: &gjsonschema.Schema{Type: "string"},
			},
			"mode": {
				Type: "string",
				Enum: []any{"fast", "slow"},
			},
		},
		Required: []string{"name"},
	}

	tool := ConvertToOpenAI(schema)

	if tool.Type != ai.ToolTypeFunction {
		t.Errorf("tool type = %q, want function", tool.Type)
	}
	if tool.Function == nil {
		t.Fatal("nil function definition")
	}
	if tool.Function.Name != "demo" || tool.Function.Description != "A demo tool" {
		t.Errorf("function = %q/%q", tool.Function.Name, tool.Function.Description)
	}

	params, ok := tool.Function.Parameters.(jsonschema.Definition)
	if !ok {
		t.Fatalf("parameters type = %T", tool.Function.Parameters)
	}
	if params.Type != jsonschema.Object {
		t.Errorf("parameters type = %q, want object", params.Type)
	}
	if len(params.Required) != 1 || params.Required[0] != "name" {
		t.Errorf("required = %v, want [name]", params.Required)
	}

	name := params.Properties["name"]
	if name.Type != jsonschema.String || name.Description != "a name" {
		t.Errorf("name property = %+v", name)
	}

	tags := params.Properties["tags"]
	if tags.Type != jsonschema.Array || tags.Items == nil || tags.Items.Type != jsonschema.String {
		t.Errorf("tags property = %+v", tags)
	}

	mode := params.Properties["mode"]
	if len(mode.Enum) != 2 {
		t.Errorf("mode enum = %v, want two values", mode.Enum)
	}
}

func TestConvertToOpenAINilSchema(t *testing.T) {
	tool := ConvertToOpenAI(nil)
	if tool.Function == nil {
		t.Fatal("nil function definition")
	}
	if tool.Function.Name != "" {
		t.Errorf("name = %q, want empty", tool.Function.Name)
	}
}
