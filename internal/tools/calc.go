package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/google/jsonschema-go/jsonschema"
)

const calcAllowedChars = "0123456789+-*/.() "

// CalculatorTool evaluates arithmetic expressions.
type CalculatorTool struct{}

func (t *CalculatorTool) GetName() string { return "calculator" }

func (t *CalculatorTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "calculator",
		Description: "Perform mathematical calculations",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"expression": {
				Type:        "string",
				Description: "Mathematical expression to calculate (e.g., '2 + 3 * 4')",
			},
		},
		Required: []string{"expression"},
	}
}

func (t *CalculatorTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	expression := stringArg(args, "expression")
	if expression == "" {
		return "", fmt.Errorf("no mathematical expression provided")
	}

	// Only arithmetic is allowed; reject anything the evaluator could
	// interpret as an identifier or call.
	for _, c := range expression {
		if !strings.ContainsRune(calcAllowedChars, c) {
			return "", fmt.Errorf("invalid characters in expression")
		}
	}

	result, err := expr.Eval(expression, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("calculating %q: %w", expression, err)
	}

	return fmt.Sprintf("%s = %v", expression, result), nil
}
