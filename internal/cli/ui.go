package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgGreen, color.Bold)
	roundColor  = color.New(color.FgCyan)
	toolColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
)

func printRound(round, max int) {
	roundColor.Printf("round %d/%d: thinking...\n", round, max)
}

func printToolCall(name string, args map[string]any) {
	toolColor.Printf("  %s: %s\n", name, summarizeArgs(args))
}

func printToolDone(name, result string, err error) {
	if err != nil {
		errorColor.Printf("  %s: %v\n", name, err)
	}
}

func printAnswer(text string) {
	fmt.Printf("\n%s\n", text)
}

func printError(err error) {
	errorColor.Printf("\n%v\n", err)
}

// summarizeArgs picks the most recognizable argument for display.
func summarizeArgs(args map[string]any) string {
	for _, key := range []string{"path", "query", "url", "expression"} {
		if v, ok := args[key].(string); ok {
			return v
		}
	}
	if len(args) == 0 {
		return "executing"
	}
	var parts []string
	for k, v := range args {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
