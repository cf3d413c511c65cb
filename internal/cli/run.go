package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dsartori/tool-agent/internal/agent"
	"github.com/dsartori/tool-agent/internal/config"
	"github.com/dsartori/tool-agent/internal/llm"
	"github.com/dsartori/tool-agent/internal/tools"
)

// Run wires up the registry, client, and agent, then dispatches to
// one-shot, piped-stdin, or interactive mode.
func Run(ctx context.Context, cfg *config.Configuration, args []string) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	a := agent.New(cfg, llm.NewOpenAIClient(cfg.API), registry)
	a.OnRound = printRound
	a.OnToolCall = printToolCall
	a.OnToolDone = printToolDone

	// Message from argument
	if len(args) > 0 {
		return chatOnce(ctx, a, strings.Join(args, " "))
	}

	// Message from piped stdin
	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			return fmt.Errorf("empty message on stdin")
		}
		return chatOnce(ctx, a, msg)
	}

	return runInteractive(ctx, cfg, a, registry)
}

func buildRegistry(cfg *config.Configuration) (*tools.Registry, error) {
	registry := tools.NewRegistry()
	builtins := []tools.Tool{
		&tools.FileReaderTool{},
		tools.NewWebSearchTool(),
		tools.NewWebFetchTool(),
		&tools.CalculatorTool{},
	}
	for _, tool := range builtins {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	if cfg.Agent.ToolsDir != "" {
		if err := registry.LoadDirectory(cfg.Agent.ToolsDir); err != nil {
			return nil, fmt.Errorf("loading tools from %s: %w", cfg.Agent.ToolsDir, err)
		}
	}
	return registry, nil
}

// chatOnce runs a single turn. Backend failures become the final answer
// for the turn rather than a process error.
func chatOnce(ctx context.Context, a *agent.Agent, msg string) error {
	answer, err := a.Chat(ctx, msg)
	if err != nil {
		printError(err)
		return nil
	}
	printAnswer(answer)
	return nil
}

func runInteractive(ctx context.Context, cfg *config.Configuration, a *agent.Agent, registry *tools.Registry) error {
	fmt.Println("ToolAgent - AI with tool chaining")
	fmt.Println("Type 'quit' to exit, 'help' for available tools")
	fmt.Printf("Max rounds: %d\n\n", cfg.Agent.MaxRounds)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		msg := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(msg) {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return nil
		case "help":
			printHelp(registry)
			continue
		}

		fmt.Println()
		if err := chatOnce(ctx, a, msg); err != nil {
			slog.Error("chat failed", "error", err)
		}
		fmt.Println()
	}
}

func printHelp(registry *tools.Registry) {
	fmt.Println("\nAvailable tools:")
	for _, tool := range registry.All() {
		fmt.Printf("  - %s: %s\n", tool.GetName(), tool.GetSchema().Description)
	}
	fmt.Println()
}
