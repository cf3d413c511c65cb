package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ShellTool wraps an external executable as a tool. The executable must
// print its JSON schema when run with --schema (the schema's title is
// the tool name) and perform its work when run with
// --execute '<json-args>'.
type ShellTool struct {
	Command string
	schema  *jsonschema.Schema
}

func NewShellTool(command string) (*ShellTool, error) {
	tool := &ShellTool{Command: command}

	out, err := exec.Command(command, "--schema").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema from %s: %w", command, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(out, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema from %s: %w", command, err)
	}
	if schema.Title == "" {
		return nil, fmt.Errorf("schema from %s has no title", command)
	}

	tool.schema = &schema
	return tool, nil
}

func (s *ShellTool) GetName() string { return s.schema.Title }

func (s *ShellTool) GetSchema() *jsonschema.Schema { return s.schema }

func (s *ShellTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to marshal arguments: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Command, "--execute", string(argsJSON))
	output, err := cmd.CombinedOutput()

	if cmd.ProcessState != nil {
		slog.Debug("shell tool finished",
			"tool", s.schema.Title,
			"rc", cmd.ProcessState.ExitCode(),
			"usr", cmd.ProcessState.UserTime(),
			"sys", cmd.ProcessState.SystemTime(),
		)
	}

	result := strings.TrimSpace(string(output))
	if err != nil {
		return "", fmt.Errorf("tool execution failed: %w (output: %s)", err, result)
	}
	return result, nil
}

// LoadDirectory registers every executable in dir as a shell tool.
// Entries that fail to load are skipped with a warning.
func (r *Registry) LoadDirectory(dir string) error {
	slog.Info("loading tools", "dir", dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}

		tool, err := NewShellTool(path)
		if err != nil {
			slog.Warn("failed to load tool", "path", path, "error", err)
			continue
		}
		if err := r.Register(tool); err != nil {
			slog.Warn("failed to register tool", "path", path, "error", err)
			continue
		}
		slog.Info("registered shell tool", "tool", tool.GetName())
	}
	return nil
}
