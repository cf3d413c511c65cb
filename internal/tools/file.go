package tools

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/jsonschema-go/jsonschema"
)

// FileReaderTool reads text files under the current working directory.
type FileReaderTool struct{}

func (t *FileReaderTool) GetName() string { return "file_reader" }

func (t *FileReaderTool) GetSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "file_reader",
		Description: "Read content from a text file",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"path": {
				Type:        "string",
				Description: "Path to the file to read",
			},
			"max_lines": {
				Type:        "integer",
				Description: "Maximum number of lines to read (default: 100)",
			},
		},
		Required: []string{"path"},
	}
}

func (t *FileReaderTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	path := stringArg(args, "path")
	maxLines := intArg(args, "max_lines", 100)

	if path == "" {
		return "", fmt.Errorf("no file path provided")
	}

	// Only allow the current directory and subdirectories
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if absPath != cwd && !strings.HasPrefix(absPath, cwd+string(os.PathSeparator)) {
		return "", fmt.Errorf("access denied: path outside current directory")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %q not found", path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%q is not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	totalLines := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if bytes.IndexByte(line, 0) != -1 || !utf8.Valid(line) {
			return "", fmt.Errorf("%q appears to be a binary file", path)
		}
		totalLines++
		if totalLines <= maxLines {
			lines = append(lines, strings.TrimRight(string(line), " \t"))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", path)
	fmt.Fprintf(&b, "Lines read: %d/%d\n", len(lines), totalLines)
	if totalLines > maxLines {
		fmt.Fprintf(&b, "Output limited to %d lines\n", maxLines)
	}
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))

	return b.String(), nil
}
