package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	DefaultSystemPrompt = "You are a helpful AI assistant with access to tools. " +
		"Use tools when helpful to provide accurate, current information. " +
		"If you have already provided a complete answer and no new information " +
		"is available, respond with exactly '' to signal completion. " +
		"Do not repeat the same answer multiple times."
)

type Configuration struct {
	Model *ModelConfig
	API   *APIConfig
	Agent *AgentConfig
}

type ModelConfig struct {
	Model        string
	Temperature  float32
	MaxTokens    int
	SystemPrompt string
}

type APIConfig struct {
	Key     string
	BaseURL string
	Timeout time.Duration
}

type AgentConfig struct {
	MaxRounds int
	ToolsDir  string
	Verbose   bool
}

// FileSource implements cli.ValueSource for a key in a parsed config file
type FileSource struct {
	data map[string]any
	key  string
}

func (f *FileSource) Lookup() (string, bool) {
	if v, ok := f.data[f.key]; ok {
		// Handle slices by joining with comma
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (f *FileSource) String() string   { return "config" }
func (f *FileSource) GoString() string { return "config" }

// loadConfigFile parses a JSON or YAML config file into a flat key map.
func loadConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON in config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file: %w", err)
		}
	}
	return parsed, nil
}

func GetFlags() []cli.Flag {
	// Pre-parse config path so file values can participate in flag defaults
	configPath := getConfigPath()
	var configData map[string]any
	if configPath != "" {
		data, err := loadConfigFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		} else {
			configData = data
		}
	}

	// Helper to create sources: EnvVar > config file > default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &FileSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "use the named configuration file (JSON or YAML)", Sources: cli.EnvVars("TOOLAGENT_CONFIG")},

		// Model Configuration
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Value: "moonshotai/Kimi-K2-Instruct", Usage: "model to be used for responses", Sources: src("model", "TOOLAGENT_MODEL")},
		&cli.FloatFlag{Name: "temperature", Value: 0.7, Usage: "temperature for the completion", Sources: src("temperature", "TOOLAGENT_TEMPERATURE")},
		&cli.IntFlag{Name: "maxtokens", Value: 4096, Usage: "maximum number of tokens to generate", Sources: src("max_tokens", "TOOLAGENT_MAXTOKENS")},
		&cli.StringFlag{Name: "prompt", Value: DefaultSystemPrompt, Usage: "initial system prompt", Sources: src("system_prompt", "TOOLAGENT_PROMPT")},

		// API Configuration
		&cli.StringFlag{Name: "apikey", Usage: "API key for the model backend", Sources: src("api_key", "LLM_API_KEY")},
		&cli.StringFlag{Name: "baseurl", Value: DefaultBaseURL, Usage: "base URL of the OpenAI-compatible backend", Sources: src("base_url", "LLM_BASE_URL")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 5, Usage: "timeout for each completion request", Sources: src("api_timeout", "TOOLAGENT_APITIMEOUT")},

		// Agent Configuration
		&cli.IntFlag{Name: "maxrounds", Aliases: []string{"r"}, Value: 5, Usage: "maximum number of tool-calling rounds per message", Sources: src("max_rounds", "TOOLAGENT_MAXROUNDS")},
		&cli.StringFlag{Name: "tools", Usage: "directory of executable tools to load", Sources: src("tools_dir", "TOOLAGENT_TOOLS")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "TOOLAGENT_VERBOSE")},
	}
}

func getConfigPath() string {
	// Check env first
	if v := os.Getenv("TOOLAGENT_CONFIG"); v != "" {
		return v
	}
	// Check args
	for i, arg := range os.Args {
		if arg == "--config" || arg == "-c" {
			if i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func NewConfiguration(c *cli.Command) *Configuration {
	return &Configuration{
		Model: &ModelConfig{
			Model:        c.String("model"),
			Temperature:  float32(c.Float("temperature")),
			MaxTokens:    c.Int("maxtokens"),
			SystemPrompt: c.String("prompt"),
		},
		API: &APIConfig{
			Key:     c.String("apikey"),
			BaseURL: c.String("baseurl"),
			Timeout: c.Duration("apitimeout"),
		},
		Agent: &AgentConfig{
			MaxRounds: c.Int("maxrounds"),
			ToolsDir:  c.String("tools"),
			Verbose:   c.Bool("verbose"),
		},
	}
}

// Verify checks the configuration for fatal startup errors.
func (c *Configuration) Verify() error {
	if c.API.Key == "" {
		return fmt.Errorf("missing API key: set LLM_API_KEY or the api_key config entry")
	}
	if c.Agent.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.Agent.MaxRounds)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", c.Model.Temperature)
	}
	if c.Model.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

// MaskedKey returns the API key with all but the first four characters hidden.
func (c *APIConfig) MaskedKey() string {
	if c.Key == "" {
		return "(not set)"
	}
	if len(c.Key) <= 4 {
		return strings.Repeat("*", len(c.Key))
	}
	return c.Key[:4] + strings.Repeat("*", len(c.Key)-4)
}
