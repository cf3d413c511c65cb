package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
)

// runWithFlags parses args through a throwaway command and captures the
// resulting configuration.
func runWithFlags(t *testing.T, args ...string) *Configuration {
	t.Helper()
	var cfg *Configuration
	cmd := &cli.Command{
		Name:  "toolagent",
		Flags: GetFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg = NewConfiguration(c)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"toolagent"}, args...)); err != nil {
		t.Fatalf("command run: %v", err)
	}
	if cfg == nil {
		t.Fatal("action did not run")
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := runWithFlags(t)

	if cfg.Model.Model != "moonshotai/Kimi-K2-Instruct" {
		t.Errorf("model = %q", cfg.Model.Model)
	}
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("temperature = %f", cfg.Model.Temperature)
	}
	if cfg.Model.MaxTokens != 4096 {
		t.Errorf("maxtokens = %d", cfg.Model.MaxTokens)
	}
	if cfg.Model.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("prompt = %q", cfg.Model.SystemPrompt)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("baseurl = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Minute {
		t.Errorf("timeout = %s", cfg.API.Timeout)
	}
	if cfg.Agent.MaxRounds != 5 {
		t.Errorf("maxrounds = %d", cfg.Agent.MaxRounds)
	}
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := runWithFlags(t, "--model", "test/model", "--temperature", "0.2", "--maxrounds", "3")

	if cfg.Model.Model != "test/model" {
		t.Errorf("model = %q", cfg.Model.Model)
	}
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("temperature = %f", cfg.Model.Temperature)
	}
	if cfg.Agent.MaxRounds != 3 {
		t.Errorf("maxrounds = %d", cfg.Agent.MaxRounds)
	}
}

func TestEnvSources(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-env-key")
	t.Setenv("LLM_BASE_URL", "https://example.com/v1")

	cfg := runWithFlags(t)

	if cfg.API.Key != "sk-env-key" {
		t.Errorf("apikey = %q", cfg.API.Key)
	}
	if cfg.API.BaseURL != "https://example.com/v1" {
		t.Errorf("baseurl = %q", cfg.API.BaseURL)
	}
}

func TestJSONConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	content := `{
		"model": "file/model",
		"temperature": 0.5,
		"system_prompt": "You are terse.",
		"max_rounds": 2,
		"api_key": "sk-file-key"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLAGENT_CONFIG", path)

	cfg := runWithFlags(t)

	if cfg.Model.Model != "file/model" {
		t.Errorf("model = %q", cfg.Model.Model)
	}
	if cfg.Model.Temperature != 0.5 {
		t.Errorf("temperature = %f", cfg.Model.Temperature)
	}
	if cfg.Model.SystemPrompt != "You are terse." {
		t.Errorf("prompt = %q", cfg.Model.SystemPrompt)
	}
	if cfg.Agent.MaxRounds != 2 {
		t.Errorf("maxrounds = %d", cfg.Agent.MaxRounds)
	}
	if cfg.API.Key != "sk-file-key" {
		t.Errorf("apikey = %q", cfg.API.Key)
	}
}

func TestYAMLConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yml")
	content := "model: yaml/model\nmax_rounds: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLAGENT_CONFIG", path)

	cfg := runWithFlags(t)

	if cfg.Model.Model != "yaml/model" {
		t.Errorf("model = %q", cfg.Model.Model)
	}
	if cfg.Agent.MaxRounds != 7 {
		t.Errorf("maxrounds = %d", cfg.Agent.MaxRounds)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	if err := os.WriteFile(path, []byte(`{"api_key": "sk-file-key"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLAGENT_CONFIG", path)
	t.Setenv("LLM_API_KEY", "sk-env-key")

	cfg := runWithFlags(t)

	if cfg.API.Key != "sk-env-key" {
		t.Errorf("apikey = %q, env should win over config file", cfg.API.Key)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfigFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := loadConfigFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestVerify(t *testing.T) {
	valid := func() *Configuration {
		return &Configuration{
			Model: &ModelConfig{Model: "test/model", Temperature: 0.7},
			API:   &APIConfig{Key: "sk-key"},
			Agent: &AgentConfig{MaxRounds: 5},
		}
	}

	if err := valid().Verify(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"missing api key", func(c *Configuration) { c.API.Key = "" }},
		{"zero max rounds", func(c *Configuration) { c.Agent.MaxRounds = 0 }},
		{"negative temperature", func(c *Configuration) { c.Model.Temperature = -0.1 }},
		{"temperature too high", func(c *Configuration) { c.Model.Temperature = 2.5 }},
		{"empty model", func(c *Configuration) { c.Model.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Verify(); err == nil {
				t.Error("expected verify error")
			}
		})
	}
}

func TestMaskedKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"abcd", "****"},
		{"sk-secret123", "sk-s********"},
	}
	for _, tt := range tests {
		api := &APIConfig{Key: tt.key}
		if got := api.MaskedKey(); got != tt.want {
			t.Errorf("MaskedKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
