package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestEnvVarHelpers(t *testing.T) {
	tests := []struct {
		name        string
		apiURL      string
		dataDir     string
		wantAll     bool
		wantAny     bool
		wantMissing string
	}{
		{name: "none set", wantAll: false, wantAny: false, wantMissing: "ATUI_API_URL"},
		{name: "both set", apiURL: "http://localhost:9000", dataDir: "/tmp/atui", wantAll: true, wantAny: true, wantMissing: ""},
		{name: "url only", apiURL: "http://localhost:9000", wantAll: false, wantAny: true, wantMissing: "ATUI_DATA_DIR"},
		{name: "data dir only", dataDir: "/tmp/atui", wantAll: false, wantAny: true, wantMissing: "ATUI_API_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ATUI_API_URL", tt.apiURL)
			t.Setenv("ATUI_DATA_DIR", tt.dataDir)

			if got := HasAllEnvVars(); got != tt.wantAll {
				t.Errorf("HasAllEnvVars() = %v, want %v", got, tt.wantAll)
			}
			if got := HasAnyEnvVar(); got != tt.wantAny {
				t.Errorf("HasAnyEnvVar() = %v, want %v", got, tt.wantAny)
			}
			if got := GetMissingEnvVar(); got != tt.wantMissing {
				t.Errorf("GetMissingEnvVar() = %q, want %q", got, tt.wantMissing)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ATUI_API_URL", "http://agent:9000")
	t.Setenv("ATUI_DATA_DIR", "/srv/atui-data")

	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	if cfg.AgentURL != "http://agent:9000" {
		t.Errorf("AgentURL: got %q", cfg.AgentURL)
	}
	if cfg.DataDirectory != "/srv/atui-data" {
		t.Errorf("DataDirectory: got %q", cfg.DataDirectory)
	}
	// Untouched fields keep their defaults
	if cfg.MaxHistory != DefaultMaxHistory {
		t.Errorf("MaxHistory: got %d", cfg.MaxHistory)
	}
}

func TestCheckDebug(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"", false},
		{"false", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("ATUI_DEBUG", tt.value)
			if got := CheckDebug(); got != tt.want {
				t.Errorf("CheckDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyUserConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.applyUserConfig(&UserConfig{
		Agent: AgentConfig{BaseURL: "http://internal:8080"},
		Chat: ChatConfig{
			SystemPrompt:          "You are helpful.",
			UseKnowledgeBase:      true,
			KnowledgeBaseID:       "kb-42",
			MaxHistory:            20,
			Streaming:             false,
			StreamIdleTimeoutSecs: 30,
		},
		UI: UIConfig{Suggestions: []string{"hi"}},
	})

	if cfg.AgentURL != "http://internal:8080" {
		t.Errorf("AgentURL: got %q", cfg.AgentURL)
	}
	if !cfg.UseKnowledgeBase || cfg.KnowledgeBaseID != "kb-42" {
		t.Errorf("knowledge base settings: %v %q", cfg.UseKnowledgeBase, cfg.KnowledgeBaseID)
	}
	if cfg.MaxHistory != 20 || cfg.StreamIdleTimeoutSecs != 30 {
		t.Errorf("limits: %d %d", cfg.MaxHistory, cfg.StreamIdleTimeoutSecs)
	}
	if cfg.Streaming {
		t.Error("streaming should be disabled")
	}
	if len(cfg.Suggestions) != 1 {
		t.Errorf("suggestions: got %v", cfg.Suggestions)
	}
}

func TestLoadUserConfigFromFile(t *testing.T) {
	dir := t.TempDir()

	content := `
[agent]
base_url = "http://localhost:9999"

[chat]
use_knowledge_base = true
max_history = 10
streaming = true
stream_idle_timeout_secs = 45
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	userCfg, err := LoadUserConfig(dir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if userCfg.Agent.BaseURL != "http://localhost:9999" {
		t.Errorf("base_url: got %q", userCfg.Agent.BaseURL)
	}
	if !userCfg.Chat.UseKnowledgeBase {
		t.Error("use_knowledge_base should be true")
	}
	if userCfg.Chat.MaxHistory != 10 {
		t.Errorf("max_history: got %d", userCfg.Chat.MaxHistory)
	}
	if userCfg.Chat.StreamIdleTimeoutSecs != 45 {
		t.Errorf("stream_idle_timeout_secs: got %d", userCfg.Chat.StreamIdleTimeoutSecs)
	}
}

func TestLoadUserConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	userCfg, err := LoadUserConfig(dir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if userCfg.Agent.BaseURL != DefaultAgentURL {
		t.Errorf("got %q, want default URL", userCfg.Agent.BaseURL)
	}
	if !FileExists(filepath.Join(dir, "config.toml")) {
		t.Error("default config.toml should be written")
	}

	// The generated template must parse back cleanly
	if _, err := LoadUserConfig(dir); err != nil {
		t.Fatalf("reloading the generated template failed: %v", err)
	}
}

func TestGeneratedTemplatesParse(t *testing.T) {
	var sys SystemConfig
	if _, err := toml.Decode(GenerateSystemConfigTemplate(), &sys); err != nil {
		t.Errorf("system template does not parse: %v", err)
	}
	if sys.DataDirectory == "" {
		t.Error("system template should set data_directory")
	}

	var user UserConfig
	if _, err := toml.Decode(GenerateUserConfigTemplate(), &user); err != nil {
		t.Errorf("user template does not parse: %v", err)
	}
	if user.Agent.BaseURL != DefaultAgentURL {
		t.Errorf("user template base_url: got %q", user.Agent.BaseURL)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/testuser")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tilde", input: "~/.local/share/atui", want: "/home/testuser/.local/share/atui"},
		{name: "absolute untouched", input: "/srv/data", want: "/srv/data"},
		{name: "empty", input: "", want: ""},
		{name: "cleans dots", input: "/srv/./data/../data", want: "/srv/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
