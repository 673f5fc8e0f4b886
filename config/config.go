package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AgentConfig struct {
	BaseURL string `toml:"base_url"`
}

type ChatConfig struct {
	SystemPrompt          string `toml:"system_prompt,omitempty"`
	UseKnowledgeBase      bool   `toml:"use_knowledge_base"`
	KnowledgeBaseID       string `toml:"knowledge_base_id,omitempty"`
	MaxHistory            int    `toml:"max_history"`
	Streaming             bool   `toml:"streaming"`
	StreamIdleTimeoutSecs int    `toml:"stream_idle_timeout_secs"`
}

type UIConfig struct {
	Suggestions []string `toml:"suggestions,omitempty"`
}

type UserConfig struct {
	Agent AgentConfig `toml:"agent"`
	Chat  ChatConfig  `toml:"chat"`
	UI    UIConfig    `toml:"ui"`
}

type Config struct {
	DataDirectory         string
	AgentURL              string
	SystemPrompt          string
	UseKnowledgeBase      bool
	KnowledgeBaseID       string
	MaxHistory            int
	Streaming             bool
	StreamIdleTimeoutSecs int
	Suggestions           []string
	Keybindings           *KeyBindingsConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ATUI_API_URL"); url != "" {
		c.AgentURL = url
	}
	if dataDir := os.Getenv("ATUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	c.AgentURL = userCfg.Agent.BaseURL
	c.SystemPrompt = userCfg.Chat.SystemPrompt
	c.UseKnowledgeBase = userCfg.Chat.UseKnowledgeBase
	c.KnowledgeBaseID = userCfg.Chat.KnowledgeBaseID
	c.MaxHistory = userCfg.Chat.MaxHistory
	c.Streaming = userCfg.Chat.Streaming
	c.StreamIdleTimeoutSecs = userCfg.Chat.StreamIdleTimeoutSecs
	c.Suggestions = userCfg.UI.Suggestions
}

func CheckDebug() bool {
	debug := os.Getenv("ATUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output can include request payloads
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (ATUI_DEBUG=%s) ===", os.Getenv("ATUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("ATUI_API_URL") != "" &&
		os.Getenv("ATUI_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("ATUI_API_URL") != "" ||
		os.Getenv("ATUI_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("ATUI_API_URL") == "" {
		return "ATUI_API_URL"
	}
	if os.Getenv("ATUI_DATA_DIR") == "" {
		return "ATUI_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	settingsPath := GetSettingsFilePath()
	settingsExist := FileExists(settingsPath)

	if settingsExist {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	} else if HasAllEnvVars() {
		cfg.applyEnvOverrides()
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.StreamIdleTimeoutSecs <= 0 {
		cfg.StreamIdleTimeoutSecs = DefaultStreamIdleTimeoutSecs
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	keybindings, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.Keybindings = keybindings

	return cfg, nil
}
