package config

const (
	DefaultAgentURL              = "http://localhost:8000"
	DefaultMaxHistory            = 50
	DefaultStreamIdleTimeoutSecs = 90
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/atui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Agent: AgentConfig{
			BaseURL: DefaultAgentURL,
		},
		Chat: ChatConfig{
			Streaming:             true,
			MaxHistory:            DefaultMaxHistory,
			StreamIdleTimeoutSecs: DefaultStreamIdleTimeoutSecs,
		},
	}
}

func defaultConfig() *Config {
	return &Config{
		DataDirectory:         "~/.local/share/atui",
		AgentURL:              DefaultAgentURL,
		MaxHistory:            DefaultMaxHistory,
		Streaming:             true,
		StreamIdleTimeoutSecs: DefaultStreamIdleTimeoutSecs,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# ATUI System Configuration
# Location: ~/.config/atui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config and logs are stored
data_directory = "~/.local/share/atui"
`
}

func GenerateUserConfigTemplate() string {
	return `# ATUI User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[agent]
# Base URL of the agent backend API
base_url = "http://localhost:8000"

[chat]
# Optional system prompt sent with every request
# Example: "You are a helpful assistant."
system_prompt = ""

# Retrieve supporting documents from the knowledge base before answering
use_knowledge_base = false

# Knowledge base ID override (uses the backend default when empty)
knowledge_base_id = ""

# Maximum number of prior messages sent with each request
max_history = 50

# Stream responses token by token; when false, responses arrive whole
streaming = true

# Abort a stream when no data arrives for this many seconds
stream_idle_timeout_secs = 90

[ui]
# Prompts offered on the welcome screen (optional, defaults apply when empty)
# suggestions = [
#   "What can you help me with?",
#   "Summarize our last conversation",
# ]
`
}
