package model

import (
	"atui/api"
	"atui/config"
	"atui/session"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config *config.Config
	Client *api.Client
	Ctrl   *session.Controller

	// Application data
	Messages []Message

	// Runtime state (not UI)
	Streaming bool
	Quitting  bool

	// Backend health, refreshed on a timer
	Healthy bool
	AppName string

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, client *api.Client, ctrl *session.Controller, version, license string) *Model {
	return &Model{
		Config:    cfg,
		Client:    client,
		Ctrl:      ctrl,
		Messages:  nil,
		Streaming: false,
		Quitting:  false,
		Healthy:   false,
		Version:   version,
		License:   license,
	}
}

// SyncFromHistory replaces the display messages with the committed
// conversation, preserving rendered markdown where content is unchanged.
func (m *Model) SyncFromHistory() {
	history := m.Ctrl.History()
	messages := make([]Message, 0, len(history))
	for i, h := range history {
		msg := Message{
			Role:      h.Role,
			Content:   h.Content,
			Timestamp: h.Timestamp,
		}
		if i < len(m.Messages) && m.Messages[i].Content == h.Content {
			msg.Rendered = m.Messages[i].Rendered
		}
		messages = append(messages, msg)
	}
	m.Messages = messages
}
