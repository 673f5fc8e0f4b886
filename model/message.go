package model

import "time"

// Message represents a chat message in the conversation
type Message struct {
	Role      string
	Content   string // Raw content from the agent
	Rendered  string // Cached rendered markdown
	Timestamp time.Time
}
