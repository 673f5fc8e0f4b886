package model

import "atui/api"

type StreamChunksCollectedMsg struct {
	Chunks       []string
	FullResponse string
}

type StreamErrorMsg struct {
	Err      error
	Fallback string // Assistant message committed in place of the reply
}

type DisplayChunkTickMsg struct{}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type HealthCheckedMsg struct {
	Healthy bool
	AppName string
}

type HealthTickMsg struct{}

type RetrieveResultMsg struct {
	Query   string
	Results []api.KnowledgeBaseResult
	Err     error
}

type FlashTickMsg struct{}

// NoticeExpiredMsg clears a transient status-bar notice. Seq guards against
// an older timer wiping a newer notice.
type NoticeExpiredMsg struct {
	Seq int
}
