package ui

import (
	"atui/model"
)

// Message type alias - the display type is owned by the model package
type Message = model.Message

// Message type aliases - these are defined in the model package
type streamChunksCollectedMsg = model.StreamChunksCollectedMsg
type streamErrorMsg = model.StreamErrorMsg
type displayChunkTickMsg = model.DisplayChunkTickMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type healthCheckedMsg = model.HealthCheckedMsg
type healthTickMsg = model.HealthTickMsg
type retrieveResultMsg = model.RetrieveResultMsg
type flashTickMsg = model.FlashTickMsg
type noticeExpiredMsg = model.NoticeExpiredMsg
