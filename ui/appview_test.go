package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"atui/api"
	"atui/config"
	appmodel "atui/model"
	"atui/session"
	"atui/session/testutil"
)

func newTestView(t *testing.T, mock *testutil.MockAgent) AppView {
	t.Helper()

	cfg := &config.Config{
		AgentURL:    config.DefaultAgentURL,
		MaxHistory:  config.DefaultMaxHistory,
		Streaming:   true,
		Keybindings: config.DefaultKeybindings(),
	}

	ctrl := session.NewController(mock, session.Config{Streaming: true}, nil)
	if !ctrl.CheckHealth(context.Background()) {
		t.Fatal("expected health check to pass")
	}

	dataModel := appmodel.NewModel(cfg, nil, ctrl, "test", "test")
	dataModel.Healthy = true

	a := NewAppView(dataModel)
	a.width = 80
	a.height = 24
	a.viewport.Width = 80
	a.viewport.Height = 20
	a.ready = true
	return a
}

func TestStreamErrorShowsFallbackReply(t *testing.T) {
	mock := testutil.NewMockAgent()
	mock.ScriptStream([]api.StreamChunk{{Content: "Par"}}, errors.New("connection reset"))

	a := newTestView(t, mock)
	a.dataModel.Streaming = true

	errMsg := a.dataModel.SendToAgent("hi")()
	if _, ok := errMsg.(streamErrorMsg); !ok {
		t.Fatalf("got %T, want streamErrorMsg", errMsg)
	}

	updated, cmd := a.Update(errMsg)
	got := updated.(AppView)

	var fallbackIdx = -1
	for i, msg := range got.dataModel.Messages {
		if msg.Role == "assistant" {
			fallbackIdx = i
		}
	}
	if fallbackIdx < 0 {
		t.Fatal("display list is missing the committed fallback reply")
	}
	fallback := got.dataModel.Messages[fallbackIdx]
	if !strings.Contains(fallback.Content, "Par") {
		t.Errorf("fallback lost the partial content: %q", fallback.Content)
	}

	// The re-synced reply has no markdown cache yet; the viewport must show
	// its raw content rather than a blank body
	got.updateViewportContent(true)
	if view := got.viewport.View(); !strings.Contains(view, "Par") {
		t.Errorf("viewport does not show the fallback reply:\n%s", view)
	}

	// A render pass is scheduled to fill the cache in
	if cmd == nil {
		t.Fatal("expected a markdown render command for the fallback reply")
	}
	rendered, ok := cmd().(markdownRenderedMsg)
	if !ok {
		t.Fatalf("got %T, want markdownRenderedMsg", cmd())
	}
	if rendered.MessageIndex != fallbackIdx {
		t.Errorf("render targets message %d, want %d", rendered.MessageIndex, fallbackIdx)
	}
	if rendered.Rendered == "" {
		t.Error("rendered markdown should not be empty")
	}
}

func TestEnterWhileStreamingShowsNotice(t *testing.T) {
	a := newTestView(t, testutil.NewMockAgent())
	a.dataModel.Streaming = true

	updated, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	if got.notice == "" {
		t.Fatal("expected a transient notice while a reply is in progress")
	}
	if cmd == nil {
		t.Error("expected an expiry timer for the notice")
	}
	if bar := got.renderStatusBar(); !strings.Contains(bar, got.notice) {
		t.Errorf("status bar does not carry the notice: %q", bar)
	}
}

func TestEnterWithEmptyInputShowsNotice(t *testing.T) {
	a := newTestView(t, testutil.NewMockAgent())

	// Off the welcome screen, so Enter cannot fall back to a suggestion
	a.dataModel.Messages = append(a.dataModel.Messages, Message{Role: "assistant", Content: "hi"})

	updated, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	if got.notice == "" {
		t.Fatal("expected a transient notice for an empty send")
	}
	if len(got.dataModel.Ctrl.History()) != 0 {
		t.Error("empty send must not reach the controller")
	}
}

func TestNoticeExpiry(t *testing.T) {
	a := newTestView(t, testutil.NewMockAgent())
	a.dataModel.Streaming = true

	updated, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(AppView)

	// A stale timer from an earlier notice must not clear a newer one
	stale, _ := got.Update(noticeExpiredMsg{Seq: got.noticeSeq - 1})
	if stale.(AppView).notice == "" {
		t.Error("stale expiry cleared a live notice")
	}

	cleared, _ := got.Update(noticeExpiredMsg{Seq: got.noticeSeq})
	if cleared.(AppView).notice != "" {
		t.Error("notice should clear when its own timer fires")
	}
}
