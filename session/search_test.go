package session

import (
	"context"
	"testing"
	"unicode/utf8"

	"atui/api"
	"atui/session/testutil"
)

func seededController(t *testing.T, turns [][2]string) *Controller {
	t.Helper()
	mock := testutil.NewMockAgent()
	c := newTestController(mock, Config{Streaming: true})
	markHealthy(t, c)

	for _, turn := range turns {
		mock.ScriptStream([]api.StreamChunk{{Content: turn[1]}, {Done: true}}, nil)
		if _, err := c.SendMessage(context.Background(), turn[0], nil); err != nil {
			t.Fatalf("send %q failed: %v", turn[0], err)
		}
	}
	return c
}

func TestSearchEmptyQuery(t *testing.T) {
	c := seededController(t, [][2]string{{"hello", "hi there"}})

	if got := c.Search(""); len(got) != 0 {
		t.Errorf("empty query should match nothing, got %d results", len(got))
	}
}

func TestSearchSubstringMatch(t *testing.T) {
	c := seededController(t, [][2]string{
		{"how do I deploy the lambda", "Use the deploy script."},
		{"what about logging", "Logs go to CloudWatch."},
	})

	results := c.Search("deploy")
	if len(results) < 2 {
		t.Fatalf("got %d results, want at least 2", len(results))
	}

	for _, r := range results[:2] {
		if r.MessageIndex < 0 || r.MessageIndex >= 4 {
			t.Errorf("message index %d out of range", r.MessageIndex)
		}
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	c := seededController(t, [][2]string{{"tell me about CloudWatch", "CloudWatch stores logs."}})

	if got := c.Search("cloudwatch"); len(got) == 0 {
		t.Error("substring match should be case insensitive")
	}
}

func TestSearchPreviewTruncation(t *testing.T) {
	long := "needle "
	for len(long) < 300 {
		long += "padding words to push the content well past the preview limit "
	}

	c := seededController(t, [][2]string{{long, "short reply"}})

	results := c.Search("needle")
	if len(results) == 0 {
		t.Fatal("expected a match")
	}
	if len(results[0].Preview) > 103 {
		t.Errorf("preview too long: %d chars", len(results[0].Preview))
	}
}

func TestSearchSubstringOutranksFuzzy(t *testing.T) {
	// "ok" is a short exact hit; the long message only matches "ok"
	// as scattered letters, which fuzzy scores highly on its own axis
	c := seededController(t, [][2]string{
		{"ok", "Onwards: kindly older keepsakes outlast obvious knowledge, or kestrels object."},
	})

	results := c.Search("ok")
	if len(results) < 2 {
		t.Fatalf("got %d results, want both messages", len(results))
	}
	if results[0].MessageIndex != 0 {
		t.Errorf("exact substring hit should rank first, got message %d", results[0].MessageIndex)
	}
}

func TestSearchPreviewRuneBoundary(t *testing.T) {
	long := "naïve "
	for len(long) < 300 {
		long += "héllo wörld many multi-byte rünes püshing päst the límit "
	}

	c := seededController(t, [][2]string{{long, "short reply"}})

	results := c.Search("naïve")
	if len(results) == 0 {
		t.Fatal("expected a match")
	}
	if !utf8.ValidString(results[0].Preview) {
		t.Errorf("preview is not valid UTF-8: %q", results[0].Preview)
	}
}
