package session

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"atui/api"
)

// substringRankBoost lifts exact substring hits into their own rank tier,
// above any score sahilm/fuzzy can produce.
const substringRankBoost = 1 << 20

// MessageMatch is one search hit within the conversation.
type MessageMatch struct {
	MessageIndex int
	Role         string
	Content      string
	Preview      string
	Timestamp    time.Time
	Score        int
}

// messageSource adapts the history for fuzzy matching.
type messageSource []api.Message

func (m messageSource) String(i int) string { return m[i].Content }
func (m messageSource) Len() int            { return len(m) }

// Search finds messages matching query. Exact substring hits rank above
// fuzzy hits so that pasting a remembered phrase always surfaces it first.
func (c *Controller) Search(query string) []MessageMatch {
	if query == "" {
		return []MessageMatch{}
	}

	history := c.History()
	queryLower := strings.ToLower(query)

	var matches []MessageMatch
	seen := make(map[int]bool)

	for i, msg := range history {
		if strings.Contains(strings.ToLower(msg.Content), queryLower) {
			matches = append(matches, newMatch(i, msg, substringRankBoost+len(msg.Content)))
			seen[i] = true
		}
	}

	for _, result := range fuzzy.FindFrom(query, messageSource(history)) {
		if seen[result.Index] {
			continue
		}
		matches = append(matches, newMatch(result.Index, history[result.Index], result.Score))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func newMatch(index int, msg api.Message, score int) MessageMatch {
	preview := msg.Content
	if len(preview) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	return MessageMatch{
		MessageIndex: index,
		Role:         msg.Role,
		Content:      msg.Content,
		Preview:      preview,
		Timestamp:    msg.Timestamp,
		Score:        score,
	}
}
