package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// noticeDuration is how long a transient status-bar notice stays visible
const noticeDuration = 3 * time.Second

// showNotice replaces the status bar with a short-lived notice and schedules
// its expiry
func (a AppView) showNotice(text string) (tea.Model, tea.Cmd) {
	a.notice = text
	a.noticeSeq++
	seq := a.noticeSeq
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{Seq: seq}
	})
}

// formatKeyDisplay builds a display string like "Alt+F" for the given modifier
// tier ("primary" or "secondary") and key label
func (a AppView) formatKeyDisplay(modifier, key string) string {
	kb := a.dataModel.Config.Keybindings
	switch modifier {
	case "secondary":
		return kb.SecondaryDisplay() + "+" + key
	default:
		return kb.PrimaryDisplay() + "+" + key
	}
}

// keyIs reports whether the pressed key matches the configured binding for action
func (a AppView) keyIs(pressed, action string) bool {
	return pressed == a.dataModel.Config.Keybindings.GetActionKey(action)
}

func (a AppView) renderStatusBar() string {
	if a.notice != "" {
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true).Render(a.notice)
	}

	kb := a.dataModel.Config.Keybindings
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	parts := []string{
		kb.DisplayActionKey("quit") + " " + descStyle.Render("Quit"),
		kb.DisplayActionKey("clear_history") + " " + descStyle.Render("New Chat"),
		kb.DisplayActionKey("search_messages") + " " + descStyle.Render("Search"),
		kb.DisplayActionKey("retrieve") + " " + descStyle.Render("Retrieve"),
		kb.PrimaryDisplay() + "+Enter " + descStyle.Render("New Line"),
		"Enter " + descStyle.Render("Send"),
		kb.DisplayActionKey("yank_last_response") + " " + descStyle.Render("Copy"),
		kb.DisplayActionKey("help") + " " + descStyle.Render("Help"),
	}

	statusBar := strings.Join(parts, "  ")
	if a.width > 0 && runewidth.StringWidth(stripANSI(statusBar)) > a.width {
		statusBar = truncateToWidth(statusBar, a.width)
	}
	return StatusStyle.Render(statusBar)
}

// truncateToWidth trims a styled string to the given display width,
// dropping whole "key description" segments rather than cutting mid-cell
func truncateToWidth(s string, width int) string {
	segments := strings.Split(s, "  ")
	for len(segments) > 1 {
		candidate := strings.Join(segments, "  ")
		if runewidth.StringWidth(stripANSI(candidate)) <= width {
			return candidate
		}
		segments = segments[:len(segments)-1]
	}
	return segments[0]
}
