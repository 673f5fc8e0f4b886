package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderRetrieveModal draws the knowledge base lookup: query input on top,
// scored passages below
func (a AppView) renderRetrieveModal() string {
	width, height := a.width, a.height
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("📚 Knowledge Base Lookup")
	inputView := a.retrieveInput.View()

	resultsView := ""
	switch {
	case a.retrieveLoading:
		resultsView = a.retrieveSpinner.View() + " Searching knowledge base..."
	case a.retrieveErr != "":
		resultsView = lipgloss.NewStyle().Foreground(dangerColor).
			Render(wordWrap("Lookup failed: "+a.retrieveErr, modalWidth-4))
	case a.retrieveQuery == "":
		resultsView = DimStyle.Render("Type a query and press Enter to search the knowledge base...")
	case len(a.retrieveResults) == 0:
		resultsView = DimStyle.Render(fmt.Sprintf("No passages found for %q", a.retrieveQuery))
	default:
		resultsView = fmt.Sprintf("Found %d passages for %q:\n\n", len(a.retrieveResults), a.retrieveQuery)
		for i, res := range a.retrieveResults {
			header := AssistantStyle.Render(fmt.Sprintf("%d.", i+1)) +
				DimStyle.Render(fmt.Sprintf(" score %.2f", res.Score))

			snippet := res.Content
			if len(snippet) > 300 {
				snippet = snippet[:300] + "..."
			}
			snippet = wordWrap(snippet, modalWidth-6)

			resultsView += header + "\n  " + snippet + "\n\n"
		}
	}

	footer := FormatFooter("Enter", "Search", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		inputView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func (a AppView) handleRetrieveUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showRetrieve = false
		return a, nil
	case "enter":
		query := a.retrieveInput.Value()
		if query == "" || a.retrieveLoading {
			return a, nil
		}
		a.retrieveQuery = query
		a.retrieveLoading = true
		a.retrieveErr = ""
		a.retrieveResults = nil
		return a, tea.Batch(
			a.dataModel.RetrieveKnowledge(query),
			a.retrieveSpinner.Tick,
		)
	}

	var cmd tea.Cmd
	a.retrieveInput, cmd = a.retrieveInput.Update(msg)
	return a, cmd
}
