package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const GitHubURL = "github.com/hkdb/atui"

func renderAboutModal(a AppView, width, height int, version, license string) string {
	var sb strings.Builder

	asciiStyle := lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Align(lipgloss.Center)

	sb.WriteString(asciiStyle.Render(" " + ASCIIArt))
	sb.WriteString("\n\n\n")

	featureStyle := lipgloss.NewStyle().
		Foreground(dimColor)

	for _, feature := range Features {
		sb.WriteString(featureStyle.Render(feature))
		sb.WriteString("\n")
	}

	sb.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(dimColor)

	// Live backend status, same data the status bar shows
	sb.WriteString(labelStyle.Render("Backend: "))
	if a.dataModel.Healthy {
		name := a.dataModel.AppName
		if name == "" {
			name = "agent"
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(successColor).Render("● " + name))
	} else {
		sb.WriteString(lipgloss.NewStyle().Foreground(dangerColor).Render("○ unreachable"))
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("API URL: "))
	sb.WriteString(valueStyle.Render(a.dataModel.Config.AgentURL))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Version: "))
	sb.WriteString(valueStyle.Render(version))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("License: "))
	sb.WriteString(valueStyle.Render(license))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("GitHub: "))
	sb.WriteString(valueStyle.Render(GitHubURL))
	sb.WriteString("\n\n\n")

	sb.WriteString(featureStyle.Render(fmt.Sprintf("Press Esc or %s to close", a.formatKeyDisplay("secondary", "A"))))
	sb.WriteString("\n")

	content := sb.String()

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}
