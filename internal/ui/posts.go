package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPosts builds the scrollable post list in server order.
func (m Model) renderPosts() string {
	styles := m.theme.Styles()
	width := m.width
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, p := range m.view.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		id := styles.FaintText.Render(fmt.Sprintf("#%-4d", p.ID))
		title := styles.Text.Bold(true).Render(truncate(p.Title, width-16))
		owner := styles.MutedText.Render(fmt.Sprintf("user %d", p.OwnerID))
		b.WriteString(id + " " + title + "  " + owner)
		b.WriteString("\n")
		if m.showBodies && strings.TrimSpace(p.Body) != "" {
			body := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Muted)).
				PaddingLeft(6).
				Width(width).
				Render(strings.TrimSpace(p.Body))
			b.WriteString(body)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderEmpty fills the list area when offline or when there is nothing to show.
func (m Model) renderEmpty() string {
	styles := m.theme.Styles()

	var text string
	switch {
	case !m.view.IsConnected:
		text = styles.DangerText.Render("No Internet Connection") + "\n" +
			styles.MutedText.Render("Posts load once the network is back.")
	case m.view.IsLoading:
		text = styles.AccentText.Render(m.spinner.View() + " Loading posts...")
	case m.view.HasError():
		text = styles.WarningText.Render(m.view.ErrorMessage) + "\n" +
			styles.MutedText.Render("Press r to retry.")
	default:
		text = styles.MutedText.Render("Nothing here yet. Press r to fetch.")
	}

	return lipgloss.Place(m.width, m.postsHeight(), lipgloss.Center, lipgloss.Center, text)
}
