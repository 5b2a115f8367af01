package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderAlert shows the current error message as a modal titled "Error".
func (m Model) renderAlert() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(m.view.ErrorMessage))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter dismiss · r retry · q quit"))

	width := 44
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	box := styles.Alert.
		Width(width).
		Align(lipgloss.Center).
		Render(b.String())
	return m.place(box)
}
