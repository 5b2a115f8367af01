package ui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title bar: name, connectivity badge, source host
// and refresh details.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)

	parts := []string{
		styles.Title.Background(bg).Render("postboard"),
		m.connectivityBadge(),
	}
	if host := endpointHost(m.endpoint); host != "" {
		parts = append(parts, styles.MutedText.Background(bg).Render(host))
	}
	if m.view.IsLoading {
		parts = append(parts, styles.AccentText.Background(bg).Render(m.spinner.View()+" fetching"))
	}
	if !m.view.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Background(bg).Render("updated "+relativeTime(m.view.LastUpdated, m.now)))
	}
	if n := m.view.ConsecutiveFailures; n > 0 {
		parts = append(parts, styles.WarningText.Background(bg).Render(fmt.Sprintf("%d failed", n)))
	}

	sep := lipgloss.NewStyle().Background(bg).Render("  ")
	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) connectivityBadge() string {
	styles := m.theme.Styles()
	switch {
	case !m.view.IsConnected:
		return styles.BadgeStyle(badgeOffline).Render("OFFLINE")
	case m.view.IsLoading:
		return styles.BadgeStyle(badgeLoading).Render("LOADING")
	case m.view.HasError():
		return styles.BadgeStyle(badgeError).Render("ERROR")
	default:
		return styles.BadgeStyle(badgeOnline).Render("ONLINE")
	}
}

// renderStatusLine shows the offline notice or the post count.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case !m.view.IsConnected:
		return styles.DangerText.Render("No Internet Connection")
	case m.view.HasError():
		return styles.WarningText.Render(truncate(m.view.ErrorMessage, m.width))
	default:
		return styles.MutedText.Render(fmt.Sprintf("%d posts", len(m.view.Items)))
	}
}

func (m Model) renderFooter() string {
	h := help.New()
	h.Styles.ShortKey = m.theme.Styles().AccentText
	h.Styles.ShortDesc = m.theme.Styles().MutedText
	h.Styles.ShortSeparator = m.theme.Styles().FaintText
	h.Width = m.width
	return m.theme.Styles().Footer.Width(m.width).Render(h.ShortHelpView(m.keys.ShortHelp()))
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}

// relativeTime formats how long before now t was, at second granularity.
func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return t.Format("15:04:05")
	}
}
