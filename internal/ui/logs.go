package ui

import (
	"fmt"
	"strings"

	"github.com/five82/postboard/internal/logtail"
)

// renderLogs draws the bottom pane with the newest log entries.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	inner := m.width - 2
	if inner < 10 {
		inner = 10
	}

	var lines []string
	switch {
	case m.logErr != nil:
		lines = []string{styles.DangerText.Render("log unavailable: " + m.logErr.Error())}
	case len(m.logEntries) == 0:
		lines = []string{styles.FaintText.Render("no log entries")}
	default:
		entries := m.logEntries
		if len(entries) > logPaneHeight {
			entries = entries[len(entries)-logPaneHeight:]
		}
		for _, e := range entries {
			lines = append(lines, m.formatEntry(e, inner))
		}
	}

	return styles.Panel.
		Width(inner).
		Height(logPaneHeight).
		Render(strings.Join(lines, "\n"))
}

func (m Model) formatEntry(e logtail.Entry, width int) string {
	styles := m.theme.Styles()
	if !e.Structured() {
		return styles.MutedText.Render(truncate(e.Raw, width))
	}

	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("15:04:05")
	}
	level := strings.ToUpper(e.Level.String())
	if level == "" {
		level = "-"
	}

	var fields []string
	for _, k := range e.FieldKeys() {
		fields = append(fields, fmt.Sprintf("%s=%s", k, e.Fields[k]))
	}
	rest := e.Message
	if len(fields) > 0 {
		rest += " " + strings.Join(fields, " ")
	}

	return styles.FaintText.Render(ts) + " " +
		styles.LevelStyle(e.Level).Render(fmt.Sprintf("%-5s", level)) + " " +
		styles.Text.Render(truncate(rest, width-16))
}
