package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/logtail"
)

const activityLines = 200

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// activityAvailable reports whether logs go to a file we can tail.
func (m Model) activityAvailable() bool {
	switch strings.ToLower(strings.TrimSpace(m.logFile)) {
	case "", "off", "stderr":
		return false
	}
	return true
}

func (m Model) loadActivityCmd() tea.Cmd {
	if !m.activityAvailable() {
		return nil
	}
	path := m.logFile
	return func() tea.Msg {
		entries, err := logtail.Tail(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

func levelTag(level string) string {
	switch level {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "":
		return "   "
	}
	return strings.ToUpper(truncate(level, 3))
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "warn":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug":
		return styles.FaintText
	}
	return styles.InfoText
}

func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	var b strings.Builder
	if e.Time.IsZero() {
		b.WriteString(strings.Repeat(" ", 8))
	} else {
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	b.WriteString(" ")
	b.WriteString(m.levelStyle(e.Level).Render(levelTag(e.Level)))
	b.WriteString(" ")
	b.WriteString(styles.MutedText.Render(padRight(truncate(e.Component, 8), 8)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	if e.Error != "" {
		b.WriteString(" ")
		b.WriteString(styles.DangerText.Render("error=" + e.Error))
	}
	for _, f := range e.Fields {
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(f.Key + "=" + f.Value))
	}
	return b.String()
}

// renderActivity shows the tail of the log file, newest last.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Recent activity"))
	if m.activityAvailable() {
		b.WriteString(styles.FaintText.Render("  " + m.logFile))
	}
	b.WriteString("\n\n")

	rows := max(m.height-4, 1)
	switch {
	case !m.activityAvailable():
		b.WriteString(styles.MutedText.Render("Logging is not written to a file. Set log_file in the config to enable this view."))
	case m.activityErr != nil:
		b.WriteString(styles.DangerText.Render(m.activityErr.Error()))
	case len(m.activity) == 0:
		b.WriteString(styles.MutedText.Render("Nothing logged yet."))
	default:
		entries := m.activity
		if len(entries) > rows {
			entries = entries[len(entries)-rows:]
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, m.formatEntry(e))
		}
		b.WriteString(lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(lines, "\n")))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("any key to close"))
	return b.String()
}
