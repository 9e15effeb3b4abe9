package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/sheets"
)

const headerLines = 3 // status line, totals line, spacer

// connectionLabel summarizes the published connection state.
func (m Model) connectionLabel() (string, string) {
	snap := m.snapshot
	switch {
	case snap.Loading:
		return "Syncing", m.theme.Info
	case snap.Connected:
		return "Live", m.theme.Success
	case errors.Is(snap.LastError, sheets.ErrInvalidSource):
		return "Invalid sheet", m.theme.Danger
	case snap.ConsecutiveFailures > 0:
		return "Offline", m.theme.Danger
	default:
		return "Connecting", m.theme.Warning
	}
}

// renderHeader renders the two status lines.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	sep := styles.FaintText.Render("  ·  ")

	label, color := m.connectionLabel()
	status := styles.Badge(label, color)
	if snap.Loading {
		status = m.spinner.View() + " " + status
	}

	parts := []string{styles.Logo.Render("roster"), status}
	if snap.Connected && snap.Method != "" {
		parts = append(parts, styles.MutedText.Render("via "+snap.Method))
	}
	if snap.ConsecutiveFailures > 0 && !snap.Connected {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("retry #%d", snap.ConsecutiveFailures)))
	}
	if m.width >= LayoutCompactWidth {
		parts = append(parts, styles.MutedText.Render("updated "+formatClock(snap.LastUpdated)))
		if name := m.sheetName(); name != "" {
			parts = append(parts, styles.MutedText.Render(name))
		}
	}
	if snap.UsingSample {
		parts = append(parts, styles.Badge("SAMPLE DATA", m.theme.Warning))
	}
	if m.saving {
		parts = append(parts, m.spinner.View()+" "+styles.InfoText.Render("saving"))
	}
	if m.simulated {
		parts = append(parts, styles.FaintText.Render("demo writes"))
	}
	if m.writer != nil && m.writer.Gate().Unlocked() {
		parts = append(parts, styles.SuccessText.Render("editing unlocked"))
	}
	line1 := strings.Join(parts, "  ")

	totals := roster.Summarize(m.records)
	line2 := strings.Join([]string{
		m.metricTotal(0, totals.RedFlag),
		m.metricTotal(1, totals.Onhold),
		m.metricTotal(2, totals.AssistedTicket),
		m.metricTotal(3, totals.Late),
		styles.MutedText.Render(fmt.Sprintf("%d agents", totals.Agents)),
	}, sep)

	if snap.LastError != nil && !snap.Connected && m.width >= LayoutCompactWidth {
		line2 += sep + styles.DangerText.Render(truncate(snap.LastError.Error(), max(m.width/3, 20)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Header.Width(m.width).Render(line1),
		styles.Header.Width(m.width).Render(line2),
		"",
	)
}

func (m Model) metricTotal(i, value int) string {
	styles := m.theme.Styles()
	return styles.MetricStyle(i).Render("■ ") +
		styles.MutedText.Render(roster.MetricNames[i]+" ") +
		styles.Text.Bold(true).Render(fmt.Sprint(value))
}

func (m Model) sheetName() string {
	if m.poller == nil {
		return ""
	}
	return m.poller.Source().SheetName
}
