package ui

import (
	"strconv"
	"strings"

	"github.com/five82/roster/internal/roster"
)

// barLength scales value to a bar of at most width cells. Any positive value
// gets at least one cell.
func barLength(value, maxValue, width int) int {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return 0
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return min(n, width)
}

func chartMax(records []roster.Record) int {
	best := 0
	for _, r := range records {
		for _, v := range r.Metrics() {
			best = max(best, v)
		}
	}
	return best
}

// visibleWindow returns the first index and count of records that fit in
// the given number of rows while keeping cursor on screen.
func visibleWindow(total, cursor, rows, rowsPer int) (int, int) {
	if total == 0 {
		return 0, 0
	}
	visible := max(rows/rowsPer, 1)
	if visible >= total {
		return 0, total
	}
	start := cursor - visible/2
	start = max(0, min(start, total-visible))
	return start, visible
}

// renderChart draws one group of horizontal bars per agent.
func (m Model) renderChart(height int) string {
	styles := m.theme.Styles()
	if len(m.records) == 0 {
		return styles.MutedText.Render("  No employees to chart.")
	}

	peak := chartMax(m.records)
	barWidth := max(m.width-chartLabelWidth-chartValueWidth-6, chartMinBar)
	start, count := visibleWindow(len(m.records), m.cursor, height, chartRecordRows)

	var b strings.Builder
	for i := start; i < start+count; i++ {
		r := m.records[i]
		name := truncate(r.Name, max(m.width-6, 8))
		if m.width >= LayoutWideWidth {
			name += styles.MutedText.Render("  " + r.Department)
		}
		if i == m.cursor {
			b.WriteString(styles.AccentText.Render(" ▸ "))
			b.WriteString(styles.Text.Bold(true).Render(name))
		} else {
			b.WriteString("   ")
			b.WriteString(styles.Text.Render(name))
		}
		b.WriteString("\n")

		for j, v := range r.Metrics() {
			b.WriteString("   ")
			b.WriteString(styles.MutedText.Render(padRight(roster.MetricNames[j], chartLabelWidth)))
			b.WriteString(styles.MetricStyle(j).Render(strings.Repeat("█", barLength(v, peak, barWidth))))
			b.WriteString(" ")
			b.WriteString(styles.Text.Render(padLeft(strconv.Itoa(v), chartValueWidth)))
			b.WriteString("\n")
		}
		if i < start+count-1 {
			b.WriteString("\n")
		}
	}
	if count < len(m.records) {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("   " + strconv.Itoa(start+1) + "-" + strconv.Itoa(start+count) + " of " + strconv.Itoa(len(m.records))))
	}
	return b.String()
}
