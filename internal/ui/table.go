package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/roster"
)

const metricColumnWidth = 10

func newRecordTable(theme Theme) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(80)),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles(theme))
	return t
}

func tableColumns(width int) []table.Column {
	fixed := 4*metricColumnWidth + 14
	nameWidth := max(width-fixed-12, 12)
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Department", Width: 14},
		{Title: "Red Flag", Width: metricColumnWidth},
		{Title: "Onhold", Width: metricColumnWidth},
		{Title: "Assisted", Width: metricColumnWidth},
		{Title: "Late", Width: metricColumnWidth},
	}
}

func tableStyles(theme Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(theme.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(theme.SelectionText)).
		Background(lipgloss.Color(theme.SelectionBg)).
		Bold(false)
	return s
}

func tableRows(records []roster.Record) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		row := table.Row{r.Name, r.Department}
		for _, v := range r.Metrics() {
			row = append(row, strconv.Itoa(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// syncTable pushes records, size and cursor into the table widget.
func (m *Model) syncTable(height int) {
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetRows(tableRows(m.records))
	m.table.SetHeight(max(height-1, 3))
	m.table.SetCursor(m.cursor)
}

func (m Model) renderTable() string {
	styles := m.theme.Styles()
	if len(m.records) == 0 {
		return styles.MutedText.Render("  No employees yet. Press a to add one.")
	}
	return m.table.View()
}
