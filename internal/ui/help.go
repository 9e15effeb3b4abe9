package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpTitles names the keyMap.FullHelp groups, in order.
var helpTitles = []string{"Navigation", "Roster", "Views", "Dialogs", "General"}

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	hm := help.New()
	hm.ShowAll = true
	hm.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	hm.Styles.FullDesc = styles.Text
	hm.Styles.FullSeparator = styles.FaintText

	groups := m.keys.FullHelp()
	columns := make([]string, 0, len(groups))
	for i, group := range groups {
		title := ""
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left,
			styles.AccentText.Bold(true).Render(title),
			hm.FullHelpView([][]key.Binding{group}),
		))
	}

	body := joinColumns(columns, max(m.width-10, 20))

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", min(lipgloss.Width(body), 60))))
	b.WriteString("\n\n")
	b.WriteString(body)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// joinColumns lays help groups side by side, wrapping to a new band when the
// next group would exceed width.
func joinColumns(columns []string, width int) string {
	const gap = 4
	var bands, band []string
	used := 0
	for _, col := range columns {
		w := lipgloss.Width(col)
		if len(band) > 0 && used+gap+w > width {
			bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, band...))
			band, used = nil, 0
		}
		if len(band) > 0 {
			band = append(band, strings.Repeat(" ", gap))
			used += gap
		}
		band = append(band, col)
		used += w
	}
	if len(band) > 0 {
		bands = append(bands, lipgloss.JoinHorizontal(lipgloss.Top, band...))
	}
	return strings.Join(bands, "\n\n")
}
