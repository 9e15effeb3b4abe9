package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/roster"
)

const (
	fieldName = iota
	fieldDepartment
	fieldRedFlag // first of the four metric fields
)

var formLabels = []string{"Name", "Department", "Red Flag", "Onhold", "Assisted Ticket", "Late"}

// formSubmitMsg carries a validated record out of the form.
type formSubmitMsg struct {
	action mirror.Action
	id     int64
	record roster.Record
}

// recordForm is the add/edit dialog.
type recordForm struct {
	action mirror.Action
	id     int64
	inputs []textinput.Model
	focus  int
	err    string
}

func newRecordForm(action mirror.Action, rec roster.Record) *recordForm {
	f := &recordForm{action: action, id: rec.ID}
	metrics := rec.Metrics()
	for i, label := range formLabels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Placeholder = label
		switch {
		case i == fieldName:
			in.SetValue(rec.Name)
		case i == fieldDepartment:
			in.Placeholder = roster.DefaultDepartment
			in.SetValue(rec.Department)
		default:
			in.CharLimit = 9
			in.Placeholder = "0"
			if action == mirror.ActionEdit {
				in.SetValue(strconv.Itoa(metrics[i-fieldRedFlag]))
			}
		}
		f.inputs = append(f.inputs, in)
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *recordForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Cancel):
			return f, nil, true
		case key.Matches(km, keys.Submit):
			return f.submit()
		case key.Matches(km, keys.Confirm):
			if f.focus == len(f.inputs)-1 {
				return f.submit()
			}
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(km, keys.Next):
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(km, keys.Previous):
			return f, f.setFocus(f.focus - 1), false
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *recordForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[f.focus].Focus()
}

func (f *recordForm) submit() (Modal, tea.Cmd, bool) {
	rec, err := f.record()
	if err != nil {
		f.err = err.Error()
		return f, nil, false
	}
	msg := formSubmitMsg{action: f.action, id: f.id, record: rec}
	return f, func() tea.Msg { return msg }, true
}

// record validates the inputs. Metrics must be whole numbers of zero or
// more; a blank metric is zero.
func (f *recordForm) record() (roster.Record, error) {
	rec := roster.Record{
		ID:         f.id,
		Name:       strings.TrimSpace(f.inputs[fieldName].Value()),
		Department: strings.TrimSpace(f.inputs[fieldDepartment].Value()),
	}
	if rec.Name == "" {
		return roster.Record{}, fmt.Errorf("name is required")
	}
	var metrics [4]int
	for i := range metrics {
		n, ok := parseCount(f.inputs[fieldRedFlag+i].Value())
		if !ok {
			return roster.Record{}, fmt.Errorf("%s must be a whole number", formLabels[fieldRedFlag+i])
		}
		metrics[i] = n
	}
	rec.RedFlag, rec.Onhold, rec.AssistedTicket, rec.Late = metrics[0], metrics[1], metrics[2], metrics[3]
	return rec, nil
}

func (f *recordForm) View(theme Theme, width int) string {
	styles := theme.Styles()
	title := "Add employee"
	if f.action == mirror.ActionEdit {
		title = "Edit employee"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := styles.MutedText.Render(padRight(formLabels[i], 17))
		if i == f.focus {
			label = styles.AccentText.Render(padRight(formLabels[i], 17))
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · enter on last field or ctrl+s save · esc cancel"))

	return styles.Modal.Width(min(max(width-4, 30), 64)).Render(b.String())
}

// accessPrompt asks for the session access code before the first write.
type accessPrompt struct {
	gate  *mirror.Gate
	input textinput.Model
	then  intent
	err   string
}

// unlockedMsg reports a successful unlock and the action that was waiting
// on it.
type unlockedMsg struct {
	then intent
}

func newAccessPrompt(gate *mirror.Gate, then intent) *accessPrompt {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "access code"
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 32
	in.Focus()
	return &accessPrompt{gate: gate, input: in, then: then}
}

func (a *accessPrompt) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Cancel):
			return a, nil, true
		case key.Matches(km, keys.Confirm):
			if a.gate.Unlock(a.input.Value()) {
				then := a.then
				return a, func() tea.Msg { return unlockedMsg{then: then} }, true
			}
			a.err = "Incorrect access code"
			a.input.Reset()
			return a, nil, false
		}
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd, false
}

func (a *accessPrompt) View(theme Theme, width int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Access code required"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Enter the code to enable editing for this session."))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")
	if a.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(a.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter unlock · esc cancel"))
	return styles.Modal.Width(min(max(width-4, 30), 56)).Render(b.String())
}

// confirmDelete asks before removing a record.
type confirmDelete struct {
	record roster.Record
}

type deleteConfirmedMsg struct {
	id int64
}

func (c *confirmDelete) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		id := c.record.ID
		return c, func() tea.Msg { return deleteConfirmedMsg{id: id} }, true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmDelete) View(theme Theme, width int) string {
	styles := theme.Styles()
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Delete employee"),
		"",
		styles.Text.Render(fmt.Sprintf("Remove %s from the roster?", c.record.Name)),
		"",
		styles.FaintText.Render("y delete · n cancel"),
	)
	return styles.Modal.Width(min(max(width-4, 30), 56)).Render(body)
}
