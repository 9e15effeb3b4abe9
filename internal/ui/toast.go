package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/mirror"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg struct {
	id int
}

// showToast replaces the current notification and schedules its removal.
func (m *Model) showToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, kind: kind, text: text}
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// resultToast turns a write outcome into a user-facing notification.
func resultToast(res mirror.Result) (toastKind, string) {
	switch res.Outcome {
	case mirror.Success:
		if res.Message != "" {
			return toastSuccess, res.Message
		}
		return toastSuccess, "Saved to Google Sheets"
	case mirror.PartialSuccess:
		return toastWarning, "Saved locally only: " + res.Err.Error()
	}
	switch {
	case errors.Is(res.Err, mirror.ErrLocked):
		return toastError, "Enter the access code before editing"
	case errors.Is(res.Err, mirror.ErrUnknownRecord):
		return toastError, "That employee no longer exists"
	case errors.Is(res.Err, mirror.ErrInvalidRecord):
		return toastError, "Invalid employee: " + res.Err.Error()
	case errors.Is(res.Err, mirror.ErrWriteFailure):
		return toastError, "Google Sheets update failed; change reverted"
	case res.Err != nil:
		return toastError, res.Err.Error()
	}
	return toastError, "Change failed"
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	styles := m.theme.Styles()
	text := truncate(m.toast.text, max(m.width-4, 10))
	switch m.toast.kind {
	case toastSuccess:
		return " " + styles.SuccessText.Render("✓ "+text)
	case toastWarning:
		return " " + styles.WarningText.Render("! "+text)
	case toastError:
		return " " + styles.DangerText.Render("✗ "+text)
	default:
		return " " + styles.InfoText.Render(text)
	}
}
