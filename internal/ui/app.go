package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/sheets"
	"github.com/five82/roster/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewChart View = iota
	ViewTable
)

func viewFromPrefs(name string) View {
	if name == prefs.ViewTable {
		return ViewTable
	}
	return ViewChart
}

func (v View) prefsName() string {
	if v == ViewTable {
		return prefs.ViewTable
	}
	return prefs.ViewChart
}

// Poller is the part of the poll scheduler the dashboard drives.
type Poller interface {
	Refresh(ctx context.Context)
	SetVisible(visible bool)
	Source() sheets.Source
}

// Writer applies edits made in the dashboard.
type Writer interface {
	Apply(ctx context.Context, action mirror.Action, rec roster.Record, id int64) mirror.Result
	WorkingSet() *mirror.WorkingSet
	Gate() *mirror.Gate
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Poller    Poller
	Writer    Writer
	Simulated bool // writes go to the simulated sink
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string // tailed by the activity view
	Tick      time.Duration
	Logger    zerolog.Logger
}

// intent is a write the user asked for, possibly waiting on the access code.
type intent struct {
	action mirror.Action
	id     int64
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	poller    Poller
	writer    Writer
	simulated bool
	prefsPath string
	logFile   string
	tick      time.Duration
	logger    zerolog.Logger
	keys      keyMap

	// UI state
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	showActivity bool
	activity     []logtail.Entry
	activityErr  error

	saving   bool
	toast    *toast
	toastSeq int
	toastTTL time.Duration

	// Data state
	snapshot state.Snapshot
	records  []roster.Record
	cursor   int

	table   table.Model
	spinner spinner.Model
	help    help.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	theme := GetTheme(opts.Prefs.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Info))

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		poller:    opts.Poller,
		writer:    opts.Writer,
		simulated: opts.Simulated,
		prefsPath: opts.PrefsPath,
		logFile:   opts.LogFile,
		tick:      tick,
		logger:    opts.Logger.With().Str("component", "ui").Logger(),
		keys:      DefaultKeyMap(),
		theme:     theme,
		view:      viewFromPrefs(opts.Prefs.View),
		table:     newRecordTable(theme),
		spinner:   sp,
		help:      help.New(),
		toastTTL:  ToastDuration,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.records = m.currentRecords(m.snapshot)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tick),
		m.snapshotCmd(),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.layout()
		return m, nil

	case tea.FocusMsg:
		if m.poller != nil {
			m.poller.SetVisible(true)
		}
		return m, nil

	case tea.BlurMsg:
		if m.poller != nil {
			m.poller.SetVisible(false)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd(m.tick))

	case snapshotMsg:
		m.snapshot = msg.snap
		m.setRecords(msg.records)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case refreshDoneMsg:
		m.snapshot = msg.snap
		if msg.snap.Connected {
			return m, tea.Batch(m.showToast(toastInfo, "Refreshed from Google Sheets"), m.snapshotCmd())
		}
		text := "Refresh failed"
		if msg.snap.LastError != nil {
			text += ": " + msg.snap.LastError.Error()
		}
		return m, m.showToast(toastError, text)

	case unlockedMsg:
		toastCmd := m.showToast(toastSuccess, "Editing unlocked for this session")
		next, cmd := m.openIntent(msg.then)
		return next, tea.Batch(toastCmd, cmd)

	case formSubmitMsg:
		m.saving = true
		return m, m.applyCmd(msg.action, msg.record, msg.id)

	case deleteConfirmedMsg:
		m.saving = true
		return m, m.applyCmd(mirror.ActionDelete, roster.Record{}, msg.id)

	case applyResultMsg:
		return m.handleApplyResult(mirror.Result(msg))

	case activityMsg:
		m.activity = msg.entries
		m.activityErr = msg.err
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = modal
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showActivity {
		return m.renderActivity()
	}
	if m.modal != nil {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.modal.View(m.theme, m.width),
			lipgloss.WithWhitespaceChars(" "),
		)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = modal
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.showHelp || m.showActivity {
		// Any key closes overlays
		m.showHelp = false
		m.showActivity = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.table.SetStyles(tableStyles(m.theme))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		return m, m.loadActivityCmd()

	case key.Matches(msg, m.keys.ChartView):
		m.view = ViewChart
		m.savePrefs()

	case key.Matches(msg, m.keys.TableView):
		m.view = ViewTable
		m.savePrefs()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.records)-1, 0)

	case key.Matches(msg, m.keys.Add):
		return m.request(intent{action: mirror.ActionAdd})

	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selected(); ok {
			return m.request(intent{action: mirror.ActionEdit, id: rec.ID})
		}

	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selected(); ok {
			return m.request(intent{action: mirror.ActionDelete, id: rec.ID})
		}
	}

	m.layout()
	return m, nil
}

// request gates a write behind the access code prompt.
func (m Model) request(in intent) (tea.Model, tea.Cmd) {
	if m.writer == nil {
		return m, m.showToast(toastError, "Editing is not available")
	}
	if !m.writer.Gate().Unlocked() {
		m.modal = newAccessPrompt(m.writer.Gate(), in)
		return m, textinput.Blink
	}
	return m.openIntent(in)
}

// openIntent opens the dialog for an already authorized write.
func (m Model) openIntent(in intent) (Model, tea.Cmd) {
	switch in.action {
	case mirror.ActionAdd:
		m.modal = newRecordForm(mirror.ActionAdd, roster.Record{})
		return m, textinput.Blink
	case mirror.ActionEdit, mirror.ActionDelete:
		idx := roster.IndexOf(m.records, in.id)
		if idx < 0 {
			return m, m.showToast(toastError, "That employee no longer exists")
		}
		if in.action == mirror.ActionDelete {
			m.modal = &confirmDelete{record: m.records[idx]}
			return m, nil
		}
		m.modal = newRecordForm(mirror.ActionEdit, m.records[idx])
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleApplyResult(res mirror.Result) (tea.Model, tea.Cmd) {
	m.saving = false
	if m.writer != nil {
		m.setRecords(m.writer.WorkingSet().Records())
	}
	if res.Action == mirror.ActionAdd && res.Outcome != mirror.Failed {
		if idx := roster.IndexOf(m.records, res.Record.ID); idx >= 0 {
			m.cursor = idx
			m.layout()
		}
	}

	log := m.logger.Info()
	if res.Outcome != mirror.Success {
		log = m.logger.Warn().Err(res.Err)
	}
	log.Str("intent", res.IntentID).Str("action", string(res.Action)).Str("outcome", res.Outcome.String()).Msg("edit applied")

	kind, text := resultToast(res)
	return m, m.showToast(kind, text)
}

func (m Model) selected() (roster.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return roster.Record{}, false
	}
	return m.records[m.cursor], true
}

// currentRecords prefers the editable working set over the published set.
func (m Model) currentRecords(snap state.Snapshot) []roster.Record {
	if m.writer != nil {
		return m.writer.WorkingSet().Records()
	}
	return snap.Records
}

func (m *Model) setRecords(records []roster.Record) {
	m.records = records
	if m.cursor >= len(records) {
		m.cursor = max(len(records)-1, 0)
	}
	m.layout()
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.syncTable(m.contentHeight())
}

func (m Model) contentHeight() int {
	return max(m.height-headerLines-2, 3)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.view.prefsName()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Msg("save prefs")
	}
}

// renderMain renders the dashboard.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	height := m.contentHeight()
	content := m.renderChart(height)
	if m.view == ViewTable {
		content = m.renderTable()
	}
	b.WriteString(lipgloss.NewStyle().Height(height).MaxHeight(height).Render(content))
	b.WriteString("\n")

	b.WriteString(m.renderToast())
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().Footer.Render(m.help.View(m.keys)))

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snap    state.Snapshot
	records []roster.Record
}

type refreshDoneMsg struct {
	snap state.Snapshot
}

type applyResultMsg mirror.Result

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	writer := m.writer
	return func() tea.Msg {
		snap := store.Snapshot()
		records := snap.Records
		if writer != nil {
			records = writer.WorkingSet().Records()
		}
		return snapshotMsg{snap: snap, records: records}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	if m.poller == nil || m.store == nil {
		return nil
	}
	ctx, p, store := m.ctx, m.poller, m.store
	return func() tea.Msg {
		p.Refresh(ctx)
		return refreshDoneMsg{snap: store.Snapshot()}
	}
}

func (m Model) applyCmd(action mirror.Action, rec roster.Record, id int64) tea.Cmd {
	ctx, w := m.ctx, m.writer
	return func() tea.Msg {
		return applyResultMsg(w.Apply(ctx, action, rec, id))
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Shutdown by signal.
		return nil
	}
	return err
}
