package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/postboard/internal/logtail"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/state"
)

// Controller is the part of state.Controller the UI drives.
type Controller interface {
	State() state.ViewState
	Changes() <-chan struct{}
	Retry()
}

var _ Controller = (*state.Controller)(nil)

const (
	defaultTick   = time.Second
	logPaneHeight = 8
	logTailLines  = 200
)

// Options configures the UI.
type Options struct {
	Controller Controller
	Endpoint   string
	ThemeName  string
	ShowBodies bool
	PrefsPath  string
	LogFile    string
	// LogUpdates signals when LogFile changes. Without it the open log pane
	// is reloaded on every tick.
	LogUpdates <-chan struct{}
	Logger     zerolog.Logger
	Tick       time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctrl      Controller
	endpoint  string
	prefsPath string
	logFile   string
	logUpdate <-chan struct{}
	log       zerolog.Logger
	tick      time.Duration
	keys      keyMap

	theme  Theme
	width  int
	height int
	ready  bool
	now    time.Time

	view        state.ViewState
	dismissedID uuid.UUID

	posts   viewport.Model
	spinner spinner.Model

	showHelp   bool
	showBodies bool
	showLogs   bool
	logEntries []logtail.Entry
	logErr     error
}

// New creates the model and seeds it with the controller's current state.
func New(opts Options) Model {
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctrl:       opts.Controller,
		endpoint:   opts.Endpoint,
		prefsPath:  opts.PrefsPath,
		logFile:    opts.LogFile,
		logUpdate:  opts.LogUpdates,
		log:        opts.Logger.With().Str("component", "ui").Logger(),
		tick:       tick,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.ThemeName),
		showBodies: opts.ShowBodies,
		spinner:    sp,
		now:        time.Now(),
	}
	if m.ctrl != nil {
		m.view = m.ctrl.State()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(m.tick),
		waitForChange(m.ctrl),
		waitForLogUpdate(m.logUpdate),
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
		if !m.ready {
			m.posts = viewport.New(msg.Width, m.postsHeight())
			m.ready = true
		}
		m.resize()
		m.refreshPosts()
		return m, nil

	case stateMsg:
		m.view = state.ViewState(msg)
		m.refreshPosts()
		return m, waitForChange(m.ctrl)

	case tickMsg:
		m.now = time.Time(msg)
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.showLogs && m.logUpdate == nil {
			cmds = append(cmds, loadLogsCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)

	case logUpdatedMsg:
		cmds := []tea.Cmd{waitForLogUpdate(m.logUpdate)}
		if m.showLogs {
			cmds = append(cmds, loadLogsCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)

	case logsMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
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
	if m.alertVisible() {
		return m.renderAlert()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.alertVisible() {
		switch {
		case key.Matches(msg, m.keys.Dismiss):
			m.dismissedID = m.view.ErrorID
		case key.Matches(msg, m.keys.Retry):
			m.dismissedID = m.view.ErrorID
			m.retry()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Retry):
		m.retry()

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshPosts()

	case key.Matches(msg, m.keys.ToggleBodies):
		m.showBodies = !m.showBodies
		m.savePrefs()
		m.refreshPosts()

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.resize()
		if m.showLogs {
			return m, loadLogsCmd(m.logFile)
		}

	case key.Matches(msg, m.keys.Down):
		m.posts.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.posts.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.posts.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.posts.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.posts.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.posts.HalfPageUp()
	}

	return m, nil
}

func (m Model) retry() {
	if m.ctrl != nil {
		m.ctrl.Retry()
	}
}

// alertVisible reports whether the current message still needs dismissing.
func (m Model) alertVisible() bool {
	return m.view.HasError() && m.view.ErrorID != m.dismissedID
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowBodies: m.showBodies}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save prefs failed")
	}
}

// postsHeight is what remains after the header, status line, footer and
// optional log pane.
func (m Model) postsHeight() int {
	h := m.height - 3
	if m.showLogs {
		h -= logPaneHeight + 2
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.posts.Width = m.width
	m.posts.Height = m.postsHeight()
}

func (m *Model) refreshPosts() {
	if !m.ready {
		return
	}
	m.posts.SetContent(m.renderPosts())
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	if !m.view.IsConnected || len(m.view.Items) == 0 {
		b.WriteString(m.renderEmpty())
	} else {
		b.WriteString(m.posts.View())
	}
	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type tickMsg time.Time

type stateMsg state.ViewState

type logUpdatedMsg struct{}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the controller publishes, then delivers the
// latest state.
func waitForChange(ctrl Controller) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		<-ctrl.Changes()
		return stateMsg(ctrl.State())
	}
}

// waitForLogUpdate delivers one logUpdatedMsg per signal on ch. A closed
// channel ends the chain.
func waitForLogUpdate(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return logUpdatedMsg{}
	}
}

func loadLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Read(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

// NewProgram builds the full-screen program for opts.
func NewProgram(opts Options, programOpts ...tea.ProgramOption) *tea.Program {
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	return tea.NewProgram(New(opts), programOpts...)
}
