package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/prefs"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/redjax/notefolio/internal/services"
	"github.com/rs/zerolog"
)

const sidebarWidth = 30

type paneFocus int

const (
	focusFolders paneFocus = iota
	focusNotes
)

// opDoneMsg reports the end of a store operation run as a command
type opDoneMsg struct {
	op         string
	err        error
	focusNotes bool
}

// background choices cycled with "b"
var backgroundPresets = []prefs.Preferences{
	{BackgroundType: "none"},
	{BackgroundType: "color", BackgroundClass: "#1e1e2e"},
	{BackgroundType: "color", BackgroundClass: "#2d3b2d"},
	{BackgroundType: "color", BackgroundClass: "#f5f0e1"},
}

// AppModel is the main orchestrator. It owns the panes and overlays and
// re-renders them from store snapshots.
type AppModel struct {
	ctx       context.Context
	store     *services.Store
	prefs     *prefs.Store
	clip      services.Copier
	log       zerolog.Logger
	state     services.State
	dashboard DashboardModel
	notes     NotesBrowserModel
	editor    *NotesEditorModel
	summary   *SummaryViewerModel
	effects   effects
	spinner   spinner.Model
	focus     paneFocus
	width     int
	height    int
}

// NewAppModel creates the app with the folder sidebar focused
func NewAppModel(ctx context.Context, store *services.Store, prefStore *prefs.Store, clip services.Copier, log zerolog.Logger) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AppModel{
		ctx:       ctx,
		store:     store,
		prefs:     prefStore,
		clip:      clip,
		log:       log,
		dashboard: NewDashboard(ctx, store),
		notes:     NewNotesBrowser(ctx, store, 0, 0),
		effects:   newEffects(),
		spinner:   sp,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.dashboard.Init(),
		waitForChange(m.store),
		waitForEvent(m.store.Notifier()),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.store.SetWidth(msg.Width)
		return m.resize(), nil

	case StoreChangedMsg:
		return m.syncState()

	case NotifyMsg:
		cmds := []tea.Cmd{waitForEvent(m.store.Notifier())}
		if m.effects.apply(msg.Event, time.Now()) {
			cmds = append(cmds, effectsTick())
		}
		return m, tea.Batch(cmds...)

	case effectsTickMsg:
		if m.effects.expire(time.Time(msg)) {
			return m, effectsTick()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		return m.handleOp(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// resize hands each pane its share of the screen
func (m AppModel) resize() AppModel {
	notesWidth := m.width
	if !m.state.SidebarHidden {
		notesWidth = max(m.width-sidebarWidth, 0)
	}
	m.dashboard, _ = m.dashboard.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: m.height})
	m.notes, _ = m.notes.Update(tea.WindowSizeMsg{Width: notesWidth, Height: m.height})
	m.notes = m.notes.sync(m.state)
	if m.editor != nil {
		ed, _ := m.editor.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.editor = &ed
	}
	if m.summary != nil {
		sv, _ := m.summary.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.summary = &sv
	}
	return m
}

// syncState pulls a fresh snapshot and opens or closes the overlays to match it
func (m AppModel) syncState() (tea.Model, tea.Cmd) {
	wasLoading := m.state.Loading
	sidebarWas := m.state.SidebarHidden
	m.state = m.store.Snapshot()

	cmds := []tea.Cmd{waitForChange(m.store)}

	m.dashboard = m.dashboard.sync(m.state)
	if sidebarWas != m.state.SidebarHidden {
		m = m.resize()
	} else {
		m.notes = m.notes.sync(m.state)
	}

	switch {
	case m.state.Modal == services.ModalClosed:
		m.editor = nil
	case m.editor == nil || !m.editor.opens(m.state):
		ed := NewNotesEditor(m.ctx, m.store, m.state)
		ed, _ = ed.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.editor = &ed
		cmds = append(cmds, ed.Init())
	}

	switch {
	case m.state.Summary == nil:
		m.summary = nil
	case m.summary == nil || !m.summary.summary.CreatedAt.Equal(m.state.Summary.CreatedAt):
		sv := NewSummaryViewer(*m.state.Summary, m.prefs.Get().Dark(), m.width, m.height)
		m.summary = &sv
	}

	if m.state.Loading && !wasLoading {
		cmds = append(cmds, m.spinner.Tick)
	}

	return m, tea.Batch(cmds...)
}

func (m AppModel) handleOp(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Debug().Err(msg.err).Str("op", msg.op).Msg("operation failed")
		// store operations alert on their own; the preview has no store behind it
		if msg.op == "preview note" {
			m.store.Notifier().Alert("Could not open preview: " + msg.err.Error())
		}
	} else if msg.focusNotes {
		m.focus = focusNotes
	}

	if m.editor != nil {
		ed, cmd := m.editor.Update(msg)
		m.editor = &ed
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.effects.alert() != "" {
		if key == "enter" || key == "esc" || key == " " {
			m.effects.dismissAlert()
		}
		return m, nil
	}

	if m.summary != nil {
		return m.handleSummaryKey(msg)
	}

	if m.editor != nil {
		ed, cmd := m.editor.Update(msg)
		m.editor = &ed
		return m, cmd
	}

	busy := (m.focus == focusFolders && m.dashboard.Busy()) || (m.focus == focusNotes && m.notes.Busy())
	if !busy {
		switch key {
		case "q":
			return m, tea.Quit

		case "tab":
			if m.focus == focusFolders {
				m.focus = focusNotes
			} else {
				m.focus = focusFolders
			}
			return m, nil

		case "esc", "h", "left":
			if m.focus == focusNotes {
				m.focus = focusFolders
				return m, nil
			}

		case "S":
			m.store.ToggleSidebar()
			return m, nil

		case "t":
			if _, err := m.prefs.ToggleTheme(); err != nil {
				m.store.Notifier().Toast("Could not save theme", notify.LevelError)
			}
			return m, nil

		case "b":
			next := nextBackground(m.prefs.Get())
			if err := m.prefs.SetBackground(next.BackgroundType, next.BackgroundClass); err != nil {
				m.store.Notifier().Toast("Could not save background", notify.LevelError)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusFolders {
		m.dashboard, cmd = m.dashboard.Update(msg)
	} else {
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleSummaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.store.DismissSummary()
		return m, nil

	case "c":
		store, clip := m.store, m.clip
		return m, func() tea.Msg {
			return opDoneMsg{op: "copy summary", err: store.CopySummary(clip)}
		}

	case "i":
		if err := m.store.InsertSummary(m.editorTarget()); err != nil {
			if errors.Is(err, services.ErrModalClosed) {
				m.store.Notifier().Toast("Open a note to insert the summary", notify.LevelInfo)
			} else {
				m.store.Notifier().Alert("Could not insert summary: " + err.Error())
			}
		}
		return m, nil
	}

	sv, cmd := m.summary.Update(msg)
	m.summary = &sv
	return m, cmd
}

func (m AppModel) editorTarget() *richtext.Editor {
	if m.editor == nil {
		return nil
	}
	return m.editor.Editor()
}

func nextBackground(cur prefs.Preferences) prefs.Preferences {
	for i, p := range backgroundPresets {
		if p.BackgroundType == cur.BackgroundType && p.BackgroundClass == cur.BackgroundClass {
			return backgroundPresets[(i+1)%len(backgroundPresets)]
		}
	}
	return backgroundPresets[1]
}

var sidebarStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, true, false, false).
	BorderForeground(lipgloss.Color("238")).
	PaddingLeft(1)

// frameStyle applies the saved theme and background to the whole screen
func (m AppModel) frameStyle() lipgloss.Style {
	p := m.prefs.Get()
	style := lipgloss.NewStyle()
	if p.Dark() {
		style = style.Background(lipgloss.Color("235")).Foreground(lipgloss.Color("252"))
	}
	if p.BackgroundType == "color" && isHexColor(p.BackgroundClass) {
		style = style.Background(lipgloss.Color(p.BackgroundClass))
	}
	if m.width > 0 && m.height > 0 {
		style = style.Width(m.width).Height(m.height)
	}
	return style
}

func (m AppModel) View() string {
	var body string

	switch {
	case m.summary != nil:
		body = m.summary.View(m.editor != nil)
	case m.editor != nil:
		body = m.editor.View()
	case m.state.SidebarHidden && m.focus == focusFolders:
		body = m.dashboard.View(true)
	case m.state.SidebarHidden:
		body = m.notes.View(true)
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			sidebarStyle.Width(sidebarWidth).Render(m.dashboard.View(m.focus == focusFolders)),
			m.notes.View(m.focus == focusNotes),
		)
	}

	now := time.Now()
	if toasts := m.effects.toastsView(now); toasts != "" {
		body = lipgloss.JoinVertical(lipgloss.Right, toasts, body)
	}
	if m.state.Loading {
		body += "\n" + m.spinner.View() + " Summarizing..."
	}
	if hearts := m.effects.heartsLine(m.width, now); hearts != "" {
		body += "\n" + hearts
	}
	if m.effects.alert() != "" && m.width > 0 && m.height > 0 {
		body = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.effects.alertView())
	} else if m.effects.alert() != "" {
		body = m.effects.alertView()
	}

	return m.frameStyle().Render(body)
}
