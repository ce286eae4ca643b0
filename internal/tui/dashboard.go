package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/services"
)

// DashboardModel is the folder sidebar
type DashboardModel struct {
	store         *services.Store
	ctx           context.Context
	folders       []api.Folder
	activeID      api.ID
	cursor        int
	width         int
	height        int
	creating      bool
	nameInput     textinput.Model
	confirmDelete bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Padding(1, 0)

	menuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true).
				PaddingLeft(2)

	activeFolderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 0)

	confirmDialogStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("196")).
				Padding(1, 2)

	confirmTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)
)

func NewDashboard(ctx context.Context, store *services.Store) DashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Folder name..."
	ti.CharLimit = 100
	ti.Width = 24

	return DashboardModel{
		store:     store,
		ctx:       ctx,
		nameInput: ti,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadFolders
}

func (m DashboardModel) loadFolders() tea.Msg {
	_, err := m.store.ListFolders(m.ctx)
	return opDoneMsg{op: "list folders", err: err}
}

// sync copies the folder list from a store snapshot
func (m DashboardModel) sync(st services.State) DashboardModel {
	m.folders = st.Folders
	m.activeID = st.ActiveFolderID
	if m.cursor >= len(m.folders) {
		m.cursor = max(len(m.folders)-1, 0)
	}
	return m
}

// Busy reports whether the sidebar is capturing keys
func (m DashboardModel) Busy() bool {
	return m.creating || m.confirmDelete
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		if m.creating {
			return m.updateCreate(msg)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.folders)-1 {
				m.cursor++
			}

		case "enter", "l", "right", " ":
			if f, ok := m.current(); ok {
				store, ctx := m.store, m.ctx
				return m, func() tea.Msg {
					return opDoneMsg{op: "select folder", err: store.SelectFolder(ctx, f.ID, f.Name), focusNotes: true}
				}
			}

		case "n":
			m.creating = true
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			return m, textinput.Blink

		case "d":
			if _, ok := m.current(); ok {
				m.confirmDelete = true
			}

		case "r":
			return m, m.loadFolders
		}
	}

	return m, nil
}

func (m DashboardModel) updateCreate(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creating = false
		m.nameInput.Blur()
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		m.creating = false
		m.nameInput.Blur()
		if name == "" {
			return m, nil
		}
		store, ctx := m.store, m.ctx
		return m, func() tea.Msg {
			return opDoneMsg{op: "create folder", err: store.CreateFolder(ctx, name)}
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateConfirm(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = false
		f, ok := m.current()
		if !ok {
			return m, nil
		}
		store, ctx := m.store, m.ctx
		return m, func() tea.Msg {
			return opDoneMsg{op: "delete folder", err: store.DeleteFolder(ctx, f.ID, confirmed)}
		}

	case "n", "N", "esc":
		m.confirmDelete = false
	}
	return m, nil
}

func (m DashboardModel) current() (api.Folder, bool) {
	if m.cursor < 0 || m.cursor >= len(m.folders) {
		return api.Folder{}, false
	}
	return m.folders[m.cursor], true
}

func (m DashboardModel) View(focused bool) string {
	s := titleStyle.Render("📁 Folders") + "\n\n"

	if len(m.folders) == 0 {
		s += menuItemStyle.Render("No folders yet") + "\n"
	}

	nameWidth := max(m.width-8, 8)
	for i, f := range m.folders {
		name := truncate.StringWithTail(f.Name, uint(nameWidth), "...")
		switch {
		case focused && m.cursor == i:
			s += selectedItemStyle.Render("▶ " + name)
		case f.ID == m.activeID:
			s += activeFolderStyle.Render(name)
		default:
			s += menuItemStyle.Render(name)
		}
		s += "\n"
	}

	if m.creating {
		s += "\n" + searchBarStyle.Render(m.nameInput.View()) + "\n"
	}

	if m.confirmDelete {
		if f, ok := m.current(); ok {
			dialog := confirmTextStyle.Render(fmt.Sprintf("Delete folder '%s'?", f.Name)) + "\n\n" +
				"  y: yes   n: no   esc: cancel"
			s += "\n" + confirmDialogStyle.Render(dialog) + "\n"
		}
	}

	if focused {
		s += helpStyle.Render("enter: open • n: new • d: delete • r: refresh")
	}

	return s
}

// confirmed approves a delete the user already accepted in a dialog
func confirmed(string) bool { return true }
