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

const (
	cardPreviewLines = 3
	cardMinWidth     = 24
)

// NotesBrowserModel lists the notes of the active folder as cards
type NotesBrowserModel struct {
	store          *services.Store
	ctx            context.Context
	previewService *services.PreviewService
	folderID       api.ID
	greeting       string
	view           services.NotesView
	cards          []services.Card
	cursor         int
	width          int
	height         int
	searchInput    textinput.Model
	searching      bool
	filter         string
	confirmDelete  bool
}

var (
	notesBrowserTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				Padding(1, 0)

	noteCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	noteCardSelectedStyle = noteCardStyle.
				BorderForeground(lipgloss.Color("170")).
				Border(lipgloss.ThickBorder())

	noteDateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)

	searchBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("170")).
			Padding(0, 1)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			PaddingLeft(2)
)

func NewNotesBrowser(ctx context.Context, store *services.Store, width, height int) NotesBrowserModel {
	ti := textinput.New()
	ti.Placeholder = "Filter notes..."
	ti.CharLimit = 100
	ti.Width = 40

	return NotesBrowserModel{
		store:          store,
		ctx:            ctx,
		previewService: services.NewPreviewService(),
		searchInput:    ti,
		width:          width,
		height:         height,
	}
}

func (m NotesBrowserModel) Init() tea.Cmd {
	return nil
}

// sync rebuilds the cards from a store snapshot
func (m NotesBrowserModel) sync(st services.State) NotesBrowserModel {
	m.folderID = st.ActiveFolderID
	m.greeting = st.Greeting
	m.view = m.store.RenderNotes(m.cardWidth()-4, cardPreviewLines)
	m.applyFilter()
	return m
}

func (m *NotesBrowserModel) applyFilter() {
	if m.filter == "" {
		m.cards = m.view.Cards
	} else {
		byID := make(map[api.ID]services.Card, len(m.view.Cards))
		for _, c := range m.view.Cards {
			byID[c.ID] = c
		}
		m.cards = m.cards[:0:0]
		for _, n := range m.store.SearchNotes(m.filter) {
			if c, ok := byID[n.ID]; ok {
				m.cards = append(m.cards, c)
			}
		}
	}
	if m.cursor >= len(m.cards) {
		m.cursor = max(len(m.cards)-1, 0)
	}
}

func (m NotesBrowserModel) cardWidth() int {
	return max(m.width-4, cardMinWidth)
}

// Busy reports whether the list is capturing keys
func (m NotesBrowserModel) Busy() bool {
	return m.searching || m.confirmDelete
}

func (m NotesBrowserModel) Update(msg tea.Msg) (NotesBrowserModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.cards)-1 {
				m.cursor++
			}

		case "g":
			m.cursor = 0

		case "G":
			m.cursor = max(len(m.cards)-1, 0)

		case "enter", "e":
			if c, ok := m.current(); ok {
				m.store.OpenForEdit(c.ID)
			}

		case "n":
			m.store.OpenForCreate()

		case "d":
			if _, ok := m.current(); ok {
				m.confirmDelete = true
			}

		case "/":
			m.searching = true
			m.searchInput.SetValue(m.filter)
			m.searchInput.Focus()
			return m, textinput.Blink

		case "c":
			m.filter = ""
			m.applyFilter()

		case "r":
			if m.folderID != "" {
				store, ctx, id := m.store, m.ctx, m.folderID
				return m, func() tea.Msg {
					return opDoneMsg{op: "load notes", err: store.LoadNotes(ctx, id)}
				}
			}

		case "s":
			if c, ok := m.current(); ok {
				store, ctx := m.store, m.ctx
				return m, func() tea.Msg {
					_, err := store.SummarizeExisting(ctx, c.ID, nil)
					return opDoneMsg{op: "summarize note", err: err}
				}
			}

		case "p":
			if c, ok := m.current(); ok {
				preview := m.previewService
				note := api.Note{ID: c.ID, Title: c.Title, Content: c.Markup, Color: c.Color, Font: c.Font}
				return m, func() tea.Msg {
					_, err := preview.PreviewNote(note)
					return opDoneMsg{op: "preview note", err: err}
				}
			}
		}
	}

	return m, nil
}

func (m NotesBrowserModel) updateSearch(msg tea.KeyMsg) (NotesBrowserModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.filter = ""
		m.applyFilter()
		return m, nil

	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter = strings.TrimSpace(m.searchInput.Value())
	m.applyFilter()
	return m, cmd
}

func (m NotesBrowserModel) updateConfirm(msg tea.KeyMsg) (NotesBrowserModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = false
		c, ok := m.current()
		if !ok {
			return m, nil
		}
		store, ctx := m.store, m.ctx
		return m, func() tea.Msg {
			return opDoneMsg{op: "delete note", err: store.DeleteNote(ctx, c.ID, confirmed)}
		}

	case "n", "N", "esc":
		m.confirmDelete = false
	}
	return m, nil
}

func (m NotesBrowserModel) current() (services.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return services.Card{}, false
	}
	return m.cards[m.cursor], true
}

func (m NotesBrowserModel) renderCard(c services.Card, selected bool) string {
	style := noteCardStyle
	if selected {
		style = noteCardSelectedStyle
	}
	if isHexColor(c.Color) {
		style = style.Background(lipgloss.Color(c.Color))
	}

	width := m.cardWidth()
	title := lipgloss.NewStyle().Bold(true).Render(truncate.StringWithTail(c.Title, uint(width-4), "..."))
	body := title + "\n" + c.Preview + "\n" + noteDateStyle.Render(c.Date)
	return style.Width(width - 2).Render(body)
}

func (m NotesBrowserModel) View(focused bool) string {
	header := m.greeting
	if header == "" {
		header = "📝 Notes"
	}
	s := notesBrowserTitleStyle.Render(header) + "\n"

	if m.searching || m.filter != "" {
		s += searchBarStyle.Render("🔍 "+m.searchInput.View()) + "\n"
	}

	switch {
	case m.folderID == "":
		s += emptyStateStyle.Render("Select a folder to see its notes") + "\n"
	case m.view.Empty:
		s += emptyStateStyle.Render(m.view.EmptyMessage) + "\n"
	case len(m.cards) == 0:
		s += emptyStateStyle.Render(fmt.Sprintf("No notes match '%s'", m.filter)) + "\n"
	default:
		s += m.cardsView(focused)
	}

	if m.confirmDelete {
		if c, ok := m.current(); ok {
			dialog := confirmTextStyle.Render(fmt.Sprintf("Delete '%s'?", c.Title)) + "\n\n" +
				"  y: yes   n: no   esc: cancel"
			s += "\n" + confirmDialogStyle.Render(dialog) + "\n"
		}
	}

	if focused {
		s += helpStyle.Render("↑/k: up • ↓/j: down • enter: edit • n: new • d: delete • s: summarize • p: preview • /: filter • c: clear • r: refresh")
	}

	return s
}

// cardsView renders the cards that fit, keeping the cursor visible
func (m NotesBrowserModel) cardsView(focused bool) string {
	perPage := len(m.cards)
	if m.height > 0 {
		perPage = max((m.height-8)/(cardPreviewLines+4), 1)
	}

	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := min(start+perPage, len(m.cards))

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderCard(m.cards[i], focused && i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.cards) > perPage {
		b.WriteString(noteDateStyle.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(m.cards))) + "\n")
	}
	return b.String()
}
