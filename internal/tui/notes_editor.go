package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/redjax/notefolio/internal/services"
)

type editorFocus int

const (
	focusTitle editorFocus = iota
	focusBody
)

// formatKeys maps editor shortcuts to rich-text commands
var formatKeys = map[string]string{
	"alt+b": richtext.CmdBold,
	"alt+i": richtext.CmdItalic,
	"alt+u": richtext.CmdUnderline,
	"alt+s": richtext.CmdStrike,
	"alt+h": richtext.CmdHeading,
	"alt+l": richtext.CmdUnorderedList,
	"alt+o": richtext.CmdOrderedList,
}

// NotesEditorModel is the note modal: a title field and a rich-text body
type NotesEditorModel struct {
	store           *services.Store
	ctx             context.Context
	previewService  *services.PreviewService
	mode            services.ModalMode
	noteID          api.ID
	titleInput      textinput.Model
	editor          *richtext.Editor
	color           string
	font            string
	textColor       string
	highlight       string
	focus           editorFocus
	width           int
	height          int
	saving          bool
	showQuitConfirm bool
	initial         services.Draft
}

var (
	notesEditorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				Padding(1, 0)

	notesFieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	notesFieldFocusedStyle = notesFieldStyle.
				BorderForeground(lipgloss.Color("170"))

	notesMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	notesSavingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))
)

// NewNotesEditor opens the editor on the store's current draft
func NewNotesEditor(ctx context.Context, store *services.Store, st services.State) NotesEditorModel {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.Width = 60
	ti.SetValue(st.Draft.Title)

	m := NotesEditorModel{
		store:          store,
		ctx:            ctx,
		previewService: services.NewPreviewService(),
		mode:           st.Modal,
		noteID:         st.CurrentNoteID,
		titleInput:     ti,
		editor:         richtext.NewEditorFromMarkup(st.Draft.Content),
		color:          st.Draft.Color,
		font:           st.Draft.Font,
		initial:        st.Draft,
	}

	if st.Modal == services.ModalCreating {
		m.focus = focusTitle
		m.titleInput.Focus()
	} else {
		m.focus = focusBody
	}
	return m
}

func (m NotesEditorModel) Init() tea.Cmd {
	if m.focus == focusTitle {
		return textinput.Blink
	}
	return nil
}

// Editor exposes the rich-text editor so a summary can be inserted into it
func (m NotesEditorModel) Editor() *richtext.Editor {
	return m.editor
}

// opens reports whether the model edits the note the store has open
func (m NotesEditorModel) opens(st services.State) bool {
	return m.mode == st.Modal && m.noteID == st.CurrentNoteID
}

func (m NotesEditorModel) draft() services.Draft {
	return services.Draft{
		Title:   m.titleInput.Value(),
		Content: m.editor.Markup(),
		Color:   m.color,
		Font:    m.font,
	}
}

func (m NotesEditorModel) dirty() bool {
	d := m.draft()
	if d.Title != m.initial.Title || d.Color != m.initial.Color || d.Font != m.initial.Font {
		return true
	}
	return d.Content != richtext.NewEditorFromMarkup(m.initial.Content).Markup()
}

func (m NotesEditorModel) Update(msg tea.Msg) (NotesEditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.titleInput.Width = max(msg.Width-12, 20)
		return m, nil

	case opDoneMsg:
		if msg.op == "save note" {
			m.saving = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.showQuitConfirm {
			switch msg.String() {
			case "y", "Y":
				m.store.Close()
			case "n", "N", "esc":
				m.showQuitConfirm = false
			}
			return m, nil
		}

		key := msg.String()
		if cmd, ok := formatKeys[key]; ok {
			if err := m.editor.FormatText(cmd); err != nil {
				return m, nil
			}
			m.focusBody()
			m.pushDraft()
			return m, nil
		}

		switch key {
		case "ctrl+s":
			if m.saving {
				return m, nil
			}
			m.saving = true
			store, ctx, d := m.store, m.ctx, m.draft()
			return m, func() tea.Msg {
				return opDoneMsg{op: "save note", err: store.Save(ctx, d)}
			}

		case "esc":
			if m.dirty() {
				m.showQuitConfirm = true
				return m, nil
			}
			m.store.Close()
			return m, nil

		case "tab", "shift+tab":
			if m.focus == focusTitle {
				m.focusBody()
			} else {
				m.focus = focusTitle
				m.titleInput.Focus()
			}
			return m, nil

		case "alt+n":
			m.color = nextIn(services.NoteColors, m.color)
			m.pushDraft()
			return m, nil

		case "alt+f":
			m.font = nextIn(services.NoteFonts, m.font)
			m.pushDraft()
			return m, nil

		case "alt+c":
			m.textColor = nextIn(textColors, m.textColor)
			m.editor.ApplyColor(m.textColor)
			m.pushDraft()
			return m, nil

		case "alt+g":
			m.highlight = nextIn(highlightColors, m.highlight)
			m.editor.ApplyHighlight(m.highlight)
			m.pushDraft()
			return m, nil

		case "alt+a":
			store, ctx, markup := m.store, m.ctx, m.editor.Markup()
			return m, func() tea.Msg {
				_, err := store.SummarizeDraft(ctx, markup, nil)
				return opDoneMsg{op: "summarize draft", err: err}
			}

		case "alt+p":
			preview := m.previewService
			d := m.draft()
			note := api.Note{ID: m.noteID, Title: d.Title, Content: d.Content, Color: d.Color, Font: d.Font}
			return m, func() tea.Msg {
				_, err := preview.PreviewNote(note)
				return opDoneMsg{op: "preview note", err: err}
			}
		}

		if m.focus == focusTitle {
			if key == "enter" || key == "down" {
				m.focusBody()
				return m, nil
			}
			var cmd tea.Cmd
			m.titleInput, cmd = m.titleInput.Update(msg)
			m.pushDraft()
			return m, cmd
		}

		if m.editBody(msg) {
			m.pushDraft()
		}
	}

	return m, nil
}

func (m *NotesEditorModel) focusBody() {
	m.focus = focusBody
	m.titleInput.Blur()
}

// editBody applies a key to the rich-text body, reporting whether it was used
func (m *NotesEditorModel) editBody(msg tea.KeyMsg) bool {
	ed := m.editor
	switch msg.String() {
	case "left":
		ed.Left(false)
	case "shift+left":
		ed.Left(true)
	case "right":
		ed.Right(false)
	case "shift+right":
		ed.Right(true)
	case "up":
		ed.Up(false)
	case "shift+up":
		ed.Up(true)
	case "down":
		ed.Down(false)
	case "shift+down":
		ed.Down(true)
	case "home", "ctrl+a":
		ed.Home(false)
	case "shift+home":
		ed.Home(true)
	case "end", "ctrl+e":
		ed.End(false)
	case "shift+end":
		ed.End(true)
	case "ctrl+l":
		ed.SelectAll()
	case "enter":
		ed.Enter()
	case "backspace":
		ed.Backspace()
	case " ", "space":
		ed.Insert(" ")
	default:
		if msg.Type != tea.KeyRunes || msg.Alt {
			return false
		}
		ed.Insert(string(msg.Runes))
	}
	return true
}

// pushDraft copies the editor fields into the store so saves and summary
// inserts see the latest text
func (m NotesEditorModel) pushDraft() {
	m.store.UpdateDraft(m.draft())
}

func (m NotesEditorModel) View() string {
	heading := "✏️  New Note"
	if m.mode == services.ModalEditing {
		heading = "✏️  Edit Note"
	}
	s := notesEditorTitleStyle.Render(heading) + "\n"

	width := max(m.width-4, 30)

	titleBox := notesFieldStyle
	bodyBox := notesFieldStyle
	if m.focus == focusTitle {
		titleBox = notesFieldFocusedStyle
	} else {
		bodyBox = notesFieldFocusedStyle
	}
	s += titleBox.Width(width).Render(m.titleInput.View()) + "\n"

	s += toolbarView(m.editor.Active()) + "\n"

	body := renderDocument(m.editor.Document(), m.editor.Selection(), m.focus == focusBody, width-4)
	if m.editor.IsEmpty() && m.focus != focusBody {
		body = notesMetaStyle.Render("Write your note...")
	}
	if isHexColor(m.color) {
		bodyBox = bodyBox.Background(lipgloss.Color(m.color)).Foreground(lipgloss.Color("236"))
	}
	bodyHeight := max(m.height-14, 5)
	s += bodyBox.Width(width).Height(bodyHeight).Render(body) + "\n"

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(m.color)).Render("   ")
	s += notesMetaStyle.Render(fmt.Sprintf("Color %s  Font: %s", swatch, m.font)) + "\n"

	if m.saving {
		s += notesSavingStyle.Render("Saving...") + "\n"
	}

	if m.showQuitConfirm {
		dialog := confirmTextStyle.Render("Discard unsaved changes?") + "\n\n" +
			"  y: yes   n: no   esc: cancel"
		s += "\n" + confirmDialogStyle.Render(dialog) + "\n"
	}

	help := []string{
		"ctrl+s: save • esc: close • tab: switch field • alt+a: summarize • alt+p: preview",
		"alt+b/i/u/s: bold/italic/underline/strike • alt+h: heading • alt+l/o: lists • alt+c/g: color/highlight • alt+n/f: note color/font",
	}
	s += helpStyle.Render(strings.Join(help, "\n"))

	return s
}
