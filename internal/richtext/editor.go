package richtext

import (
	"errors"
	"fmt"
)

// Commands accepted by Editor.FormatText. The names match the toolbar
// actions of the web client so stored keymaps stay portable.
const (
	CmdBold          = "bold"
	CmdItalic        = "italic"
	CmdUnderline     = "underline"
	CmdStrike        = "strikeThrough"
	CmdHeading       = "h2"
	CmdUnorderedList = "insertUnorderedList"
	CmdOrderedList   = "insertOrderedList"
)

var ErrUnknownCommand = errors.New("unknown format command")

var markCommands = map[string]Mark{
	CmdBold:      Bold,
	CmdItalic:    Italic,
	CmdUnderline: Underline,
	CmdStrike:    Strike,
}

var blockCommands = map[string]BlockKind{
	CmdHeading:       Heading,
	CmdUnorderedList: BulletItem,
	CmdOrderedList:   OrderedItem,
}

// Formats is the toolbar state at the caret
type Formats struct {
	Bold        bool
	Italic      bool
	Underline   bool
	Strike      bool
	Heading     bool
	BulletList  bool
	OrderedList bool
	Color       string
	Highlight   string
}

// Editor owns a document, a selection and the pending style for typed text
type Editor struct {
	doc     *Document
	sel     Selection
	pending *Style
}

func NewEditor() *Editor {
	return &Editor{doc: New()}
}

// NewEditorFromMarkup loads markup and puts the caret at the end
func NewEditorFromMarkup(markup string) *Editor {
	e := &Editor{doc: MustParse(markup)}
	e.sel = Caret(e.doc.End())
	return e
}

func (e *Editor) Document() *Document {
	return e.doc
}

func (e *Editor) Selection() Selection {
	return e.sel
}

// SetSelection replaces the selection, clamped to the document
func (e *Editor) SetSelection(sel Selection) {
	e.sel = Selection{Anchor: e.doc.Clamp(sel.Anchor), Head: e.doc.Clamp(sel.Head)}
	e.pending = nil
}

func (e *Editor) Markup() string {
	return e.doc.Render()
}

func (e *Editor) SetMarkup(markup string) {
	e.doc = MustParse(markup)
	e.sel = Caret(e.doc.End())
	e.pending = nil
}

func (e *Editor) PlainText() string {
	return e.doc.PlainText()
}

func (e *Editor) IsEmpty() bool {
	return e.doc.IsEmpty()
}

// FormatText runs a toolbar command against the selection
func (e *Editor) FormatText(command string) error {
	if m, ok := markCommands[command]; ok {
		if e.sel.Collapsed() {
			style := e.typingStyle()
			style.Marks ^= m
			e.pending = &style
			return nil
		}
		e.doc.ToggleMark(e.sel, m)
		return nil
	}

	if kind, ok := blockCommands[command]; ok {
		e.doc.ToggleBlock(e.sel, kind)
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
}

// ApplyColor colors the selected text. It does nothing without a selection.
func (e *Editor) ApplyColor(color string) bool {
	return e.doc.SetColor(e.sel, color)
}

// ApplyHighlight sets the background of the selected text. It does nothing
// without a selection.
func (e *Editor) ApplyHighlight(color string) bool {
	return e.doc.SetHighlight(e.sel, color)
}

// Active reports the formatting at the caret, including pending toggles
func (e *Editor) Active() Formats {
	style := e.typingStyle()
	if !e.sel.Collapsed() {
		style.Marks = 0
		for _, m := range []Mark{Bold, Italic, Underline, Strike} {
			if e.doc.HasMark(e.sel, m) {
				style.Marks |= m
			}
		}
	}

	kind := e.doc.Blocks[e.doc.Clamp(e.sel.Head).Block].Kind
	return Formats{
		Bold:        style.Has(Bold),
		Italic:      style.Has(Italic),
		Underline:   style.Has(Underline),
		Strike:      style.Has(Strike),
		Heading:     kind == Heading,
		BulletList:  kind == BulletItem,
		OrderedList: kind == OrderedItem,
		Color:       style.Color,
		Highlight:   style.Highlight,
	}
}

func (e *Editor) typingStyle() Style {
	if e.pending != nil {
		return *e.pending
	}
	return e.doc.StyleAt(e.sel.Head)
}

// deleteSelection removes selected text and collapses the selection
func (e *Editor) deleteSelection() bool {
	if e.sel.Collapsed() {
		return false
	}
	start, end := e.sel.Range()
	e.sel = Caret(e.doc.DeleteRange(start, end))
	return true
}

// Insert types text at the caret, replacing any selection
func (e *Editor) Insert(text string) {
	style := e.typingStyle()
	e.deleteSelection()
	e.sel = Caret(e.doc.InsertText(e.sel.Head, text, style))
	e.pending = nil
}

// Backspace deletes the selection or the rune before the caret
func (e *Editor) Backspace() {
	e.pending = nil
	if e.deleteSelection() {
		return
	}
	e.sel = Caret(e.doc.DeleteBackward(e.sel.Head))
}

// Enter splits the current block at the caret
func (e *Editor) Enter() {
	e.deleteSelection()
	e.sel = Caret(e.doc.SplitBlock(e.sel.Head))
}

func (e *Editor) move(to Pos, extend bool) {
	to = e.doc.Clamp(to)
	e.pending = nil
	if extend {
		e.sel.Head = to
		return
	}
	e.sel = Caret(to)
}

func (e *Editor) Left(extend bool) {
	p := e.sel.Head
	if !extend && !e.sel.Collapsed() {
		start, _ := e.sel.Range()
		e.move(start, false)
		return
	}
	if p.Offset > 0 {
		p.Offset--
	} else if p.Block > 0 {
		p.Block--
		p.Offset = e.doc.Blocks[p.Block].Len()
	}
	e.move(p, extend)
}

func (e *Editor) Right(extend bool) {
	p := e.sel.Head
	if !extend && !e.sel.Collapsed() {
		_, end := e.sel.Range()
		e.move(end, false)
		return
	}
	if p.Offset < e.doc.Blocks[p.Block].Len() {
		p.Offset++
	} else if p.Block < len(e.doc.Blocks)-1 {
		p.Block++
		p.Offset = 0
	}
	e.move(p, extend)
}

func (e *Editor) Up(extend bool) {
	p := e.sel.Head
	if p.Block == 0 {
		p.Offset = 0
	} else {
		p.Block--
	}
	e.move(p, extend)
}

func (e *Editor) Down(extend bool) {
	p := e.sel.Head
	if p.Block == len(e.doc.Blocks)-1 {
		p.Offset = e.doc.Blocks[p.Block].Len()
	} else {
		p.Block++
	}
	e.move(p, extend)
}

func (e *Editor) Home(extend bool) {
	e.move(Pos{Block: e.sel.Head.Block}, extend)
}

func (e *Editor) End(extend bool) {
	b := e.sel.Head.Block
	e.move(Pos{Block: b, Offset: e.doc.Blocks[b].Len()}, extend)
}

func (e *Editor) SelectAll() {
	e.pending = nil
	e.sel = Selection{Anchor: Pos{}, Head: e.doc.End()}
}

// PrependDocument puts other in front of the current content and moves the
// caret to the start.
func (e *Editor) PrependDocument(other *Document) {
	e.doc.Prepend(other)
	e.sel = Caret(Pos{})
	e.pending = nil
}
