// Package richtext is the note body model: a small tree of blocks holding
// styled text runs, with the edit operations the note editor needs and an
// HTML codec compatible with what the web client stores.
package richtext

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Mark is an inline formatting flag
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Underline
	Strike
)

// Style is everything that can vary between two runs of text
type Style struct {
	Marks     Mark
	Color     string
	Highlight string
}

func (s Style) Has(m Mark) bool {
	return s.Marks&m != 0
}

// Run is a span of text sharing one style
type Run struct {
	Text string
	Style
}

// BlockKind is the structural role of a block
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	BulletItem
	OrderedItem
)

func (k BlockKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case BulletItem:
		return "bullet"
	case OrderedItem:
		return "ordered"
	default:
		return "paragraph"
	}
}

// Block is one line-level element: a paragraph, heading or list item
type Block struct {
	Kind BlockKind
	Runs []Run
}

// Len returns the block length in runes
func (b *Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

func (b *Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (b *Block) clone() *Block {
	return &Block{Kind: b.Kind, Runs: slices.Clone(b.Runs)}
}

// splitAt makes sure a run boundary exists at rune offset off and returns
// the index of the run that starts there (len(Runs) at the end of the block).
func (b *Block) splitAt(off int) int {
	pos := 0
	for i, r := range b.Runs {
		n := utf8.RuneCountInString(r.Text)
		if off == pos {
			return i
		}
		if off < pos+n {
			runes := []rune(r.Text)
			cut := off - pos
			head := Run{Text: string(runes[:cut]), Style: r.Style}
			tail := Run{Text: string(runes[cut:]), Style: r.Style}
			b.Runs = slices.Replace(b.Runs, i, i+1, head, tail)
			return i + 1
		}
		pos += n
	}
	return len(b.Runs)
}

// normalize drops empty runs and merges neighbours with equal styles
func (b *Block) normalize() {
	out := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	b.Runs = out
}

// styleAt returns the style text typed at off would inherit: the style of
// the rune before off, or of the first rune at the block start.
func (b *Block) styleAt(off int) Style {
	if len(b.Runs) == 0 {
		return Style{}
	}
	target := off - 1
	if target < 0 {
		target = 0
	}
	pos := 0
	for _, r := range b.Runs {
		n := utf8.RuneCountInString(r.Text)
		if target < pos+n {
			return r.Style
		}
		pos += n
	}
	return b.Runs[len(b.Runs)-1].Style
}

func (b *Block) deleteRange(from, to int) {
	if from >= to {
		return
	}
	i := b.splitAt(from)
	j := b.splitAt(to)
	b.Runs = slices.Delete(b.Runs, i, j)
	b.normalize()
}

// Pos addresses a caret position: a block index and a rune offset in it
type Pos struct {
	Block  int
	Offset int
}

func (p Pos) Before(o Pos) bool {
	return p.Block < o.Block || (p.Block == o.Block && p.Offset < o.Offset)
}

// Selection is an anchor/head pair. A collapsed selection is a plain caret.
type Selection struct {
	Anchor Pos
	Head   Pos
}

func Caret(p Pos) Selection {
	return Selection{Anchor: p, Head: p}
}

func (s Selection) Collapsed() bool {
	return s.Anchor == s.Head
}

// Range returns the selection ends in document order
func (s Selection) Range() (Pos, Pos) {
	if s.Head.Before(s.Anchor) {
		return s.Head, s.Anchor
	}
	return s.Anchor, s.Head
}

// Document is an ordered list of blocks. It always holds at least one block.
type Document struct {
	Blocks []*Block
}

func New() *Document {
	return &Document{Blocks: []*Block{{Kind: Paragraph}}}
}

func (d *Document) Clone() *Document {
	out := &Document{Blocks: make([]*Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

func (d *Document) ensureBlock() {
	if len(d.Blocks) == 0 {
		d.Blocks = []*Block{{Kind: Paragraph}}
	}
}

// PlainText joins the block texts with newlines
func (d *Document) PlainText() string {
	lines := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		lines[i] = b.Text()
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the document has no visible text
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.PlainText()) == ""
}

// Clamp moves p inside the document bounds
func (d *Document) Clamp(p Pos) Pos {
	d.ensureBlock()
	if p.Block < 0 {
		return Pos{}
	}
	if p.Block >= len(d.Blocks) {
		last := len(d.Blocks) - 1
		return Pos{Block: last, Offset: d.Blocks[last].Len()}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := d.Blocks[p.Block].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// End returns the position after the last rune
func (d *Document) End() Pos {
	d.ensureBlock()
	last := len(d.Blocks) - 1
	return Pos{Block: last, Offset: d.Blocks[last].Len()}
}

// InsertText inserts text at p with the given style. Newlines start new blocks.
// It returns the caret position after the inserted text.
func (d *Document) InsertText(p Pos, text string, style Style) Pos {
	p = d.Clamp(p)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p = d.splitBlock(p)
		}
		if line == "" {
			continue
		}
		b := d.Blocks[p.Block]
		idx := b.splitAt(p.Offset)
		b.Runs = slices.Insert(b.Runs, idx, Run{Text: line, Style: style})
		b.normalize()
		p.Offset += utf8.RuneCountInString(line)
	}
	return p
}

func (d *Document) splitBlock(p Pos) Pos {
	b := d.Blocks[p.Block]
	idx := b.splitAt(p.Offset)
	tail := slices.Clone(b.Runs[idx:])
	b.Runs = b.Runs[:idx]

	kind := b.Kind
	if kind == Heading {
		kind = Paragraph
	}
	d.Blocks = slices.Insert(d.Blocks, p.Block+1, &Block{Kind: kind, Runs: tail})
	return Pos{Block: p.Block + 1}
}

// SplitBlock handles Enter at p. An empty list item leaves the list instead of
// creating another empty item.
func (d *Document) SplitBlock(p Pos) Pos {
	p = d.Clamp(p)
	b := d.Blocks[p.Block]
	if (b.Kind == BulletItem || b.Kind == OrderedItem) && b.Len() == 0 {
		b.Kind = Paragraph
		return p
	}
	return d.splitBlock(p)
}

// DeleteBackward handles Backspace at p. At the start of a non-paragraph block
// the block becomes a paragraph; at the start of a paragraph it merges into
// the previous block.
func (d *Document) DeleteBackward(p Pos) Pos {
	p = d.Clamp(p)
	b := d.Blocks[p.Block]

	if p.Offset > 0 {
		b.deleteRange(p.Offset-1, p.Offset)
		return Pos{Block: p.Block, Offset: p.Offset - 1}
	}
	if b.Kind != Paragraph {
		b.Kind = Paragraph
		return p
	}
	if p.Block == 0 {
		return p
	}

	prev := d.Blocks[p.Block-1]
	off := prev.Len()
	prev.Runs = append(prev.Runs, b.Runs...)
	prev.normalize()
	d.Blocks = slices.Delete(d.Blocks, p.Block, p.Block+1)
	return Pos{Block: p.Block - 1, Offset: off}
}

// DeleteRange removes everything between start and end and returns the caret
func (d *Document) DeleteRange(start, end Pos) Pos {
	start, end = d.Clamp(start), d.Clamp(end)
	if end.Before(start) {
		start, end = end, start
	}
	if start == end {
		return start
	}

	first := d.Blocks[start.Block]
	if start.Block == end.Block {
		first.deleteRange(start.Offset, end.Offset)
		return start
	}

	last := d.Blocks[end.Block]
	first.deleteRange(start.Offset, first.Len())
	last.deleteRange(0, end.Offset)
	first.Runs = append(first.Runs, last.Runs...)
	first.normalize()
	d.Blocks = slices.Delete(d.Blocks, start.Block+1, end.Block+1)
	return start
}

// segments calls fn for each block slice covered by [start, end)
func (d *Document) segments(start, end Pos, fn func(b *Block, from, to int)) {
	for bi := start.Block; bi <= end.Block && bi < len(d.Blocks); bi++ {
		b := d.Blocks[bi]
		from, to := 0, b.Len()
		if bi == start.Block {
			from = start.Offset
		}
		if bi == end.Block {
			to = end.Offset
		}
		if from < to {
			fn(b, from, to)
		}
	}
}

// restyle applies fn to the style of every rune in the selection
func (d *Document) restyle(sel Selection, fn func(*Style)) {
	start, end := sel.Range()
	start, end = d.Clamp(start), d.Clamp(end)
	d.segments(start, end, func(b *Block, from, to int) {
		i := b.splitAt(from)
		j := b.splitAt(to)
		for k := i; k < j; k++ {
			fn(&b.Runs[k].Style)
		}
		b.normalize()
	})
}

// HasMark reports whether every rune of the selection carries m
func (d *Document) HasMark(sel Selection, m Mark) bool {
	start, end := sel.Range()
	start, end = d.Clamp(start), d.Clamp(end)

	found, all := false, true
	d.segments(start, end, func(b *Block, from, to int) {
		pos := 0
		for _, r := range b.Runs {
			n := utf8.RuneCountInString(r.Text)
			if pos < to && pos+n > from {
				found = true
				if !r.Has(m) {
					all = false
				}
			}
			pos += n
		}
	})
	return found && all
}

// ToggleMark sets m on the selection, or clears it when the whole selection
// already has it. A collapsed selection is left alone.
func (d *Document) ToggleMark(sel Selection, m Mark) {
	if sel.Collapsed() {
		return
	}
	if d.HasMark(sel, m) {
		d.restyle(sel, func(s *Style) { s.Marks &^= m })
		return
	}
	d.restyle(sel, func(s *Style) { s.Marks |= m })
}

// SetColor sets the text color of a non-empty selection
func (d *Document) SetColor(sel Selection, color string) bool {
	if sel.Collapsed() {
		return false
	}
	d.restyle(sel, func(s *Style) { s.Color = color })
	return true
}

// SetHighlight sets the background color of a non-empty selection
func (d *Document) SetHighlight(sel Selection, color string) bool {
	if sel.Collapsed() {
		return false
	}
	d.restyle(sel, func(s *Style) { s.Highlight = color })
	return true
}

// ToggleBlock turns every block touched by the selection into kind, or back
// into paragraphs when they all already are kind.
func (d *Document) ToggleBlock(sel Selection, kind BlockKind) {
	start, end := sel.Range()
	start, end = d.Clamp(start), d.Clamp(end)

	all := true
	for bi := start.Block; bi <= end.Block; bi++ {
		if d.Blocks[bi].Kind != kind {
			all = false
			break
		}
	}

	target := kind
	if all {
		target = Paragraph
	}
	for bi := start.Block; bi <= end.Block; bi++ {
		d.Blocks[bi].Kind = target
	}
}

// StyleAt returns the style text inserted at p would get
func (d *Document) StyleAt(p Pos) Style {
	p = d.Clamp(p)
	return d.Blocks[p.Block].styleAt(p.Offset)
}

// Prepend inserts the blocks of other before the current content
func (d *Document) Prepend(other *Document) {
	if other == nil {
		return
	}
	blocks := make([]*Block, 0, len(other.Blocks)+len(d.Blocks))
	for _, b := range other.Blocks {
		blocks = append(blocks, b.clone())
	}
	if d.IsEmpty() && len(d.Blocks) == 1 {
		d.Blocks = blocks
		d.ensureBlock()
		return
	}
	d.Blocks = append(blocks, d.Blocks...)
}
