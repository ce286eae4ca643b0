package richtext

import (
	"strings"

	"github.com/redjax/notefolio/internal/format"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads note markup into a document. Unknown tags are unwrapped,
// script-like elements are dropped.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	p := &parser{doc: &Document{}}
	if body := findBody(root); body != nil {
		p.children(body, Style{}, Paragraph)
	}
	p.endBlock()
	p.doc.ensureBlock()
	return p.doc, nil
}

// MustParse is Parse for markup that may be garbage: on error the raw text
// becomes a single paragraph.
func MustParse(markup string) *Document {
	doc, err := Parse(markup)
	if err != nil {
		doc = New()
		doc.InsertText(Pos{}, markup, Style{})
	}
	return doc
}

// StripTags returns the visible text of note markup
func StripTags(markup string) string {
	return MustParse(markup).PlainText()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

type parser struct {
	doc *Document
	cur *Block
}

func (p *parser) startBlock(kind BlockKind) {
	if p.cur != nil && len(p.cur.Runs) == 0 {
		p.cur.Kind = kind
		return
	}
	p.endBlock()
	p.cur = &Block{Kind: kind}
	p.doc.Blocks = append(p.doc.Blocks, p.cur)
}

func (p *parser) endBlock() {
	if p.cur == nil {
		return
	}
	if n := len(p.cur.Runs); n > 0 {
		p.cur.Runs[n-1].Text = strings.TrimRight(p.cur.Runs[n-1].Text, " ")
		for i := range p.cur.Runs {
			p.cur.Runs[i].Text = strings.ReplaceAll(p.cur.Runs[i].Text, "\u00a0", " ")
		}
		p.cur.normalize()
	}
	p.cur = nil
}

func (p *parser) text(s string, style Style, kind BlockKind) {
	s = collapseSpace(s)
	if p.cur == nil {
		s = strings.TrimLeft(s, " ")
		if s == "" {
			return
		}
		p.startBlock(kind)
	} else if p.cur.Len() == 0 {
		s = strings.TrimLeft(s, " ")
	} else if strings.HasSuffix(p.cur.Text(), " ") {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	p.cur.Runs = append(p.cur.Runs, Run{Text: s, Style: style})
	p.cur.normalize()
}

func (p *parser) children(n *html.Node, style Style, kind BlockKind) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.node(c, style, kind)
	}
}

func (p *parser) node(n *html.Node, style Style, kind BlockKind) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, style, kind)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Iframe, atom.Object, atom.Head, atom.Template:
		return

	case atom.Br:
		if p.cur == nil {
			p.startBlock(kind)
		}
		p.endBlock()

	case atom.Ul:
		p.endBlock()
		p.children(n, style, BulletItem)
		p.endBlock()

	case atom.Ol:
		p.endBlock()
		p.children(n, style, OrderedItem)
		p.endBlock()

	case atom.Li:
		if kind != BulletItem && kind != OrderedItem {
			kind = BulletItem
		}
		p.startBlock(kind)
		p.children(n, style, kind)
		p.endBlock()

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.startBlock(Heading)
		p.children(n, style, Heading)
		p.endBlock()

	case atom.P, atom.Div, atom.Blockquote, atom.Pre, atom.Section, atom.Article:
		// a paragraph nested in a list item continues that item
		if (kind == BulletItem || kind == OrderedItem) && p.cur != nil && p.cur.Len() == 0 {
			p.children(n, style, kind)
			return
		}
		p.startBlock(blockKindFor(kind))
		p.children(n, style, blockKindFor(kind))
		p.endBlock()

	case atom.B, atom.Strong:
		style.Marks |= Bold
		p.children(n, style, kind)

	case atom.I, atom.Em:
		style.Marks |= Italic
		p.children(n, style, kind)

	case atom.U, atom.Ins:
		style.Marks |= Underline
		p.children(n, style, kind)

	case atom.S, atom.Strike, atom.Del:
		style.Marks |= Strike
		p.children(n, style, kind)

	case atom.Mark:
		style.Highlight = "yellow"
		p.children(n, style, kind)

	case atom.Span, atom.Font:
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "color":
				style.Color = strings.ToLower(strings.TrimSpace(a.Val))
			case "style":
				applyInlineCSS(&style, a.Val)
			}
		}
		p.children(n, style, kind)

	default:
		p.children(n, style, kind)
	}
}

func blockKindFor(kind BlockKind) BlockKind {
	if kind == Heading {
		return Heading
	}
	if kind == BulletItem || kind == OrderedItem {
		return kind
	}
	return Paragraph
}

func applyInlineCSS(style *Style, css string) {
	for _, decl := range strings.Split(css, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		switch prop {
		case "color":
			style.Color = val
		case "background-color", "background":
			style.Highlight = val
		case "font-weight":
			if val == "bold" || val == "700" || val == "800" || val == "900" {
				style.Marks |= Bold
			}
		case "font-style":
			if val == "italic" {
				style.Marks |= Italic
			}
		case "text-decoration", "text-decoration-line":
			if strings.Contains(val, "underline") {
				style.Marks |= Underline
			}
			if strings.Contains(val, "line-through") {
				style.Marks |= Strike
			}
		}
	}
}

func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}

// Render writes the document as note markup. An empty document renders as "".
func (d *Document) Render() string {
	if len(d.Blocks) == 0 || (len(d.Blocks) == 1 && d.Blocks[0].Len() == 0 && d.Blocks[0].Kind == Paragraph) {
		return ""
	}

	var sb strings.Builder
	var openList BlockKind = Paragraph

	closeList := func() {
		switch openList {
		case BulletItem:
			sb.WriteString("</ul>")
		case OrderedItem:
			sb.WriteString("</ol>")
		}
		openList = Paragraph
	}

	for _, b := range d.Blocks {
		if b.Kind != openList {
			closeList()
			switch b.Kind {
			case BulletItem:
				sb.WriteString("<ul>")
				openList = BulletItem
			case OrderedItem:
				sb.WriteString("<ol>")
				openList = OrderedItem
			}
		}

		tag := "p"
		switch b.Kind {
		case Heading:
			tag = "h2"
		case BulletItem, OrderedItem:
			tag = "li"
		}

		sb.WriteString("<" + tag + ">")
		if b.Len() == 0 {
			sb.WriteString("<br>")
		}
		prevSpace := true
		for i, r := range b.Runs {
			sb.WriteString(renderRun(r, &prevSpace, i == len(b.Runs)-1))
		}
		sb.WriteString("</" + tag + ">")
	}
	closeList()

	return sb.String()
}

func renderRun(r Run, prevSpace *bool, blockEnd bool) string {
	text := escapeText(r.Text, prevSpace, blockEnd)
	if r.Has(Strike) {
		text = "<s>" + text + "</s>"
	}
	if r.Has(Underline) {
		text = "<u>" + text + "</u>"
	}
	if r.Has(Italic) {
		text = "<i>" + text + "</i>"
	}
	if r.Has(Bold) {
		text = "<b>" + text + "</b>"
	}

	var css []string
	if r.Color != "" {
		css = append(css, "color: "+r.Color)
	}
	if r.Highlight != "" {
		css = append(css, "background-color: "+r.Highlight)
	}
	if len(css) > 0 {
		text = `<span style="` + format.EscapeHTML(strings.Join(css, "; ")) + `">` + text + "</span>"
	}
	return text
}

// escapeText escapes markup. Spaces that a browser would collapse (block
// edges, runs of spaces) are written as &nbsp; so they survive a reload.
func escapeText(s string, prevSpace *bool, blockEnd bool) string {
	var sb, chunk strings.Builder
	flush := func() {
		sb.WriteString(format.EscapeHTML(chunk.String()))
		chunk.Reset()
	}

	runes := []rune(s)
	for i, r := range runes {
		if r != ' ' {
			chunk.WriteRune(r)
			*prevSpace = false
			continue
		}
		flush()
		if *prevSpace || (blockEnd && i == len(runes)-1) {
			sb.WriteString("&nbsp;")
		} else {
			sb.WriteByte(' ')
		}
		*prevSpace = true
	}
	flush()
	return sb.String()
}
