package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/redjax/notefolio/internal/richtext"
)

// Colors offered by the editor's text color and highlight actions
var (
	textColors      = []string{"#d32f2f", "#1976d2", "#388e3c", "#7b1fa2", "#f57c00"}
	highlightColors = []string{"#fff176", "#a5d6a7", "#90caf9", "#f48fb1"}
)

var (
	caretStyle     = lipgloss.NewStyle().Reverse(true)
	selectionStyle = lipgloss.NewStyle().Reverse(true).Faint(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// runeStyle maps a run style to a terminal style
func runeStyle(s richtext.Style) lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(s.Has(richtext.Bold)).
		Italic(s.Has(richtext.Italic)).
		Underline(s.Has(richtext.Underline)).
		Strikethrough(s.Has(richtext.Strike))
	if isHexColor(s.Color) {
		st = st.Foreground(lipgloss.Color(s.Color))
	}
	if isHexColor(s.Highlight) {
		st = st.Background(lipgloss.Color(s.Highlight))
	}
	return st
}

func isHexColor(c string) bool {
	return strings.HasPrefix(c, "#") && (len(c) == 4 || len(c) == 7)
}

// blockPrefix returns the list marker for block i. Ordered items count up
// from the first item of their run.
func blockPrefix(doc *richtext.Document, i int) string {
	b := doc.Blocks[i]
	switch b.Kind {
	case richtext.BulletItem:
		return "• "
	case richtext.OrderedItem:
		n := 1
		for j := i - 1; j >= 0 && doc.Blocks[j].Kind == richtext.OrderedItem; j-- {
			n++
		}
		return fmt.Sprintf("%d. ", n)
	}
	return ""
}

// renderDocument draws the document for the terminal. When showCaret is set
// the selection is drawn reversed and a collapsed selection shows a caret cell.
func renderDocument(doc *richtext.Document, sel richtext.Selection, showCaret bool, width int) string {
	start, end := sel.Range()
	lines := make([]string, 0, len(doc.Blocks))

	for bi, b := range doc.Blocks {
		var sb strings.Builder
		sb.WriteString(blockPrefix(doc, bi))

		off := 0
		for _, run := range b.Runs {
			st := runeStyle(run.Style)
			if b.Kind == richtext.Heading {
				st = st.Inherit(headingStyle)
			}
			for _, r := range run.Text {
				p := richtext.Pos{Block: bi, Offset: off}
				ch := string(r)
				switch {
				case showCaret && sel.Collapsed() && p == sel.Head:
					sb.WriteString(caretStyle.Render(ch))
				case showCaret && !sel.Collapsed() && !p.Before(start) && p.Before(end):
					sb.WriteString(selectionStyle.Render(ch))
				default:
					sb.WriteString(st.Render(ch))
				}
				off++
			}
		}
		if showCaret && sel.Collapsed() && sel.Head == (richtext.Pos{Block: bi, Offset: off}) {
			sb.WriteString(caretStyle.Render(" "))
		}

		line := sb.String()
		if width > 0 {
			line = wordwrap.String(line, width)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// toolbarView shows the formats active at the caret, like the toolbar buttons
// in a browser editor
func toolbarView(f richtext.Formats) string {
	items := []struct {
		label  string
		active bool
	}{
		{"B", f.Bold},
		{"I", f.Italic},
		{"U", f.Underline},
		{"S", f.Strike},
		{"H2", f.Heading},
		{"•", f.BulletList},
		{"1.", f.OrderedList},
	}

	parts := make([]string, 0, len(items)+2)
	for _, it := range items {
		if it.active {
			parts = append(parts, toolbarActiveStyle.Render(it.label))
		} else {
			parts = append(parts, toolbarItemStyle.Render(it.label))
		}
	}
	if isHexColor(f.Color) {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(f.Color)).Render("A"))
	}
	if isHexColor(f.Highlight) {
		parts = append(parts, lipgloss.NewStyle().Background(lipgloss.Color(f.Highlight)).Render(" H "))
	}
	return strings.Join(parts, " ")
}

var (
	toolbarItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Padding(0, 1)

	toolbarActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("170")).
				Bold(true).
				Padding(0, 1)
)

// nextIn returns the entry after cur in list, wrapping around
func nextIn(list []string, cur string) string {
	for i, v := range list {
		if strings.EqualFold(v, cur) {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
