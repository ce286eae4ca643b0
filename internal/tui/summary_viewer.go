package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notefolio/internal/services"
)

// SummaryViewerModel shows the AI summary overlay
type SummaryViewerModel struct {
	summary      services.Summary
	rendered     string
	dark         bool
	width        int
	height       int
	scrollOffset int
}

var (
	summaryViewerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				Padding(1, 0)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
)

func NewSummaryViewer(summary services.Summary, dark bool, width, height int) SummaryViewerModel {
	m := SummaryViewerModel{
		summary: summary,
		dark:    dark,
		width:   width,
		height:  height,
	}
	m.rendered = m.render()
	return m
}

// render formats the summary as markdown, falling back to the raw text
func (m SummaryViewerModel) render() string {
	style := "light"
	if m.dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(m.width-8, 20)),
	)
	if err != nil {
		return m.summary.Text
	}
	out, err := r.Render(m.summary.Text)
	if err != nil {
		return m.summary.Text
	}
	return strings.Trim(out, "\n")
}

func (m SummaryViewerModel) visibleLines() int {
	if m.height <= 0 {
		return 10
	}
	return max(m.height-10, 3)
}

func (m SummaryViewerModel) maxScroll() int {
	lines := strings.Split(m.rendered, "\n")
	return max(len(lines)-m.visibleLines(), 0)
}

func (m SummaryViewerModel) Update(msg tea.Msg) (SummaryViewerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rendered = m.render()
		m.scrollOffset = min(m.scrollOffset, m.maxScroll())

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case "down", "j":
			if m.scrollOffset < m.maxScroll() {
				m.scrollOffset++
			}

		case "g":
			m.scrollOffset = 0

		case "G":
			m.scrollOffset = m.maxScroll()
		}
	}

	return m, nil
}

// View draws the overlay. canInsert is false when no note is open.
func (m SummaryViewerModel) View(canInsert bool) string {
	s := summaryViewerTitleStyle.Render(services.SummaryHeading) + "\n"

	lines := strings.Split(m.rendered, "\n")
	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleLines(), len(lines))

	s += summaryBoxStyle.Width(max(m.width-6, 24)).Render(strings.Join(lines[start:end], "\n")) + "\n"

	if len(lines) > m.visibleLines() {
		s += notesMetaStyle.Render(fmt.Sprintf("  [Lines %d-%d of %d]", start+1, end, len(lines))) + "\n"
	}

	help := "↑/k ↓/j: scroll • c: copy"
	if canInsert {
		help += " • i: insert into note"
	}
	help += " • esc: dismiss"
	s += helpStyle.Render(help)

	return s
}
