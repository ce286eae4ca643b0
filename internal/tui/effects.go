package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/services"
)

// StoreChangedMsg is sent whenever the store announces a state change
type StoreChangedMsg struct{}

// NotifyMsg carries one event from the notifier
type NotifyMsg struct {
	Event notify.Event
}

// effectsTickMsg drives heart and toast expiry
type effectsTickMsg time.Time

const effectsInterval = 100 * time.Millisecond

// waitForChange blocks on the store's change channel
func waitForChange(store *services.Store) tea.Cmd {
	return func() tea.Msg {
		<-store.Changes()
		return StoreChangedMsg{}
	}
}

// waitForEvent blocks on the notifier's event channel
func waitForEvent(n *notify.Notifier) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Event: <-n.Events()}
	}
}

func effectsTick() tea.Cmd {
	return tea.Tick(effectsInterval, func(t time.Time) tea.Msg {
		return effectsTickMsg(t)
	})
}

type heart struct {
	x    float64
	born time.Time
}

// effects holds the transient decorations: floating hearts, toasts and
// the queue of blocking alerts, oldest first
type effects struct {
	hearts  []heart
	toasts  *notify.ToastStore
	alerts  []string
	ticking bool
}

func newEffects() effects {
	return effects{toasts: notify.NewToastStore()}
}

// apply records an event and reports whether the tick loop must start
func (e *effects) apply(ev notify.Event, now time.Time) bool {
	switch ev.Kind {
	case notify.KindHearts:
		for _, h := range ev.Hearts {
			e.hearts = append(e.hearts, heart{x: h.X, born: now})
		}
	case notify.KindToast:
		e.toasts.Add(ev.Toast)
	case notify.KindAlert:
		e.alerts = append(e.alerts, ev.Message)
		return false
	}
	if e.ticking {
		return false
	}
	e.ticking = true
	return true
}

// expire drops finished hearts and toasts, reporting whether anything is left
func (e *effects) expire(now time.Time) bool {
	alive := e.hearts[:0]
	for _, h := range e.hearts {
		if now.Sub(h.born) < notify.HeartLifetime {
			alive = append(alive, h)
		}
	}
	e.hearts = alive

	e.ticking = len(e.hearts) > 0 || len(e.toasts.Active(now)) > 0
	return e.ticking
}

var (
	heartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))

	toastStyles = map[notify.Level]lipgloss.Style{
		notify.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		notify.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("35")).Padding(0, 1),
		notify.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Padding(0, 1),
	}

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)
)

// heartsLine draws the hearts rising from the bottom of the screen. A heart
// fades from ♥ to ♡ over its lifetime.
func (e *effects) heartsLine(width int, now time.Time) string {
	if len(e.hearts) == 0 || width <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat(" ", width))
	for _, h := range e.hearts {
		col := int(h.x / 100 * float64(width))
		if col < 0 || col >= width {
			continue
		}
		r := '♥'
		if now.Sub(h.born) > notify.HeartLifetime/2 {
			r = '♡'
		}
		cells[col] = r
	}
	return heartStyle.Render(string(cells))
}

func (e *effects) toastsView(now time.Time) string {
	active := e.toasts.Active(now)
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, len(active))
	for i, t := range active {
		st, ok := toastStyles[t.Level]
		if !ok {
			st = toastStyles[notify.LevelInfo]
		}
		lines[i] = st.Render(t.Message)
	}
	return strings.Join(lines, "\n")
}

// alert returns the alert on screen, or "" when there is none
func (e *effects) alert() string {
	if len(e.alerts) == 0 {
		return ""
	}
	return e.alerts[0]
}

func (e *effects) dismissAlert() {
	if len(e.alerts) > 0 {
		e.alerts = e.alerts[1:]
	}
}

func (e *effects) alertView() string {
	help := "enter/esc: dismiss"
	if more := len(e.alerts) - 1; more > 0 {
		help = fmt.Sprintf("enter/esc: next (%d more)", more)
	}
	return alertStyle.Render(e.alert() + "\n\n" + helpStyle.Render(help))
}
