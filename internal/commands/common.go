package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/config"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/services"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/rs/zerolog"
)

// Runtime is what subcommands read once the root command has loaded config
type Runtime struct {
	Config *config.Config
	Log    zerolog.Logger
}

// NewStore wires the API client and notifier into a store
func (rt *Runtime) NewStore() *services.Store {
	client := api.NewClient(rt.Config.Server.URL,
		api.WithTimeout(rt.Config.Server.Timeout),
		api.WithLogger(rt.Log),
	)
	return services.NewStore(client, notify.New(), services.WithLogger(rt.Log))
}

// printEvents writes pending notifications to w. Hearts become a row of ♥.
func printEvents(n *notify.Notifier, w io.Writer) {
	for {
		select {
		case ev := <-n.Events():
			switch ev.Kind {
			case notify.KindHearts:
				fmt.Fprintln(w, strings.Repeat("♥ ", len(ev.Hearts)))
			case notify.KindToast:
				fmt.Fprintln(w, ev.Toast.Message)
			case notify.KindAlert:
				fmt.Fprintf(w, "⚠ %s\n", ev.Message)
			}
		default:
			return
		}
	}
}

// promptConfirm adapts the stdin prompt to a services.ConfirmFunc
func promptConfirm(in io.Reader, out io.Writer, yes bool) services.ConfirmFunc {
	return func(message string) bool {
		if yes {
			return true
		}
		ok, err := utils.PromptConfirm(in, out, message)
		return err == nil && ok
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")).Padding(0, 1)

// renderTable draws rows with lipgloss; on a pipe it falls back to tab
// separated lines so output stays scriptable
func renderTable(w io.Writer, headers []string, rows [][]string) {
	if !utils.IsTerminalWriter(w) {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		for _, r := range rows {
			fmt.Fprintln(w, strings.Join(r, "\t"))
		}
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(w, t.Render())
}
