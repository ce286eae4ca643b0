package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/services"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/spf13/cobra"
)

type summarizeOptions struct {
	note   string
	folder string
	text   string
	copy   bool
	raw    bool
}

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd(getRuntime func() *Runtime) *cobra.Command {
	var opts summarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a note or any text with the backend's AI",
		Long: `Summarize a saved note (--note with --folder), the text given with --text,
or whatever is piped on stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, getRuntime(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.note, "note", "n", "", "ID of the note to summarize")
	cmd.Flags().StringVarP(&opts.folder, "folder", "f", "", "Folder the note is in")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Text to summarize")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the summary to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the summary without markdown rendering")
	cmd.MarkFlagsMutuallyExclusive("note", "text")
	cmd.MarkFlagsRequiredTogether("note", "folder")

	return cmd
}

func runSummarize(cmd *cobra.Command, rt *Runtime, opts summarizeOptions) error {
	store := rt.NewStore()
	ctx := cmd.Context()
	spin := utils.NewSpinnerWithWriter(cmd.ErrOrStderr())

	var (
		sum *services.Summary
		err error
	)
	switch {
	case opts.note != "":
		if err := store.SelectFolder(ctx, api.ID(opts.folder), ""); err != nil {
			printEvents(store.Notifier(), cmd.ErrOrStderr())
			return err
		}
		sum, err = store.SummarizeExisting(ctx, api.ID(opts.note), spin)

	case opts.text != "":
		sum, err = store.SummarizeText(ctx, opts.text, spin)

	default:
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		sum, err = store.SummarizeText(ctx, string(data), spin)
	}

	printEvents(store.Notifier(), cmd.ErrOrStderr())
	if err != nil {
		spin.Error("Summary failed")
		return err
	}
	spin.Success("Summary ready")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(sum.Text, opts.raw || !utils.IsTerminalWriter(out)))

	if opts.copy {
		err := store.CopySummary(utils.NewClipboard())
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}
	return nil
}

// renderSummary formats the summary markdown for the terminal
func renderSummary(text string, raw bool) string {
	if raw {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(utils.DetectTerminalWidth(80)-4),
	)
	if err != nil {
		return text
	}
	md := "# " + services.SummaryHeading + "\n\n" + text
	rendered, err := r.Render(md)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
