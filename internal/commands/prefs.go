package commands

import (
	"fmt"

	"github.com/redjax/notefolio/internal/prefs"
	"github.com/spf13/cobra"
)

// NewPrefsCmd creates the prefs command
func NewPrefsCmd(getRuntime func() *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the theme and background",
	}

	load := func() (*prefs.Store, error) {
		s := prefs.NewStore(getRuntime().Config.Data.Dir)
		if _, err := s.Load(); err != nil {
			return nil, err
		}
		return s, nil
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			p := s.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Theme: %s\n", p.Theme)
			fmt.Fprintf(out, "Background type: %s\n", valueOr(p.BackgroundType, "none"))
			fmt.Fprintf(out, "Background: %s\n", valueOr(p.BackgroundClass, "none"))
			fmt.Fprintf(out, "File: %s\n", s.Path())
			return nil
		},
	}

	themeCmd := &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set the theme, or toggle it when no value is given",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{prefs.ThemeLight, prefs.ThemeDark},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if _, err := s.ToggleTheme(); err != nil {
					return err
				}
			} else if err := s.SetTheme(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", s.Get().Theme)
			return nil
		},
	}

	backgroundCmd := &cobra.Command{
		Use:   "background TYPE [VALUE]",
		Short: "Set the background, e.g. 'color #1e1e2e' or 'none'",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			var class string
			if len(args) == 2 {
				class = args[1]
			}
			if err := s.SetBackground(args[0], class); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Background saved")
			return nil
		},
	}

	cmd.AddCommand(showCmd, themeCmd, backgroundCmd)

	return cmd
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
