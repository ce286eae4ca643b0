package commands

import (
	"path/filepath"

	"github.com/redjax/notefolio/internal/prefs"
	"github.com/redjax/notefolio/internal/version"
	"github.com/spf13/cobra"
)

// NewSelfCmd creates the self command
func NewSelfCmd(getRuntime func() *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Information about the notefolio installation",
		Long:  `Commands for inspecting the notefolio application itself.`,
	}

	cmd.AddCommand(version.NewVersionCommand())

	cmd.AddCommand(version.NewInfoCommand(func() [][2]string {
		rt := getRuntime()
		if rt == nil || rt.Config == nil {
			return nil
		}
		cfg := rt.Config
		timeout := "none"
		if cfg.Server.Timeout > 0 {
			timeout = cfg.Server.Timeout.String()
		}
		return [][2]string{
			{"Server", cfg.Server.URL},
			{"Timeout", timeout},
			{"Data Dir", cfg.Data.Dir},
			{"Log File", cfg.Log.File},
			{"Preferences", filepath.Join(cfg.Data.Dir, prefs.FileName)},
		}
	}))

	return cmd
}
