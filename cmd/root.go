package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notefolio/internal/commands"
	"github.com/redjax/notefolio/internal/config"
	"github.com/redjax/notefolio/internal/logging"
	"github.com/redjax/notefolio/internal/prefs"
	"github.com/redjax/notefolio/internal/tui"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debug     bool
	rt        = &commands.Runtime{}
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   `nf`,
	Short: `Notefolio is a terminal client for your folders of rich-text notes, with AI summaries.`,
	// Long: ``
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// the TUI owns the terminal, so only subcommands mirror logs to stderr
		return initConfig(cmd, cmd != cmd.Root())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, launch the dashboard TUI
		runDashboard(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config-file", "c", "", "config file (supports .yml, .json, .toml, .env)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	config.AddFlags(rootCmd.PersistentFlags())

	// Add subcommands - they will get config when executed
	getRuntime := func() *commands.Runtime { return rt }
	rootCmd.AddCommand(commands.NewFoldersCmd(getRuntime))
	rootCmd.AddCommand(commands.NewNotesCmd(getRuntime))
	rootCmd.AddCommand(commands.NewSummarizeCmd(getRuntime))
	rootCmd.AddCommand(commands.NewPrefsCmd(getRuntime))
	rootCmd.AddCommand(commands.NewSelfCmd(getRuntime))
}

func initConfig(cmd *cobra.Command, console bool) error {
	cfg, err := config.Load(cmd.Root().PersistentFlags(), cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Ensure data directories exist
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Debug:   debug,
		Console: console,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	logCloser = closer

	rt.Config = cfg
	rt.Log = logger
	logger.Debug().Str("server", cfg.Server.URL).Str("data_dir", cfg.Data.Dir).Msg("config loaded")
	return nil
}

func runDashboard(ctx context.Context) {
	if !utils.IsInteractive() {
		fmt.Fprintln(os.Stderr, "Error running dashboard: not a terminal; see 'nf --help' for subcommands")
		os.Exit(1)
	}

	prefStore := prefs.NewStore(rt.Config.Data.Dir)
	if _, err := prefStore.Load(); err != nil {
		rt.Log.Warn().Err(err).Msg("could not load preferences, using defaults")
	}

	// Create and run the dashboard TUI
	app := tui.NewAppModel(ctx, rt.NewStore(), prefStore, utils.NewClipboard(), rt.Log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
