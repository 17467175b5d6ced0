package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jatrack/internal/api"
	"jatrack/internal/config"
	"jatrack/internal/logging"
	"jatrack/internal/tui"
)

// App carries the resolved configuration shared by all subcommands.
type App struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.AppConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:          "jatrack",
		Short:        "Track job applications from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  jatrack

  # Sign in (stores a token under ~/.jatrack)
  jatrack login --email you@example.com

  # Scriptable listing
  jatrack apps list --status INTERVIEW --q acme

  # Export everything matching the current filters
  jatrack export csv -o applications.csv

  # Run the bundled API server
  jatrack serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.loadConfig()
	}

	cmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "Config file (default: ~/.jatrack/config.yaml)")
	cmd.PersistentFlags().String("server", "", "API server base URL (overrides config)")
	_ = app.v.BindPFlag("server.url", cmd.PersistentFlags().Lookup("server"))

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newAppsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func (a *App) loadConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", a.cfgFile, err)
		}
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".jatrack"))
		}
		a.v.AddConfigPath(".")
		// Missing config is fine: defaults and env cover everything.
		if err := a.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *App) tokenFile() api.TokenFile {
	return api.TokenFile{Path: a.cfg.TokenPath}
}

func (a *App) client() *api.Client {
	return api.NewClient(a.cfg.ServerURL, a.tokenFile())
}

func runTUI(app *App) error {
	// The terminal belongs to the UI; logs go to a file.
	logger, err := logging.NewFileLogger(app.cfg.LogLevel, app.cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return tui.Run(tui.Options{
		Client:   app.client(),
		Tokens:   app.tokenFile(),
		PageSize: app.cfg.PageSize,
		Logger:   logger,
	})
}
