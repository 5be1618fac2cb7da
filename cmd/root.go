package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zirconconsole/zircon/internal/app"
	"github.com/zirconconsole/zircon/internal/config"
	"github.com/zirconconsole/zircon/internal/console"
	"github.com/zirconconsole/zircon/internal/history"
	"github.com/zirconconsole/zircon/internal/infrastructure/sqlite"
	"github.com/zirconconsole/zircon/internal/log"
	"github.com/zirconconsole/zircon/internal/paths"
	"github.com/zirconconsole/zircon/internal/registry"
	"github.com/zirconconsole/zircon/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the input.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// Admin group defaults for the local user.
const (
	adminRank    = 255
	adminGroupID = 1
)

var (
	version    = "dev"
	cfgFile    string
	configPath string
	debugFlag  bool
	cfg        config.Config
	cfgErr     error
	v          = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:     "zircon",
	Short:   "A terminal console for Zirconium commands",
	Long:    `A terminal console with a syntax highlighted input, command history and completions for Zirconium commands.`,
	Version: version,
	// Config errors are reported by the commands that need the config.
	PersistentPreRunE: func(*cobra.Command, []string) error { return cfgErr },
	RunE:              runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .zircon/config.yaml, then ~/.config/zircon/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also ZIRCON_DEBUG)")
	rootCmd.Flags().String("history", "",
		"history database file")
	rootCmd.Flags().Bool("multi-line", false,
		"enter inserts a newline instead of submitting")

	// Bind flags to viper
	_ = v.BindPFlag("history::path", rootCmd.Flags().Lookup("history"))
	_ = v.BindPFlag("console::multi_line", rootCmd.Flags().Lookup("multi-line"))
}

func initConfig() {
	path, found := paths.ResolveConfig(cfgFile, config.Dir())
	configPath = path
	if !found {
		// First run: write the commented template so there is something to edit.
		if err := config.WriteDefaultConfig(path); err != nil {
			log.ErrorErr(log.CatConfig, "could not write default config", err, "path", path)
			configPath = ""
		} else {
			found = true
		}
	}

	if found {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			cfgErr = fmt.Errorf("reading config %s: %w", path, err)
			return
		}
	}
	cfg, cfgErr = config.Unmarshal(v)
}

func runApp(_ *cobra.Command, _ []string) error {
	cleanupLog, err := initLogging("zircon")
	if err != nil {
		return err
	}
	defer cleanupLog()
	log.Info(log.CatConfig, "starting", "version", version, "config", configPath)

	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	provider, err := tracing.NewProvider(cfg.Tracing.Provider())
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}
	defer shutdownTracing(provider)

	model, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Registry:   reg,
		History:    store,
		Tracer:     provider.Tracer(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// initLogging opens the debug log when --debug or ZIRCON_DEBUG is set.
// Otherwise records are discarded but still published, so the console can
// show them live.
func initLogging(prefix string) (func(), error) {
	if !debugFlag && os.Getenv("ZIRCON_DEBUG") == "" {
		log.InitWriter(io.Discard)
		return func() {}, nil
	}
	logPath := os.Getenv("ZIRCON_LOG")
	if logPath == "" {
		logPath = cfg.Log.Path
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "debug logging enabled", "path", logPath)
	return cleanup, nil
}

// buildRegistry registers the console commands and the local permission
// groups.
func buildRegistry() (*registry.Registry, error) {
	b := registry.NewBuilder().
		AddDefaultAdminGroup(adminRank, adminGroupID).
		AddDefaultUserGroup(false)
	return console.RegisterBuiltins(b).Build()
}

// openHistory opens the SQLite history, or an in-memory one when history is
// disabled.
func openHistory(c config.Config) (*history.Store, error) {
	var repo history.Repository = history.NewMemoryRepository()
	if c.History.Enabled {
		db, err := sqlite.NewDB(c.History.Path)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		repo = db.HistoryRepository()
	}
	store, err := history.NewStore(context.Background(), repo, c.Console.HistoryLimit)
	if err != nil {
		return nil, errors.Join(err, repo.Close())
	}
	return store, nil
}

func shutdownTracing(p *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "tracer shutdown failed", err)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
