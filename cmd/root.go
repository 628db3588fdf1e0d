package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inovacc/dcc/internal/application"
	"github.com/inovacc/dcc/internal/core"
	"github.com/inovacc/dcc/internal/notify"
	"github.com/inovacc/dcc/internal/params"
	"github.com/inovacc/dcc/internal/service"
	"github.com/inovacc/dcc/internal/store"
	"github.com/spf13/cobra"
)

var (
	debugFlag      bool
	jsonFlag       bool
	dataDirFlag    string
	historyBackend string
)

// app holds the dependencies shared by every command. It is built in
// PersistentPreRunE; the history store is opened on first use.
type app struct {
	paths      params.Paths
	logger     *slog.Logger
	config     *store.ConfigStore
	dispatcher *notify.Dispatcher
	cleaners   *service.CleanerService

	history store.HistoryStore
	sweeper *core.Sweeper
}

var deps *app

// version is set at build time with -ldflags "-X github.com/inovacc/dcc/cmd.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "A directory cache cleaner",
	Long: `dcc removes cache and build-artifact directories below a root folder.

A cleaner names a search location and the directory names to remove, for
example node_modules, bin and obj under ~/src. dcc finds every matching
directory (case-insensitive, without descending into matches) and deletes
them, keeping a history of each run.`,
	Version:            version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	// PersistentPostRunE is skipped when RunE fails
	_ = closeApp()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(core.ExitCode(err))
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output results and logs as JSON")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default: $"+application.DataDirEnv+" or the user config directory)")
	rootCmd.PersistentFlags().StringVar(&historyBackend, "history-backend", store.BackendSQLite, "Run history backend: sqlite or bolt")
}

func setupApp(cmd *cobra.Command, _ []string) error {
	if deps != nil {
		return nil
	}

	logger := setupLogger(debugFlag, jsonFlag)

	paths, err := params.Resolve(dataDirFlag)
	if err != nil {
		return err
	}

	logger.Debug("data directory resolved", slog.String("path", paths.DataDir))

	dispatcher := notify.NewDispatcher(false, logger)
	dispatcher.Register(notify.NewLogSender(logger))

	config := store.NewConfigStore(paths.ConfigFile)

	deps = &app{
		paths:      paths,
		logger:     logger,
		config:     config,
		dispatcher: dispatcher,
		cleaners:   service.NewCleanerService(config, dispatcher),
	}

	slog.SetDefault(logger)

	return nil
}

// getSweeper opens the run history and returns the sweeper using it.
func (a *app) getSweeper() (*core.Sweeper, error) {
	if a.sweeper != nil {
		return a.sweeper, nil
	}

	history, err := store.OpenHistory(historyBackend, a.paths.History(historyBackend))
	if err != nil {
		return nil, err
	}

	a.history = history
	a.sweeper = core.NewSweeper(history, a.dispatcher, a.logger)

	return a.sweeper, nil
}

func teardownApp(_ *cobra.Command, _ []string) error {
	return closeApp()
}

func closeApp() error {
	if deps == nil || deps.history == nil {
		return nil
	}

	err := deps.history.Close()
	deps.history = nil
	deps.sweeper = nil

	return err
}

// setupLogger creates a configured slog.Logger. Logs always go to stderr so
// stdout stays reserved for command output.
func setupLogger(debug, jsonOutput bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
