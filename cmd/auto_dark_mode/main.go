// Package main is the CLI entry point for auto_dark_mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/config"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/daemon"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/infra"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/nightlight"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var (
	opts     config.Options
	attached bool
)

func main() {
	// Built without a console window; borrow the parent's when there is one.
	// The agent started by --install must not write into the installer's shell.
	if !launchedInBackground(os.Args[1:]) {
		attached = infra.AttachParentConsole()
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "auto_dark_mode",
	Short: "Switch Windows to dark mode while Night Light is on",
	Long: `auto_dark_mode keeps the Windows light/dark appearance in sync with
Night Light: dark while Night Light is on, light while it is off.

Without flags it runs in the foreground and reacts to Night Light changes.
Use --install to copy it into place, start it in the background and have it
start at every logon.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.Install, "install", "i", false, "Install to the install dir, register for logon start and launch")
	flags.StringVarP(&opts.InstallDir, "install-dir", "d", "", `Install dir (default "%APPDATA%\auto_dark_mode")`)
	flags.BoolVarP(&opts.Uninstall, "uninstall", "u", false, "Stop and remove the installed copy")
	flags.BoolVarP(&opts.AppOnly, "app-only", "a", false, "Only switch the app theme")
	flags.BoolVarP(&opts.SystemOnly, "system-only", "s", false, "Only switch the system theme (taskbar, start menu)")
	flags.BoolVar(&opts.Status, "status", false, "Show installation and theme status")
	flags.BoolVar(&opts.Background, strings.TrimPrefix(domain.BackgroundFlag, "--"), false, "Started by --install")
	_ = flags.MarkHidden(strings.TrimPrefix(domain.BackgroundFlag, "--"))
}

// launchedInBackground looks for the background flag before cobra parses
// anything, since the console has to be settled first.
func launchedInBackground(args []string) bool {
	return slices.Contains(args, domain.BackgroundFlag)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	var runErr error
	switch cfg.Action {
	case domain.ActionInstall:
		runErr = runInstall(cfg)
	case domain.ActionUninstall:
		runErr = runUninstall()
	case domain.ActionStatus:
		runErr = runStatus()
	default:
		runErr = runAgent(cfg)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
	}
	return runErr
}

func newInstaller(logger *zap.Logger) *usecase.Installer {
	pm := infra.NewProcessManager()
	fs := infra.NewFileSystemManager()
	return usecase.NewInstaller(usecase.InstallerDeps{
		Autostart: infra.NewRunKeyManager(infra.NewRegistryHive()),
		FS:        fs,
		Remover:   usecase.NewRemover(pm, fs, logger),
		Launcher:  infra.NewLauncher(),
		Logger:    logger,
	})
}

func runInstall(cfg domain.Config) error {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	result, err := newInstaller(logger).Install(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	fmt.Println("\n=== auto_dark_mode Installed ===")
	if result.Removed != nil && result.Removed.RemovedFile {
		fmt.Printf("Removed previous install: %s\n", result.Removed.Path)
	}
	fmt.Printf("Binary: %s\n", result.Target)
	fmt.Printf("Scope: %s\n", cfg.Scope)
	fmt.Printf("Autostart: %s\n", result.Record.Raw)
	fmt.Printf("Running in background (pid %d)\n", result.PID)
	fmt.Println("================================")
	return nil
}

func runUninstall() error {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	result, err := newInstaller(logger).Uninstall(context.Background())
	if errors.Is(err, usecase.ErrNotInstalled) {
		fmt.Println("auto_dark_mode is not installed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("uninstall failed: %w", err)
	}

	fmt.Println("\n=== auto_dark_mode Uninstalled ===")
	fmt.Printf("Binary: %s\n", result.Record.Path)
	if n := len(result.Removed.KilledPIDs); n > 0 {
		fmt.Printf("Stopped %d running agent(s)\n", n)
	}
	fmt.Println("Autostart: removed")
	if result.Locked {
		fmt.Println("Warning: this is the installed copy and it is still running,")
		fmt.Printf("         so it cannot delete itself. Remove %s after it exits.\n", filepath.Dir(result.Record.Path))
	}
	fmt.Println("==================================")
	return nil
}

func runStatus() error {
	hive := infra.NewRegistryHive()
	reporter := usecase.NewStatusReporter(hive, infra.NewRunKeyManager(hive), infra.NewProcessManager())

	status, err := reporter.Report(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	fmt.Println("\n=== auto_dark_mode Status ===")
	if status.Record == nil {
		fmt.Println("Installed: no")
	} else {
		fmt.Printf("Installed: %s\n", status.Record.Path)
		fmt.Printf("Scope: %s\n", status.Record.Scope)
		if len(status.RunningPIDs) > 0 {
			fmt.Printf("Agent: RUNNING (pid %v)\n", status.RunningPIDs)
		} else {
			fmt.Println("Agent: NOT RUNNING")
		}
	}

	if status.NightLightErr != nil {
		fmt.Printf("Night Light: unknown (%v)\n", status.NightLightErr)
	} else {
		fmt.Printf("Night Light: %s\n", nightlight.Describe(status.NightLightOn))
	}
	fmt.Printf("%s: %s\n", usecase.AppsLightValue, formatDWord(status.AppsLight))
	fmt.Printf("%s: %s\n", usecase.SystemLightValue, formatDWord(status.SystemLight))
	fmt.Println("=============================")
	return nil
}

func formatDWord(v *uint32) string {
	if v == nil {
		return "not set"
	}
	return fmt.Sprintf("%d", *v)
}

func runAgent(cfg domain.Config) error {
	logger := createLogger(attached && !cfg.Background)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting auto_dark_mode",
		zap.String("version", Version),
		zap.String("scope", string(cfg.Scope)))

	hive := infra.NewRegistryHive()

	personalize, err := hive.Open(usecase.PersonalizeKeyPath, domain.AccessCreate)
	if err != nil {
		logger.Error("failed to open personalize key", zap.Error(err))
		return fmt.Errorf("open personalize key: %w", err)
	}
	defer personalize.Close()

	nightLight, err := hive.Open(usecase.NightLightKeyPath, domain.AccessRead)
	if err != nil {
		logger.Error("failed to open night light key", zap.Error(err))
		return fmt.Errorf("open night light key: %w", err)
	}
	defer nightLight.Close()

	projector := usecase.NewProjector(personalize, cfg.Scope, logger)
	reconciler := usecase.NewReconciler(nightLight, projector, logger)
	watcher := infra.NewChangeWatcher(
		infra.DefaultWatcherConfig(),
		func() (infra.Notifier, error) { return infra.NewRegistryNotifier(usecase.NightLightKeyPath) },
		logger,
	)

	// No shutdown path: the agent lives as long as the logon session.
	return daemon.NewAgent(reconciler, watcher, logger).Run(context.Background())
}

// createLogger writes JSON logs to the temp dir, never next to the installed
// binary, and mirrors them to the console when one is attached.
func createLogger(console bool) *zap.Logger {
	logConfig := zap.NewProductionConfig()
	logConfig.OutputPaths = []string{filepath.Join(os.TempDir(), "auto_dark_mode.log")}
	logConfig.ErrorOutputPaths = []string{filepath.Join(os.TempDir(), "auto_dark_mode.error.log")}
	logConfig.EncoderConfig.TimeKey = "time"
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := logConfig.Build()
	if err != nil {
		// Fallback to stdout if file logging fails
		logger, _ = zap.NewProduction()
	}
	if !console {
		return logger
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zap.InfoLevel,
	)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, consoleCore)
	}))
}
