// Package config turns parsed command-line flags into the immutable domain.Config.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ErrConflictingScope is returned when both --app-only and --system-only are set.
var ErrConflictingScope = errors.New("cannot set app only and system only at the same time")

// Options mirrors the command-line flags.
type Options struct {
	Install    bool
	InstallDir string
	Uninstall  bool
	AppOnly    bool
	SystemOnly bool
	Status     bool
	Background bool
}

// New validates opts and builds the configuration record.
// Install takes precedence over uninstall, uninstall over status.
func New(opts Options) (domain.Config, error) {
	if opts.AppOnly && opts.SystemOnly {
		return domain.Config{}, ErrConflictingScope
	}

	cfg := domain.Config{
		Action:     domain.ActionRun,
		Scope:      domain.ScopeBoth,
		Background: opts.Background,
	}

	switch {
	case opts.AppOnly:
		cfg.Scope = domain.ScopeAppOnly
	case opts.SystemOnly:
		cfg.Scope = domain.ScopeSystemOnly
	}

	switch {
	case opts.Install:
		cfg.Action = domain.ActionInstall
	case opts.Uninstall:
		cfg.Action = domain.ActionUninstall
	case opts.Status:
		cfg.Action = domain.ActionStatus
	}

	if opts.InstallDir != "" {
		abs, err := filepath.Abs(opts.InstallDir)
		if err != nil {
			return domain.Config{}, fmt.Errorf("invalid install dir %q: %w", opts.InstallDir, err)
		}
		cfg.InstallDir = abs
	}

	return cfg, nil
}

// Args returns the command-line arguments that reproduce cfg's scope.
func Args(cfg domain.Config) []string {
	if flag := cfg.Scope.Flag(); flag != "" {
		return []string{flag}
	}
	return nil
}

// LaunchArgs returns the arguments for the background copy started by
// install: the scope flag plus BackgroundFlag.
func LaunchArgs(cfg domain.Config) []string {
	return append(Args(cfg), domain.BackgroundFlag)
}
