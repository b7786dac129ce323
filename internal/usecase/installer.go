package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/config"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ErrNotInstalled is returned by Uninstall when there is no Run value.
var ErrNotInstalled = errors.New("auto_dark_mode is not installed")

// InstallResult describes a completed install.
type InstallResult struct {
	Target   string
	Previous *domain.InstalledRecord // nil when nothing (parseable) was installed
	Removed  *domain.RemovalResult   // set when a prior installation elsewhere was removed
	Copied   bool
	Record   *domain.InstalledRecord
	PID      int
}

// UninstallResult describes a completed uninstall.
type UninstallResult struct {
	Record  *domain.InstalledRecord
	Removed *domain.RemovalResult
	// Locked is set when uninstall ran from the installed copy: the agents
	// were stopped and the Run value removed, but the binary and its
	// directory are still in use by this process and remain on disk.
	Locked bool
}

// InstallerDeps holds the collaborators of Installer.
type InstallerDeps struct {
	Autostart domain.AutostartManager
	FS        domain.FileSystemManager
	Remover   *Remover
	Launcher  domain.Launcher
	// Executable returns the running binary's path. Defaults to os.Executable.
	Executable func() (string, error)
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string
	Logger *zap.Logger
}

// Installer manages the agent's presence on disk and in the Run key.
type Installer struct {
	autostart  domain.AutostartManager
	fs         domain.FileSystemManager
	remover    *Remover
	launcher   domain.Launcher
	executable func() (string, error)
	getenv     func(string) string
	logger     *zap.Logger
}

// NewInstaller creates an installer.
func NewInstaller(deps InstallerDeps) *Installer {
	i := &Installer{
		autostart:  deps.Autostart,
		fs:         deps.FS,
		remover:    deps.Remover,
		launcher:   deps.Launcher,
		executable: deps.Executable,
		getenv:     deps.Getenv,
		logger:     deps.Logger,
	}
	if i.executable == nil {
		i.executable = os.Executable
	}
	if i.getenv == nil {
		i.getenv = os.Getenv
	}
	return i
}

// Install copies the running binary to the target, registers it in the Run
// key and launches it. A prior installation at a different path is stopped
// and removed first.
func (i *Installer) Install(ctx context.Context, cfg domain.Config) (*InstallResult, error) {
	cfg.Scope = cfg.Scope.OrDefault()
	i.logger.Info("installing", zap.String("scope", string(cfg.Scope)))

	previous, err := i.previousInstall()
	if err != nil {
		return nil, err
	}

	target, err := TargetPath(cfg.InstallDir, i.getenv)
	if err != nil {
		return nil, err
	}
	result := &InstallResult{Target: target, Previous: previous}

	current, err := i.executable()
	if err != nil {
		return nil, fmt.Errorf("cannot install: failed to find executable path: %w", err)
	}

	if previous != nil {
		if SamePath(previous.Path, current) {
			// Re-install from the installed copy: only replace the running agent.
			if _, err := i.remover.Stop(ctx, current); err != nil {
				return result, err
			}
		} else {
			removed, err := i.remover.StopAndRemove(ctx, previous.Path)
			result.Removed = removed
			if err != nil {
				return result, fmt.Errorf("failed to remove previous installation: %w", err)
			}
		}
	}

	dir := filepath.Dir(target)
	i.logger.Info("creating install directory if it doesn't exist", zap.String("dir", dir))
	if err := i.fs.EnsureDir(dir); err != nil {
		return result, fmt.Errorf("failed to create install dir: %w", err)
	}

	if !SamePath(current, target) {
		if err := i.fs.CopyFile(current, target); err != nil {
			return result, fmt.Errorf("failed to copy binary to %s: %w", target, err)
		}
		result.Copied = true
		i.logger.Info("copied binary",
			zap.String("from", current),
			zap.String("to", target))
	}

	record, err := i.autostart.Register(target, cfg.Scope)
	if err != nil {
		return result, err
	}
	result.Record = record
	i.logger.Info("registered autostart", zap.String("value", record.Raw))

	pid, err := i.launcher.Launch(target, config.LaunchArgs(cfg))
	if err != nil {
		return result, fmt.Errorf("failed to start %s: %w", target, err)
	}
	result.PID = pid
	i.logger.Info("agent started", zap.Int("pid", pid), zap.String("path", target))

	return result, nil
}

// Uninstall stops the installed agent, deletes its binary and directory,
// and removes the Run value. It returns ErrNotInstalled if there is none.
func (i *Installer) Uninstall(ctx context.Context) (*UninstallResult, error) {
	i.logger.Info("uninstalling")

	record, err := i.autostart.Installed()
	if errors.Is(err, domain.ErrMalformedRecord) {
		i.logger.Warn("run value is not ours to interpret, removing it", zap.Error(err))
		if err := i.autostart.Unregister(); err != nil {
			return nil, err
		}
		return nil, ErrNotInstalled
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotInstalled
	}

	i.logger.Info("found installed binary", zap.String("path", record.Path))

	result := &UninstallResult{Record: record}

	if current, err := i.executable(); err == nil && SamePath(current, record.Path) {
		return i.uninstallFromInstalledCopy(ctx, result)
	}

	removed, err := i.remover.StopAndRemove(ctx, record.Path)
	result.Removed = removed
	if err != nil {
		return result, err
	}

	if err := i.autostart.Unregister(); err != nil {
		return result, err
	}
	return result, nil
}

// uninstallFromInstalledCopy stops the other agents and removes the Run
// value. The running image cannot delete itself, so the files stay.
func (i *Installer) uninstallFromInstalledCopy(ctx context.Context, result *UninstallResult) (*UninstallResult, error) {
	path := result.Record.Path
	killed, err := i.remover.Stop(ctx, path)
	result.Removed = &domain.RemovalResult{Path: path, KilledPIDs: killed}
	if err != nil {
		return result, err
	}

	if err := i.autostart.Unregister(); err != nil {
		return result, err
	}

	result.Locked = true
	i.logger.Warn("uninstalled from the installed copy; binary left on disk",
		zap.String("path", path),
		zap.String("dir", filepath.Dir(path)))
	return result, nil
}

// previousInstall reads the Run value. An unparseable value counts as no installation.
func (i *Installer) previousInstall() (*domain.InstalledRecord, error) {
	record, err := i.autostart.Installed()
	if errors.Is(err, domain.ErrMalformedRecord) {
		i.logger.Warn("ignoring unparseable run value", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if record != nil {
		i.logger.Info("found existing installation", zap.String("path", record.Path))
	}
	return record, nil
}
