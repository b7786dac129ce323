//go:build !windows

package infra

import (
	"os/exec"
	"syscall"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ProcessLauncher implements domain.Launcher.
type ProcessLauncher struct{}

// NewLauncher creates a launcher for detached children.
func NewLauncher() domain.Launcher {
	return &ProcessLauncher{}
}

// Launch starts execPath in a new session and does not wait for it.
func (l *ProcessLauncher) Launch(execPath string, args []string) (int, error) {
	cmd := exec.Command(execPath, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session (detach from terminal)
	}

	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	return pid, cmd.Process.Release()
}

var _ domain.Launcher = (*ProcessLauncher)(nil)
