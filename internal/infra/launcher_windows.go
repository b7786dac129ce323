//go:build windows

package infra

import (
	"os/exec"
	"syscall"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// createNoWindow is the CREATE_NO_WINDOW process creation flag.
const createNoWindow = 0x08000000

// ProcessLauncher implements domain.Launcher.
type ProcessLauncher struct{}

// NewLauncher creates a launcher for detached, window-less children.
func NewLauncher() domain.Launcher {
	return &ProcessLauncher{}
}

// Launch starts execPath without a console window and does not wait for it.
func (l *ProcessLauncher) Launch(execPath string, args []string) (int, error) {
	cmd := exec.Command(execPath, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}

	// No stdin/stdout/stderr - fully detached
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
