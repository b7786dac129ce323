// Package infra implements infrastructure concerns (registry, process, filesystem).
package infra

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// FindByImage returns processes whose image name equals name (case-insensitive).
// Exe is left empty for processes whose path cannot be read.
func (pm *ProcessManagerImpl) FindByImage(name string) ([]domain.ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []domain.ProcessInfo
	for _, p := range procs {
		procName, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if !strings.EqualFold(procName, name) {
			continue
		}

		exe, _ := p.Exe()
		found = append(found, domain.ProcessInfo{
			PID:  int(p.Pid),
			Name: procName,
			Exe:  exe,
		})
	}

	return found, nil
}

// Kill terminates a process by PID.
func (pm *ProcessManagerImpl) Kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// GetCurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) GetCurrentPID() int {
	return os.Getpid()
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
