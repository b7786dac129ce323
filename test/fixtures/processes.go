package fixtures

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// Launch records one call to ProcessTable.Launch.
type Launch struct {
	Path string
	Args []string
	PID  int
}

// ProcessTable is a fake process list. It implements domain.ProcessManager,
// and domain.Launcher by adding launched programs to the table.
type ProcessTable struct {
	mu       sync.Mutex
	procs    map[int]domain.ProcessInfo
	nextPID  int
	selfPID  int
	killed   []int
	launches []Launch
	// KillErr, if set, is returned by Kill.
	KillErr error
}

// NewProcessTable creates a table whose current process has PID 1.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{
		procs:   make(map[int]domain.ProcessInfo),
		nextPID: 1000,
		selfPID: 1,
	}
}

// Start adds a running process for exe and returns its PID.
func (t *ProcessTable) Start(exe string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextPID++
	pid := t.nextPID
	t.procs[pid] = domain.ProcessInfo{PID: pid, Name: filepath.Base(exe), Exe: exe}
	return pid
}

// StartHidden adds a running process named name whose executable path
// cannot be read, as for a process owned by another user.
func (t *ProcessTable) StartHidden(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextPID++
	pid := t.nextPID
	t.procs[pid] = domain.ProcessInfo{PID: pid, Name: name}
	return pid
}

// SetSelf registers the current process as running exe.
func (t *ProcessTable) SetSelf(exe string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs[t.selfPID] = domain.ProcessInfo{PID: t.selfPID, Name: filepath.Base(exe), Exe: exe}
}

// Running returns the PIDs of processes running exe.
func (t *ProcessTable) Running(exe string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	var pids []int
	for pid, p := range t.procs {
		if p.Exe == exe {
			pids = append(pids, pid)
		}
	}
	return pids
}

// Killed returns PIDs passed to Kill.
func (t *ProcessTable) Killed() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.killed...)
}

// Launches returns every Launch call.
func (t *ProcessTable) Launches() []Launch {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Launch(nil), t.launches...)
}

func (t *ProcessTable) FindByImage(name string) ([]domain.ProcessInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var found []domain.ProcessInfo
	for _, p := range t.procs {
		if strings.EqualFold(p.Name, name) {
			found = append(found, p)
		}
	}
	return found, nil
}

func (t *ProcessTable) Kill(pid int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.KillErr != nil {
		return t.KillErr
	}
	if _, ok := t.procs[pid]; !ok {
		return errors.New("process not found")
	}
	delete(t.procs, pid)
	t.killed = append(t.killed, pid)
	return nil
}

func (t *ProcessTable) IsRunning(pid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.procs[pid]
	return ok
}

func (t *ProcessTable) GetCurrentPID() int {
	return t.selfPID
}

func (t *ProcessTable) Launch(execPath string, args []string) (int, error) {
	pid := t.Start(execPath)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.launches = append(t.launches, Launch{Path: execPath, Args: append([]string(nil), args...), PID: pid})
	return pid, nil
}

var (
	_ domain.ProcessManager = (*ProcessTable)(nil)
	_ domain.Launcher       = (*ProcessTable)(nil)
)
