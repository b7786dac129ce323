package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

const (
	// DefaultExitTimeout is how long to wait for a killed agent to exit
	// before deleting its image (Windows locks a running executable).
	DefaultExitTimeout = 5 * time.Second
	// ExitCheckInterval is how often to poll for exit
	ExitCheckInterval = 100 * time.Millisecond
)

// Remover stops agents running from a path and deletes that installation.
type Remover struct {
	processManager domain.ProcessManager
	fsManager      domain.FileSystemManager
	exitTimeout    time.Duration
	logger         *zap.Logger
}

// NewRemover creates a remover.
func NewRemover(pm domain.ProcessManager, fs domain.FileSystemManager, logger *zap.Logger) *Remover {
	return &Remover{
		processManager: pm,
		fsManager:      fs,
		exitTimeout:    DefaultExitTimeout,
		logger:         logger,
	}
}

// Stop terminates every auto_dark_mode.exe whose executable is path,
// except the current process. It returns the killed PIDs.
func (r *Remover) Stop(ctx context.Context, path string) ([]int, error) {
	procs, err := r.processManager.FindByImage(ExeName)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	self := r.processManager.GetCurrentPID()
	var killed []int
	for _, p := range procs {
		if p.PID == self {
			continue
		}
		if p.Exe == "" {
			// Access denied on the image path; it may still hold path open.
			r.logger.Warn("cannot read executable path of running agent, not stopping it",
				zap.Int("pid", p.PID),
				zap.String("name", p.Name))
			continue
		}
		if !SamePath(p.Exe, path) {
			continue
		}

		if err := r.processManager.Kill(p.PID); err != nil {
			if !r.processManager.IsRunning(p.PID) {
				continue // Exited on its own
			}
			return killed, fmt.Errorf("failed to kill process %d: %w", p.PID, err)
		}
		r.logger.Info("killed running agent",
			zap.Int("pid", p.PID),
			zap.String("path", p.Exe))
		killed = append(killed, p.PID)
	}

	r.waitForExit(ctx, killed)
	return killed, nil
}

// StopAndRemove stops agents running from path, then deletes the file and
// its immediate parent directory. The directory must be empty once the
// binary is gone; it is never removed recursively.
func (r *Remover) StopAndRemove(ctx context.Context, path string) (*domain.RemovalResult, error) {
	result := &domain.RemovalResult{Path: path}

	killed, err := r.Stop(ctx, path)
	result.KilledPIDs = killed
	if err != nil {
		return result, err
	}

	if !r.fsManager.Exists(path) {
		r.logger.Debug("installed binary already gone", zap.String("path", path))
		return result, nil
	}

	if err := r.fsManager.RemoveFile(path); err != nil {
		return result, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	result.RemovedFile = true
	r.logger.Info("removed binary", zap.String("path", path))

	dir := filepath.Dir(path)
	if err := r.fsManager.RemoveDir(dir); err != nil {
		return result, fmt.Errorf("failed to remove install dir %s: %w", dir, err)
	}
	result.RemovedDir = true
	r.logger.Info("removed install dir", zap.String("dir", dir))

	return result, nil
}

func (r *Remover) waitForExit(ctx context.Context, pids []int) {
	if len(pids) == 0 {
		return
	}

	deadline := time.Now().Add(r.exitTimeout)
	for time.Now().Before(deadline) {
		alive := false
		for _, pid := range pids {
			if r.processManager.IsRunning(pid) {
				alive = true
				break
			}
		}
		if !alive {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(ExitCheckInterval):
		}
	}
	r.logger.Warn("killed agent still running after timeout", zap.Ints("pids", pids))
}
