package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/nightlight"
)

// StatusReporter gathers the read-only status view.
type StatusReporter struct {
	hive           domain.Hive
	autostart      domain.AutostartManager
	processManager domain.ProcessManager
}

// NewStatusReporter creates a status reporter.
func NewStatusReporter(hive domain.Hive, autostart domain.AutostartManager, pm domain.ProcessManager) *StatusReporter {
	return &StatusReporter{
		hive:           hive,
		autostart:      autostart,
		processManager: pm,
	}
}

// Report collects the status. Only a failure to read the Run key is fatal;
// everything else degrades to an empty field.
func (s *StatusReporter) Report(ctx context.Context) (*domain.Status, error) {
	status := &domain.Status{}

	record, err := s.autostart.Installed()
	if err != nil && !errors.Is(err, domain.ErrMalformedRecord) {
		return nil, err
	}
	status.Record = record

	if record != nil {
		procs, err := s.processManager.FindByImage(ExeName)
		if err == nil {
			for _, p := range procs {
				if SamePath(p.Exe, record.Path) {
					status.RunningPIDs = append(status.RunningPIDs, p.PID)
				}
			}
		}
	}

	status.NightLightOn, status.NightLightErr = s.nightLight()
	status.AppsLight, status.SystemLight = s.appearance()

	return status, nil
}

func (s *StatusReporter) nightLight() (bool, error) {
	key, err := s.hive.Open(NightLightKeyPath, domain.AccessRead)
	if err != nil {
		return false, fmt.Errorf("failed to open night light key: %w", err)
	}
	defer key.Close()

	blob, err := ReadNightLight(key)
	if err != nil {
		return false, err
	}
	return nightlight.IsActive(blob), nil
}

func (s *StatusReporter) appearance() (apps, system *uint32) {
	key, err := s.hive.Open(PersonalizeKeyPath, domain.AccessRead)
	if err != nil {
		return nil, nil
	}
	defer key.Close()

	if v, err := key.GetDWord(AppsLightValue); err == nil {
		apps = &v
	}
	if v, err := key.GetDWord(SystemLightValue); err == nil {
		system = &v
	}
	return apps, system
}
