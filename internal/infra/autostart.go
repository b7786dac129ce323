package infra

import (
	"errors"
	"fmt"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

const (
	// RunKeyPath is the per-user key whose values are launched at logon.
	RunKeyPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`
	// RunValueName names the agent's entry under RunKeyPath.
	RunValueName = "AutoDarkModeRs"
)

// RunKeyManager implements domain.AutostartManager on the per-user Run key.
type RunKeyManager struct {
	hive      domain.Hive
	valueName string
}

// NewRunKeyManager creates an autostart manager for the AutoDarkModeRs value.
func NewRunKeyManager(hive domain.Hive) domain.AutostartManager {
	return &RunKeyManager{hive: hive, valueName: RunValueName}
}

// Installed reads and parses the Run value. It returns nil, nil if there is none.
func (m *RunKeyManager) Installed() (*domain.InstalledRecord, error) {
	raw, found, err := m.read()
	if err != nil || !found {
		return nil, err
	}

	rec, err := ParseRunValue(raw)
	if err != nil {
		return nil, fmt.Errorf("run value %q: %w", raw, err)
	}
	return rec, nil
}

// Register writes the Run value for execPath, replacing any existing one.
func (m *RunKeyManager) Register(execPath string, scope domain.Scope) (*domain.InstalledRecord, error) {
	key, err := m.hive.Open(RunKeyPath, domain.AccessCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to open run key: %w", err)
	}
	defer key.Close()

	scope = scope.OrDefault()
	value := FormatRunValue(execPath, scope)
	if err := key.SetString(m.valueName, value); err != nil {
		return nil, fmt.Errorf("failed to write run value: %w", err)
	}

	return &domain.InstalledRecord{Path: execPath, Scope: scope, Raw: value}, nil
}

// Unregister deletes the Run value. A missing value is not an error.
func (m *RunKeyManager) Unregister() error {
	key, err := m.hive.Open(RunKeyPath, domain.AccessWrite)
	if err != nil {
		return fmt.Errorf("failed to open run key: %w", err)
	}
	defer key.Close()

	if err := key.Delete(m.valueName); err != nil && !errors.Is(err, domain.ErrValueNotFound) {
		return fmt.Errorf("failed to delete run value: %w", err)
	}
	return nil
}

func (m *RunKeyManager) read() (string, bool, error) {
	key, err := m.hive.Open(RunKeyPath, domain.AccessRead)
	if err != nil {
		return "", false, fmt.Errorf("failed to open run key: %w", err)
	}
	defer key.Close()

	raw, err := key.GetString(m.valueName)
	if errors.Is(err, domain.ErrValueNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read run value: %w", err)
	}
	return raw, true, nil
}

// Ensure RunKeyManager implements domain.AutostartManager.
var _ domain.AutostartManager = (*RunKeyManager)(nil)
