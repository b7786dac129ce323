// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"errors"
	"time"
)

// Action selects what a single invocation of the binary does.
type Action string

const (
	ActionRun       Action = "run"
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
	ActionStatus    Action = "status"
)

// Scope selects which appearance flags a reconciliation may write.
type Scope string

const (
	ScopeBoth       Scope = "both"
	ScopeAppOnly    Scope = "app-only"
	ScopeSystemOnly Scope = "system-only"
)

// Command-line flags that carry a scope, as they appear in the Run value.
const (
	AppOnlyFlag    = "--app-only"
	SystemOnlyFlag = "--system-only"
)

// BackgroundFlag marks an agent launched by install. Such a process never
// attaches to the installer's console. It is not written to the Run value.
const BackgroundFlag = "--background"

// OrDefault returns s, or ScopeBoth when s is unset.
func (s Scope) OrDefault() Scope {
	if s == "" {
		return ScopeBoth
	}
	return s
}

// Flag returns the command-line flag that reproduces the scope, or "" for ScopeBoth.
func (s Scope) Flag() string {
	switch s {
	case ScopeAppOnly:
		return AppOnlyFlag
	case ScopeSystemOnly:
		return SystemOnlyFlag
	default:
		return ""
	}
}

// WritesApps reports whether AppsUseLightTheme is written under this scope.
func (s Scope) WritesApps() bool {
	return s != ScopeSystemOnly
}

// WritesSystem reports whether SystemUsesLightTheme is written under this scope.
func (s Scope) WritesSystem() bool {
	return s != ScopeAppOnly
}

// ScopeFromFlag maps a command-line flag back to a scope.
func ScopeFromFlag(flag string) (Scope, bool) {
	switch flag {
	case "":
		return ScopeBoth, true
	case AppOnlyFlag:
		return ScopeAppOnly, true
	case SystemOnlyFlag:
		return ScopeSystemOnly, true
	default:
		return "", false
	}
}

// Config is the operator's intent for one process invocation.
// Created once and never mutated.
type Config struct {
	Action     Action
	InstallDir string // Absolute; empty means %APPDATA%\auto_dark_mode
	Scope      Scope
	Background bool // Launched by install; no console output
}

// InstalledRecord is the parsed content of the AutoDarkModeRs Run value.
type InstalledRecord struct {
	Path  string // Absolute path of the installed executable
	Scope Scope
	Raw   string // Value exactly as stored in the registry
}

// ProcessInfo describes a running process.
type ProcessInfo struct {
	PID  int
	Name string // Image name, e.g. auto_dark_mode.exe
	Exe  string // Full executable path; may be empty if access was denied
}

// Event is one debounced change notification from the registry watcher.
type Event struct {
	At  time.Time
	Err error // Set when the notification source reported a transient error
}

// ReconcileResult captures what happened during a single reconciliation.
type ReconcileResult struct {
	Dark          bool
	AppsWritten   bool
	SystemWritten bool
	ExecutedAt    time.Time
}

// RemovalResult captures what Stop-and-Remove did to a prior installation.
type RemovalResult struct {
	Path        string
	KilledPIDs  []int
	RemovedFile bool
	RemovedDir  bool
}

// Status is the read-only view printed by --status.
type Status struct {
	Record        *InstalledRecord
	RunningPIDs   []int
	NightLightOn  bool
	AppsLight     *uint32 // nil when the value does not exist
	SystemLight   *uint32
	NightLightErr error
}

var (
	// ErrValueNotFound is returned by a ValueStore when the named value does not exist.
	ErrValueNotFound = errors.New("registry value not found")

	// ErrMalformedRecord is returned when the Run value cannot be parsed.
	ErrMalformedRecord = errors.New("malformed run value")
)
