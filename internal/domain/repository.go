package domain

import "context"

// Access is the permission a registry key is opened with.
type Access int

const (
	// AccessRead allows reading values and subscribing to change notifications.
	AccessRead Access = iota
	// AccessWrite allows reading and writing values; the key must already exist.
	AccessWrite
	// AccessCreate is AccessWrite, creating the key first if it is missing.
	AccessCreate
)

// ValueStore is an open registry key.
// Implementation: golang.org/x/sys/windows/registry on Windows, in-memory in tests.
type ValueStore interface {
	// GetBinary reads a REG_BINARY value.
	GetBinary(name string) ([]byte, error)

	// GetDWord reads a REG_DWORD value.
	GetDWord(name string) (uint32, error)

	// SetDWord writes a REG_DWORD value.
	SetDWord(name string, value uint32) error

	// GetString reads a REG_SZ value.
	GetString(name string) (string, error)

	// SetString writes a REG_SZ value.
	SetString(name, value string) error

	// Delete removes a value.
	Delete(name string) error

	// Close releases the key handle.
	Close() error
}

// Hive opens keys under the current user's registry hive.
type Hive interface {
	// Open opens the key at path (relative to HKEY_CURRENT_USER).
	Open(path string, access Access) (ValueStore, error)
}

// ProcessManager handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByImage returns processes whose image name equals name (case-insensitive).
	FindByImage(name string) ([]ProcessInfo, error)

	// Kill terminates a process by PID.
	Kill(pid int) error

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// FileSystemManager handles filesystem operations for the install directory.
type FileSystemManager interface {
	// Exists checks if a path exists.
	Exists(path string) bool

	// EnsureDir creates a directory and its parents if missing.
	EnsureDir(path string) error

	// CopyFile copies src to dst atomically (temp file + rename).
	CopyFile(src, dst string) error

	// RemoveFile removes a single file.
	RemoveFile(path string) error

	// RemoveDir removes an empty directory (non-recursive).
	RemoveDir(path string) error
}

// AutostartManager owns the per-user Run value that starts the agent at logon.
type AutostartManager interface {
	// Installed returns the current record, nil if there is none.
	// A value that cannot be parsed is reported as an error wrapping the parse failure.
	Installed() (*InstalledRecord, error)

	// Register writes the Run value for execPath with the given scope.
	Register(execPath string, scope Scope) (*InstalledRecord, error)

	// Unregister deletes the Run value.
	Unregister() error
}

// Launcher starts the installed agent as a detached, window-less process.
type Launcher interface {
	// Launch starts execPath with args and returns its PID without waiting.
	Launch(execPath string, args []string) (int, error)
}

// ChangeWatcher delivers debounced change notifications for a registry subtree.
type ChangeWatcher interface {
	// Watch starts watching and returns the ordered event channel.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Reconciler performs one read-decode-project pass.
type Reconciler interface {
	Reconcile(ctx context.Context) (*ReconcileResult, error)
}
