//go:build !windows

package infra

// AttachParentConsole is a no-op outside Windows; stdout is already the terminal.
func AttachParentConsole() bool {
	return true
}
