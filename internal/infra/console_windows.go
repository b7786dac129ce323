//go:build windows

package infra

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

var (
	modKernel32       = windows.NewLazySystemDLL("kernel32.dll")
	procAttachConsole = modKernel32.NewProc("AttachConsole")
)

// attachParentProcess is ATTACH_PARENT_PROCESS, (DWORD)-1.
const attachParentProcess = ^uint32(0)

// AttachParentConsole attaches to the console of the launching process, if
// any, and points os.Stdout/os.Stderr at it. It reports whether diagnostic
// output is visible. The binary is linked as a GUI program, so without this
// nothing printed reaches the terminal it was started from.
func AttachParentConsole() bool {
	r, _, err := procAttachConsole.Call(uintptr(attachParentProcess))
	if r == 0 {
		// Already attached means we were built as a console program.
		return errors.Is(err, windows.ERROR_ACCESS_DENIED)
	}

	out, err := os.OpenFile("CONOUT$", os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	os.Stdout = out
	os.Stderr = out
	return true
}
