package usecase

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// InstallDirName is the directory created under %APPDATA% by default.
	InstallDirName = "auto_dark_mode"
	// ExeName is the image name of the installed agent.
	ExeName = "auto_dark_mode.exe"
)

// ErrAppDataMissing is returned when no install dir was given and APPDATA is unset.
var ErrAppDataMissing = errors.New("no install dir given and APPDATA is not set")

// TargetPath returns where install puts the binary: installDir (or
// %APPDATA%\auto_dark_mode) joined with ExeName.
func TargetPath(installDir string, getenv func(string) string) (string, error) {
	dir := installDir
	if dir == "" {
		appData := getenv("APPDATA")
		if appData == "" {
			return "", ErrAppDataMissing
		}
		dir = filepath.Join(appData, InstallDirName)
	}
	return filepath.Join(dir, ExeName), nil
}

// SamePath reports whether a and b name the same file.
// Windows paths compare case-insensitively.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
