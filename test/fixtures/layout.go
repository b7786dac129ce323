package fixtures

import (
	"os"
	"path/filepath"
)

// Layout is a throwaway directory tree mimicking a user profile: a
// download location holding a freshly built binary and an APPDATA root.
type Layout struct {
	Root string
}

// NewLayout creates a layout rooted at root.
func NewLayout(root string) *Layout {
	return &Layout{Root: root}
}

// DownloadDir is where the user unpacked the binary.
func (l *Layout) DownloadDir() string {
	return filepath.Join(l.Root, "Downloads")
}

// AppData stands in for %APPDATA%.
func (l *Layout) AppData() string {
	return filepath.Join(l.Root, "AppData", "Roaming")
}

// Getenv resolves APPDATA to the layout's AppData dir.
func (l *Layout) Getenv(key string) string {
	if key == "APPDATA" {
		return l.AppData()
	}
	return ""
}

// CreateBinary writes a fake executable named name into the download dir
// and returns its path.
func (l *Layout) CreateBinary(name, content string) (string, error) {
	if err := os.MkdirAll(l.DownloadDir(), 0755); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.AppData(), 0755); err != nil {
		return "", err
	}
	path := filepath.Join(l.DownloadDir(), name)
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile returns the file content, or "" if it cannot be read.
func ReadFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
