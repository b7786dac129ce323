package usecase

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// mockFileSystemManager implements domain.FileSystemManager in memory.
type mockFileSystemManager struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]bool
	copies    int
	copyErr   error
	removeErr error
}

func newMockFileSystemManager() *mockFileSystemManager {
	return &mockFileSystemManager{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *mockFileSystemManager) addFile(path string, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[filepath.Dir(path)] = true
	m.files[path] = []byte(data)
}

func (m *mockFileSystemManager) content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	return string(b), ok
}

func (m *mockFileSystemManager) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isFile := m.files[path]
	return isFile || m.dirs[path]
}

func (m *mockFileSystemManager) EnsureDir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *mockFileSystemManager) CopyFile(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.copyErr != nil {
		return m.copyErr
	}
	data, ok := m.files[src]
	if !ok {
		return errors.New("source not found")
	}
	if !m.dirs[filepath.Dir(dst)] {
		return errors.New("destination dir not found")
	}
	m.files[dst] = append([]byte(nil), data...)
	m.copies++
	return nil
}

func (m *mockFileSystemManager) RemoveFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	if _, ok := m.files[path]; !ok {
		return errors.New("file not found")
	}
	delete(m.files, path)
	return nil
}

func (m *mockFileSystemManager) RemoveDir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[path] {
		return errors.New("dir not found")
	}
	for f := range m.files {
		if strings.HasPrefix(f, path+string(filepath.Separator)) {
			return errors.New("directory not empty")
		}
	}
	delete(m.dirs, path)
	return nil
}

var _ domain.FileSystemManager = (*mockFileSystemManager)(nil)

// mockAutostart implements domain.AutostartManager with injectable errors.
type mockAutostart struct {
	record        *domain.InstalledRecord
	installedErr  error
	registerErr   error
	unregistered  int
	registerCalls int
}

func (m *mockAutostart) Installed() (*domain.InstalledRecord, error) {
	return m.record, m.installedErr
}

func (m *mockAutostart) Register(execPath string, scope domain.Scope) (*domain.InstalledRecord, error) {
	m.registerCalls++
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.record = &domain.InstalledRecord{Path: execPath, Scope: scope, Raw: `"` + execPath + `"`}
	m.installedErr = nil
	return m.record, nil
}

func (m *mockAutostart) Unregister() error {
	m.unregistered++
	m.record = nil
	m.installedErr = nil
	return nil
}

var _ domain.AutostartManager = (*mockAutostart)(nil)
