package infra

import (
	"io"
	"os"
	"path/filepath"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// FileSystemManagerImpl implements domain.FileSystemManager.
type FileSystemManagerImpl struct{}

// NewFileSystemManager creates a new filesystem manager.
func NewFileSystemManager() domain.FileSystemManager {
	return &FileSystemManagerImpl{}
}

// Exists checks if a path exists.
func (fm *FileSystemManagerImpl) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory and its parents if missing.
func (fm *FileSystemManagerImpl) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CopyFile copies src to dst using atomic write pattern.
// Writes to temp file first, syncs, chmods, then renames to avoid corruption.
func (fm *FileSystemManagerImpl) CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	// Temp file in the same directory so the rename stays on one volume
	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".auto_dark_mode-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmpFile, sourceFile); err != nil {
		tmpFile.Close()
		return err
	}

	if err = tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpPath, 0755); err != nil {
		return err
	}

	if err = os.Rename(tmpPath, dst); err != nil {
		return err
	}

	success = true
	return nil
}

// RemoveFile removes a single file.
func (fm *FileSystemManagerImpl) RemoveFile(path string) error {
	return os.Remove(path)
}

// RemoveDir removes an empty directory. It fails if the directory has content.
func (fm *FileSystemManagerImpl) RemoveDir(path string) error {
	return os.Remove(path)
}

// Ensure FileSystemManagerImpl implements domain.FileSystemManager.
var _ domain.FileSystemManager = (*FileSystemManagerImpl)(nil)
