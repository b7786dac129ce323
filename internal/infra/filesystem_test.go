package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemManager_CopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.exe")
	require.NoError(t, os.WriteFile(src, []byte("binary v1"), 0644))

	dstDir := filepath.Join(tmpDir, "install")
	dst := filepath.Join(dstDir, "auto_dark_mode.exe")

	fm := NewFileSystemManager()
	require.NoError(t, fm.EnsureDir(dstDir))
	require.NoError(t, fm.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "binary v1", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dstDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSystemManager_CopyFileOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.exe")
	dst := filepath.Join(tmpDir, "dst.exe")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old contents"), 0644))

	fm := NewFileSystemManager()
	require.NoError(t, fm.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileSystemManager_CopyFileMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	fm := NewFileSystemManager()

	err := fm.CopyFile(filepath.Join(tmpDir, "missing.exe"), filepath.Join(tmpDir, "dst.exe"))

	assert.Error(t, err)
	assert.False(t, fm.Exists(filepath.Join(tmpDir, "dst.exe")))
}

func TestFileSystemManager_RemoveDirIsNotRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "auto_dark_mode")
	file := filepath.Join(dir, "auto_dark_mode.exe")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	fm := NewFileSystemManager()

	assert.Error(t, fm.RemoveDir(dir), "non-empty directory must not be removed")
	assert.True(t, fm.Exists(file))

	require.NoError(t, fm.RemoveFile(file))
	require.NoError(t, fm.RemoveDir(dir))
	assert.False(t, fm.Exists(dir))
}
