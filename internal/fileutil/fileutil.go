package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TempSuffix is appended to a destination path to name its staging file.
const TempSuffix = ".tmp"

// WriteFileAtomic writes data to path+TempSuffix in the destination directory,
// syncs it, and renames it over path. On any failure the staging file is
// removed and an existing file at path is left untouched. Missing parent
// directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	tmpPath := path + TempSuffix
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// RemoveIfExists deletes path, reporting whether a file was removed. A
// missing file is not an error.
func RemoveIfExists(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
