package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && info.IsDir()
}

// EnsureParentDir creates the directory holding path when it is missing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." || DirExists(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// SplitList splits a space or tab separated config value, dropping empties.
func SplitList(raw string) []string {
	return strings.Fields(raw)
}
