package pkg

import (
	"fmt"
	"os"
	"strings"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// PathExists returns whether the given file or directory exists.
// A path of the other kind is reported as an error.
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	switch {
	case isDir && !stat.IsDir():
		return false, fmt.Errorf("%s is not a directory", path)
	case !isDir && stat.IsDir():
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// EnsureDir creates dir (and parents) unless it already exists.
func EnsureDir(dir string) error {
	exists, err := PathExists(dir, true)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}

// CleanVersion trims the output of git rev-parse and similar.
func CleanVersion(raw []byte) string {
	return strings.TrimSpace(BytesToString(raw))
}
