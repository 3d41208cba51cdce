// Package utils provides utility functions
package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectory ensures a directory exists
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// RemoveAll removes a path and all its contents
func RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ListDirectory lists files in a directory
func ListDirectory(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// ContainsFileWithSuffix walks root and reports whether any regular file
// carries the given name suffix. Directories that cannot be read are
// skipped rather than failing the walk.
func ContainsFileWithSuffix(root, suffix string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// SubdirectoriesWithFile returns the immediate subdirectories of root that
// contain the named file, sorted by os.ReadDir's lexical order.
func SubdirectoriesWithFile(root, filename string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if FileExists(filepath.Join(root, entry.Name(), filename)) {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs
}
