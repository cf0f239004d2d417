// Package filex holds small filesystem helpers of the console.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds a file read with ReadUpload.
const MaxUploadSize = 20 << 20

var ErrTooLarge = errors.New("file too large")

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ReadUpload reads a file to attach to a form and returns its base name
// and contents. Directories and files over MaxUploadSize are refused.
func ReadUpload(path string) (string, []byte, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return "", nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxUploadSize {
		return "", nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}
