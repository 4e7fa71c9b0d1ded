package filesystem

import (
	"fmt"
	"os"

	"tscut/domain/remux"
)

// Checker implements the remux filesystem ports using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates path and its parents when missing
func (c *Checker) EnsureDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", path)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return false, err
	}
	return true, nil
}

// Rename moves oldPath to newPath, replacing any file already there
func (c *Checker) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

var (
	_ remux.FileChecker    = (*Checker)(nil)
	_ remux.DirectoryMaker = (*Checker)(nil)
	_ remux.Renamer        = (*Checker)(nil)
)
