package cmd

import (
	"os"

	"tscut/infrastructure/config"
)

// diskDirs creates directories and renames files on disk
type diskDirs struct{}

func (d *diskDirs) EnsureDir(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, os.MkdirAll(path, 0755)
}

func (d *diskDirs) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func defaultSplitLayout() config.SplitConfig {
	return config.Default().Split
}
