package remux

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// DirectoryMaker creates output directories
type DirectoryMaker interface {
	// EnsureDir creates path if missing and reports whether it did
	EnsureDir(path string) (created bool, err error)
}

// Renamer moves finished outputs to their final names
type Renamer interface {
	// Rename must be atomic when both paths are on one filesystem
	Rename(oldPath, newPath string) error
}
