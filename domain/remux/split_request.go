package remux

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Default split layout values
const (
	DefaultDirectoryPrefix  = "audio_"
	DefaultTempMarker       = ".tmp"
	DefaultSegmentExtension = ".ts"
)

// SplitLayout decides where the outputs of a split are written.
// Output n lives in BaseDir/<DirectoryPrefix><n>/ and is written under a
// temporary name until it is finalized.
type SplitLayout struct {
	BaseDir          string
	Segment          string
	DirectoryPrefix  string
	TempMarker       string
	DefaultExtension string
}

// NewSplitLayout creates a layout with the default prefix, marker and extension
func NewSplitLayout(baseDir, segment string) SplitLayout {
	return SplitLayout{
		BaseDir:          baseDir,
		Segment:          segment,
		DirectoryPrefix:  DefaultDirectoryPrefix,
		TempMarker:       DefaultTempMarker,
		DefaultExtension: DefaultSegmentExtension,
	}
}

// Validate checks that the layout can produce distinct temp and final paths
func (l SplitLayout) Validate() error {
	if l.BaseDir == "" {
		return fmt.Errorf("base directory is required")
	}

	if l.Segment == "" {
		return fmt.Errorf("segment name is required")
	}

	if l.Segment == "." || l.Segment == ".." || filepath.Base(l.Segment) != l.Segment {
		return fmt.Errorf("segment name %q must be a plain file name", l.Segment)
	}

	if l.TempMarker == "" {
		return fmt.Errorf("temp marker is required")
	}

	return nil
}

// OutputDir returns the directory of output n
func (l SplitLayout) OutputDir(n int) string {
	return filepath.Join(l.BaseDir, l.DirectoryPrefix+strconv.Itoa(n))
}

// FinalPath returns the path output n has once finalized
func (l SplitLayout) FinalPath(n int) string {
	stem, ext := l.nameParts()
	return filepath.Join(l.OutputDir(n), stem+ext)
}

// TempPath returns the path output n is written to
func (l SplitLayout) TempPath(n int) string {
	stem, ext := l.nameParts()
	return filepath.Join(l.OutputDir(n), stem+l.TempMarker+ext)
}

// nameParts splits the segment name into stem and extension. A segment
// without an extension gets the default one.
func (l SplitLayout) nameParts() (string, string) {
	ext := filepath.Ext(l.Segment)
	if ext == "" || ext == l.Segment {
		ext = l.DefaultExtension
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return l.Segment, ext
	}
	return strings.TrimSuffix(l.Segment, ext), ext
}

// SplitRequest represents a request to split the audio tracks of an input
type SplitRequest struct {
	InputPath string
	Layout    SplitLayout
}

// NewSplitRequest creates a validated SplitRequest
func NewSplitRequest(inputPath string, layout SplitLayout) (*SplitRequest, error) {
	req := &SplitRequest{InputPath: inputPath, Layout: layout}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks that the split request is valid
func (r *SplitRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	return r.Layout.Validate()
}
