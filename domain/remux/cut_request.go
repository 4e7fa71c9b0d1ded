package remux

import (
	"fmt"
	"math"
	"path/filepath"
)

// CutRequest represents a request to cut a keyframe-aligned segment
type CutRequest struct {
	InputPath  string
	OutputPath string

	// Skip is the minimum offset of the segment start, in seconds from
	// the first video packet
	Skip float64

	// Duration bounds the segment length in seconds; <= 0 copies to the end
	Duration float64
}

// NewCutRequest creates a validated CutRequest
func NewCutRequest(inputPath, outputPath string, skip, duration float64) (*CutRequest, error) {
	req := &CutRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Skip:       skip,
		Duration:   duration,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the cut request is valid
func (r *CutRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("input path is required")
	}

	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}

	if filepath.Clean(r.InputPath) == filepath.Clean(r.OutputPath) {
		return fmt.Errorf("output path %s must differ from input path", r.OutputPath)
	}

	if math.IsNaN(r.Skip) || math.IsInf(r.Skip, 0) || r.Skip < 0 {
		return fmt.Errorf("skip %v must be a finite number >= 0", r.Skip)
	}

	if math.IsNaN(r.Duration) || math.IsInf(r.Duration, 0) {
		return fmt.Errorf("duration %v must be a finite number", r.Duration)
	}

	return nil
}

// Bounded returns true if the segment length is limited
func (r *CutRequest) Bounded() bool {
	return r.Duration > 0
}
