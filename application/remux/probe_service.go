package remux

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// ProbeReport describes an input container
type ProbeReport struct {
	Path     string
	Metadata media.Metadata
	Tracks   []media.Track
	Duration time.Duration

	// Best track index per kind, -1 when the input has none
	BestVideo    int
	BestAudio    int
	BestSubtitle int
}

// Lines renders the report as human-readable diagnostic lines
func (r *ProbeReport) Lines() []string {
	lines := make([]string, 0, len(r.Metadata)+4)
	for _, e := range r.Metadata {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Key, e.Value))
	}

	if r.BestVideo >= 0 {
		lines = append(lines, fmt.Sprintf("Best video stream index: %d", r.BestVideo))
	}
	if r.BestAudio >= 0 {
		lines = append(lines, fmt.Sprintf("Best audio stream index: %d", r.BestAudio))
	}
	if r.BestSubtitle >= 0 {
		lines = append(lines, fmt.Sprintf("Best subtitle stream index: %d", r.BestSubtitle))
	}

	lines = append(lines, fmt.Sprintf("duration (seconds): %.2f", r.Duration.Seconds()))
	return lines
}

// ProbeService inspects media containers
type ProbeService struct {
	library media.Library
	log     logrus.FieldLogger
}

// NewProbeService creates a new ProbeService
func NewProbeService(library media.Library, opts ...ServiceOption) *ProbeService {
	o := newServiceOptions(opts)
	return &ProbeService{library: library, log: o.log}
}

// Probe opens the input and reports its metadata, best tracks and duration
func (s *ProbeService) Probe(ctx context.Context, path string) (*ProbeReport, error) {
	if path == "" {
		return nil, fmt.Errorf("input path is required")
	}

	demuxer, err := s.library.OpenInput(ctx, path)
	if err != nil {
		return nil, media.NewError(media.OpenInputFailure, "open input", path, err)
	}
	defer demuxer.Close()

	report := &ProbeReport{
		Path:         path,
		Metadata:     demuxer.Metadata(),
		Tracks:       demuxer.Tracks(),
		Duration:     demuxer.Duration(),
		BestVideo:    demuxer.BestTrack(media.KindVideo),
		BestAudio:    demuxer.BestTrack(media.KindAudio),
		BestSubtitle: demuxer.BestTrack(media.KindSubtitle),
	}

	s.log.WithFields(logrus.Fields{
		"input":  path,
		"tracks": len(report.Tracks),
	}).Debug("Probed input")

	return report, nil
}
