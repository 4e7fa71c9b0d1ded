package remux

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tscut/domain/media"
	"tscut/domain/remux"
)

// SplitResult contains the result of a split operation
type SplitResult struct {
	// Outputs holds the final path of every output, by audio track order
	Outputs []string
	Stats   []OutputStats
}

// Count returns the number of outputs created
func (r *SplitResult) Count() int {
	return len(r.Outputs)
}

// SplitInput represents the input for a split operation
type SplitInput struct {
	InputPath string
	BaseDir   string
	Segment   string
}

// SplitService writes every audio track of an input to its own container
type SplitService struct {
	library     media.Library
	dirs        remux.DirectoryMaker
	renamer     remux.Renamer
	log         logrus.FieldLogger
	preserveIDs bool
	layout      remux.SplitLayout
}

// NewSplitService creates a new SplitService
func NewSplitService(library media.Library, dirs remux.DirectoryMaker, renamer remux.Renamer, opts ...ServiceOption) *SplitService {
	o := newServiceOptions(opts)
	return &SplitService{
		library:     library,
		dirs:        dirs,
		renamer:     renamer,
		log:         o.log,
		preserveIDs: o.preserveIDs,
		layout:      o.layout,
	}
}

// Split copies audio track n of the input, in input order, to
// <base>/<prefix><n>/<segment>. Outputs are written under a temporary name
// and renamed only once every trailer has been written.
func (s *SplitService) Split(ctx context.Context, input SplitInput) (*SplitResult, error) {
	layout := s.layout
	layout.BaseDir = input.BaseDir
	layout.Segment = input.Segment

	req, err := remux.NewSplitRequest(input.InputPath, layout)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"op":     "split",
		"input":  req.InputPath,
	})

	demuxer, err := s.library.OpenInput(ctx, req.InputPath)
	if err != nil {
		return nil, media.NewError(media.OpenInputFailure, "open input", req.InputPath, err)
	}
	defer demuxer.Close()

	tracks := demuxer.Tracks()
	classes := remux.Classify(tracks)
	mapping := remux.RouteSplit(classes)

	finalizer := NewFinalizer(s.renamer)
	outputs := make([]*Assembler, 0, mapping.Outputs())
	defer func() {
		for _, out := range outputs {
			out.Close()
		}
	}()

	for n := 0; n < mapping.Outputs(); n++ {
		dir := req.Layout.OutputDir(n)
		created, err := s.dirs.EnsureDir(dir)
		if err != nil {
			return nil, media.NewError(media.OpenOutputFailure, "create directory", dir, err)
		}
		if created {
			log.Infof("Create %s", dir)
		}

		temp := req.Layout.TempPath(n)
		muxer, err := s.library.CreateOutput(ctx, temp)
		if err != nil {
			return nil, media.NewError(media.OpenOutputFailure, "create output", temp, err)
		}
		out := NewAssembler(muxer, temp, log, s.preserveIDs)
		outputs = append(outputs, out)

		for _, idx := range mapping.Inputs(n) {
			if _, err := out.AddTrack(tracks[idx]); err != nil {
				return nil, err
			}
		}
		finalizer.Stage(temp, req.Layout.FinalPath(n))
	}

	metadata := demuxer.Metadata()
	for _, out := range outputs {
		out.CopyMetadata(metadata)
		if err := out.WriteHeader(); err != nil {
			return nil, err
		}
	}

	for {
		pkt, err := demuxer.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.WithError(err).Warn("Stopped reading input")
			break
		}

		route := mapping.Route(pkt.TrackIndex)
		if route.Dropped() {
			continue
		}
		// write failures are counted by the assembler and do not stop the split
		_ = outputs[route.Output].Write(pkt, route.Track, classes.TimeBase(pkt.TrackIndex))
	}

	var trailerErr error
	for n, out := range outputs {
		if err := out.Finish(); err != nil {
			log.WithError(err).Error("Output left under its temporary name")
			if trailerErr == nil {
				trailerErr = err
			}
			continue
		}
		finalizer.MarkComplete(n)
	}
	if trailerErr != nil {
		return nil, trailerErr
	}

	stats := make([]OutputStats, 0, len(outputs))
	for _, out := range outputs {
		if err := out.Close(); err != nil {
			return nil, fmt.Errorf("failed to close %s: %w", out.Path(), err)
		}
		stats = append(stats, out.Stats())
	}

	finals, err := finalizer.Commit()
	if err != nil {
		return nil, err
	}

	log.WithField("outputs", len(finals)).Info("Split finished")

	return &SplitResult{Outputs: finals, Stats: stats}, nil
}
