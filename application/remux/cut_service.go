package remux

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tscut/domain/media"
	"tscut/domain/remux"
)

// CutResult contains the result of a cut operation
type CutResult struct {
	OutputPath string

	// StreamStart is the time of the first video packet, SegmentStart the
	// time of the keyframe the segment starts at; both in input seconds
	StreamStart  float64
	SegmentStart float64

	SkippedVideo   int
	ForwardedVideo int

	// Started is false when no qualifying keyframe was found
	Started bool
	Halted  bool

	Output OutputStats
}

// CutInput represents the input for a cut operation
type CutInput struct {
	InputPath  string
	OutputPath string

	// Skip and Duration are in seconds; Duration <= 0 copies to the end
	Skip     float64
	Duration float64
}

// CutService cuts keyframe-aligned segments out of media containers
type CutService struct {
	library     media.Library
	log         logrus.FieldLogger
	preserveIDs bool
}

// ServiceOption is a functional option shared by the remux services
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	log         logrus.FieldLogger
	preserveIDs bool
	layout      remux.SplitLayout
}

// WithLogger sets the logger services report through
func WithLogger(log logrus.FieldLogger) ServiceOption {
	return func(o *serviceOptions) {
		o.log = log
	}
}

// WithPreserveStreamIDs keeps input stream identifiers on output tracks so
// that segments cut from one input can be concatenated later
func WithPreserveStreamIDs(preserve bool) ServiceOption {
	return func(o *serviceOptions) {
		o.preserveIDs = preserve
	}
}

// WithSplitLayout overrides the directory prefix, temp marker and default
// extension of split outputs
func WithSplitLayout(prefix, tempMarker, defaultExt string) ServiceOption {
	return func(o *serviceOptions) {
		if prefix != "" {
			o.layout.DirectoryPrefix = prefix
		}
		if tempMarker != "" {
			o.layout.TempMarker = tempMarker
		}
		if defaultExt != "" {
			o.layout.DefaultExtension = defaultExt
		}
	}
}

func newServiceOptions(opts []ServiceOption) serviceOptions {
	o := serviceOptions{
		log:    logrus.StandardLogger(),
		layout: remux.NewSplitLayout("", ""),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewCutService creates a new CutService
func NewCutService(library media.Library, opts ...ServiceOption) *CutService {
	o := newServiceOptions(opts)
	return &CutService{
		library:     library,
		log:         o.log,
		preserveIDs: o.preserveIDs,
	}
}

// Cut writes the part of the input that starts at the first video keyframe
// at least Skip seconds into the stream and lasts at most Duration seconds.
// Video, audio and subtitle tracks are kept.
func (s *CutService) Cut(ctx context.Context, input CutInput) (*CutResult, error) {
	req, err := remux.NewCutRequest(input.InputPath, input.OutputPath, input.Skip, input.Duration)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"op":     "cut",
		"input":  req.InputPath,
	})

	demuxer, err := s.library.OpenInput(ctx, req.InputPath)
	if err != nil {
		return nil, media.NewError(media.OpenInputFailure, "open input", req.InputPath, err)
	}
	defer demuxer.Close()

	tracks := demuxer.Tracks()
	classes := remux.Classify(tracks)
	mapping := remux.RouteCut(classes)

	muxer, err := s.library.CreateOutput(ctx, req.OutputPath)
	if err != nil {
		return nil, media.NewError(media.OpenOutputFailure, "create output", req.OutputPath, err)
	}
	out := NewAssembler(muxer, req.OutputPath, log, s.preserveIDs)
	defer out.Close()

	for _, idx := range mapping.Inputs(0) {
		if _, err := out.AddTrack(tracks[idx]); err != nil {
			return nil, err
		}
	}
	out.CopyMetadata(demuxer.Metadata())

	if err := out.WriteHeader(); err != nil {
		return nil, err
	}

	if mapping.VideoTrack() < 0 {
		log.Warn("Input has no video track; output will contain no packets")
	}

	policy := remux.NewTrimPolicy(req.Skip, req.Duration, mapping.VideoTrack())
	halted := false

	for !halted {
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

		src := classes.TimeBase(pkt.TrackIndex)
		switch policy.Decide(pkt.TrackIndex, src.Seconds(pkt.Time()), pkt.Keyframe) {
		case remux.Drop:
			continue
		case remux.Halt:
			halted = true
		case remux.Forward:
			// write failures are counted by the assembler and do not stop the cut
			_ = out.Write(pkt, route.Track, src)
		}
	}

	state := policy.State()
	log.WithFields(logrus.Fields{
		"stream_start":    remux.FormatOffset(state.StreamStart),
		"segment_start":   remux.FormatOffset(state.SegmentStart),
		"skipped_video":   policy.SkippedVideo(),
		"forwarded_video": policy.ForwardedVideo(),
		"write_failures":  out.Stats().WriteFailures,
	}).Info("Cut finished")

	if err := out.Finish(); err != nil {
		return nil, err
	}

	return &CutResult{
		OutputPath:     req.OutputPath,
		StreamStart:    state.StreamStart,
		SegmentStart:   state.SegmentStart,
		SkippedVideo:   policy.SkippedVideo(),
		ForwardedVideo: policy.ForwardedVideo(),
		Started:        state.Mode != remux.Skipping,
		Halted:         halted,
		Output:         out.Stats(),
	}, nil
}
