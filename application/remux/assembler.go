package remux

import (
	"github.com/sirupsen/logrus"

	"tscut/domain/media"
	"tscut/domain/remux"
)

// OutputStats summarizes what an Assembler wrote
type OutputStats struct {
	Path          string
	Tracks        int
	Written       int
	WriteFailures int
}

// Assembler drives one output container through its lifecycle: tracks,
// metadata, header (once), packets, trailer (once), close.
type Assembler struct {
	muxer       media.Muxer
	path        string
	log         logrus.FieldLogger
	preserveIDs bool

	tracks    []*media.Track
	timeBases []media.Rational

	headerWritten bool
	finished      bool
	closed        bool

	written int
	failed  int
}

// NewAssembler wraps a muxer created at path
func NewAssembler(muxer media.Muxer, path string, log logrus.FieldLogger, preserveIDs bool) *Assembler {
	return &Assembler{
		muxer:       muxer,
		path:        path,
		log:         log.WithField("output", path),
		preserveIDs: preserveIDs,
	}
}

// AddTrack creates an output track from a copy of the input track's
// parameters and clears the container-specific codec tag of the copy.
// It returns the output track index.
func (a *Assembler) AddTrack(src media.Track) (int, error) {
	id := -1
	if a.preserveIDs {
		id = src.ID
	}

	track, err := a.muxer.AddTrack(src.Params, id)
	if err != nil {
		return -1, media.NewError(media.OpenOutputFailure, "add track", a.path, err)
	}
	track.Params.ClearCodecTag()

	a.tracks = append(a.tracks, track)
	a.log.WithFields(logrus.Fields{
		"input_track":  src.Index,
		"output_track": track.Index,
		"codec":        track.Params.CodecName(),
	}).Debug("Added output track")

	return len(a.tracks) - 1, nil
}

// CopyMetadata copies the input container's metadata onto the output
func (a *Assembler) CopyMetadata(md media.Metadata) {
	a.muxer.SetMetadata(md.Clone())
}

// WriteHeader writes the container header and captures the output time
// bases, which muxers may only settle while writing the header
func (a *Assembler) WriteHeader() error {
	if a.headerWritten {
		return nil
	}
	if err := a.muxer.WriteHeader(); err != nil {
		return media.NewError(media.HeaderWriteFailure, "write header", a.path, err)
	}
	a.headerWritten = true

	a.timeBases = make([]media.Rational, len(a.tracks))
	for i, t := range a.tracks {
		a.timeBases[i] = a.muxer.TimeBase(t.Index)
	}
	return nil
}

// Write retargets pkt at an output track, rescales it from the source time
// base and writes it. A failure is recoverable: it is counted and reported
// as a PacketWriteFailure.
func (a *Assembler) Write(pkt *media.Packet, track int, src media.Rational) error {
	if track < 0 || track >= len(a.tracks) {
		a.failed++
		return media.NewError(media.PacketWriteFailure, "write packet", a.path, media.ErrTrackOutOfRange)
	}

	pkt.TrackIndex = a.tracks[track].Index
	dst := media.Rational{}
	if a.headerWritten {
		dst = a.timeBases[track]
	}
	remux.RescalePacket(pkt, src, dst)

	if err := a.muxer.WritePacket(pkt); err != nil {
		a.failed++
		a.log.WithError(err).WithField("track", track).Debug("Dropped packet after write failure")
		return media.NewError(media.PacketWriteFailure, "write packet", a.path, err)
	}

	a.written++
	return nil
}

// Finish writes the trailer once, if the header was written
func (a *Assembler) Finish() error {
	if !a.headerWritten || a.finished {
		return nil
	}
	a.finished = true

	if err := a.muxer.WriteTrailer(); err != nil {
		return media.NewError(media.TrailerWriteFailure, "write trailer", a.path, err)
	}
	return nil
}

// Close releases the output; calling it again has no effect
func (a *Assembler) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.muxer.Close()
}

// Path returns the path the output is written to
func (a *Assembler) Path() string {
	return a.path
}

// Stats returns the output's write counters
func (a *Assembler) Stats() OutputStats {
	return OutputStats{
		Path:          a.path,
		Tracks:        len(a.tracks),
		Written:       a.written,
		WriteFailures: a.failed,
	}
}
