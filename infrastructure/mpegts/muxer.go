package mpegts

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// OutputTimeBase is the clock of every native output track. The gomedia
// muxers take millisecond timestamps.
var OutputTimeBase = media.NewRational(1, 1000)

// format is one container a Muxer can write
type format interface {
	name() string

	// accept checks that a track with params can join the tracks added so far
	accept(existing []media.Track, params media.CodecParameters) error

	begin(f *os.File, tracks []media.Track) error
	write(track int, data []byte, pts, dts uint64) error
	end() error
}

// Muxer writes a native container. The underlying gomedia muxer is only
// created when the header is written, once the track list is final.
type Muxer struct {
	path   string
	file   *os.File
	format format
	log    logrus.FieldLogger

	tracks   []media.Track
	metadata media.Metadata
	last     []uint64

	headerWritten  bool
	trailerWritten bool
	closed         bool
}

func newMuxer(path string, f format, log logrus.FieldLogger) (*Muxer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &Muxer{
		path:   path,
		file:   file,
		format: f,
		log:    log.WithFields(logrus.Fields{"output": path, "format": f.name()}),
	}, nil
}

// AddTrack implements media.Muxer
func (m *Muxer) AddTrack(params media.CodecParameters, id int) (*media.Track, error) {
	if m.headerWritten {
		return nil, media.ErrHeaderWritten
	}
	if err := m.format.accept(m.tracks, params); err != nil {
		return nil, err
	}

	if id >= 0 {
		m.log.WithField("id", id).Debug("Stream identifiers are assigned by the muxer")
	}

	t := media.Track{
		Index:  len(m.tracks),
		ID:     id,
		Kind:   params.Kind(),
		Params: params.Clone(),
	}
	m.tracks = append(m.tracks, t)
	return &t, nil
}

// SetMetadata implements media.Muxer
func (m *Muxer) SetMetadata(md media.Metadata) {
	m.metadata = md.Clone()
	if len(md) > 0 {
		m.log.WithField("entries", len(md)).Debug("Container metadata is not written by native muxers")
	}
}

// WriteHeader implements media.Muxer
func (m *Muxer) WriteHeader() error {
	if m.headerWritten {
		return media.ErrHeaderWritten
	}
	if len(m.tracks) == 0 {
		return media.ErrNoTracks
	}

	if err := m.format.begin(m.file, m.tracks); err != nil {
		return fmt.Errorf("failed to start %s muxer: %w", m.format.name(), err)
	}

	for i := range m.tracks {
		m.tracks[i].TimeBase = OutputTimeBase
	}
	m.last = make([]uint64, len(m.tracks))
	m.headerWritten = true
	return nil
}

// TimeBase implements media.Muxer
func (m *Muxer) TimeBase(index int) media.Rational {
	if !m.headerWritten || index < 0 || index >= len(m.tracks) {
		return media.Rational{}
	}
	return m.tracks[index].TimeBase
}

// WritePacket implements media.Muxer. A missing timestamp is taken from
// the other one, or from the track's previous packet.
func (m *Muxer) WritePacket(pkt *media.Packet) error {
	if !m.headerWritten {
		return media.ErrHeaderNotWritten
	}
	if m.trailerWritten {
		return media.ErrTrailerWritten
	}
	if pkt.TrackIndex < 0 || pkt.TrackIndex >= len(m.tracks) {
		return media.ErrTrackOutOfRange
	}

	pts, dts := pkt.PTS, pkt.DTS
	switch {
	case !pkt.HasPTS() && !pkt.HasDTS():
		pts = int64(m.last[pkt.TrackIndex])
		dts = pts
	case !pkt.HasPTS():
		pts = dts
	case !pkt.HasDTS():
		dts = pts
	}

	p, d := clampMillis(pts), clampMillis(dts)
	if err := m.format.write(pkt.TrackIndex, pkt.Payload, p, d); err != nil {
		return err
	}
	m.last[pkt.TrackIndex] = d
	return nil
}

func clampMillis(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// WriteTrailer implements media.Muxer
func (m *Muxer) WriteTrailer() error {
	if !m.headerWritten {
		return media.ErrHeaderNotWritten
	}
	if m.trailerWritten {
		return media.ErrTrailerWritten
	}
	m.trailerWritten = true

	if err := m.format.end(); err != nil {
		return err
	}
	return m.file.Sync()
}

// Close implements media.Muxer
func (m *Muxer) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.file.Close()
}

// Path returns the file the muxer writes
func (m *Muxer) Path() string {
	return m.path
}

var _ media.Muxer = (*Muxer)(nil)
