//go:build ffmpeg

package avformat

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"tscut/domain/media"
)

// Muxer writes an output through libavformat. The container is guessed
// from the file name.
type Muxer struct {
	path string
	fc   *astiav.FormatContext
	ioc  *astiav.IOContext
	pkt  *astiav.Packet
	dict *astiav.Dictionary

	headerWritten  bool
	trailerWritten bool
}

func createMuxer(path string) (*Muxer, error) {
	fc, err := astiav.AllocOutputFormatContext(nil, "", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrUnsupportedFormat, err)
	}
	if fc == nil {
		return nil, media.ErrUnsupportedFormat
	}

	m := &Muxer{path: path, fc: fc, pkt: astiav.AllocPacket()}
	if !fc.OutputFormat().Flags().Has(astiav.IOFormatFlagNofile) {
		ioc, err := astiav.OpenIOContext(path, astiav.NewIOContextFlags(astiav.IOContextFlagWrite), nil, nil)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.ioc = ioc
		fc.SetPb(ioc)
	}
	return m, nil
}

// AddTrack implements media.Muxer. The returned parameters belong to the
// output stream, so changes to them apply to the written container.
func (m *Muxer) AddTrack(params media.CodecParameters, id int) (*media.Track, error) {
	if m.headerWritten {
		return nil, media.ErrHeaderWritten
	}
	src, ok := params.(*Params)
	if !ok {
		return nil, media.ErrForeignParameters
	}

	s := m.fc.NewStream(nil)
	if s == nil {
		return nil, errors.New("failed to create output stream")
	}
	if err := src.cp.Copy(s.CodecParameters()); err != nil {
		return nil, fmt.Errorf("failed to copy codec parameters: %w", err)
	}
	if id >= 0 {
		s.SetID(id)
	}

	out := newParams(s.CodecParameters())
	return &media.Track{
		Index:  s.Index(),
		ID:     s.ID(),
		Kind:   out.Kind(),
		Params: out,
	}, nil
}

// SetMetadata implements media.Muxer
func (m *Muxer) SetMetadata(md media.Metadata) {
	if len(md) == 0 {
		return
	}
	if m.dict == nil {
		m.dict = astiav.NewDictionary()
	}
	for _, e := range md {
		m.dict.Set(e.Key, e.Value, astiav.NewDictionaryFlags())
	}
	m.fc.SetMetadata(m.dict)
}

// WriteHeader implements media.Muxer
func (m *Muxer) WriteHeader() error {
	if m.headerWritten {
		return media.ErrHeaderWritten
	}
	if len(m.fc.Streams()) == 0 {
		return media.ErrNoTracks
	}
	if err := m.fc.WriteHeader(nil); err != nil {
		return err
	}
	m.headerWritten = true
	return nil
}

// TimeBase implements media.Muxer
func (m *Muxer) TimeBase(index int) media.Rational {
	streams := m.fc.Streams()
	if !m.headerWritten || index < 0 || index >= len(streams) {
		return media.Rational{}
	}
	return rational(streams[index].TimeBase())
}

// WritePacket implements media.Muxer
func (m *Muxer) WritePacket(pkt *media.Packet) error {
	if !m.headerWritten {
		return media.ErrHeaderNotWritten
	}
	if m.trailerWritten {
		return media.ErrTrailerWritten
	}
	if pkt.TrackIndex < 0 || pkt.TrackIndex >= len(m.fc.Streams()) {
		return media.ErrTrackOutOfRange
	}

	if err := m.pkt.FromData(pkt.Payload); err != nil {
		return fmt.Errorf("failed to fill packet: %w", err)
	}
	m.pkt.SetStreamIndex(pkt.TrackIndex)
	m.pkt.SetPts(pkt.PTS)
	m.pkt.SetDts(pkt.DTS)
	m.pkt.SetDuration(pkt.Duration)
	m.pkt.SetPos(pkt.Pos)
	if pkt.Keyframe {
		m.pkt.SetFlags(astiav.NewPacketFlags(astiav.PacketFlagKey))
	}

	// the muxer takes ownership of the packet data
	err := m.fc.WriteInterleavedFrame(m.pkt)
	m.pkt.Unref()
	return err
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
	return m.fc.WriteTrailer()
}

// Close implements media.Muxer
func (m *Muxer) Close() error {
	if m.fc == nil {
		return nil
	}

	var err error
	if m.ioc != nil {
		err = m.ioc.Close()
	}
	if m.dict != nil {
		m.dict.Free()
	}
	m.pkt.Free()
	m.fc.Free()
	m.fc = nil
	return err
}

var _ media.Muxer = (*Muxer)(nil)
