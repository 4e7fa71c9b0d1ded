//go:build ffmpeg

package avformat

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astiav"

	"tscut/domain/media"
)

// Demuxer reads an input opened by libavformat
type Demuxer struct {
	fc     *astiav.FormatContext
	pkt    *astiav.Packet
	tracks []media.Track
}

func openDemuxer(path string) (*Demuxer, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("failed to allocate format context")
	}

	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, err
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("failed to find stream info: %w", err)
	}

	d := &Demuxer{fc: fc, pkt: astiav.AllocPacket()}
	for _, s := range fc.Streams() {
		params := newParams(s.CodecParameters())
		d.tracks = append(d.tracks, media.Track{
			Index:    s.Index(),
			ID:       s.ID(),
			Kind:     params.Kind(),
			TimeBase: rational(s.TimeBase()),
			Params:   params,
		})
	}
	return d, nil
}

// Tracks implements media.Demuxer
func (d *Demuxer) Tracks() []media.Track {
	tracks := make([]media.Track, len(d.tracks))
	copy(tracks, d.tracks)
	return tracks
}

// Metadata implements media.Demuxer
func (d *Demuxer) Metadata() media.Metadata {
	return readDictionary(d.fc.Metadata())
}

// Duration implements media.Demuxer
func (d *Demuxer) Duration() time.Duration {
	us := d.fc.Duration()
	if us <= 0 || us == astiav.NoPtsValue {
		return 0
	}
	return time.Duration(us) * time.Microsecond
}

// BestTrack implements media.Demuxer
func (d *Demuxer) BestTrack(kind media.Kind) int {
	s, _, err := d.fc.FindBestStream(mediaType(kind), -1, -1)
	if err != nil || s == nil {
		return -1
	}
	return s.Index()
}

// ReadPacket implements media.Demuxer
func (d *Demuxer) ReadPacket() (*media.Packet, error) {
	if err := d.fc.ReadFrame(d.pkt); err != nil {
		if errors.Is(err, astiav.ErrEof) {
			return nil, io.EOF
		}
		return nil, err
	}
	defer d.pkt.Unref()

	return &media.Packet{
		TrackIndex: d.pkt.StreamIndex(),
		PTS:        d.pkt.Pts(),
		DTS:        d.pkt.Dts(),
		Duration:   d.pkt.Duration(),
		Keyframe:   d.pkt.Flags().Has(astiav.PacketFlagKey),
		Payload:    append([]byte(nil), d.pkt.Data()...),
		Pos:        d.pkt.Pos(),
	}, nil
}

// Close implements media.Demuxer
func (d *Demuxer) Close() error {
	if d.fc == nil {
		return nil
	}
	d.pkt.Free()
	d.fc.CloseInput()
	d.fc.Free()
	d.fc = nil
	return nil
}

func readDictionary(dict *astiav.Dictionary) media.Metadata {
	if dict == nil {
		return nil
	}

	var md media.Metadata
	flags := astiav.NewDictionaryFlags(astiav.DictionaryFlagIgnoreSuffix)
	var e *astiav.DictionaryEntry
	for {
		if e = dict.Get("", e, flags); e == nil {
			break
		}
		md = append(md, media.Entry{Key: e.Key(), Value: e.Value()})
	}
	return md
}

var _ media.Demuxer = (*Demuxer)(nil)
