package memory

import (
	"io"
	"math"
	"sort"
	"time"

	"tscut/domain/media"
)

// Input is the content of an in-memory input container
type Input struct {
	Tracks   []media.Track
	Metadata media.Metadata
	Duration time.Duration
	Packets  []media.Packet

	// ReadErr is returned once every packet has been read, instead of io.EOF
	ReadErr error
}

// Stream describes one synthesized track
type Stream struct {
	Kind     media.Kind
	Codec    string
	Tag      uint32
	TimeBase media.Rational

	// Start and Interval are in seconds
	Start    float64
	Interval float64

	// KeyEvery marks every n-th packet as a keyframe; <= 1 marks all of them
	KeyEvery int
}

// Synthesize builds an input holding packets of every stream up to the
// given duration in seconds, interleaved by presentation time. Track IDs
// start at 0x100 like elementary PIDs.
func Synthesize(duration float64, streams ...Stream) *Input {
	in := &Input{Duration: time.Duration(duration * float64(time.Second))}

	for i, s := range streams {
		tb := s.TimeBase
		if !tb.Valid() {
			tb = media.NewRational(1, 90000)
		}
		in.Tracks = append(in.Tracks, media.Track{
			Index:    i,
			ID:       0x100 + i,
			Kind:     s.Kind,
			TimeBase: tb,
			Params:   NewParams(s.Kind, s.Codec, s.Tag),
		})

		if s.Interval <= 0 {
			continue
		}
		for n := 0; ; n++ {
			t := s.Start + float64(n)*s.Interval
			if t >= duration {
				break
			}
			ts := int64(math.Round(t * float64(tb.Den) / float64(tb.Num)))
			in.Packets = append(in.Packets, media.Packet{
				TrackIndex: i,
				PTS:        ts,
				DTS:        ts,
				Duration:   int64(math.Round(s.Interval * float64(tb.Den) / float64(tb.Num))),
				Keyframe:   s.KeyEvery <= 1 || n%s.KeyEvery == 0,
				Payload:    []byte{byte(i), byte(n), byte(n >> 8)},
				Pos:        int64(len(in.Packets)) * 188,
			})
		}
	}

	sort.SliceStable(in.Packets, func(a, b int) bool {
		pa, pb := in.Packets[a], in.Packets[b]
		ta := in.Tracks[pa.TrackIndex].TimeBase.Seconds(pa.PTS)
		tb := in.Tracks[pb.TrackIndex].TimeBase.Seconds(pb.PTS)
		if ta != tb {
			return ta < tb
		}
		return pa.TrackIndex < pb.TrackIndex
	})

	return in
}

// demuxer reads an Input once, front to back
type demuxer struct {
	in     *Input
	next   int
	closed bool
}

func (d *demuxer) Tracks() []media.Track {
	tracks := make([]media.Track, len(d.in.Tracks))
	copy(tracks, d.in.Tracks)
	return tracks
}

func (d *demuxer) Metadata() media.Metadata {
	return d.in.Metadata.Clone()
}

func (d *demuxer) Duration() time.Duration {
	return d.in.Duration
}

func (d *demuxer) BestTrack(kind media.Kind) int {
	for _, t := range d.in.Tracks {
		if t.Kind == kind {
			return t.Index
		}
	}
	return -1
}

func (d *demuxer) ReadPacket() (*media.Packet, error) {
	if d.next >= len(d.in.Packets) {
		if d.in.ReadErr != nil {
			return nil, d.in.ReadErr
		}
		return nil, io.EOF
	}

	pkt := d.in.Packets[d.next]
	pkt.Payload = append([]byte(nil), pkt.Payload...)
	d.next++
	return &pkt, nil
}

func (d *demuxer) Close() error {
	d.closed = true
	return nil
}

var _ media.Demuxer = (*demuxer)(nil)
