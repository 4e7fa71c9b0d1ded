package memory

import (
	"fmt"
	"os"

	"tscut/domain/media"
)

// Output is an in-memory output container
type Output struct {
	path     string
	file     *os.File
	timeBase media.Rational
	plan     *failurePlan

	tracks   []media.Track
	metadata media.Metadata
	packets  []media.Packet
	calls    int

	headerWritten  bool
	trailerWritten bool
	closed         bool
}

// AddTrack implements media.Muxer
func (o *Output) AddTrack(params media.CodecParameters, id int) (*media.Track, error) {
	if o.headerWritten {
		return nil, media.ErrHeaderWritten
	}
	if o.plan.addTrack != nil {
		return nil, o.plan.addTrack
	}

	idx := len(o.tracks)
	if id < 0 {
		id = idx + 1
	}
	o.tracks = append(o.tracks, media.Track{
		Index:  idx,
		ID:     id,
		Kind:   params.Kind(),
		Params: params.Clone(),
	})
	return &o.tracks[idx], nil
}

// SetMetadata implements media.Muxer
func (o *Output) SetMetadata(md media.Metadata) {
	o.metadata = md.Clone()
}

// WriteHeader implements media.Muxer
func (o *Output) WriteHeader() error {
	if o.headerWritten {
		return media.ErrHeaderWritten
	}
	if len(o.tracks) == 0 {
		return media.ErrNoTracks
	}
	if o.plan.header != nil {
		return o.plan.header
	}

	for i := range o.tracks {
		o.tracks[i].TimeBase = o.timeBase
	}
	o.headerWritten = true
	return nil
}

// TimeBase implements media.Muxer
func (o *Output) TimeBase(index int) media.Rational {
	if index < 0 || index >= len(o.tracks) {
		return media.Rational{}
	}
	return o.tracks[index].TimeBase
}

// WritePacket implements media.Muxer
func (o *Output) WritePacket(pkt *media.Packet) error {
	if !o.headerWritten {
		return media.ErrHeaderNotWritten
	}
	if o.trailerWritten {
		return media.ErrTrailerWritten
	}
	if pkt.TrackIndex < 0 || pkt.TrackIndex >= len(o.tracks) {
		return media.ErrTrackOutOfRange
	}

	n := o.calls
	o.calls++
	if err := o.plan.packets[n]; err != nil {
		return err
	}

	cp := *pkt
	cp.Payload = append([]byte(nil), pkt.Payload...)
	o.packets = append(o.packets, cp)
	return nil
}

// WriteTrailer implements media.Muxer. The file on disk receives a short
// summary of the container.
func (o *Output) WriteTrailer() error {
	if !o.headerWritten {
		return media.ErrHeaderNotWritten
	}
	if o.trailerWritten {
		return media.ErrTrailerWritten
	}
	if o.plan.trailer != nil {
		return o.plan.trailer
	}

	for _, t := range o.tracks {
		if _, err := fmt.Fprintf(o.file, "track %d %s %s packets=%d\n",
			t.Index, t.Kind, t.Params.CodecName(), len(o.PacketsFor(t.Index))); err != nil {
			return err
		}
	}
	o.trailerWritten = true
	return nil
}

// Close implements media.Muxer
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return o.file.Close()
}

// Path returns the path the output was created at
func (o *Output) Path() string { return o.path }

// Tracks returns the output tracks
func (o *Output) Tracks() []media.Track { return o.tracks }

// Metadata returns the container metadata set on the output
func (o *Output) Metadata() media.Metadata { return o.metadata }

// Packets returns every packet written, in write order
func (o *Output) Packets() []media.Packet { return o.packets }

// PacketsFor returns the packets written to one track, in write order
func (o *Output) PacketsFor(track int) []media.Packet {
	var out []media.Packet
	for _, p := range o.packets {
		if p.TrackIndex == track {
			out = append(out, p)
		}
	}
	return out
}

// HeaderWritten reports whether the header was written
func (o *Output) HeaderWritten() bool { return o.headerWritten }

// TrailerWritten reports whether the trailer was written
func (o *Output) TrailerWritten() bool { return o.trailerWritten }

// Closed reports whether the output was closed
func (o *Output) Closed() bool { return o.closed }

var _ media.Muxer = (*Output)(nil)
