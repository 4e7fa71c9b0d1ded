package media

import "math"

// NoTimestamp marks an absent presentation or decode timestamp
const NoTimestamp int64 = math.MinInt64

// UnknownPosition marks a packet whose byte offset is meaningless
const UnknownPosition int64 = -1

// Packet is one compressed access unit. Its track association and
// timestamps are rewritten in place before it reaches an output.
type Packet struct {
	TrackIndex int
	PTS        int64
	DTS        int64
	Duration   int64
	Keyframe   bool
	Payload    []byte
	Pos        int64
}

// HasPTS returns true if the packet carries a presentation timestamp
func (p *Packet) HasPTS() bool {
	return p.PTS != NoTimestamp
}

// HasDTS returns true if the packet carries a decode timestamp
func (p *Packet) HasDTS() bool {
	return p.DTS != NoTimestamp
}

// Time returns the timestamp used to place the packet on the timeline:
// PTS when present, DTS otherwise, 0 when neither is known
func (p *Packet) Time() int64 {
	if p.HasPTS() {
		return p.PTS
	}
	if p.HasDTS() {
		return p.DTS
	}
	return 0
}
