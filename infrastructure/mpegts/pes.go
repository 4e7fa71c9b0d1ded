package mpegts

import "tscut/domain/media"

const (
	ptsWrap = int64(1) << 33
	ptsHalf = ptsWrap / 2
)

// elementaryStream assembles the PES units of one PID
type elementaryStream struct {
	track  int
	pid    uint16
	params *Params

	unit *pesUnit

	// 33-bit timestamp unwrapping
	epoch   int64
	last    int64
	hasLast bool
}

type pesUnit struct {
	pts  int64
	dts  int64
	pos  int64
	data []byte
}

// start begins a new PES unit from a packet with the unit start indicator
// set and returns the unit it completes, if any
func (s *elementaryStream) start(raw []byte, pos int64) *pesUnit {
	done := s.unit
	s.unit = nil

	h, ok := parsePESHeader(raw)
	if !ok {
		return done
	}

	u := &pesUnit{
		pts:  media.NoTimestamp,
		dts:  media.NoTimestamp,
		pos:  pos,
		data: append(make([]byte, 0, 4096), raw[h.payload:]...),
	}
	if h.hasPTS {
		u.pts = s.unwrap(h.pts)
		u.dts = u.pts
	}
	if h.hasDTS {
		u.dts = s.unwrap(h.dts)
	}
	s.unit = u

	return done
}

// extend appends the payload of a continuation packet
func (s *elementaryStream) extend(payload []byte) {
	if s.unit != nil {
		s.unit.data = append(s.unit.data, payload...)
	}
}

// flush returns the unit in progress
func (s *elementaryStream) flush() *pesUnit {
	u := s.unit
	s.unit = nil
	return u
}

func (s *elementaryStream) unwrap(ts int64) int64 {
	ts += s.epoch
	if s.hasLast {
		if ts < s.last-ptsHalf {
			s.epoch += ptsWrap
			ts += ptsWrap
		} else if ts > s.last+ptsHalf && ts >= ptsWrap {
			// a late timestamp from before the wrap
			ts -= ptsWrap
		}
	}
	if ts > s.last || !s.hasLast {
		s.last = ts
	}
	s.hasLast = true
	return ts
}

func (s *elementaryStream) packet(u *pesUnit) *media.Packet {
	return &media.Packet{
		TrackIndex: s.track,
		PTS:        u.pts,
		DTS:        u.dts,
		Keyframe:   isKeyframe(s.params.codec, u.data),
		Payload:    u.data,
		Pos:        u.pos,
	}
}
