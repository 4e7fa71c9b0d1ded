package mpegts

import (
	"io"
	"os"
	"time"

	codec "github.com/yapingcat/gomedia/go-codec"
	mpeg2 "github.com/yapingcat/gomedia/go-mpeg2"
)

// scanWindow is how much of each end of the file the duration scan reads
const scanWindow = 4 << 20

// scanDuration estimates the stream duration from the first and last
// presentation timestamps found near each end of the file. Zero is
// returned when either end carries no timestamps.
func scanDuration(path string, pids map[uint16]*elementaryStream) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0
	}

	first, ok := firstPTS(f, 0, pids)
	if !ok {
		return 0
	}

	tailStart := info.Size() - scanWindow
	if tailStart < 0 {
		tailStart = 0
	}
	last, ok := lastPTS(f, tailStart, pids)
	if !ok {
		return 0
	}

	span := last - first
	if span < 0 {
		span += ptsWrap
	}
	return time.Duration(span) * time.Second / 90000
}

func firstPTS(f *os.File, offset int64, pids map[uint16]*elementaryStream) (int64, bool) {
	first := int64(-1)
	eachPTS(f, offset, pids, func(pts int64) bool {
		first = pts
		return false
	})
	return first, first >= 0
}

func lastPTS(f *os.File, offset int64, pids map[uint16]*elementaryStream) (int64, bool) {
	last := int64(-1)
	eachPTS(f, offset, pids, func(pts int64) bool {
		if pts > last {
			last = pts
		}
		return true
	})
	return last, last >= 0
}

// eachPTS calls fn with the raw 33-bit PTS of every PES start in the
// window beginning at offset, until fn returns false
func eachPTS(f *os.File, offset int64, pids map[uint16]*elementaryStream, fn func(int64) bool) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return
	}
	r := newPacketReader(io.LimitReader(f, scanWindow), offset)

	for {
		raw, _, err := r.next()
		if err != nil {
			return
		}

		bs := codec.NewBitStream(raw)
		var pkg mpeg2.TSPacket
		if err := pkg.DecodeHeader(bs); err != nil {
			continue
		}
		if pkg.Payload_unit_start_indicator != 1 {
			continue
		}
		if _, ok := pids[pkg.PID]; !ok {
			continue
		}

		off := payloadOffset(raw)
		if off < 0 {
			continue
		}
		pts, ok := readPTS(raw[off:])
		if !ok {
			continue
		}
		if !fn(pts) {
			return
		}
	}
}

func readPTS(raw []byte) (int64, bool) {
	h, ok := parsePESHeader(raw)
	if !ok || !h.hasPTS {
		return 0, false
	}
	return h.pts, true
}
