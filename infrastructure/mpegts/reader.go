package mpegts

import (
	"bufio"
	"io"

	mpeg2 "github.com/yapingcat/gomedia/go-mpeg2"
)

const (
	packetSize = mpeg2.TS_PAKCET_SIZE
	syncByte   = 0x47
)

// packetReader yields 188-byte transport packets, skipping garbage until
// the next sync byte
type packetReader struct {
	br      *bufio.Reader
	buf     [packetSize]byte
	offset  int64
	resyncs int
}

func newPacketReader(r io.Reader, offset int64) *packetReader {
	return &packetReader{br: bufio.NewReaderSize(r, 64*1024), offset: offset}
}

// next returns the next packet and its byte offset. The returned slice is
// reused by the following call. A truncated final packet is dropped.
func (r *packetReader) next() ([]byte, int64, error) {
	for {
		b, err := r.br.Peek(packetSize)
		if len(b) < packetSize {
			if err == nil {
				err = io.EOF
			}
			if err == io.ErrUnexpectedEOF {
				err = io.EOF
			}
			return nil, r.offset, err
		}

		if b[0] != syncByte {
			r.br.Discard(1)
			r.offset++
			r.resyncs++
			continue
		}

		copy(r.buf[:], b)
		r.br.Discard(packetSize)
		pos := r.offset
		r.offset += packetSize
		return r.buf[:], pos, nil
	}
}

// payloadOffset returns where the payload of a transport packet starts,
// or -1 when the packet carries none
func payloadOffset(pkt []byte) int {
	afc := (pkt[3] >> 4) & 0x03
	off := 4
	if afc&0x02 != 0 {
		off += 1 + int(pkt[4])
	}
	if afc&0x01 == 0 || off >= len(pkt) {
		return -1
	}
	return off
}

type pesHeader struct {
	payload int
	hasPTS  bool
	hasDTS  bool
	pts     int64
	dts     int64
}

// parsePESHeader reads the fixed and optional PES header at the start of
// raw. Stream IDs without the optional header carry no timestamps.
func parsePESHeader(raw []byte) (pesHeader, bool) {
	var h pesHeader
	if len(raw) < 6 || raw[0] != 0 || raw[1] != 0 || raw[2] != 1 {
		return h, false
	}

	switch raw[3] {
	case 0xbc, 0xbe, 0xbf, 0xf0, 0xf1, 0xf2, 0xf8, 0xff:
		h.payload = 6
		return h, true
	}

	if len(raw) < 9 {
		return h, false
	}
	h.payload = 9 + int(raw[8])
	if h.payload > len(raw) {
		return h, false
	}

	flags := raw[7] >> 6
	if flags&0x02 != 0 && len(raw) >= 14 {
		h.hasPTS = true
		h.pts = readTimestamp(raw[9:14])
	}
	if flags == 0x03 && len(raw) >= 19 {
		h.hasDTS = true
		h.dts = readTimestamp(raw[14:19])
	}
	return h, true
}

// readTimestamp decodes a 33-bit PES timestamp field
func readTimestamp(b []byte) int64 {
	return int64(b[0]>>1&0x07)<<30 |
		int64(b[1])<<22 |
		int64(b[2]>>1)<<15 |
		int64(b[3])<<7 |
		int64(b[4]>>1)
}
