package mpegts

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

const (
	testPMTPID   = 0x1000
	testVideoPID = 0x100
	testAudioPID = 0x101
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// crc32MPEG computes the CRC used by PSI sections
func crc32MPEG(data []byte) uint32 {
	crc := uint32(0xffffffff)
	for _, b := range data {
		crc ^= uint32(b) << 24
		for i := 0; i < 8; i++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ 0x04c11db7
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

type pmtEntry struct {
	streamType uint8
	pid        uint16
}

// tsBuilder assembles a transport stream packet by packet
type tsBuilder struct {
	data []byte
	cc   map[uint16]uint8
}

func newTSBuilder() *tsBuilder {
	return &tsBuilder{cc: make(map[uint16]uint8)}
}

func (b *tsBuilder) header(pid uint16, pusi bool, afc uint8) []byte {
	cc := b.cc[pid]
	b.cc[pid] = (cc + 1) & 0x0f

	first := byte(pid>>8) & 0x1f
	if pusi {
		first |= 0x40
	}
	return []byte{syncByte, first, byte(pid), afc<<4 | cc}
}

func (b *tsBuilder) section(pid uint16, body []byte) {
	crc := crc32MPEG(body)
	body = append(body, byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))

	pkt := b.header(pid, true, 0x01)
	pkt = append(pkt, 0x00)
	pkt = append(pkt, body...)
	for len(pkt) < packetSize {
		pkt = append(pkt, 0xff)
	}
	b.data = append(b.data, pkt...)
}

func (b *tsBuilder) pat(pmtPID uint16) {
	body := []byte{
		0x00, 0xb0, 13,
		0x00, 0x01, 0xc1, 0x00, 0x00,
		0x00, 0x01, 0xe0 | byte(pmtPID>>8), byte(pmtPID),
	}
	b.section(0x0000, body)
}

func (b *tsBuilder) pmt(pmtPID uint16, pcrPID uint16, streams ...pmtEntry) {
	length := 9 + 5*len(streams) + 4
	body := []byte{
		0x02, 0xb0, byte(length),
		0x00, 0x01, 0xc1, 0x00, 0x00,
		0xe0 | byte(pcrPID>>8), byte(pcrPID), 0xf0, 0x00,
	}
	for _, s := range streams {
		body = append(body, s.streamType, 0xe0|byte(s.pid>>8), byte(s.pid), 0xf0, 0x00)
	}
	b.section(pmtPID, body)
}

func encodeTimestamp(prefix byte, ts int64) []byte {
	return []byte{
		prefix<<4 | byte(ts>>29)&0x0e | 0x01,
		byte(ts >> 22),
		byte(ts>>14)&0xfe | 0x01,
		byte(ts >> 7),
		byte(ts<<1)&0xfe | 0x01,
	}
}

// pes splits one PES packet carrying payload across transport packets.
// dts < 0 writes a PTS only header.
func (b *tsBuilder) pes(pid uint16, streamID byte, pts, dts int64, payload []byte) {
	var opt []byte
	if dts < 0 {
		opt = append([]byte{0x80, 0x80, 5}, encodeTimestamp(0x2, pts)...)
	} else {
		opt = append([]byte{0x80, 0xc0, 10}, encodeTimestamp(0x3, pts)...)
		opt = append(opt, encodeTimestamp(0x1, dts)...)
	}

	length := 0
	if streamID != 0xe0 {
		length = len(opt) + len(payload)
	}
	pes := []byte{0x00, 0x00, 0x01, streamID, byte(length >> 8), byte(length)}
	pes = append(pes, opt...)
	pes = append(pes, payload...)

	first := true
	for len(pes) > 0 {
		room := packetSize - 4
		if len(pes) >= room {
			pkt := b.header(pid, first, 0x01)
			pkt = append(pkt, pes[:room]...)
			b.data = append(b.data, pkt...)
			pes = pes[room:]
			first = false
			continue
		}

		// stuff the last packet with an adaptation field
		stuffing := room - len(pes)
		pkt := b.header(pid, first, 0x03)
		pkt = append(pkt, byte(stuffing-1))
		if stuffing > 1 {
			pkt = append(pkt, 0x00)
			for i := 2; i < stuffing; i++ {
				pkt = append(pkt, 0xff)
			}
		}
		pkt = append(pkt, pes...)
		b.data = append(b.data, pkt...)
		pes = nil
	}
}

func (b *tsBuilder) write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.ts")
	if err := os.WriteFile(path, b.data, 0644); err != nil {
		t.Fatalf("failed to write test stream: %v", err)
	}
	return path
}

func idrFrame(size int) []byte {
	return nalFrame(0x65, size)
}

func sliceFrame(size int) []byte {
	return nalFrame(0x41, size)
}

func nalFrame(header byte, size int) []byte {
	f := []byte{0x00, 0x00, 0x00, 0x01, 0x09, 0xf0, 0x00, 0x00, 0x00, 0x01, header}
	for len(f) < size {
		f = append(f, 0xaa)
	}
	return f
}

func audioFrame(size int) []byte {
	f := make([]byte, size)
	for i := range f {
		f[i] = 0x55
	}
	return f
}
