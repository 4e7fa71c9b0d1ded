package mpegts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"

	codec "github.com/yapingcat/gomedia/go-codec"
	mpeg2 "github.com/yapingcat/gomedia/go-mpeg2"
)

// maxProbeBytes bounds how far Open reads looking for the program map
const maxProbeBytes = 8 << 20

type bufferedPacket struct {
	raw []byte
	pos int64
}

var (
	// ErrNoProgram is returned when no PMT was found within the probe window
	ErrNoProgram = errors.New("no program map table found")
)

// Demuxer reads the first program of an MPEG transport stream. Track
// indices follow the order of the PMT; every track uses the 90 kHz clock.
type Demuxer struct {
	file   *os.File
	reader *packetReader
	log    logrus.FieldLogger

	pmtPID  uint16
	tracks  []media.Track
	streams []*elementaryStream
	byPID   map[uint16]*elementaryStream

	// packets read while probing, replayed before reading on
	replay []bufferedPacket

	ready    []*media.Packet
	eof      bool
	duration time.Duration
	corrupt  int
}

// TimeBase is the clock of every transport stream track
var TimeBase = media.NewRational(1, 90000)

// OpenDemuxer opens path and reads until the first program's PMT is known
func OpenDemuxer(path string, log logrus.FieldLogger) (*Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	d := &Demuxer{
		file:   f,
		reader: newPacketReader(f, 0),
		log:    log.WithField("input", path),
		byPID:  make(map[uint16]*elementaryStream),
	}

	if err := d.probe(); err != nil {
		f.Close()
		return nil, err
	}

	d.duration = scanDuration(path, d.byPID)
	return d, nil
}

// probe locates the PAT and then the PMT of the first program
func (d *Demuxer) probe() error {
	pmtPID := -1
	read := 0

	for read < maxProbeBytes {
		raw, pos, err := d.reader.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		read += packetSize
		raw = append([]byte(nil), raw...)
		d.replay = append(d.replay, bufferedPacket{raw: raw, pos: pos})

		bs := codec.NewBitStream(raw)
		var pkg mpeg2.TSPacket
		if err := pkg.DecodeHeader(bs); err != nil {
			continue
		}

		if pmtPID < 0 && pkg.PID == uint16(mpeg2.TS_PID_PAT) {
			if pid, ok := readPAT(&pkg, bs); ok {
				pmtPID = int(pid)
			}
			continue
		}

		if pmtPID >= 0 && int(pkg.PID) == pmtPID {
			pmt, ok := readPMT(&pkg, bs)
			if !ok {
				continue
			}
			d.pmtPID = uint16(pmtPID)
			d.addStreams(pmt)
			return nil
		}
	}

	return ErrNoProgram
}

func readPAT(pkg *mpeg2.TSPacket, bs *codec.BitStream) (uint16, bool) {
	if pkg.Payload_unit_start_indicator != 1 {
		return 0, false
	}
	bs.SkipBits(8)

	payload, err := mpeg2.ReadSection(mpeg2.TS_TID_PAS, bs)
	if err != nil {
		return 0, false
	}
	pat, ok := payload.(*mpeg2.Pat)
	if !ok {
		return 0, false
	}
	for _, p := range pat.Pmts {
		if p.Program_number != 0x0000 {
			return p.PID, true
		}
	}
	return 0, false
}

func readPMT(pkg *mpeg2.TSPacket, bs *codec.BitStream) (*mpeg2.Pmt, bool) {
	if pkg.Payload_unit_start_indicator != 1 {
		return nil, false
	}
	bs.SkipBits(8)

	payload, err := mpeg2.ReadSection(mpeg2.TS_TID_PMS, bs)
	if err != nil {
		return nil, false
	}
	pmt, ok := payload.(*mpeg2.Pmt)
	return pmt, ok
}

func (d *Demuxer) addStreams(pmt *mpeg2.Pmt) {
	for _, ps := range pmt.Streams {
		if _, dup := d.byPID[ps.Elementary_PID]; dup {
			continue
		}
		params := newParams(uint8(ps.StreamType))
		idx := len(d.tracks)
		d.tracks = append(d.tracks, media.Track{
			Index:    idx,
			ID:       int(ps.Elementary_PID),
			Kind:     params.Kind(),
			TimeBase: TimeBase,
			Params:   params,
		})
		s := &elementaryStream{track: idx, pid: ps.Elementary_PID, params: params}
		d.streams = append(d.streams, s)
		d.byPID[ps.Elementary_PID] = s

		d.log.WithFields(logrus.Fields{
			"pid":         fmt.Sprintf("0x%04x", ps.Elementary_PID),
			"stream_type": fmt.Sprintf("0x%02x", uint8(ps.StreamType)),
			"codec":       params.CodecName(),
		}).Debug("Found elementary stream")
	}
}

// Tracks implements media.Demuxer
func (d *Demuxer) Tracks() []media.Track {
	tracks := make([]media.Track, len(d.tracks))
	copy(tracks, d.tracks)
	return tracks
}

// Metadata implements media.Demuxer. Service descriptions are not parsed,
// so transport streams carry no container metadata here.
func (d *Demuxer) Metadata() media.Metadata {
	return nil
}

// Duration implements media.Demuxer
func (d *Demuxer) Duration() time.Duration {
	return d.duration
}

// BestTrack implements media.Demuxer
func (d *Demuxer) BestTrack(kind media.Kind) int {
	for _, t := range d.tracks {
		if t.Kind == kind {
			return t.Index
		}
	}
	return -1
}

// ReadPacket implements media.Demuxer. A PES unit is complete when the next
// unit of its PID starts; units still open at the end of the file are
// returned in track order.
func (d *Demuxer) ReadPacket() (*media.Packet, error) {
	for {
		if len(d.ready) > 0 {
			pkt := d.ready[0]
			d.ready = d.ready[1:]
			return pkt, nil
		}
		if d.eof {
			return nil, io.EOF
		}

		raw, pos, err := d.nextRaw()
		if err == io.EOF {
			d.eof = true
			for _, s := range d.streams {
				if u := s.flush(); u != nil {
					d.ready = append(d.ready, s.packet(u))
				}
			}
			if d.reader.resyncs > 0 || d.corrupt > 0 {
				d.log.WithFields(logrus.Fields{
					"resyncs": d.reader.resyncs,
					"corrupt": d.corrupt,
				}).Warn("Input had damaged packets")
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		d.handle(raw, pos)
	}
}

func (d *Demuxer) nextRaw() ([]byte, int64, error) {
	if len(d.replay) > 0 {
		p := d.replay[0]
		d.replay = d.replay[1:]
		return p.raw, p.pos, nil
	}
	return d.reader.next()
}

func (d *Demuxer) handle(raw []byte, pos int64) {
	bs := codec.NewBitStream(raw)
	var pkg mpeg2.TSPacket
	if err := pkg.DecodeHeader(bs); err != nil {
		d.corrupt++
		return
	}

	s, ok := d.byPID[pkg.PID]
	if !ok {
		return
	}

	off := payloadOffset(raw)
	if off < 0 {
		return
	}

	if pkg.Payload_unit_start_indicator == 1 {
		if done := s.start(raw[off:], pos); done != nil {
			d.ready = append(d.ready, s.packet(done))
		}
		return
	}
	s.extend(raw[off:])
}

// Close implements media.Demuxer
func (d *Demuxer) Close() error {
	return d.file.Close()
}

var _ media.Demuxer = (*Demuxer)(nil)
