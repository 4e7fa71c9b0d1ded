package mpegts

import (
	"fmt"
	"os"

	"tscut/domain/media"

	mpeg2 "github.com/yapingcat/gomedia/go-mpeg2"
)

var tsStreamTypes = map[string]mpeg2.TS_STREAM_TYPE{
	"h264": mpeg2.TS_STREAM_H264,
	"hevc": mpeg2.TS_STREAM_H265,
	"aac":  mpeg2.TS_STREAM_AAC,
	"mp3":  mpeg2.TS_STREAM_AUDIO_MPEG1,
	"mp2":  mpeg2.TS_STREAM_AUDIO_MPEG2,
}

type tsFormat struct {
	muxer *mpeg2.TSMuxer
	pids  []uint16
	err   error
}

func (t *tsFormat) name() string { return "mpegts" }

func (t *tsFormat) accept(_ []media.Track, params media.CodecParameters) error {
	if _, ok := tsStreamTypes[params.CodecName()]; !ok {
		return fmt.Errorf("%w: %s in mpegts", media.ErrUnsupportedCodec, params.CodecName())
	}
	return nil
}

func (t *tsFormat) begin(f *os.File, tracks []media.Track) error {
	t.muxer = mpeg2.NewTSMuxer()
	t.muxer.OnPacket = func(pkg []byte) {
		if t.err != nil {
			return
		}
		if _, err := f.Write(pkg); err != nil {
			t.err = err
		}
	}

	t.pids = make([]uint16, len(tracks))
	for i, tr := range tracks {
		t.pids[i] = t.muxer.AddStream(tsStreamTypes[tr.Params.CodecName()])
	}
	return nil
}

func (t *tsFormat) write(track int, data []byte, pts, dts uint64) error {
	if err := t.muxer.Write(t.pids[track], data, pts, dts); err != nil {
		return err
	}
	return t.err
}

func (t *tsFormat) end() error {
	return t.err
}
