package mpegts

import (
	"fmt"
	"os"

	"tscut/domain/media"

	mp4 "github.com/yapingcat/gomedia/go-mp4"
)

var mp4Codecs = map[string]mp4.MP4_CODEC_TYPE{
	"h264": mp4.MP4_CODEC_H264,
	"hevc": mp4.MP4_CODEC_H265,
	"aac":  mp4.MP4_CODEC_AAC,
	"mp3":  mp4.MP4_CODEC_MP3,
}

type mp4Format struct {
	muxer *mp4.Movmuxer
	ids   []uint32
}

func (m *mp4Format) name() string { return "mp4" }

func (m *mp4Format) accept(_ []media.Track, params media.CodecParameters) error {
	if _, ok := mp4Codecs[params.CodecName()]; !ok {
		return fmt.Errorf("%w: %s in mp4", media.ErrUnsupportedCodec, params.CodecName())
	}
	return nil
}

func (m *mp4Format) begin(f *os.File, tracks []media.Track) error {
	muxer, err := mp4.CreateMp4Muxer(f)
	if err != nil {
		return err
	}
	m.muxer = muxer

	m.ids = make([]uint32, len(tracks))
	for i, tr := range tracks {
		cid := mp4Codecs[tr.Params.CodecName()]
		if tr.Kind == media.KindVideo {
			m.ids[i] = muxer.AddVideoTrack(cid)
		} else {
			m.ids[i] = muxer.AddAudioTrack(cid)
		}
	}
	return nil
}

func (m *mp4Format) write(track int, data []byte, pts, dts uint64) error {
	return m.muxer.Write(m.ids[track], data, pts, dts)
}

func (m *mp4Format) end() error {
	return m.muxer.WriteTrailer()
}
