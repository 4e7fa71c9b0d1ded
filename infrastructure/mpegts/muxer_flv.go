package mpegts

import (
	"fmt"
	"os"

	"tscut/domain/media"

	flv "github.com/yapingcat/gomedia/go-flv"
)

// flvFormat carries at most one video and one audio track
type flvFormat struct {
	writer *flv.FlvWriter
	codecs []string
}

func (v *flvFormat) name() string { return "flv" }

func (v *flvFormat) accept(existing []media.Track, params media.CodecParameters) error {
	switch params.CodecName() {
	case "h264", "hevc", "aac", "mp3":
	default:
		return fmt.Errorf("%w: %s in flv", media.ErrUnsupportedCodec, params.CodecName())
	}

	for _, t := range existing {
		if t.Kind == params.Kind() {
			return fmt.Errorf("%w: flv holds one %s track", media.ErrUnsupportedCodec, params.Kind())
		}
	}
	return nil
}

func (v *flvFormat) begin(f *os.File, tracks []media.Track) error {
	v.writer = flv.CreateFlvWriter(f)
	if err := v.writer.WriteFlvHeader(); err != nil {
		return err
	}

	v.codecs = make([]string, len(tracks))
	for i, t := range tracks {
		v.codecs[i] = t.Params.CodecName()
	}
	return nil
}

func (v *flvFormat) write(track int, data []byte, pts, dts uint64) error {
	p, d := uint32(pts), uint32(dts)
	switch v.codecs[track] {
	case "h264":
		return v.writer.WriteH264(data, p, d)
	case "hevc":
		return v.writer.WriteH265(data, p, d)
	case "aac":
		return v.writer.WriteAAC(data, p, d)
	default:
		return v.writer.WriteMp3(data, p, d)
	}
}

func (v *flvFormat) end() error {
	return nil
}
