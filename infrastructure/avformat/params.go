//go:build ffmpeg

package avformat

import (
	"runtime"

	"github.com/asticode/go-astiav"

	"tscut/domain/media"
)

// Params wraps libavcodec codec parameters. Parameters of opened streams
// are owned by their format context; clones own their memory.
type Params struct {
	cp *astiav.CodecParameters
}

func newParams(cp *astiav.CodecParameters) *Params {
	return &Params{cp: cp}
}

func (p *Params) Kind() media.Kind {
	return kindOf(p.cp.MediaType())
}

func (p *Params) CodecName() string {
	return p.cp.CodecID().Name()
}

func (p *Params) CodecTag() uint32 {
	return uint32(p.cp.CodecTag())
}

func (p *Params) ClearCodecTag() {
	p.cp.SetCodecTag(0)
}

func (p *Params) Clone() media.CodecParameters {
	cp := astiav.AllocCodecParameters()
	if err := p.cp.Copy(cp); err != nil {
		cp.Free()
		return &Params{cp: p.cp}
	}

	c := &Params{cp: cp}
	runtime.SetFinalizer(c, func(c *Params) { c.cp.Free() })
	return c
}

func kindOf(mt astiav.MediaType) media.Kind {
	switch mt {
	case astiav.MediaTypeVideo:
		return media.KindVideo
	case astiav.MediaTypeAudio:
		return media.KindAudio
	case astiav.MediaTypeSubtitle:
		return media.KindSubtitle
	case astiav.MediaTypeData:
		return media.KindData
	case astiav.MediaTypeAttachment:
		return media.KindAttachment
	default:
		return media.KindUnknown
	}
}

func mediaType(k media.Kind) astiav.MediaType {
	switch k {
	case media.KindVideo:
		return astiav.MediaTypeVideo
	case media.KindAudio:
		return astiav.MediaTypeAudio
	case media.KindSubtitle:
		return astiav.MediaTypeSubtitle
	case media.KindData:
		return astiav.MediaTypeData
	case media.KindAttachment:
		return astiav.MediaTypeAttachment
	default:
		return astiav.MediaTypeUnknown
	}
}

func rational(r astiav.Rational) media.Rational {
	return media.NewRational(int64(r.Num()), int64(r.Den()))
}

var _ media.CodecParameters = (*Params)(nil)
