package mpegts

import "tscut/domain/media"

// Params describes an elementary stream found in a PMT
type Params struct {
	streamType uint8
	kind       media.Kind
	codec      string
	tag        uint32
}

func newParams(streamType uint8) *Params {
	info := lookupStreamType(streamType)
	return &Params{
		streamType: streamType,
		kind:       info.kind,
		codec:      info.codec,
		tag:        uint32(streamType),
	}
}

// StreamType returns the PMT stream type
func (p *Params) StreamType() uint8 { return p.streamType }

func (p *Params) Kind() media.Kind { return p.kind }

func (p *Params) CodecName() string { return p.codec }

// CodecTag returns the stream type the track was declared with, until cleared
func (p *Params) CodecTag() uint32 { return p.tag }

func (p *Params) ClearCodecTag() { p.tag = 0 }

func (p *Params) Clone() media.CodecParameters {
	c := *p
	return &c
}

var _ media.CodecParameters = (*Params)(nil)
