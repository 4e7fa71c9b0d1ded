package memory

import "tscut/domain/media"

// Params is an in-memory codec parameter block
type Params struct {
	kind  media.Kind
	codec string
	tag   uint32
	Extra []byte
}

// NewParams creates parameters for a track of the given kind and codec
func NewParams(kind media.Kind, codec string, tag uint32) *Params {
	return &Params{kind: kind, codec: codec, tag: tag}
}

func (p *Params) Kind() media.Kind { return p.kind }
func (p *Params) CodecName() string { return p.codec }
func (p *Params) CodecTag() uint32 { return p.tag }
func (p *Params) ClearCodecTag() { p.tag = 0 }

// Clone returns a deep copy of the parameters
func (p *Params) Clone() media.CodecParameters {
	c := *p
	if p.Extra != nil {
		c.Extra = append([]byte(nil), p.Extra...)
	}
	return &c
}

var _ media.CodecParameters = (*Params)(nil)
