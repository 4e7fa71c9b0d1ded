package media

// CodecParameters is the opaque, copy-only codec description of a track.
// The pipeline never interprets it; it only asks for the container-specific
// codec tag to be cleared after a copy.
type CodecParameters interface {
	// Kind returns the media kind described by the parameters
	Kind() Kind

	// CodecName returns a short codec name for diagnostics
	CodecName() string

	// CodecTag returns the container-specific codec tag (0 when unset)
	CodecTag() uint32

	// ClearCodecTag resets the container-specific codec tag to 0
	ClearCodecTag()

	// Clone returns an independent copy of the parameters
	Clone() CodecParameters
}

// Track is one elementary stream of a container
type Track struct {
	// Index is unique within the container and starts at 0
	Index int

	// ID is the container-level stream identifier (the PID for MPEG-TS)
	ID int

	Kind     Kind
	TimeBase Rational
	Params   CodecParameters
}
