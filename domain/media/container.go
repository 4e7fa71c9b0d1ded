package media

import (
	"context"
	"errors"
	"time"
)

// Lifecycle violations reported by muxers
var (
	ErrHeaderNotWritten   = errors.New("header has not been written")
	ErrHeaderWritten      = errors.New("header already written")
	ErrTrailerWritten     = errors.New("trailer already written")
	ErrNoTracks           = errors.New("output has no tracks")
	ErrForeignParameters  = errors.New("codec parameters belong to another library")
	ErrUnsupportedFormat  = errors.New("unsupported container format")
	ErrUnsupportedCodec   = errors.New("codec not supported by container")
	ErrTrackOutOfRange    = errors.New("track index out of range")
	ErrLibraryUnavailable = errors.New("media library unavailable")
)

// LogLevel is the diagnostic verbosity requested from a media library
type LogLevel int

const (
	LogQuiet LogLevel = iota
	LogError
	LogWarning
	LogInfo
	LogDebug
)

// Demuxer is an opened input container. Packets are produced lazily,
// once, in container order.
type Demuxer interface {
	// Tracks returns the track list; Track.Index equals the slice position
	Tracks() []Track

	// Metadata returns the container-level dictionary
	Metadata() Metadata

	// Duration returns the total duration reported by the container
	Duration() time.Duration

	// BestTrack returns the index of the preferred track of a kind, or -1
	BestTrack(kind Kind) int

	// ReadPacket returns the next packet, or io.EOF when exhausted
	ReadPacket() (*Packet, error)

	Close() error
}

// Muxer is an output container.
// Lifecycle: AddTrack* → WriteHeader → WritePacket* → WriteTrailer → Close.
type Muxer interface {
	// AddTrack creates a track whose parameters are a copy of params.
	// A non-negative id asks the muxer to keep that stream identifier.
	AddTrack(params CodecParameters, id int) (*Track, error)

	// SetMetadata replaces the container-level dictionary
	SetMetadata(md Metadata)

	// WriteHeader writes the container header; allowed once
	WriteHeader() error

	// TimeBase returns the time base of an output track. It is final only
	// after WriteHeader because muxers may adjust it.
	TimeBase(index int) Rational

	// WritePacket writes a packet already expressed in the output track's
	// time base, interleaving across tracks as the container requires
	WritePacket(pkt *Packet) error

	// WriteTrailer finalizes the container; allowed once, after the header
	WriteTrailer() error

	Close() error
}

// Library opens input containers and creates output containers
type Library interface {
	// Name identifies the library in diagnostics
	Name() string

	// Init prepares the library; calling it more than once is harmless
	Init(level LogLevel) error

	OpenInput(ctx context.Context, path string) (Demuxer, error)
	CreateOutput(ctx context.Context, path string) (Muxer, error)
}
