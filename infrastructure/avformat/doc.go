// Package avformat adapts FFmpeg's libavformat, through go-astiav, to the
// media library port. It reads and writes every container FFmpeg knows.
//
// The adapter needs cgo and the FFmpeg development libraries, so it is only
// compiled with the ffmpeg build tag:
//
//	go build -tags ffmpeg ./...
//
// Without the tag the library reports media.ErrLibraryUnavailable.
package avformat

// Name identifies the library in configuration and diagnostics
const Name = "ffmpeg"
