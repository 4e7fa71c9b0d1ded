//go:build !ffmpeg

package avformat

import (
	"context"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// Library stands in for the FFmpeg library in builds without the ffmpeg tag
type Library struct{}

// NewLibrary returns a library whose operations all fail
func NewLibrary(logrus.FieldLogger) *Library {
	return &Library{}
}

// Name implements media.Library
func (l *Library) Name() string {
	return Name
}

// Init implements media.Library
func (l *Library) Init(media.LogLevel) error {
	return media.ErrLibraryUnavailable
}

// OpenInput implements media.Library
func (l *Library) OpenInput(context.Context, string) (media.Demuxer, error) {
	return nil, media.ErrLibraryUnavailable
}

// CreateOutput implements media.Library
func (l *Library) CreateOutput(context.Context, string) (media.Muxer, error) {
	return nil, media.ErrLibraryUnavailable
}

var _ media.Library = (*Library)(nil)
