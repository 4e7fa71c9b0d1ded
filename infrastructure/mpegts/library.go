package mpegts

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// Library is the pure Go media library: MPEG-TS input, and TS, MP4 or FLV
// output chosen from the file extension
type Library struct {
	log logrus.FieldLogger

	once  sync.Once
	level media.LogLevel
}

// LibraryOption configures a Library
type LibraryOption func(*Library)

// WithLogger sets the logger the library reports through
func WithLogger(log logrus.FieldLogger) LibraryOption {
	return func(l *Library) {
		l.log = log
	}
}

// NewLibrary creates the native library
func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{log: logrus.StandardLogger(), level: media.LogWarning}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements media.Library
func (l *Library) Name() string {
	return "native"
}

// Init implements media.Library. Only the first call has an effect.
func (l *Library) Init(level media.LogLevel) error {
	l.once.Do(func() {
		l.level = level
		l.log.WithField("library", l.Name()).Debug("Media library ready")
	})
	return nil
}

// OpenInput implements media.Library
func (l *Library) OpenInput(ctx context.Context, path string) (media.Demuxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return OpenDemuxer(path, l.logger())
}

// CreateOutput implements media.Library
func (l *Library) CreateOutput(ctx context.Context, path string) (media.Muxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	return newMuxer(path, f, l.logger())
}

// logger silences library diagnostics when Init asked for quiet
func (l *Library) logger() logrus.FieldLogger {
	if l.level != media.LogQuiet {
		return l.log
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return quiet
}

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".m2ts", ".mts":
		return &tsFormat{}, nil
	case ".mp4", ".m4a", ".mov":
		return &mp4Format{}, nil
	case ".flv":
		return &flvFormat{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", media.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

var _ media.Library = (*Library)(nil)
