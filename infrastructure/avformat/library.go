//go:build ffmpeg

package avformat

import (
	"context"
	"strings"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// Library opens and creates containers with libavformat
type Library struct {
	log  logrus.FieldLogger
	once sync.Once
}

// NewLibrary creates the FFmpeg library. FFmpeg diagnostics are forwarded
// to log once Init has been called.
func NewLibrary(log logrus.FieldLogger) *Library {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Library{log: log.WithField("library", Name)}
}

// Name implements media.Library
func (l *Library) Name() string {
	return Name
}

// Init implements media.Library. The FFmpeg log level is process wide, so
// only the first call has an effect.
func (l *Library) Init(level media.LogLevel) error {
	l.once.Do(func() {
		astiav.SetLogLevel(logLevel(level))
		astiav.SetLogCallback(func(_ astiav.Classer, lvl astiav.LogLevel, _, msg string) {
			msg = strings.TrimSpace(msg)
			switch {
			case lvl <= astiav.LogLevelError:
				l.log.Error(msg)
			case lvl <= astiav.LogLevelWarning:
				l.log.Warn(msg)
			case lvl <= astiav.LogLevelInfo:
				l.log.Info(msg)
			default:
				l.log.Debug(msg)
			}
		})
	})
	return nil
}

func logLevel(level media.LogLevel) astiav.LogLevel {
	switch level {
	case media.LogQuiet:
		return astiav.LogLevelQuiet
	case media.LogError:
		return astiav.LogLevelError
	case media.LogInfo:
		return astiav.LogLevelInfo
	case media.LogDebug:
		return astiav.LogLevelDebug
	default:
		return astiav.LogLevelWarning
	}
}

// OpenInput implements media.Library
func (l *Library) OpenInput(ctx context.Context, path string) (media.Demuxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return openDemuxer(path)
}

// CreateOutput implements media.Library
func (l *Library) CreateOutput(ctx context.Context, path string) (media.Muxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return createMuxer(path)
}

var _ media.Library = (*Library)(nil)
