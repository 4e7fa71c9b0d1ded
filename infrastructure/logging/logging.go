package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"tscut/domain/media"
)

// DefaultLevel is used when the configured level cannot be parsed
const DefaultLevel = logrus.WarnLevel

// LogConfig describes where and how the process logs
type LogConfig struct {
	// Path enables a daily rotated log file when set; otherwise Output is used
	Path         string
	RotationTime time.Duration
	MaxAgeDays   int

	Level        string
	Format       string
	ReportCaller bool

	// Output defaults to stderr
	Output io.Writer
}

// NewLogger builds a logger from the configuration
func (lc *LogConfig) NewLogger() (*logrus.Logger, error) {
	out := lc.Output
	colors := false
	if lc.Path != "" {
		rotation := lc.RotationTime
		if rotation <= 0 {
			rotation = 24 * time.Hour
		}
		opts := []rotatelogs.Option{
			rotatelogs.WithLinkName(lc.Path),
			rotatelogs.WithRotationTime(rotation),
		}
		if lc.MaxAgeDays > 0 {
			opts = append(opts, rotatelogs.WithMaxAge(time.Duration(lc.MaxAgeDays)*24*time.Hour))
		}

		logWriter, err := rotatelogs.New(lc.Path+".%Y%m%d", opts...)
		if err != nil {
			return nil, err
		}
		out = logWriter
	} else if out == nil {
		out = os.Stderr
		colors = isatty.IsTerminal(os.Stderr.Fd())
	}

	logger := logrus.New()
	logger.SetOutput(out)

	switch strings.ToLower(lc.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		fallthrough
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: !colors,
			FullTimestamp: true,
		})
	}

	if level, err := logrus.ParseLevel(lc.Level); err != nil {
		logger.SetLevel(DefaultLevel)
	} else {
		logger.SetLevel(level)
	}

	if lc.ReportCaller {
		logger.SetReportCaller(true)
	}

	return logger, nil
}

var (
	initOnce sync.Once
	std      *logrus.Logger
	initErr  error
)

// Init configures the process logger. Only the first call has an effect;
// later calls return the logger built by the first one.
func Init(lc LogConfig) (*logrus.Logger, error) {
	initOnce.Do(func() {
		std, initErr = lc.NewLogger()
	})
	return std, initErr
}

// Logger returns the process logger, or a stderr logger at DefaultLevel
// when Init has not succeeded
func Logger() *logrus.Logger {
	if std != nil {
		return std
	}
	l := logrus.New()
	l.SetLevel(DefaultLevel)
	return l
}

// MediaLevel maps a logger level to the verbosity requested from media libraries
func MediaLevel(level logrus.Level) media.LogLevel {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return media.LogError
	case logrus.WarnLevel:
		return media.LogWarning
	case logrus.InfoLevel:
		return media.LogInfo
	default:
		return media.LogDebug
	}
}
