// Package backend selects the media library named in the configuration.
package backend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
	"tscut/infrastructure/avformat"
	"tscut/infrastructure/mpegts"
)

const (
	Native = "native"
	FFmpeg = avformat.Name
)

// ErrUnknownBackend is returned for a backend name with no library
var ErrUnknownBackend = errors.New("unknown backend")

type factory func(log logrus.FieldLogger) media.Library

var factories = map[string]factory{
	Native: func(log logrus.FieldLogger) media.Library {
		return mpegts.NewLibrary(mpegts.WithLogger(log))
	},
	FFmpeg: func(log logrus.FieldLogger) media.Library {
		return avformat.NewLibrary(log)
	},
}

// New returns the media library registered under name
func New(name string, log logrus.FieldLogger) (media.Library, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return f(log), nil
}

// Names lists the registered backends in order
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Valid returns true if name is a registered backend
func Valid(name string) bool {
	_, ok := factories[name]
	return ok
}
