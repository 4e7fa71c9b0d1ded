package remux

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"tscut/domain/media"
	"tscut/infrastructure/memory"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// videoAudioInput has one video packet per second with keyframes every
// keyEvery seconds, and one audio packet per second offset by half a second
func videoAudioInput(seconds float64, keyEvery int) *memory.Input {
	return memory.Synthesize(seconds,
		memory.Stream{Kind: media.KindVideo, Codec: "h264", Tag: 0x1b, Interval: 1, KeyEvery: keyEvery},
		memory.Stream{Kind: media.KindAudio, Codec: "aac", Tag: 0x0f, Start: 0.5, Interval: 1},
	)
}

func millis(pkts []media.Packet) []int64 {
	out := make([]int64, len(pkts))
	for i, p := range pkts {
		out[i] = p.PTS
	}
	return out
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MockDirs creates directories on disk and records which it created
type MockDirs struct {
	Created []string
	Err     error
}

func (m *MockDirs) EnsureDir(path string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return false, err
	}
	m.Created = append(m.Created, path)
	return true, nil
}

// MockRenamer renames on disk unless told to fail
type MockRenamer struct {
	mu    sync.Mutex
	Calls [][2]string
	Err   error
}

func (m *MockRenamer) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, [2]string{oldPath, newPath})
	if m.Err != nil {
		return m.Err
	}
	return os.Rename(oldPath, newPath)
}

var errInjected = errors.New("injected failure")
