package libcut

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tscut/domain/media"
	"tscut/infrastructure/logging"
	"tscut/infrastructure/memory"
)

func reset() {
	mu.Lock()
	state = nil
	mu.Unlock()
}

func initMemory(t *testing.T, lib *memory.Library, report io.Writer) {
	t.Helper()
	reset()
	t.Cleanup(reset)

	err := Init(Options{
		Library: lib,
		Log:     logging.LogConfig{Level: "error", Output: io.Discard},
		Report:  report,
	})
	if err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}
}

func threeAudioInput() *memory.Input {
	return memory.Synthesize(6,
		memory.Stream{Kind: media.KindVideo, Codec: "h264", Interval: 1, KeyEvery: 2},
		memory.Stream{Kind: media.KindAudio, Codec: "aac", Interval: 0.5},
		memory.Stream{Kind: media.KindAudio, Codec: "mp2", Interval: 0.5},
		memory.Stream{Kind: media.KindAudio, Codec: "ac3", Interval: 0.5},
	)
}

func TestOperations_BeforeInit(t *testing.T) {
	reset()

	if Cut("in.ts", "out.ts", 0, 0) {
		t.Error("Cut() before Init should fail")
	}
	if n := SplitAudioTracks("in.ts", "out", "a.ts"); n != 0 {
		t.Errorf("SplitAudioTracks() before Init = %d, want 0", n)
	}
	if got := Probe("in.ts"); got != ProbeError {
		t.Errorf("Probe() before Init = %q, want %q", got, ProbeError)
	}
}

func TestInit_Idempotent(t *testing.T) {
	lib := memory.NewLibrary()
	initMemory(t, lib, io.Discard)

	other := memory.NewLibrary()
	if err := Init(Options{Library: other, Log: logging.LogConfig{Output: io.Discard}}); err != nil {
		t.Fatalf("second Init() unexpected error: %v", err)
	}

	if lib.InitCalls() != 1 || other.InitCalls() != 0 {
		t.Errorf("init calls = %d/%d, want 1/0", lib.InitCalls(), other.InitCalls())
	}
}

func TestInit_Failures(t *testing.T) {
	t.Run("library init", func(t *testing.T) {
		reset()
		t.Cleanup(reset)

		lib := memory.NewLibrary(memory.WithInitError(errors.New("no codecs")))
		err := Init(Options{Library: lib, Log: logging.LogConfig{Output: io.Discard}})
		if media.KindOf(err) != media.InitFailure {
			t.Errorf("Init() error = %v, want InitFailure", err)
		}

		// a failed Init does not count
		if err := Init(Options{Library: memory.NewLibrary(), Log: logging.LogConfig{Output: io.Discard}}); err != nil {
			t.Errorf("retry Init() unexpected error: %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		reset()
		t.Cleanup(reset)

		err := Init(Options{Backend: "vlc", Log: logging.LogConfig{Output: io.Discard}})
		if media.KindOf(err) != media.InitFailure {
			t.Errorf("Init() error = %v, want InitFailure", err)
		}
	})
}

func TestCut(t *testing.T) {
	lib := memory.NewLibrary(memory.WithInput("/in.ts", threeAudioInput()))
	initMemory(t, lib, io.Discard)

	out := filepath.Join(t.TempDir(), "cut.ts")
	if !Cut("/in.ts", out, 1, 2) {
		t.Fatal("Cut() = false, want true")
	}

	o, ok := lib.Output(out)
	if !ok || !o.TrailerWritten() {
		t.Fatal("expected a finished output")
	}
	if len(o.Tracks()) != 4 {
		t.Errorf("output tracks = %d, want 4", len(o.Tracks()))
	}
	if v := o.PacketsFor(0); len(v) == 0 || !v[0].Keyframe {
		t.Error("expected the segment to start on a keyframe")
	}
}

func TestCut_Failures(t *testing.T) {
	lib := memory.NewLibrary(memory.WithInput("/in.ts", threeAudioInput()))
	initMemory(t, lib, io.Discard)
	dir := t.TempDir()

	if Cut("/missing.ts", filepath.Join(dir, "a.ts"), 0, 0) {
		t.Error("Cut() of a missing input should fail")
	}

	trailer := filepath.Join(dir, "b.ts")
	lib.FailTrailer(trailer, errors.New("disk full"))
	if Cut("/in.ts", trailer, 0, 0) {
		t.Error("Cut() with a failing trailer should fail")
	}

	if Cut("/in.ts", filepath.Join(dir, "c.ts"), -1, 0) {
		t.Error("Cut() with a negative skip should fail")
	}
}

func TestCut_NoVideoWritesEmptyOutput(t *testing.T) {
	in := memory.Synthesize(3, memory.Stream{Kind: media.KindAudio, Codec: "aac", Interval: 1})
	lib := memory.NewLibrary(memory.WithInput("/radio.ts", in))
	initMemory(t, lib, io.Discard)

	out := filepath.Join(t.TempDir(), "radio_cut.ts")
	if !Cut("/radio.ts", out, 0, 0) {
		t.Fatal("Cut() = false, want true")
	}

	o, _ := lib.Output(out)
	if len(o.Packets()) != 0 || !o.HeaderWritten() || !o.TrailerWritten() {
		t.Errorf("packets = %d header %v trailer %v", len(o.Packets()), o.HeaderWritten(), o.TrailerWritten())
	}
}

func TestSplitAudioTracks(t *testing.T) {
	lib := memory.NewLibrary(memory.WithInput("/in.ts", threeAudioInput()))
	initMemory(t, lib, io.Discard)

	base := t.TempDir()
	if n := SplitAudioTracks("/in.ts", base, "segment_0001.ts"); n != 3 {
		t.Fatalf("SplitAudioTracks() = %d, want 3", n)
	}

	for i := 0; i < 3; i++ {
		dir := filepath.Join(base, fmt.Sprintf("audio_%d", i))
		if _, err := os.Stat(filepath.Join(dir, "segment_0001.ts")); err != nil {
			t.Errorf("output %d missing: %v", i, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "segment_0001.tmp.ts")); !os.IsNotExist(err) {
			t.Errorf("temp file %d left behind", i)
		}
	}

	if n := SplitAudioTracks("/missing.ts", base, "x.ts"); n != 0 {
		t.Errorf("SplitAudioTracks() of a missing input = %d, want 0", n)
	}
}

func TestProbe(t *testing.T) {
	in := threeAudioInput()
	in.Metadata = media.Metadata{{Key: "service_name", Value: "News"}}
	lib := memory.NewLibrary(memory.WithInput("/in.ts", in))

	var report bytes.Buffer
	initMemory(t, lib, &report)

	if got := Probe("/in.ts"); got != ProbeOk {
		t.Fatalf("Probe() = %q, want %q", got, ProbeOk)
	}

	want := []string{
		"service_name: News",
		"Best video stream index: 0",
		"Best audio stream index: 1",
		"duration (seconds): 6.00",
	}
	lines := strings.Split(strings.TrimSpace(report.String()), "\n")
	if len(lines) != len(want) {
		t.Fatalf("report = %q", report.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if got := Probe("/missing.ts"); got != ProbeError {
		t.Errorf("Probe() of a missing input = %q, want %q", got, ProbeError)
	}
}
