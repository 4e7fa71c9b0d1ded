// Package libcut is the flat entry point for embedding tscut: cut a segment,
// split audio tracks, probe an input. Every operation reports failure as a
// sentinel value with one diagnostic line, never as an error.
//
// Init must be called once before any operation.
package libcut

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	appremux "tscut/application/remux"
	"tscut/domain/media"
	"tscut/infrastructure/backend"
	"tscut/infrastructure/filesystem"
	"tscut/infrastructure/logging"
)

// Probe results
const (
	ProbeOk    = "Ok"
	ProbeError = "Error"
)

// ErrNotInitialized is logged when an operation runs before Init
var ErrNotInitialized = errors.New("libcut: Init has not been called")

// Options configures the process
type Options struct {
	// Backend names the media library; defaults to native
	Backend string

	// Library overrides Backend
	Library media.Library

	Log logging.LogConfig

	PreserveStreamIDs bool

	// Split output naming; empty values keep the defaults
	DirectoryPrefix  string
	TempMarker       string
	DefaultExtension string

	// Report receives probe reports; defaults to stdout
	Report io.Writer
}

type runtime struct {
	log    *logrus.Logger
	report io.Writer
	cut    *appremux.CutService
	split  *appremux.SplitService
	probe  *appremux.ProbeService
}

var (
	mu    sync.Mutex
	state *runtime
)

// Init configures logging and initializes the media library. Only the
// first successful call has an effect; later calls return nil.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if state != nil {
		return nil
	}

	log, err := opts.Log.NewLogger()
	if err != nil {
		return media.NewError(media.InitFailure, "init logging", opts.Log.Path, err)
	}

	lib := opts.Library
	if lib == nil {
		name := opts.Backend
		if name == "" {
			name = backend.Native
		}
		if lib, err = backend.New(name, log); err != nil {
			return media.NewError(media.InitFailure, "select backend", "", err)
		}
	}

	if err := lib.Init(logging.MediaLevel(log.GetLevel())); err != nil {
		return media.NewError(media.InitFailure, "init "+lib.Name(), "", err)
	}

	svcOpts := []appremux.ServiceOption{
		appremux.WithLogger(log),
		appremux.WithPreserveStreamIDs(opts.PreserveStreamIDs),
		appremux.WithSplitLayout(opts.DirectoryPrefix, opts.TempMarker, opts.DefaultExtension),
	}

	report := opts.Report
	if report == nil {
		report = os.Stdout
	}

	fs := filesystem.NewChecker()
	state = &runtime{
		log:    log,
		report: report,
		cut:    appremux.NewCutService(lib, svcOpts...),
		split:  appremux.NewSplitService(lib, fs, fs, svcOpts...),
		probe:  appremux.NewProbeService(lib, svcOpts...),
	}
	return nil
}

func current() (*runtime, error) {
	mu.Lock()
	defer mu.Unlock()
	if state == nil {
		return nil, ErrNotInitialized
	}
	return state, nil
}

// notInitialized reports an operation attempted before Init
func notInitialized(op string) {
	logging.Logger().WithField("op", op).Error(ErrNotInitialized)
}

// Cut copies the part of inputPath that starts at the first video keyframe
// at least skipSeconds into the stream, for at most durationSeconds
// (durationSeconds <= 0 copies to the end). It returns true when an output
// was written, including an empty one when no keyframe qualified.
func Cut(inputPath, outputPath string, skipSeconds, durationSeconds float64) bool {
	rt, err := current()
	if err != nil {
		notInitialized("cut")
		return false
	}

	result, err := rt.cut.Cut(context.Background(), appremux.CutInput{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Skip:       skipSeconds,
		Duration:   durationSeconds,
	})
	if err != nil {
		rt.log.Errorf("Cut failed: %v", err)
		return false
	}

	rt.log.Infof("Ts start: %.3f, out start: %.3f, Skip pkt: %d, Out pkt: %d",
		result.StreamStart, result.SegmentStart, result.SkippedVideo, result.ForwardedVideo)
	return true
}

// SplitAudioTracks writes every audio track of inputPath to
// baseDir/audio_<n>/segmentName and returns how many were written, or 0
// on failure
func SplitAudioTracks(inputPath, baseDir, segmentName string) int {
	rt, err := current()
	if err != nil {
		notInitialized("split")
		return 0
	}

	result, err := rt.split.Split(context.Background(), appremux.SplitInput{
		InputPath: inputPath,
		BaseDir:   baseDir,
		Segment:   segmentName,
	})
	if err != nil {
		rt.log.Errorf("Split failed: %v", err)
		return 0
	}
	return result.Count()
}

// Probe writes the metadata, best tracks and duration of inputPath to the
// report writer and returns ProbeOk, or ProbeError when it cannot be opened
func Probe(inputPath string) string {
	rt, err := current()
	if err != nil {
		notInitialized("probe")
		return ProbeError
	}

	report, err := rt.probe.Probe(context.Background(), inputPath)
	if err != nil {
		rt.log.Errorf("Probe failed: %v", err)
		return ProbeError
	}

	for _, line := range report.Lines() {
		fmt.Fprintln(rt.report, line)
	}
	return ProbeOk
}
