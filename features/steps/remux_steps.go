//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appremux "tscut/application/remux"
	"tscut/cmd"
	"tscut/domain/media"
	"tscut/domain/remux"
	"tscut/infrastructure/config"
	"tscut/infrastructure/filesystem"
	"tscut/infrastructure/memory"

	"github.com/cucumber/godog"
	"github.com/sirupsen/logrus"
)

type remuxContext struct {
	tempDir   string
	library   *memory.Library
	inputPath string
	streams   []memory.Stream
	metadata  media.Metadata
	duration  float64
	output    *bytes.Buffer
	err       error
}

var SharedRemuxContext = &remuxContext{}

func InitializeRemuxScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedRemuxContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "remux-test-*")
		if err != nil {
			return c, err
		}
		*testCtx = remuxContext{
			tempDir: tempDir,
			library: memory.NewLibrary(),
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a (\d+) second recording "([^"]*)" with tracks:$`, testCtx.aRecordingWithTracks)
	ctx.Step(`^the recording has metadata "([^"]*)" set to "([^"]*)"$`, testCtx.theRecordingHasMetadata)
	ctx.Step(`^the output "([^"]*)" fails to write its trailer$`, testCtx.theOutputFailsToWriteItsTrailer)
	ctx.Step(`^I cut "([^"]*)" to "([^"]*)" skipping "([^"]*)" for "([^"]*)"$`, testCtx.iCut)
	ctx.Step(`^I split the audio of "([^"]*)" into segment "([^"]*)"$`, testCtx.iSplitTheAudio)
	ctx.Step(`^I probe "([^"]*)"$`, testCtx.iProbe)
	ctx.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	ctx.Step(`^"([^"]*)" should hold (\d+) (video|audio|subtitle) packets$`, testCtx.shouldHoldPackets)
	ctx.Step(`^the first video packet of "([^"]*)" should be a keyframe at (\d+) ms$`, testCtx.theFirstVideoPacketShouldBeAt)
	ctx.Step(`^"([^"]*)" should have (\d+) tracks$`, testCtx.shouldHaveTracks)
	ctx.Step(`^these files should exist:$`, testCtx.theseFilesShouldExist)
	ctx.Step(`^the file "([^"]*)" should not exist$`, testCtx.theFileShouldNotExist)
}

func (r *remuxContext) path(name string) string {
	return filepath.Join(r.tempDir, name)
}

func (r *remuxContext) quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// aRecordingWithTracks registers a synthesized input. Every row is a track
// with its kind, codec, packet interval in seconds and keyframe spacing.
func (r *remuxContext) aRecordingWithTracks(seconds int, name string, table *godog.Table) error {
	r.duration = float64(seconds)
	r.inputPath = r.path(name)
	r.streams = nil

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		kind, err := parseKind(row.Cells[0].Value)
		if err != nil {
			return err
		}
		interval, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", row.Cells[2].Value, err)
		}
		keyEvery, err := strconv.Atoi(row.Cells[3].Value)
		if err != nil {
			return fmt.Errorf("invalid keyframe spacing %q: %w", row.Cells[3].Value, err)
		}
		r.streams = append(r.streams, memory.Stream{
			Kind:     kind,
			Codec:    row.Cells[1].Value,
			Interval: interval,
			KeyEvery: keyEvery,
		})
	}

	// The commands check that the input exists on disk
	if err := os.WriteFile(r.inputPath, nil, 0644); err != nil {
		return err
	}
	r.register()
	return nil
}

func (r *remuxContext) register() {
	in := memory.Synthesize(r.duration, r.streams...)
	in.Metadata = r.metadata
	r.library.AddInput(r.inputPath, in)
}

func (r *remuxContext) theRecordingHasMetadata(key, value string) error {
	r.metadata = append(r.metadata, media.Entry{Key: key, Value: value})
	r.register()
	return nil
}

func (r *remuxContext) theOutputFailsToWriteItsTrailer(name string) error {
	r.library.FailTrailer(r.path(name), errors.New("disk full"))
	return nil
}

func (r *remuxContext) iCut(input, output, skip, duration string) error {
	skipSeconds, err := remux.ParseOffset(skip)
	if err != nil {
		return err
	}
	durationSeconds, err := remux.ParseOffset(duration)
	if err != nil {
		return err
	}

	r.err = cmd.RunCutWithDependencies(
		context.Background(),
		r.library,
		filesystem.NewChecker(),
		r.quietLogger(),
		"",
		false,
		appremux.CutInput{
			InputPath:  r.path(input),
			OutputPath: r.path(output),
			Skip:       skipSeconds,
			Duration:   durationSeconds,
		},
		r.output,
	)
	return nil
}

func (r *remuxContext) iSplitTheAudio(input, segment string) error {
	fs := filesystem.NewChecker()
	r.err = cmd.RunSplitAudioWithDependencies(
		context.Background(),
		r.library,
		fs,
		fs,
		fs,
		r.quietLogger(),
		config.Default().Split,
		false,
		appremux.SplitInput{
			InputPath: r.path(input),
			BaseDir:   r.tempDir,
			Segment:   segment,
		},
		r.output,
	)
	return nil
}

func (r *remuxContext) iProbe(input string) error {
	r.err = cmd.RunProbeWithDependencies(
		context.Background(),
		r.library,
		filesystem.NewChecker(),
		r.quietLogger(),
		r.path(input),
		false,
		r.output,
	)
	return nil
}

func (r *remuxContext) theCommandShouldSucceed() error {
	if r.err != nil {
		return fmt.Errorf("command failed: %w", r.err)
	}
	return nil
}

func (r *remuxContext) theCommandShouldFailWith(message string) error {
	if r.err == nil {
		return fmt.Errorf("expected the command to fail, output:\n%s", r.output.String())
	}
	if !strings.Contains(r.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, r.err.Error())
	}
	return nil
}

func (r *remuxContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(r.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, r.output.String())
	}
	return nil
}

func (r *remuxContext) recorded(name string) (*memory.Output, error) {
	out, ok := r.library.Output(r.path(name))
	if !ok {
		return nil, fmt.Errorf("no output was created at %s", name)
	}
	return out, nil
}

func (r *remuxContext) shouldHoldPackets(name string, count int, kind string) error {
	out, err := r.recorded(name)
	if err != nil {
		return err
	}
	k, err := parseKind(kind)
	if err != nil {
		return err
	}

	got := 0
	for _, t := range out.Tracks() {
		if t.Kind == k {
			got += len(out.PacketsFor(t.Index))
		}
	}
	if got != count {
		return fmt.Errorf("expected %d %s packets in %s, got %d", count, kind, name, got)
	}
	return nil
}

func (r *remuxContext) theFirstVideoPacketShouldBeAt(name string, ms int) error {
	out, err := r.recorded(name)
	if err != nil {
		return err
	}
	for _, t := range out.Tracks() {
		if t.Kind != media.KindVideo {
			continue
		}
		pkts := out.PacketsFor(t.Index)
		if len(pkts) == 0 {
			return fmt.Errorf("%s has no video packets", name)
		}
		if !pkts[0].Keyframe {
			return fmt.Errorf("first video packet of %s is not a keyframe", name)
		}
		if pkts[0].PTS != int64(ms) {
			return fmt.Errorf("expected first video packet at %d ms, got %d", ms, pkts[0].PTS)
		}
		return nil
	}
	return fmt.Errorf("%s has no video track", name)
}

func (r *remuxContext) shouldHaveTracks(name string, count int) error {
	out, err := r.recorded(name)
	if err != nil {
		return err
	}
	if len(out.Tracks()) != count {
		return fmt.Errorf("expected %d tracks in %s, got %d", count, name, len(out.Tracks()))
	}
	return nil
}

func (r *remuxContext) theseFilesShouldExist(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		p := r.path(row.Cells[0].Value)
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("expected %s to exist: %w", row.Cells[0].Value, err)
		}
	}
	return nil
}

func (r *remuxContext) theFileShouldNotExist(name string) error {
	if _, err := os.Stat(r.path(name)); err == nil {
		return fmt.Errorf("expected %s not to exist", name)
	}
	return nil
}

func parseKind(s string) (media.Kind, error) {
	switch strings.ToLower(s) {
	case "video":
		return media.KindVideo, nil
	case "audio":
		return media.KindAudio, nil
	case "subtitle":
		return media.KindSubtitle, nil
	case "data":
		return media.KindData, nil
	}
	return media.KindUnknown, fmt.Errorf("unknown track kind %q", s)
}
