package remux

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tscut/domain/media"
	"tscut/infrastructure/memory"
)

func newCutFixture(t *testing.T, in *memory.Input, opts ...ServiceOption) (*CutService, *memory.Library, string) {
	t.Helper()
	lib := memory.NewLibrary(memory.WithInput("/media/in.ts", in))
	out := filepath.Join(t.TempDir(), "out.ts")
	opts = append([]ServiceOption{WithLogger(quietLogger())}, opts...)
	return NewCutService(lib, opts...), lib, out
}

func TestCutService_SkipAndDuration(t *testing.T) {
	in := videoAudioInput(20, 4)
	in.Metadata = media.Metadata{{Key: "service_name", Value: "News"}, {Key: "title", Value: "Evening"}}
	svc, lib, outPath := newCutFixture(t, in)

	result, err := svc.Cut(context.Background(), CutInput{
		InputPath:  "/media/in.ts",
		OutputPath: outPath,
		Skip:       5,
		Duration:   6,
	})
	if err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	out, ok := lib.Output(outPath)
	if !ok {
		t.Fatal("expected output to be created")
	}

	wantVideo := []int64{8000, 9000, 10000, 11000, 12000, 13000, 14000}
	if got := millis(out.PacketsFor(0)); !equalInts(got, wantVideo) {
		t.Errorf("video PTS = %v, want %v", got, wantVideo)
	}
	wantAudio := []int64{8500, 9500, 10500, 11500, 12500, 13500, 14500}
	if got := millis(out.PacketsFor(1)); !equalInts(got, wantAudio) {
		t.Errorf("audio PTS = %v, want %v", got, wantAudio)
	}

	first := out.PacketsFor(0)[0]
	if !first.Keyframe {
		t.Error("expected first forwarded video packet to be a keyframe")
	}

	if !result.Halted || !result.Started {
		t.Errorf("Halted = %v Started = %v, want both true", result.Halted, result.Started)
	}
	if result.SegmentStart != 8 || result.StreamStart != 0 {
		t.Errorf("SegmentStart = %v StreamStart = %v", result.SegmentStart, result.StreamStart)
	}
	if result.SkippedVideo != 8 || result.ForwardedVideo != 7 {
		t.Errorf("SkippedVideo = %d ForwardedVideo = %d, want 8 and 7", result.SkippedVideo, result.ForwardedVideo)
	}
	if result.Output.Written != 14 || result.Output.WriteFailures != 0 {
		t.Errorf("Output stats = %+v", result.Output)
	}

	if !out.HeaderWritten() || !out.TrailerWritten() || !out.Closed() {
		t.Error("expected header, trailer and close")
	}
	if v, _ := out.Metadata().Get("title"); v != "Evening" {
		t.Errorf("metadata title = %q, want Evening", v)
	}
	for _, tr := range out.Tracks() {
		if tr.Params.CodecTag() != 0 {
			t.Errorf("track %d codec tag = %#x, want 0", tr.Index, tr.Params.CodecTag())
		}
	}
	if in.Tracks[0].Params.CodecTag() != 0x1b {
		t.Error("expected input codec tag to be untouched")
	}
	for _, p := range out.Packets() {
		if p.Pos != media.UnknownPosition {
			t.Fatalf("packet position = %d, want %d", p.Pos, media.UnknownPosition)
		}
	}
}

func TestCutService_NoVideoTrack(t *testing.T) {
	in := memory.Synthesize(20, memory.Stream{Kind: media.KindAudio, Codec: "aac", Interval: 0.5})
	svc, lib, outPath := newCutFixture(t, in)

	result, err := svc.Cut(context.Background(), CutInput{
		InputPath:  "/media/in.ts",
		OutputPath: outPath,
		Skip:       5,
		Duration:   6,
	})
	if err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	out, _ := lib.Output(outPath)
	if len(out.Packets()) != 0 {
		t.Errorf("packets = %d, want 0", len(out.Packets()))
	}
	if !out.HeaderWritten() || !out.TrailerWritten() {
		t.Error("expected header and trailer")
	}
	if result.Started {
		t.Error("expected the segment never to start")
	}
}

func TestCutService_UnreadableInput(t *testing.T) {
	svc, lib, outPath := newCutFixture(t, videoAudioInput(4, 1))

	_, err := svc.Cut(context.Background(), CutInput{
		InputPath:  "/media/missing.ts",
		OutputPath: outPath,
		Skip:       5,
		Duration:   6,
	})

	if media.KindOf(err) != media.OpenInputFailure {
		t.Fatalf("Cut() error kind = %v, want %v (err %v)", media.KindOf(err), media.OpenInputFailure, err)
	}
	if len(lib.Created()) != 0 {
		t.Errorf("created outputs = %v, want none", lib.Created())
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat error = %v", err)
	}
}

func TestCutService_FullCopy(t *testing.T) {
	in := videoAudioInput(10, 5)
	svc, lib, outPath := newCutFixture(t, in)

	result, err := svc.Cut(context.Background(), CutInput{
		InputPath:  "/media/in.ts",
		OutputPath: outPath,
	})
	if err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	out, _ := lib.Output(outPath)
	if len(out.Packets()) != len(in.Packets) {
		t.Errorf("packets = %d, want %d", len(out.Packets()), len(in.Packets))
	}
	if result.Halted || result.SegmentStart != 0 {
		t.Errorf("Halted = %v SegmentStart = %v", result.Halted, result.SegmentStart)
	}

	// per-track order is preserved
	for track := 0; track < 2; track++ {
		pkts := out.PacketsFor(track)
		for i := 1; i < len(pkts); i++ {
			if pkts[i].PTS <= pkts[i-1].PTS {
				t.Fatalf("track %d out of order at %d", track, i)
			}
		}
	}
}

func TestCutService_DropsDataTracks(t *testing.T) {
	in := memory.Synthesize(4,
		memory.Stream{Kind: media.KindData, Codec: "scte35", Interval: 1},
		memory.Stream{Kind: media.KindVideo, Codec: "h264", Interval: 1},
		memory.Stream{Kind: media.KindSubtitle, Codec: "dvb_subtitle", Interval: 2},
	)
	svc, lib, outPath := newCutFixture(t, in)

	if _, err := svc.Cut(context.Background(), CutInput{InputPath: "/media/in.ts", OutputPath: outPath}); err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	out, _ := lib.Output(outPath)
	tracks := out.Tracks()
	if len(tracks) != 2 || tracks[0].Kind != media.KindVideo || tracks[1].Kind != media.KindSubtitle {
		t.Fatalf("output tracks = %+v, want video then subtitle", tracks)
	}
	if len(out.PacketsFor(0)) != 4 || len(out.PacketsFor(1)) != 2 {
		t.Errorf("packets video = %d subtitle = %d", len(out.PacketsFor(0)), len(out.PacketsFor(1)))
	}
}

func TestCutService_PreserveStreamIDs(t *testing.T) {
	svc, lib, outPath := newCutFixture(t, videoAudioInput(2, 1), WithPreserveStreamIDs(true))

	if _, err := svc.Cut(context.Background(), CutInput{InputPath: "/media/in.ts", OutputPath: outPath}); err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	out, _ := lib.Output(outPath)
	if out.Tracks()[0].ID != 0x100 || out.Tracks()[1].ID != 0x101 {
		t.Errorf("output IDs = %#x %#x, want 0x100 0x101", out.Tracks()[0].ID, out.Tracks()[1].ID)
	}
}

func TestCutService_PacketWriteFailureIsRecoverable(t *testing.T) {
	svc, lib, outPath := newCutFixture(t, videoAudioInput(6, 1))
	lib.FailPacket(outPath, 2, errInjected)

	result, err := svc.Cut(context.Background(), CutInput{InputPath: "/media/in.ts", OutputPath: outPath})
	if err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	if result.Output.WriteFailures != 1 || result.Output.Written != 11 {
		t.Errorf("Output stats = %+v, want 11 written and 1 failure", result.Output)
	}
	out, _ := lib.Output(outPath)
	if !out.TrailerWritten() {
		t.Error("expected trailer after recoverable failure")
	}
}

func TestCutService_Failures(t *testing.T) {
	tests := []struct {
		name     string
		inject   func(lib *memory.Library, out string)
		wantKind media.ErrorKind
		closed   bool
	}{
		{
			name:     "create output",
			inject:   func(lib *memory.Library, out string) { lib.FailCreate(out, errInjected) },
			wantKind: media.OpenOutputFailure,
		},
		{
			name:     "add track",
			inject:   func(lib *memory.Library, out string) { lib.FailAddTrack(out, errInjected) },
			wantKind: media.OpenOutputFailure,
			closed:   true,
		},
		{
			name:     "header",
			inject:   func(lib *memory.Library, out string) { lib.FailHeader(out, errInjected) },
			wantKind: media.HeaderWriteFailure,
			closed:   true,
		},
		{
			name:     "trailer",
			inject:   func(lib *memory.Library, out string) { lib.FailTrailer(out, errInjected) },
			wantKind: media.TrailerWriteFailure,
			closed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, lib, outPath := newCutFixture(t, videoAudioInput(4, 1))
			tt.inject(lib, outPath)

			_, err := svc.Cut(context.Background(), CutInput{InputPath: "/media/in.ts", OutputPath: outPath})

			if media.KindOf(err) != tt.wantKind {
				t.Fatalf("Cut() error = %v, want kind %v", err, tt.wantKind)
			}
			if !media.IsFatal(err) {
				t.Error("expected a fatal error")
			}
			if !strings.Contains(err.Error(), outPath) {
				t.Errorf("error %q should name the output", err)
			}
			if tt.closed {
				out, _ := lib.Output(outPath)
				if !out.Closed() {
					t.Error("expected output to be closed on failure")
				}
			}
		})
	}
}

func TestCutService_InvalidRequest(t *testing.T) {
	svc, lib, outPath := newCutFixture(t, videoAudioInput(4, 1))

	_, err := svc.Cut(context.Background(), CutInput{InputPath: "/media/in.ts", OutputPath: outPath, Skip: -1})
	if err == nil {
		t.Fatal("Cut() expected error, got nil")
	}
	if media.KindOf(err) != 0 {
		t.Errorf("validation error should be unclassified, got %v", media.KindOf(err))
	}
	if len(lib.Created()) != 0 {
		t.Error("expected no output for an invalid request")
	}
}
