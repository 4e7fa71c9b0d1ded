package remux

import "testing"

const (
	videoIdx = 0
	audioIdx = 1
)

// runTrim feeds one video packet per second and one audio packet half a
// second later, with video keyframes every keyEvery seconds. It returns the
// forwarded video times, the forwarded audio times and the halt time (-1).
func runTrim(p *TrimPolicy, start, end, keyEvery int) (video, audio []float64, halt float64) {
	halt = -1
	for s := start; s <= end; s++ {
		t := float64(s)
		switch p.Decide(videoIdx, t, (s-start)%keyEvery == 0) {
		case Forward:
			video = append(video, t)
		case Halt:
			return video, audio, t
		}

		switch p.Decide(audioIdx, t+0.5, true) {
		case Forward:
			audio = append(audio, t+0.5)
		case Halt:
			return video, audio, t + 0.5
		}
	}
	return video, audio, halt
}

func equalTimes(a, b []float64) bool {
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

func TestTrimPolicy_SkipAndDuration(t *testing.T) {
	p := NewTrimPolicy(5, 6, videoIdx)

	video, audio, halt := runTrim(p, 0, 20, 4)

	wantVideo := []float64{8, 9, 10, 11, 12, 13, 14}
	if !equalTimes(video, wantVideo) {
		t.Errorf("forwarded video = %v, want %v", video, wantVideo)
	}

	wantAudio := []float64{8.5, 9.5, 10.5, 11.5, 12.5, 13.5, 14.5}
	if !equalTimes(audio, wantAudio) {
		t.Errorf("forwarded audio = %v, want %v", audio, wantAudio)
	}

	if halt != 15 {
		t.Errorf("halt at %v, want 15", halt)
	}

	state := p.State()
	if state.Mode != Halted {
		t.Errorf("Mode = %v, want %v", state.Mode, Halted)
	}
	if state.SegmentStart != 8 || state.StreamStart != 0 {
		t.Errorf("SegmentStart = %v StreamStart = %v, want 8 and 0", state.SegmentStart, state.StreamStart)
	}
	if p.SkippedVideo() != 8 {
		t.Errorf("SkippedVideo() = %d, want 8", p.SkippedVideo())
	}
	if p.ForwardedVideo() != 7 {
		t.Errorf("ForwardedVideo() = %d, want 7", p.ForwardedVideo())
	}
}

func TestTrimPolicy_HaltedIsTerminal(t *testing.T) {
	p := NewTrimPolicy(0, 1, videoIdx)

	p.Decide(videoIdx, 0, true)
	if d := p.Decide(videoIdx, 2, true); d != Halt {
		t.Fatalf("Decide() = %v, want %v", d, Halt)
	}

	for _, track := range []int{videoIdx, audioIdx, 7} {
		if d := p.Decide(track, 2.5, true); d != Halt {
			t.Errorf("Decide(track %d) after halt = %v, want %v", track, d, Halt)
		}
	}
}

func TestTrimPolicy_StreamStartOffset(t *testing.T) {
	// elapsed time is measured from the first video packet, not from zero
	p := NewTrimPolicy(5, 0, videoIdx)

	video, _, halt := runTrim(p, 100, 112, 4)

	if halt != -1 {
		t.Errorf("unexpected halt at %v", halt)
	}
	if len(video) == 0 || video[0] != 108 {
		t.Fatalf("first forwarded video = %v, want 108", video)
	}
	if p.State().StreamStart != 100 {
		t.Errorf("StreamStart = %v, want 100", p.State().StreamStart)
	}
}

func TestTrimPolicy_UnboundedCopiesFromFirstKeyframe(t *testing.T) {
	p := NewTrimPolicy(0, 0, videoIdx)

	video, audio, halt := runTrim(p, 0, 9, 3)

	if halt != -1 {
		t.Errorf("unexpected halt at %v", halt)
	}
	if len(video) != 10 || len(audio) != 10 {
		t.Errorf("forwarded %d video and %d audio packets, want 10 each", len(video), len(audio))
	}
	if p.State().Mode != Forwarding {
		t.Errorf("Mode = %v, want %v", p.State().Mode, Forwarding)
	}
}

func TestTrimPolicy_NonKeyframeAfterSkipWaits(t *testing.T) {
	p := NewTrimPolicy(1, 0, videoIdx)

	decisions := []struct {
		t    float64
		key  bool
		want Decision
	}{
		{0, true, Drop},
		{1, false, Drop},
		{2, false, Drop},
		{3, true, Forward},
		{4, false, Forward},
	}

	for _, d := range decisions {
		if got := p.Decide(videoIdx, d.t, d.key); got != d.want {
			t.Errorf("Decide(t=%v, key=%v) = %v, want %v", d.t, d.key, got, d.want)
		}
	}
}

func TestTrimPolicy_DurationBoundIsInclusive(t *testing.T) {
	p := NewTrimPolicy(0, 2, videoIdx)

	p.Decide(videoIdx, 10, true)
	if d := p.Decide(videoIdx, 12, false); d != Forward {
		t.Errorf("packet exactly at the bound = %v, want %v", d, Forward)
	}
	if d := p.Decide(videoIdx, 12.001, false); d != Halt {
		t.Errorf("packet past the bound = %v, want %v", d, Halt)
	}
}

func TestTrimPolicy_NoVideoTrackNeverForwards(t *testing.T) {
	p := NewTrimPolicy(5, 6, -1)

	for s := 0; s < 30; s++ {
		if d := p.Decide(audioIdx, float64(s), true); d != Drop {
			t.Fatalf("Decide(audio, %d) = %v, want %v", s, d, Drop)
		}
	}
	if p.State().Mode != Skipping {
		t.Errorf("Mode = %v, want %v", p.State().Mode, Skipping)
	}
}
