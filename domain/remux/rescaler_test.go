package remux

import (
	"math"
	"testing"

	"tscut/domain/media"
)

func TestRescale(t *testing.T) {
	mpegts := media.NewRational(1, 90000)
	millis := media.NewRational(1, 1000)

	tests := []struct {
		name string
		v    int64
		src  media.Rational
		dst  media.Rational
		want int64
	}{
		{"90kHz to ms", 900000, mpegts, millis, 10000},
		{"ms to 90kHz", 1500, millis, mpegts, 135000},
		{"same base", 12345, mpegts, mpegts, 12345},
		{"rounds half away from zero", 45, mpegts, millis, 1},
		{"rounds down below half", 44, mpegts, millis, 0},
		{"negative rounds half away from zero", -45, mpegts, millis, -1},
		{"no timestamp preserved", media.NoTimestamp, mpegts, millis, media.NoTimestamp},
		{"invalid source base", 100, media.Rational{}, millis, 100},
		{"frame rate base", 3, media.NewRational(1001, 30000), mpegts, 9009},
		{"large value does not overflow", math.MaxInt64 / 2, media.NewRational(1, 1000000), mpegts, 415051741658464911},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rescale(tt.v, tt.src, tt.dst); got != tt.want {
				t.Errorf("Rescale(%d, %v, %v) = %d, want %d", tt.v, tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestRescale_MatchesFormula(t *testing.T) {
	bases := []media.Rational{
		media.NewRational(1, 90000),
		media.NewRational(1, 1000),
		media.NewRational(1, 48000),
		media.NewRational(1, 44100),
	}

	for _, src := range bases {
		for _, dst := range bases {
			for _, v := range []int64{0, 1, 977, 90000, 123456789} {
				want := float64(v) * float64(src.Num) * float64(dst.Den) / (float64(src.Den) * float64(dst.Num))
				got := Rescale(v, src, dst)
				if math.Abs(float64(got)-want) > 0.5 {
					t.Errorf("Rescale(%d, %v, %v) = %d, want ~%f", v, src, dst, got, want)
				}
			}
		}
	}
}

func TestRescalePacket(t *testing.T) {
	pkt := &media.Packet{
		TrackIndex: 2,
		PTS:        180000,
		DTS:        media.NoTimestamp,
		Duration:   3600,
		Pos:        188 * 40,
		Payload:    []byte{1, 2, 3},
	}

	RescalePacket(pkt, media.NewRational(1, 90000), media.NewRational(1, 1000))

	if pkt.PTS != 2000 {
		t.Errorf("PTS = %d, want 2000", pkt.PTS)
	}
	if pkt.DTS != media.NoTimestamp {
		t.Errorf("DTS = %d, want NoTimestamp", pkt.DTS)
	}
	if pkt.Duration != 40 {
		t.Errorf("Duration = %d, want 40", pkt.Duration)
	}
	if pkt.Pos != media.UnknownPosition {
		t.Errorf("Pos = %d, want %d", pkt.Pos, media.UnknownPosition)
	}
	if pkt.TrackIndex != 2 || len(pkt.Payload) != 3 {
		t.Error("expected track index and payload to be untouched")
	}
}
