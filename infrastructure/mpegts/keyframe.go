package mpegts

import (
	"bytes"

	codec "github.com/yapingcat/gomedia/go-codec"
)

var (
	mpegSequenceHeader = []byte{0x00, 0x00, 0x01, 0xb3}
	mpeg4VOSHeader     = []byte{0x00, 0x00, 0x01, 0xb0}
)

// isKeyframe reports whether an access unit can be decoded on its own.
// Only video needs inspection; every audio, subtitle and data unit is a
// random access point.
func isKeyframe(codecName string, data []byte) bool {
	switch codecName {
	case "h264":
		return hasNAL(data, isH264IDR)
	case "hevc":
		return hasNAL(data, isH265IRAP)
	case "mpeg1video", "mpeg2video":
		return bytes.Contains(data, mpegSequenceHeader)
	case "mpeg4":
		return bytes.Contains(data, mpeg4VOSHeader) || bytes.Contains(data, mpegSequenceHeader)
	default:
		return true
	}
}

// hasNAL walks the Annex B NAL units of data and stops at the first one
// matching fn
func hasNAL(data []byte, fn func(nal []byte) bool) bool {
	start, sct := codec.FindStartCode(data, 0)
	for start >= 0 {
		body := start + int(sct)
		if body >= len(data) {
			return false
		}
		if fn(data[body:]) {
			return true
		}
		next, sct2 := codec.FindStartCode(data, start+3)
		if next < 0 {
			return false
		}
		start, sct = next, sct2
	}
	return false
}

func isH264IDR(nal []byte) bool {
	return codec.H264NaluTypeWithoutStartCode(nal) == codec.H264_NAL_I_SLICE
}

func isH265IRAP(nal []byte) bool {
	if len(nal) < 2 {
		return false
	}
	switch codec.H265NaluTypeWithoutStartCode(nal) {
	case codec.H265_NAL_SLICE_BLA_W_LP, codec.H265_NAL_SLICE_BLA_W_RADL,
		codec.H265_NAL_SLICE_BLA_N_LP, codec.H265_NAL_SLICE_IDR_W_RADL,
		codec.H265_NAL_SLICE_IDR_N_LP, codec.H265_NAL_SLICE_CRA:
		return true
	}
	return false
}
