package mpegts

import "tscut/domain/media"

// streamInfo is what a PMT stream type tells about an elementary stream
type streamInfo struct {
	kind  media.Kind
	codec string
}

// streamTypes follows the stream_type assignments of ISO/IEC 13818-1 and
// the private values commonly seen in broadcast and Blu-ray streams.
// 0x06 (PES private data) is treated as subtitles.
var streamTypes = map[uint8]streamInfo{
	0x01: {media.KindVideo, "mpeg1video"},
	0x02: {media.KindVideo, "mpeg2video"},
	0x10: {media.KindVideo, "mpeg4"},
	0x1b: {media.KindVideo, "h264"},
	0x24: {media.KindVideo, "hevc"},

	0x03: {media.KindAudio, "mp3"},
	0x04: {media.KindAudio, "mp3"},
	0x0f: {media.KindAudio, "aac"},
	0x11: {media.KindAudio, "aac_latm"},
	0x81: {media.KindAudio, "ac3"},
	0x87: {media.KindAudio, "eac3"},

	0x06: {media.KindSubtitle, "dvb_subtitle"},
	0x90: {media.KindSubtitle, "hdmv_pgs_subtitle"},
	0x92: {media.KindSubtitle, "hdmv_text_subtitle"},

	0x15: {media.KindData, "timed_id3"},
	0x86: {media.KindData, "scte_35"},
}

func lookupStreamType(st uint8) streamInfo {
	if info, ok := streamTypes[st]; ok {
		return info
	}
	return streamInfo{media.KindData, "unknown"}
}
