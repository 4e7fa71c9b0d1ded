package media

// Kind is the media type carried by a track
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
	KindSubtitle
	KindData
	KindAttachment
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindSubtitle:
		return "subtitle"
	case KindData:
		return "data"
	case KindAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}
