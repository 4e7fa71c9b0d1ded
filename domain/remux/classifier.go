package remux

import "tscut/domain/media"

// Classification is the per-kind partition of an input container's tracks.
// Index lists are in input order.
type Classification struct {
	Kinds     []media.Kind
	TimeBases []media.Rational

	Video    []int
	Audio    []int
	Subtitle []int
	Other    []int
}

// Classify inspects the track list of an opened input. Time bases are
// captured here and used for every packet of the run.
func Classify(tracks []media.Track) Classification {
	c := Classification{
		Kinds:     make([]media.Kind, len(tracks)),
		TimeBases: make([]media.Rational, len(tracks)),
	}

	for i, t := range tracks {
		c.Kinds[i] = t.Kind
		c.TimeBases[i] = t.TimeBase

		switch t.Kind {
		case media.KindVideo:
			c.Video = append(c.Video, i)
		case media.KindAudio:
			c.Audio = append(c.Audio, i)
		case media.KindSubtitle:
			c.Subtitle = append(c.Subtitle, i)
		default:
			c.Other = append(c.Other, i)
		}
	}

	return c
}

// Len returns the number of classified tracks
func (c Classification) Len() int {
	return len(c.Kinds)
}

// TimeBase returns the captured time base of an input track
func (c Classification) TimeBase(index int) media.Rational {
	if index < 0 || index >= len(c.TimeBases) {
		return media.Rational{}
	}
	return c.TimeBases[index]
}
