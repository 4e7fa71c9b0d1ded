package remux

import "tscut/domain/media"

// VideoTrackPolicy selects the video track that drives trim alignment
type VideoTrackPolicy int

const (
	// FirstVideoTrackPolicy makes the first video track in input order
	// authoritative. Additional video tracks are routed but never consulted.
	FirstVideoTrackPolicy VideoTrackPolicy = iota
)

// Select returns the authoritative input track index, or -1 when the input
// has no video track
func (p VideoTrackPolicy) Select(c Classification) int {
	if len(c.Video) == 0 {
		return -1
	}
	return c.Video[0]
}

// Dropped is the output index of a route whose packets are discarded
const Dropped = -1

// Route is the destination of one input track
type Route struct {
	Output int
	Track  int
}

// Dropped returns true if packets of the track are discarded
func (r Route) Dropped() bool {
	return r.Output == Dropped
}

var droppedRoute = Route{Output: Dropped, Track: Dropped}

// StreamMapping routes every input track index to a destination. It is
// built once before the packet loop and has no mutating methods.
type StreamMapping struct {
	routes     []Route
	outputs    int
	videoTrack int
}

// RouteCut keeps video, audio and subtitle tracks in a single output, with
// sequential track indices in input order
func RouteCut(c Classification) StreamMapping {
	m := StreamMapping{
		routes:     make([]Route, c.Len()),
		outputs:    1,
		videoTrack: FirstVideoTrackPolicy.Select(c),
	}

	next := 0
	for i, kind := range c.Kinds {
		if !isCutKind(kind) {
			m.routes[i] = droppedRoute
			continue
		}
		m.routes[i] = Route{Output: 0, Track: next}
		next++
	}

	return m
}

// RouteSplit gives every audio track a dedicated single-track output.
// Output n holds the n-th audio track in input order.
func RouteSplit(c Classification) StreamMapping {
	m := StreamMapping{
		routes:     make([]Route, c.Len()),
		videoTrack: -1,
	}

	for i := range m.routes {
		m.routes[i] = droppedRoute
	}
	for n, idx := range c.Audio {
		m.routes[idx] = Route{Output: n, Track: 0}
	}
	m.outputs = len(c.Audio)

	return m
}

// Len returns the number of input tracks covered by the mapping
func (m StreamMapping) Len() int {
	return len(m.routes)
}

// Route returns the destination of an input track. Indices outside the
// table are dropped.
func (m StreamMapping) Route(input int) Route {
	if input < 0 || input >= len(m.routes) {
		return droppedRoute
	}
	return m.routes[input]
}

// Outputs returns the number of output containers the mapping writes to
func (m StreamMapping) Outputs() int {
	return m.outputs
}

// VideoTrack returns the input index of the authoritative video track, or -1
func (m StreamMapping) VideoTrack() int {
	return m.videoTrack
}

// Inputs returns the input track indices routed to an output, ordered by
// their destination track index
func (m StreamMapping) Inputs(output int) []int {
	var in []int
	for i, r := range m.routes {
		if r.Output == output && output != Dropped {
			in = append(in, i)
		}
	}
	return in
}

func isCutKind(k media.Kind) bool {
	return k == media.KindVideo || k == media.KindAudio || k == media.KindSubtitle
}
