package remux

import "fmt"

// TrimMode is the phase of a cut
type TrimMode int

const (
	// Skipping discards packets until a qualifying video keyframe
	Skipping TrimMode = iota
	// Forwarding writes every routed packet
	Forwarding
	// Halted stops the run
	Halted
)

func (m TrimMode) String() string {
	switch m {
	case Skipping:
		return "skipping"
	case Forwarding:
		return "forwarding"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("TrimMode(%d)", int(m))
	}
}

// Decision is what to do with one packet
type Decision int

const (
	Drop Decision = iota
	Forward
	Halt
)

func (d Decision) String() string {
	switch d {
	case Drop:
		return "drop"
	case Forward:
		return "forward"
	case Halt:
		return "halt"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// TrimState is the observable state of a TrimPolicy. Times are in seconds.
type TrimState struct {
	Mode         TrimMode
	Skip         float64
	Duration     float64
	SegmentStart float64
	StreamStart  float64
}

// TrimPolicy decides, packet by packet, which part of the input a cut keeps.
// Only packets of the video track move it between modes: the segment begins
// at the first video keyframe at least Skip seconds after the first video
// packet, and ends before the first video packet more than Duration seconds
// after the segment start. Duration <= 0 keeps everything to the end.
type TrimPolicy struct {
	state      TrimState
	videoTrack int
	started    bool

	skipped   int
	forwarded int
}

// NewTrimPolicy creates a policy in Skipping mode. A negative videoTrack
// means the input has no video and the policy never leaves Skipping.
func NewTrimPolicy(skip, duration float64, videoTrack int) *TrimPolicy {
	return &TrimPolicy{
		state: TrimState{
			Mode:     Skipping,
			Skip:     skip,
			Duration: duration,
		},
		videoTrack: videoTrack,
	}
}

// Decide classifies a packet of the given input track presented at t seconds
func (p *TrimPolicy) Decide(track int, t float64, keyframe bool) Decision {
	if p.state.Mode == Halted {
		return Halt
	}

	if track != p.videoTrack || p.videoTrack < 0 {
		if p.state.Mode == Forwarding {
			return Forward
		}
		return Drop
	}

	if !p.started {
		p.started = true
		p.state.StreamStart = t
	}

	if p.state.Mode == Skipping {
		if t-p.state.StreamStart < p.state.Skip || !keyframe {
			p.skipped++
			return Drop
		}
		p.state.Mode = Forwarding
		p.state.SegmentStart = t
		p.forwarded++
		return Forward
	}

	if p.state.Duration > 0 && t-p.state.SegmentStart > p.state.Duration {
		p.state.Mode = Halted
		return Halt
	}

	p.forwarded++
	return Forward
}

// State returns a snapshot of the policy state
func (p *TrimPolicy) State() TrimState {
	return p.state
}

// SkippedVideo returns the number of video packets dropped while skipping
func (p *TrimPolicy) SkippedVideo() int {
	return p.skipped
}

// ForwardedVideo returns the number of video packets forwarded
func (p *TrimPolicy) ForwardedVideo() int {
	return p.forwarded
}
