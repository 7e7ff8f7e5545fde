// Package playhead owns the shared "current time of day" position and the
// play/pause command state for a review session. The position is the single
// source of truth shared by the timeline and the player; every write carries
// the origin that produced it so observers can tell self-generated updates
// from navigation.
package playhead

import (
	"math"

	"github.com/mkessler/rewind/internal/state"
)

const secondsPerDay = 86400.0

// Source identifies which component last wrote the playhead
type Source string

// Playhead write origins
const (
	// SourceUser marks direct scrub input (click, drag, keyboard)
	SourceUser Source = "user"

	// SourcePlayer marks progress published by native playback advancing
	SourcePlayer Source = "player"

	// SourceTimeline marks programmatic repositioning by the timeline layer
	// (initial placement, camera/day change)
	SourceTimeline Source = "timeline"
)

// Position is one atomic playhead sample: offset from the start of the
// selected day plus the origin of the write. Value and source always travel
// together; observers never see one without the other.
type Position struct {
	Seconds float64 `json:"seconds"`
	Source  Source  `json:"source"`
}

// Playback is the play/pause command state
type Playback string

// Playback command states
const (
	PlaybackPlaying Playback = "playing"
	PlaybackPaused  Playback = "paused"
)

// Session holds the shared state of one review session. It is created once
// by the application and passed into each component; tests construct their
// own fresh instance per case.
type Session struct {
	position *state.Value[Position]
	playback *state.Value[Playback]
}

// NewSession creates a session with the playhead at the start of the day,
// paused.
func NewSession() *Session {
	return &Session{
		position: state.NewValue(Position{Seconds: 0, Source: SourceTimeline}),
		playback: state.NewValue(PlaybackPaused),
	}
}

// Position returns the latest playhead sample
func (s *Session) Position() Position {
	return s.position.Get()
}

// SetPosition writes the playhead. The value is sanitized before it enters
// shared state: NaN and infinities collapse to 0, out-of-day values clamp
// into [0, 86400). User- and timeline-origin writes force playback to
// Paused; player-origin progress leaves the command state untouched.
func (s *Session) SetPosition(seconds float64, source Source) {
	if source != SourcePlayer {
		s.playback.Set(PlaybackPaused)
	}
	s.position.Set(Position{Seconds: sanitizeSeconds(seconds), Source: source})
}

// Playback returns the current play/pause command state
func (s *Session) Playback() Playback {
	return s.playback.Get()
}

// SetPlayback writes the play/pause command state
func (s *Session) SetPlayback(p Playback) {
	s.playback.Set(p)
}

// SubscribePosition registers an observer for playhead writes
func (s *Session) SubscribePosition(fn func(Position)) *state.Subscription {
	return s.position.Subscribe(fn)
}

// SubscribePlayback registers an observer for command state changes
func (s *Session) SubscribePlayback(fn func(Playback)) *state.Subscription {
	return s.playback.Subscribe(fn)
}

// Reset returns the playhead to the start of the day, paused. Used when the
// selected camera or day changes.
func (s *Session) Reset() {
	s.SetPosition(0, SourceTimeline)
}

// Close tears down all observers registered against the session
func (s *Session) Close() {
	s.position.Close()
	s.playback.Close()
}

// sanitizeSeconds guards the shared state against degenerate geometry
// results. NaN must never propagate.
func sanitizeSeconds(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= secondsPerDay {
		return math.Nextafter(secondsPerDay, 0)
	}
	return v
}
