package player

import (
	"sync"
	"time"
)

// Element is the playable-resource capability the state machine drives.
// Implementations must not call back into the machine synchronously from
// Load/Play/Pause/SetPosition; the ready callback is always delivered on a
// later tick.
type Element interface {
	// Load swaps the underlying media resource. Playback stops until the
	// resource is ready.
	Load(fileRef string)

	// Play starts native playback of the loaded resource
	Play()

	// Pause halts native playback, keeping the current position
	Pause()

	// Position returns the native playback position in seconds
	Position() float64

	// SetPosition seeks the native playback position
	SetPosition(seconds float64)

	// OnReady registers fn to be invoked each time a loaded resource
	// becomes playable
	OnReady(fn func())
}

// ClockElement is the production Element: it models playback position from
// a monotonic wall clock while playing. Load reports readiness on the next
// tick, standing in for the media element's canplay signal.
type ClockElement struct {
	mu           sync.Mutex
	ref          string
	loaded       bool
	playing      bool
	base         float64
	playingSince time.Time
	ready        func()
}

// NewClockElement creates a detached clock-backed element
func NewClockElement() *ClockElement {
	return &ClockElement{}
}

// Load swaps the resource reference and rewinds to position 0
func (e *ClockElement) Load(fileRef string) {
	e.mu.Lock()
	e.ref = fileRef
	e.loaded = true
	e.playing = false
	e.base = 0
	ready := e.ready
	e.mu.Unlock()

	if ready != nil {
		go ready()
	}
}

// Play starts the position clock
func (e *ClockElement) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded || e.playing {
		return
	}
	e.playing = true
	e.playingSince = time.Now()
}

// Pause freezes the position clock
func (e *ClockElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return
	}
	e.base += time.Since(e.playingSince).Seconds()
	e.playing = false
}

// Position returns the modeled playback position
func (e *ClockElement) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		return e.base + time.Since(e.playingSince).Seconds()
	}
	return e.base
}

// SetPosition seeks the modeled position
func (e *ClockElement) SetPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base = seconds
	e.playingSince = time.Now()
}

// OnReady registers the readiness callback
func (e *ClockElement) OnReady(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = fn
}

// Ref returns the currently loaded resource reference
func (e *ClockElement) Ref() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ref
}
