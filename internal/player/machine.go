// Package player implements the segment-selection state machine: given the
// shared playhead, it decides which physical recording file belongs under
// the playhead, drives the playable element (load/seek/play/pause), and
// publishes playback progress back to the playhead without ever reacting to
// its own writes.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
	"github.com/mkessler/rewind/internal/playhead"
	"github.com/mkessler/rewind/internal/state"
)

// State identifies the machine's segment-selection state
type State string

// Machine states
const (
	// StateIdle means no camera/day target has been resolved yet
	StateIdle State = "idle"

	// StateLoaded means a segment is loaded and positioned under the playhead
	StateLoaded State = "loaded"

	// StateSeeking means a seek within the loaded segment is in flight
	StateSeeking State = "seeking"

	// StateNoSegment means the playhead sits in a gap with no recording;
	// the previously rendered frame is retained as a placeholder
	StateNoSegment State = "no_segment"
)

const resolveTimeout = 2 * time.Second

// Resolver answers "which segment contains this offset" queries.
// *index.Service is the production implementation.
type Resolver interface {
	ResolveAt(ctx context.Context, cameraID uuid.UUID, day models.DateKey, secondsOfDay float64) (*index.Window, error)
}

// Machine observes the shared playhead and playback command state and keeps
// the playable element in sync with both.
type Machine struct {
	session      *playhead.Session
	resolver     Resolver
	element      Element
	pollInterval time.Duration

	mu            sync.Mutex
	machineState  State
	cameraID      uuid.UUID
	day           models.DateKey
	hasTarget     bool
	current       *index.Window
	lastFrameRef  string
	lastPublished float64
	lastHandled   playhead.Position
	hasHandled    bool
	resumeOnReady bool
	started       bool
	stopped       bool

	posSub *state.Subscription
	cmdSub *state.Subscription

	ticker   *time.Ticker
	stopChan chan struct{}
	pollDone chan struct{}
}

// NewMachine creates a machine bound to a session, a segment resolver, and
// a playable element.
func NewMachine(session *playhead.Session, resolver Resolver, element Element, pollInterval time.Duration) *Machine {
	return &Machine{
		session:       session,
		resolver:      resolver,
		element:       element,
		pollInterval:  pollInterval,
		machineState:  StateIdle,
		lastPublished: -1,
		stopChan:      make(chan struct{}),
		pollDone:      make(chan struct{}),
	}
}

// Start registers the machine's observers and starts the progress poller
func (m *Machine) Start() {
	m.mu.Lock()
	if m.started || m.stopped {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.ticker = time.NewTicker(m.pollInterval)
	m.mu.Unlock()

	m.element.OnReady(m.handleReady)
	m.posSub = m.session.SubscribePosition(m.handlePosition)
	m.cmdSub = m.session.SubscribePlayback(m.handlePlayback)

	go m.runProgressLoop()

	logger.Log.Debug().
		Dur("poll_interval", m.pollInterval).
		Msg("Player machine started")
}

// Stop tears the machine down: observers are deregistered, the poller
// stops, and the playback command is forced to Paused because the element
// is no longer driven. Mandatory on teardown; safe to call more than once.
func (m *Machine) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	started := m.started
	m.mu.Unlock()

	if m.posSub != nil {
		m.posSub.Unsubscribe()
	}
	if m.cmdSub != nil {
		m.cmdSub.Unsubscribe()
	}

	if started {
		close(m.stopChan)
		<-m.pollDone
		m.ticker.Stop()
	}

	m.element.Pause()
	m.session.SetPlayback(playhead.PlaybackPaused)

	logger.Log.Debug().Msg("Player machine stopped")
}

// SetTarget points the machine at a camera/day and invalidates any loaded
// segment, forcing re-resolution on the next playhead write.
func (m *Machine) SetTarget(cameraID uuid.UUID, day models.DateKey) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cameraID = cameraID
	m.day = day
	m.hasTarget = true
	m.current = nil
	m.machineState = StateIdle
	m.hasHandled = false
	m.lastPublished = -1
	m.resumeOnReady = false
}

// State returns the current segment-selection state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machineState
}

// CurrentWindow returns the loaded segment window, or nil
func (m *Machine) CurrentWindow() *index.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// LastFrameRef returns the file whose frame is retained as a placeholder
// while no segment is loaded.
func (m *Machine) LastFrameRef() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFrameRef
}

// handlePosition reacts to playhead writes. Inside the loaded window,
// self-generated (player-origin) progress is ignored and any other origin
// seeks in place; outside the window, every origin re-resolves the segment.
func (m *Machine) handlePosition(p playhead.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || !m.hasTarget {
		return
	}

	// Redundant writes must not duplicate side effects
	if m.hasHandled && p == m.lastHandled && m.machineState != StateIdle {
		return
	}
	m.lastHandled = p
	m.hasHandled = true

	if m.current != nil && m.current.Contains(p.Seconds) {
		if p.Source == playhead.SourcePlayer {
			// Progress the machine itself published; re-seeking here
			// would oscillate.
			return
		}
		m.machineState = StateSeeking
		m.element.Pause()
		m.element.SetPosition(p.Seconds - m.current.DayStart)
		m.lastPublished = p.Seconds
		m.machineState = StateLoaded
		return
	}

	m.resolveLocked(p.Seconds)
}

// resolveLocked re-queries the index for the segment containing the offset
// and swaps the element's resource when the file changes. Callers hold mu.
func (m *Machine) resolveLocked(secondsOfDay float64) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	w, err := m.resolver.ResolveAt(ctx, m.cameraID, m.day, secondsOfDay)
	if err != nil {
		// Keep the previous frame visible instead of flashing blank
		if m.current != nil {
			m.lastFrameRef = m.current.Segment.FilePath
		}
		m.current = nil
		m.machineState = StateNoSegment
		if !index.IsNoSegment(err) {
			logger.Log.Error().
				Err(err).
				Str("camera_id", m.cameraID.String()).
				Str("day", m.day.String()).
				Float64("seconds", secondsOfDay).
				Msg("Segment resolution failed")
		}
		return
	}

	sameFile := m.current != nil && m.current.Segment.FilePath == w.Segment.FilePath
	m.current = w
	if !sameFile {
		// Auto-resume exactly once when the new resource reports ready
		m.resumeOnReady = m.session.Playback() == playhead.PlaybackPlaying
		m.element.Load(w.Segment.FilePath)
		m.lastFrameRef = w.Segment.FilePath

		logger.Log.Debug().
			Str("file", w.Segment.FilePath).
			Float64("day_start", w.DayStart).
			Float64("seconds", secondsOfDay).
			Msg("Segment loaded")
	}
	m.element.SetPosition(secondsOfDay - w.DayStart)
	m.lastPublished = secondsOfDay
	m.machineState = StateLoaded
}

// handleReady reacts to the element's readiness signal after a load
func (m *Machine) handleReady() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if m.resumeOnReady && m.session.Playback() == playhead.PlaybackPlaying {
		m.element.Play()
	}
	m.resumeOnReady = false
}

// handlePlayback starts or stops native playback to match the command state
func (m *Machine) handlePlayback(cmd playhead.Playback) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	switch cmd {
	case playhead.PlaybackPlaying:
		if m.machineState == StateLoaded && m.current != nil {
			m.element.Play()
		}
	case playhead.PlaybackPaused:
		m.element.Pause()
	}
}

// runProgressLoop publishes playback progress on a fixed cadence. The
// native timeupdate signal is too coarse and irregular for a smooth
// indicator, so the machine polls instead.
func (m *Machine) runProgressLoop() {
	defer close(m.pollDone)
	for {
		select {
		case <-m.ticker.C:
			m.publishProgress()
		case <-m.stopChan:
			return
		}
	}
}

// publishProgress reads the native position and writes the playhead with a
// player origin, but only when the value actually moved.
func (m *Machine) publishProgress() {
	m.mu.Lock()
	if m.stopped || m.machineState != StateLoaded || m.current == nil {
		m.mu.Unlock()
		return
	}
	if m.session.Playback() != playhead.PlaybackPlaying {
		m.mu.Unlock()
		return
	}

	abs := m.current.DayStart + m.element.Position()
	if abs == m.lastPublished {
		m.mu.Unlock()
		return
	}
	m.lastPublished = abs
	m.mu.Unlock()

	m.session.SetPosition(abs, playhead.SourcePlayer)
}
