// Package review wires the shared playhead, the timeline view, the
// recording index, and the player machine into one reviewable session: a
// camera/day selection with a synchronized playhead and a zoomable
// timeline.
package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mkessler/rewind/internal/config"
	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
	"github.com/mkessler/rewind/internal/player"
	"github.com/mkessler/rewind/internal/playhead"
	"github.com/mkessler/rewind/internal/timeline"
)

// ErrNoSelection is returned by operations that require a camera/day
// selection before one has been made.
var ErrNoSelection = fmt.Errorf("no camera and day selected")

// Selection identifies the camera and day under review
type Selection struct {
	CameraID uuid.UUID      `json:"camera_id"`
	Day      models.DateKey `json:"day"`
}

// Session is the top-level review session. The playhead and playback
// command state live in the embedded playhead session; the timeline view
// is owned here and mutated only through the gesture methods.
type Session struct {
	playhead *playhead.Session
	index    *index.Service
	machine  *player.Machine

	mu           sync.Mutex
	view         timeline.View
	selection    Selection
	hasSelection bool
}

// NewSession creates a review session with a day-fitted timeline view.
// The machine must already be bound to the same playhead session.
func NewSession(cfg config.TimelineConfig, ph *playhead.Session, idx *index.Service, machine *player.Machine) *Session {
	return &Session{
		playhead: ph,
		index:    idx,
		machine:  machine,
		view:     timeline.NewView(cfg.PixelsPerHour, cfg.ViewportWidth, cfg.MaxZoomFactor),
	}
}

// Select switches the session to a camera and day. The player machine is
// retargeted, and the playhead is repositioned into recorded time: it
// stays put when already inside an availability band, otherwise it moves
// to the first band (or 0 for an empty day). Returns the coalesced
// availability bands for the selected day.
func (s *Session) Select(ctx context.Context, cameraID uuid.UUID, day models.DateKey) ([]index.Range, error) {
	ranges, err := s.index.AvailableRanges(ctx, cameraID, day)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selection = Selection{CameraID: cameraID, Day: day}
	s.hasSelection = true
	s.mu.Unlock()

	s.machine.SetTarget(cameraID, day)

	current := s.playhead.Position().Seconds
	if target, reset := index.InitialPlayhead(ranges, day, current); reset {
		s.playhead.SetPosition(target, playhead.SourceTimeline)
	} else {
		// Re-publish so the machine resolves the segment for the new target
		s.playhead.SetPosition(current, playhead.SourceTimeline)
	}

	logger.Log.Info().
		Str("camera_id", cameraID.String()).
		Str("day", day.String()).
		Int("bands", len(ranges)).
		Msg("Review selection changed")

	return ranges, nil
}

// Selection returns the current camera/day selection
func (s *Session) Selection() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, s.hasSelection
}

// Ranges returns the coalesced availability bands for the current selection
func (s *Session) Ranges(ctx context.Context) ([]index.Range, error) {
	s.mu.Lock()
	sel, ok := s.selection, s.hasSelection
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoSelection
	}
	return s.index.AvailableRanges(ctx, sel.CameraID, sel.Day)
}

// View returns the current timeline view state
func (s *Session) View() timeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Ticks returns the tick marks visible in the current view
func (s *Session) Ticks() []timeline.Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.VisibleTicks()
}

// ZoomTo rescales the view around the given anchor
func (s *Session) ZoomTo(requestedZoom, anchorSecondsOfDay float64) timeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.ZoomTo(requestedZoom, anchorSecondsOfDay)
	return s.view
}

// ZoomStep applies one zoom notch anchored at the playhead
func (s *Session) ZoomStep(in bool) timeline.View {
	anchor := s.playhead.Position().Seconds
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.ZoomStep(in, anchor)
	return s.view
}

// PanBy shifts the viewport by a pixel delta
func (s *Session) PanBy(deltaPixels float64) timeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.PanBy(deltaPixels)
	return s.view
}

// PanStep applies one keyboard pan step
func (s *Session) PanStep(right bool) timeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.PanStep(right)
	return s.view
}

// Resize updates the viewport width reported by the client
func (s *Session) Resize(viewportWidth float64) timeline.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.Resize(viewportWidth)
	return s.view
}

// ClickSeek converts a viewport-relative click position into a user scrub:
// the playhead moves to the clicked time and playback pauses.
func (s *Session) ClickSeek(clickX float64) float64 {
	s.mu.Lock()
	seconds := s.view.PixelToSeconds(clickX)
	s.mu.Unlock()

	s.playhead.SetPosition(seconds, playhead.SourceUser)
	return seconds
}

// Playhead returns the latest playhead sample
func (s *Session) Playhead() playhead.Position {
	return s.playhead.Position()
}

// Seek moves the playhead as direct user input
func (s *Session) Seek(seconds float64) {
	s.playhead.SetPosition(seconds, playhead.SourceUser)
}

// Playback returns the current play/pause command state
func (s *Session) Playback() playhead.Playback {
	return s.playhead.Playback()
}

// SetPlayback writes the play/pause command state
func (s *Session) SetPlayback(p playhead.Playback) {
	s.playhead.SetPlayback(p)
}

// PlayerState reports the machine's segment-selection state and the
// placeholder frame reference for gap rendering.
func (s *Session) PlayerState() (player.State, string) {
	return s.machine.State(), s.machine.LastFrameRef()
}

// CurrentWindow returns the segment window loaded under the playhead
func (s *Session) CurrentWindow() *index.Window {
	return s.machine.CurrentWindow()
}

// Close stops the player machine and tears down the playhead observers
func (s *Session) Close() {
	s.machine.Stop()
	s.playhead.Close()
}
