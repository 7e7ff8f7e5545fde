// Package index provides the queryable recording index for the review
// session: time-ordered segments for a camera and day, coalesced
// availability bands, and the policy that places the playhead inside
// recorded time.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
)

const secondsPerDay = 86400.0

// Window is a segment projected onto a selected day: the recording file
// plus its offsets in seconds from the day start. A segment spanning
// midnight is clipped to the day.
type Window struct {
	Segment  *models.Segment `json:"segment"`
	DayStart float64         `json:"day_start"`
	DayEnd   float64         `json:"day_end"`
}

// Contains reports whether the seconds-of-day offset falls inside the
// window. DayStart is inclusive, DayEnd exclusive.
func (w Window) Contains(secondsOfDay float64) bool {
	return secondsOfDay >= w.DayStart && secondsOfDay < w.DayEnd
}

// Service answers recording-availability queries against the segment store
type Service struct {
	repos *db.Repositories
}

// NewService creates a new index service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// DaySegments returns the segments for a camera that overlap the given day,
// ordered ascending by start time, projected to day offsets. An empty
// result is valid and means no recordings exist for that day.
func (s *Service) DaySegments(ctx context.Context, cameraID uuid.UUID, day models.DateKey) ([]Window, error) {
	if _, err := s.repos.Cameras.GetByID(ctx, cameraID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCameraNotFound
		}
		return nil, fmt.Errorf("failed to get camera: %w", err)
	}

	segments, err := s.repos.Segments.ListOverlapping(ctx, cameraID, day.Start(), day.End())
	if err != nil {
		return nil, fmt.Errorf("failed to query day segments: %w", err)
	}

	windows := make([]Window, 0, len(segments))
	for _, segment := range segments {
		windows = append(windows, projectWindow(segment, day))
	}

	logger.Log.Debug().
		Str("camera_id", cameraID.String()).
		Str("day", day.String()).
		Int("segments", len(windows)).
		Msg("Day segments resolved")

	return windows, nil
}

// AvailableRanges returns the coalesced availability bands for a camera/day
func (s *Service) AvailableRanges(ctx context.Context, cameraID uuid.UUID, day models.DateKey) ([]Range, error) {
	windows, err := s.DaySegments(ctx, cameraID, day)
	if err != nil {
		return nil, err
	}

	ranges := make([]Range, 0, len(windows))
	for _, w := range windows {
		ranges = append(ranges, Range{
			Start: day.Start().Add(secondsToDuration(w.DayStart)),
			End:   day.Start().Add(secondsToDuration(w.DayEnd)),
		})
	}
	return Coalesce(ranges), nil
}

// ResolveAt returns the segment window containing the seconds-of-day
// offset, or ErrNoSegment when the playhead sits in a gap.
func (s *Service) ResolveAt(ctx context.Context, cameraID uuid.UUID, day models.DateKey, secondsOfDay float64) (*Window, error) {
	windows, err := s.DaySegments(ctx, cameraID, day)
	if err != nil {
		return nil, err
	}

	for i := range windows {
		if windows[i].Contains(secondsOfDay) {
			return &windows[i], nil
		}
	}
	return nil, ErrNoSegment
}

// InitialPlayhead decides where the playhead belongs after the availability
// bands for a day are (re)built. A playhead already inside recorded time
// stays put; otherwise it moves to the start of the first band, or to 0
// when the day has no recordings. The boolean reports whether the caller
// must write the returned value back (with a timeline origin).
func InitialPlayhead(ranges []Range, day models.DateKey, currentSeconds float64) (float64, bool) {
	current := day.Start().Add(secondsToDuration(currentSeconds))
	for _, r := range ranges {
		if r.Contains(current) {
			return currentSeconds, false
		}
	}

	if len(ranges) == 0 {
		return 0, true
	}
	offset := ranges[0].Start.Sub(day.Start()).Seconds()
	if offset < 0 {
		offset = 0
	}
	return offset, true
}

// projectWindow clips a segment to the day and computes its offsets
func projectWindow(segment *models.Segment, day models.DateKey) Window {
	start := segment.StartTime.Sub(day.Start()).Seconds()
	end := segment.EndTime.Sub(day.Start()).Seconds()
	if start < 0 {
		start = 0
	}
	if end > secondsPerDay {
		end = secondsPerDay
	}
	return Window{Segment: segment, DayStart: start, DayEnd: end}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
