package index

import "errors"

// Custom index errors
var (
	// ErrCameraNotFound indicates the requested camera does not exist
	ErrCameraNotFound = errors.New("camera not found")

	// ErrNoSegment indicates no recording covers the requested position.
	// This is an expected steady state, not a fault: gaps between
	// recordings are normal.
	ErrNoSegment = errors.New("no recording segment at position")
)

// IsNoSegment checks if the error is a no-segment lookup miss
func IsNoSegment(err error) bool {
	return errors.Is(err, ErrNoSegment)
}
