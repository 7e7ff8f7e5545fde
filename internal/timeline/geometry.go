// Package timeline provides the geometry for a zoomable, pannable 24-hour
// timeline strip: bidirectional mapping between pixel coordinates and
// seconds-of-day under a zoom/pan transform, and the mutation rules for
// zoom and pan gestures. All operations are pure; callers hold the View
// value and replace it wholesale.
package timeline

import "math"

const (
	secondsPerDay = 86400.0
	hoursPerDay   = 24.0

	defaultMaxZoomFactor = 6.0

	// Gesture deltas. These exact values define the feel of wheel and
	// keyboard navigation and are relied on by the HTTP gesture endpoints.
	ZoomStepInFactor  = 1.1
	ZoomStepOutFactor = 0.9
	PanStepPixels     = 50.0
)

// View is the state of the timeline viewport: a zoom level (relative to the
// base scale of PixelsPerHour), a horizontal offset into the zoom-scaled
// virtual canvas, and the visible width.
type View struct {
	Zoom          float64 `json:"zoom"`
	LeftOffset    float64 `json:"left_offset"`
	ViewportWidth float64 `json:"viewport_width"`

	// PixelsPerHour is the horizontal scale at zoom level 1.
	PixelsPerHour float64 `json:"pixels_per_hour"`

	// MaxZoomFactor caps Zoom; zero means the default of 6.
	MaxZoomFactor float64 `json:"max_zoom_factor,omitempty"`
}

// NewView creates a view fitted so the whole day is visible.
func NewView(pixelsPerHour, viewportWidth, maxZoomFactor float64) View {
	v := View{
		PixelsPerHour: pixelsPerHour,
		ViewportWidth: viewportWidth,
		MaxZoomFactor: maxZoomFactor,
	}
	v.Zoom = v.MinZoom()
	return v
}

// Width returns the full width of the 24-hour strip at the current zoom
func (v View) Width() float64 {
	return hoursPerDay * v.PixelsPerHour * v.Zoom
}

// MinZoom is the zoom level at which 24 hours fit the viewport exactly
func (v View) MinZoom() float64 {
	if v.PixelsPerHour <= 0 {
		return 1
	}
	return v.ViewportWidth / (hoursPerDay * v.PixelsPerHour)
}

// MaxZoom is the upper zoom bound, a fixed multiple of the base scale
func (v View) MaxZoom() float64 {
	f := v.MaxZoomFactor
	if f <= 0 {
		f = defaultMaxZoomFactor
	}
	// A very wide viewport can push the fit-day zoom past the cap; the
	// fit-day zoom always stays reachable.
	if min := v.MinZoom(); f < min {
		return min
	}
	return f
}

// TimeToPixel maps seconds-of-day to a pixel position on the strip
// (measured from the strip start, not the viewport).
func (v View) TimeToPixel(secondsOfDay float64) float64 {
	return secondsOfDay * (v.PixelsPerHour * v.Zoom) / 3600.0
}

// PixelToSeconds maps a viewport-relative click position to seconds-of-day.
// Out-of-range positions clamp into [0, 86400); a degenerate zero-width
// strip fails safe to 0 rather than letting NaN escape.
func (v View) PixelToSeconds(clickX float64) float64 {
	width := v.Width()
	frac := (clickX + v.LeftOffset) / width
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		return 0
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	sec := frac * secondsPerDay
	if sec >= secondsPerDay {
		return math.Nextafter(secondsPerDay, 0)
	}
	return sec
}

// ZoomTo rescales the view to the requested zoom, keeping the pixel
// position of anchorSecondsOfDay fixed relative to the viewport. The
// requested zoom clamps to [MinZoom, MaxZoom]; when the clamped value
// equals the current zoom the view is returned unchanged, avoiding
// redundant state writes.
func (v View) ZoomTo(requestedZoom, anchorSecondsOfDay float64) View {
	clamped := clamp(requestedZoom, v.MinZoom(), v.MaxZoom())
	if clamped == v.Zoom {
		return v
	}

	anchorInViewport := v.TimeToPixel(anchorSecondsOfDay) - v.LeftOffset

	next := v
	next.Zoom = clamped
	next.LeftOffset = clampOffset(next.TimeToPixel(anchorSecondsOfDay)-anchorInViewport, next)
	return next
}

// PanBy shifts the viewport horizontally, clamped to the strip bounds
func (v View) PanBy(deltaPixels float64) View {
	next := v
	next.LeftOffset = clampOffset(v.LeftOffset+deltaPixels, next)
	return next
}

// ZoomStep applies one wheel notch or keyboard zoom step toward the anchor.
// in=true zooms in by 1.1, otherwise out by 0.9.
func (v View) ZoomStep(in bool, anchorSecondsOfDay float64) View {
	factor := ZoomStepOutFactor
	if in {
		factor = ZoomStepInFactor
	}
	return v.ZoomTo(v.Zoom*factor, anchorSecondsOfDay)
}

// PanStep applies one keyboard pan step. right=true pans toward later times.
func (v View) PanStep(right bool) View {
	delta := -PanStepPixels
	if right {
		delta = PanStepPixels
	}
	return v.PanBy(delta)
}

// Resize updates the viewport width, re-fitting the zoom and offset bounds
func (v View) Resize(viewportWidth float64) View {
	next := v
	next.ViewportWidth = viewportWidth
	next.Zoom = clamp(v.Zoom, next.MinZoom(), next.MaxZoom())
	next.LeftOffset = clampOffset(v.LeftOffset, next)
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampOffset bounds a left offset to [0, max(0, width - viewport)]
func clampOffset(offset float64, v View) float64 {
	maxOffset := v.Width() - v.ViewportWidth
	if maxOffset < 0 {
		maxOffset = 0
	}
	return clamp(offset, 0, maxOffset)
}
