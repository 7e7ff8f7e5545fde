package timeline

import "math"

// TickKind classifies a timeline tick mark
type TickKind string

// Tick granularities
const (
	TickHour   TickKind = "hour"
	TickMinute TickKind = "minute"
	TickSecond TickKind = "second"
)

// Zoom thresholds below which fine-grained ticks are skipped to bound
// rendering cost.
const (
	minuteTickMinZoom = 2.0
	secondTickMinZoom = 4.0
)

// Tick is one renderable tick mark on the strip
type Tick struct {
	Seconds float64  `json:"seconds"`
	Pixel   float64  `json:"pixel"`
	Kind    TickKind `json:"kind"`
}

// VisibleTicks computes the tick marks whose pixel positions intersect the
// visible window. Hour ticks are always present; minute and second ticks
// appear only past their zoom thresholds. Each position is emitted once, at
// its coarsest granularity.
func (v View) VisibleTicks() []Tick {
	width := v.Width()
	if width <= 0 || v.ViewportWidth <= 0 {
		return nil
	}

	secondsPerPixel := secondsPerDay / width
	startSec := v.LeftOffset * secondsPerPixel
	endSec := (v.LeftOffset + v.ViewportWidth) * secondsPerPixel
	if endSec > secondsPerDay {
		endSec = secondsPerDay
	}

	var ticks []Tick
	ticks = v.appendTicks(ticks, startSec, endSec, 3600, TickHour)
	if v.Zoom > minuteTickMinZoom {
		ticks = v.appendTicks(ticks, startSec, endSec, 60, TickMinute)
	}
	if v.Zoom > secondTickMinZoom {
		ticks = v.appendTicks(ticks, startSec, endSec, 1, TickSecond)
	}
	return ticks
}

// appendTicks emits every multiple of step inside [startSec, endSec],
// skipping positions already covered by a coarser granularity.
func (v View) appendTicks(ticks []Tick, startSec, endSec, step float64, kind TickKind) []Tick {
	coarser := coarserStep(kind)

	first := math.Ceil(startSec/step) * step
	for sec := first; sec <= endSec; sec += step {
		if coarser > 0 && math.Mod(sec, coarser) == 0 {
			continue
		}
		ticks = append(ticks, Tick{
			Seconds: sec,
			Pixel:   v.TimeToPixel(sec),
			Kind:    kind,
		})
	}
	return ticks
}

func coarserStep(kind TickKind) float64 {
	switch kind {
	case TickMinute:
		return 3600
	case TickSecond:
		return 60
	default:
		return 0
	}
}
