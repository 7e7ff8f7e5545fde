package index

import "time"

// Range is a contiguous band of recording availability, built by merging
// touching or overlapping segment windows.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the band. Start is inclusive,
// End exclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Coalesce merges a start-ascending list of ranges into the minimal set of
// non-overlapping availability bands. A range whose start touches or falls
// inside the current band extends it; a gap emits the band and starts a new
// one. Identical (start, end) pairs are dropped up front to avoid redundant
// work.
func Coalesce(ranges []Range) []Range {
	ranges = dedupe(ranges)

	var out []Range
	var current *Range
	for _, r := range ranges {
		if current == nil {
			band := r
			current = &band
			continue
		}
		if !r.Start.After(current.End) {
			if r.End.After(current.End) {
				current.End = r.End
			}
			continue
		}
		out = append(out, *current)
		band := r
		current = &band
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

// dedupe removes identical (start, end) pairs, preserving order
func dedupe(ranges []Range) []Range {
	if len(ranges) < 2 {
		return ranges
	}

	type key struct{ start, end int64 }
	seen := make(map[key]struct{}, len(ranges))
	out := ranges[:0:0]
	for _, r := range ranges {
		k := key{r.Start.UnixNano(), r.End.UnixNano()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
