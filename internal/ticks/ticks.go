// Package ticks keeps the operator's tick marks inside the fire phase.
//
// Marks are seconds since the start of the drill. They stay fractional while dragged and are
// snapped to whole seconds when the drag ends.
package ticks

import "math"

// Range is the closed span of whole seconds a mark may take.
type Range struct {
	Low  int
	High int
}

// Slots is the largest number of marks the range accepts, leaving one slot free at all times.
func (r Range) Slots() int {
	if r.High <= r.Low {
		return 0
	}
	return r.High - r.Low
}

// Contains reports whether v lies in [Low, High].
func (r Range) Contains(v float64) bool {
	return v >= float64(r.Low) && v <= float64(r.High)
}

// Clamp limits v to [Low, High].
func (r Range) Clamp(v float64) float64 {
	return math.Max(float64(r.Low), math.Min(v, float64(r.High)))
}

// AddTick returns the next free slot: the slot nearest the middle of the range, trying above
// before below at each distance. ok is false when the range has no room for another mark.
func AddTick(existing []float64, r Range) (value float64, ok bool) {
	if len(existing) >= r.Slots() {
		return 0, false
	}

	occupied := make(map[float64]bool, len(existing))
	for _, v := range existing {
		occupied[math.Round(v)] = true
	}

	center := float64(r.Low+r.High) / 2
	maxDist := math.Ceil(float64(r.High-r.Low) / 2)
	for d := 0.0; d <= maxDist; d++ {
		for _, candidate := range []float64{center + d, center - d} {
			if !r.Contains(candidate) {
				continue
			}
			slot := math.Round(candidate)
			if !occupied[slot] {
				return slot, true
			}
		}
	}
	return 0, false
}

// RemoveLast drops the most recently added mark.
func RemoveLast(existing []float64) []float64 {
	if len(existing) == 0 {
		return existing
	}
	return append([]float64(nil), existing[:len(existing)-1]...)
}

// DragUpdate moves mark index to value, clamped to the range. The value is not snapped.
// An index outside the list leaves the marks unchanged.
func DragUpdate(existing []float64, index int, value float64, r Range) []float64 {
	updated := append([]float64(nil), existing...)
	if index < 0 || index >= len(updated) {
		return updated
	}
	updated[index] = r.Clamp(value)
	return updated
}

// CommitRound snaps every mark to the nearest whole second.
func CommitRound(existing []float64) []float64 {
	rounded := make([]float64, len(existing))
	for i, v := range existing {
		rounded[i] = math.Round(v)
	}
	return rounded
}

// ToOffsets maps each mark to its distance in pixels from the left end of a track.
func ToOffsets(existing []float64, r Range, trackWidth float64) []float64 {
	offsets := make([]float64, len(existing))
	span := float64(r.High - r.Low)
	if span <= 0 {
		return offsets
	}
	for i, v := range existing {
		offsets[i] = (v - float64(r.Low)) / span * trackWidth
	}
	return offsets
}

// OffsetToValue is the inverse of ToOffsets for one position on the track, clamped to the track.
func OffsetToValue(offset float64, r Range, trackWidth float64) float64 {
	if trackWidth <= 0 {
		return float64(r.Low)
	}
	offset = math.Max(0, math.Min(offset, trackWidth))
	return offset/trackWidth*float64(r.High-r.Low) + float64(r.Low)
}

// PruneOutOfRange keeps the marks whose nearest whole second lies in the range.
func PruneOutOfRange(existing []float64, r Range) []float64 {
	kept := make([]float64, 0, len(existing))
	for _, v := range existing {
		if r.Contains(math.Round(v)) {
			kept = append(kept, v)
		}
	}
	return kept
}
