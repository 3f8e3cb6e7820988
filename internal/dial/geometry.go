// Package dial converts phase durations into angles on a ring with a gap at the bottom.
//
// Angles are in degrees, 0° points toward increasing x and positive angles turn clockwise
// (screen coordinates, y grows downward). The gap is centered on 90°, so the usable arc
// starts at 270° - available/2 and runs clockwise for available = 360° - gap.
package dial

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyDial is returned when the durations leave nothing to draw.
var ErrEmptyDial = errors.New("dial: total duration must be positive")

const angleEpsilon = 1e-9

// AvailableAngle is the part of the ring not taken by the gap.
func AvailableAngle(gapAngle float64) float64 {
	return 360 - gapAngle
}

// StartAngle is where the first segment begins.
func StartAngle(gapAngle float64) float64 {
	return 270 - AvailableAngle(gapAngle)/2
}

// SweepAngles scales durations so together they fill the available arc.
func SweepAngles(durations []float64, gapAngle float64) ([]float64, error) {
	var total float64
	for _, d := range durations {
		total += d
	}
	if total <= 0 {
		return nil, ErrEmptyDial
	}

	scale := AvailableAngle(gapAngle) / total
	sweeps := make([]float64, len(durations))
	for i, d := range durations {
		sweeps[i] = d * scale
	}
	return sweeps, nil
}

// HandAngle places the hand for elapsed seconds out of total. Elapsed is clamped to
// [0, total] so the hand never overshoots the dial.
func HandAngle(elapsed, totalDuration, gapAngle float64) float64 {
	start := StartAngle(gapAngle)
	if totalDuration <= 0 {
		return start
	}
	clamped := math.Max(0, math.Min(elapsed, totalDuration))
	return start + clamped*(AvailableAngle(gapAngle)/totalDuration)
}

// SegmentMidpointAngles returns the center of each segment's arc, mod 360.
func SegmentMidpointAngles(sweepAngles []float64, gapAngle float64) []float64 {
	current := StartAngle(gapAngle)
	mids := make([]float64, len(sweepAngles))
	for i, sweep := range sweepAngles {
		current += sweep / 2
		mids[i] = Normalize(current)
		current += sweep / 2
	}
	return mids
}

// DividerAngles returns the start of every segment followed by the end of the last one, mod 360.
func DividerAngles(sweepAngles []float64, gapAngle float64) []float64 {
	current := StartAngle(gapAngle)
	dividers := make([]float64, 0, len(sweepAngles)+1)
	for _, sweep := range sweepAngles {
		dividers = append(dividers, Normalize(current))
		current += sweep
	}
	return append(dividers, Normalize(current))
}

// MinSeparation is the smallest angle between the centers of two badges of radius badgeRadius
// sitting on a ring of radius markerCenterRadius that keeps them from touching.
func MinSeparation(badgeRadius, markerCenterRadius float64) float64 {
	if markerCenterRadius <= 0 {
		return 180
	}
	ratio := math.Min(1, math.Max(0, badgeRadius/markerCenterRadius))
	return 2 * math.Asin(ratio) * 180 / math.Pi
}

// AdjustedMarkerAngles spreads badge angles so neighbours do not overlap.
//
// The candidates are sorted and walked once, forward only, starting from a seed one full turn
// behind the first angle. Every angle whose distance past the previous adjusted one, taken mod 360,
// is below the minimum separation is pushed to previous + separation. The seed sits exactly one turn
// back, so the first marker is always pushed by one separation. Results are wrapped into [0, 360).
// Nothing is moved backward, so a dense run may be pushed around the ring onto the first markers.
// overflow reports that some pair of badges still overlaps and the host should shrink the badges.
func AdjustedMarkerAngles(candidateAngles []float64, badgeRadius, markerCenterRadius float64) (angles []float64, overflow bool) {
	if len(candidateAngles) == 0 {
		return nil, false
	}
	minSep := MinSeparation(badgeRadius, markerCenterRadius)

	sorted := make([]float64, len(candidateAngles))
	for i, a := range candidateAngles {
		sorted[i] = Normalize(a)
	}
	sort.Float64s(sorted)

	angles = make([]float64, 0, len(sorted))
	// previous stays unwrapped; only the difference is taken mod 360.
	previous := sorted[0] - 360
	for _, angle := range sorted {
		diff := Normalize(angle - previous)
		adjusted := angle
		if diff < minSep {
			adjusted = previous + minSep
		}
		angles = append(angles, Normalize(adjusted))
		previous = adjusted
	}

	return angles, overlapping(angles, minSep)
}

func overlapping(angles []float64, minSep float64) bool {
	for i := range angles {
		for j := i + 1; j < len(angles); j++ {
			d := Normalize(angles[j] - angles[i])
			if math.Min(d, 360-d) < minSep-angleEpsilon {
				return true
			}
		}
	}
	return false
}

// TickToAngle maps a value in [rangeLow, rangeHigh] linearly onto the available arc.
func TickToAngle(tickValue, rangeLow, rangeHigh, gapAngle float64) float64 {
	start := StartAngle(gapAngle)
	if rangeHigh <= rangeLow {
		return start
	}
	return start + (tickValue-rangeLow)/(rangeHigh-rangeLow)*AvailableAngle(gapAngle)
}

// Polar returns the point at angle degrees and distance radius from (cx, cy).
func Polar(cx, cy, radius, angle float64) (x, y float64) {
	rad := angle * math.Pi / 180
	return cx + radius*math.Cos(rad), cy + radius*math.Sin(rad)
}

// Normalize maps an angle into [0, 360). Values a rounding error short of a full turn become 0.
func Normalize(angle float64) float64 {
	r := math.Mod(angle, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360-angleEpsilon {
		r = 0
	}
	return r
}
