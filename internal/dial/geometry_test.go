package dial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func TestStartAndAvailableAngle(t *testing.T) {
	assert.InDelta(t, 330, AvailableAngle(30), delta)
	assert.InDelta(t, 105, StartAngle(30), delta)
	assert.InDelta(t, 90, StartAngle(0), delta)
}

func TestSweepAngles(t *testing.T) {
	sweeps, err := SweepAngles([]float64{7, 3, 5, 3, 4, 2}, 30)
	require.NoError(t, err)

	var sum float64
	for _, s := range sweeps {
		sum += s
	}
	assert.InDelta(t, 330, sum, delta)
	assert.InDelta(t, 7*330.0/24, sweeps[0], delta)
	assert.InDelta(t, 2*330.0/24, sweeps[5], delta)
}

func TestSweepAngles_EmptyDial(t *testing.T) {
	_, err := SweepAngles(nil, 30)
	assert.ErrorIs(t, err, ErrEmptyDial)

	_, err = SweepAngles([]float64{0, 0}, 30)
	assert.ErrorIs(t, err, ErrEmptyDial)
}

func TestHandAngle(t *testing.T) {
	// 270 - 165 + 165
	assert.InDelta(t, 270, HandAngle(12, 24, 30), delta)

	for _, total := range []float64{0.5, 1, 24, 60} {
		for _, gap := range []float64{0, 30, 90, 359} {
			start := StartAngle(gap)
			assert.InDelta(t, start, HandAngle(0, total, gap), delta)
			assert.InDelta(t, start+AvailableAngle(gap), HandAngle(total, total, gap), delta)
		}
	}
}

func TestHandAngle_Clamps(t *testing.T) {
	assert.InDelta(t, HandAngle(24, 24, 30), HandAngle(24.7, 24, 30), delta)
	assert.InDelta(t, StartAngle(30), HandAngle(-3, 24, 30), delta)
	assert.InDelta(t, StartAngle(30), HandAngle(5, 0, 30), delta)
}

func TestSegmentMidpointAngles(t *testing.T) {
	mids := SegmentMidpointAngles([]float64{110, 110, 110}, 30)
	require.Len(t, mids, 3)
	assert.InDelta(t, 160, mids[0], delta)
	assert.InDelta(t, 270, mids[1], delta)
	assert.InDelta(t, 20, mids[2], delta) // 380 wraps
}

func TestDividerAngles(t *testing.T) {
	dividers := DividerAngles([]float64{110, 110, 110}, 30)
	assert.Equal(t, 4, len(dividers))
	assert.InDelta(t, 105, dividers[0], delta)
	assert.InDelta(t, 215, dividers[1], delta)
	assert.InDelta(t, 325, dividers[2], delta)
	assert.InDelta(t, 75, dividers[3], delta)
}

func TestMinSeparation(t *testing.T) {
	// r/R = 0.5 -> asin = 30°
	assert.InDelta(t, 60, MinSeparation(5, 10), delta)
	assert.InDelta(t, 180, MinSeparation(20, 10), delta)
	assert.InDelta(t, 180, MinSeparation(1, 0), delta)
	assert.InDelta(t, 0, MinSeparation(0, 10), delta)
}

func forwardGap(from, to float64) float64 {
	return Normalize(to - from)
}

func TestAdjustedMarkerAngles_NoAdjacentOverlap(t *testing.T) {
	r, R := 1.0, 10.0
	minSep := MinSeparation(r, R)

	inputs := [][]float64{
		{100, 101, 102, 103},
		{10, 200, 201, 350},
		{105, 150, 152, 240, 300, 301, 302},
		{0, 0, 0},
		{355, 356, 357, 358, 359},
	}
	for _, in := range inputs {
		out, _ := AdjustedMarkerAngles(in, r, R)
		require.Len(t, out, len(in))
		for i := 1; i < len(out); i++ {
			assert.GreaterOrEqual(t, forwardGap(out[i-1], out[i]), minSep-delta, "input %v output %v", in, out)
		}
		for _, a := range out {
			assert.True(t, a >= 0 && a < 360, "angle %v out of [0,360)", a)
		}
	}
}

// sep20 is the badge radius that gives a 20° separation on a unit ring.
var sep20 = math.Sin(10 * math.Pi / 180)

func TestAdjustedMarkerAngles_PushesFirstMarker(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"close pair", []float64{10, 35}, []float64{30, 50}},
		{"spaced pair", []float64{100, 200}, []float64{120, 200}},
		{"unsorted pair", []float64{200, 100}, []float64{120, 200}},
		{"three spaced", []float64{0, 120, 240}, []float64{20, 120, 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, overflow := AdjustedMarkerAngles(tt.in, sep20, 1)
			assert.InDeltaSlice(t, tt.want, out, 1e-6)
			assert.False(t, overflow)
		})
	}
}

func TestAdjustedMarkerAngles_PushesForwardOnly(t *testing.T) {
	// the pushed first marker lands past its neighbour, which is left in place
	out, overflow := AdjustedMarkerAngles([]float64{200, 100, 110}, 5, 10)
	assert.InDeltaSlice(t, []float64{160, 110, 200}, out, delta)
	assert.True(t, overflow)
}

func TestAdjustedMarkerAngles_KeepsSpacedAngles(t *testing.T) {
	minSep := MinSeparation(1, 10)
	out, overflow := AdjustedMarkerAngles([]float64{0, 120, 240}, 1, 10)
	assert.InDeltaSlice(t, []float64{minSep, 120, 240}, out, delta)
	assert.False(t, overflow)
}

func TestAdjustedMarkerAngles_WrapsPast360(t *testing.T) {
	out, overflow := AdjustedMarkerAngles([]float64{330, 350}, sep20, 1)
	assert.InDeltaSlice(t, []float64{350, 10}, out, 1e-6)
	assert.False(t, overflow)
}

func TestAdjustedMarkerAngles_Overflow(t *testing.T) {
	// seven badges at 60° each need 420°
	_, overflow := AdjustedMarkerAngles([]float64{0, 10, 20, 30, 40, 50, 60}, 5, 10)
	assert.True(t, overflow)

	out, overflow := AdjustedMarkerAngles([]float64{300, 310, 320, 330, 355}, sep20, 1)
	assert.InDeltaSlice(t, []float64{320, 310, 330, 350, 10}, out, 1e-6)
	assert.True(t, overflow)
}

func TestAdjustedMarkerAngles_Empty(t *testing.T) {
	out, overflow := AdjustedMarkerAngles(nil, 1, 10)
	assert.Nil(t, out)
	assert.False(t, overflow)
}

func TestTickToAngle(t *testing.T) {
	assert.InDelta(t, 105, TickToAngle(5, 5, 15, 30), delta)
	assert.InDelta(t, 435, TickToAngle(15, 5, 15, 30), delta)
	assert.InDelta(t, 270, TickToAngle(10, 5, 15, 30), delta)
	assert.InDelta(t, 105, TickToAngle(10, 5, 5, 30), delta)
}

func TestPolar(t *testing.T) {
	x, y := Polar(10, 10, 5, 90)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 15, y, 1e-9)

	x, y = Polar(0, 0, 2, 180)
	assert.InDelta(t, -2, x, 1e-9)
	assert.InDelta(t, 0, math.Abs(y), 1e-9)
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 10, Normalize(370), delta)
	assert.InDelta(t, 350, Normalize(-10), delta)
	assert.InDelta(t, 0, Normalize(360-1e-12), delta)
}
