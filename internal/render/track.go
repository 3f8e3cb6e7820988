package render

import (
	"math"
	"strconv"

	"fieldtimer/internal/ticks"
)

const (
	trackColor    = "#585858"
	markerColor   = "#FFFFFF"
	selectedColor = "#FFAF00"
	lockedColor   = "#585858"
)

// Track is a horizontal slider over a range of whole seconds.
type Track struct {
	Range ticks.Range
	Width int
	// Locked greys out the markers while settings cannot change.
	Locked bool
}

// Render draws the track on the first row and the range bounds on the second. selected is the
// index of the highlighted value, or -1.
func (t Track) Render(values []float64, selected int) *Canvas {
	c := NewCanvas(t.Width, 2)
	if t.Width < 2 {
		return c
	}
	last := float64(t.Width - 1)

	for x := 0; x < t.Width; x++ {
		c.Set(x, 0, Cell{Rune: '─', FG: trackColor})
	}
	span := t.Range.High - t.Range.Low
	if span > 0 && span <= t.Width-1 {
		for v := t.Range.Low; v <= t.Range.High; v++ {
			x := int(math.Round(ticks.ToOffsets([]float64{float64(v)}, t.Range, last)[0]))
			c.Set(x, 0, Cell{Rune: '┼', FG: trackColor})
		}
	}

	for i, off := range ticks.ToOffsets(values, t.Range, last) {
		x := int(math.Round(math.Max(0, math.Min(off, last))))
		color := markerColor
		switch {
		case t.Locked:
			color = lockedColor
		case i == selected:
			color = selectedColor
		}
		r := '▲'
		if i == selected {
			r = '◆'
		}
		c.Set(x, 0, Cell{Rune: r, FG: color, Bold: i == selected})
	}

	low := strconv.Itoa(t.Range.Low)
	high := strconv.Itoa(t.Range.High)
	c.Text(0, 1, low, trackColor, "")
	c.Text(t.Width-len(high), 1, high, trackColor, "")
	return c
}

// ValueAt is the value under column x of the track.
func (t Track) ValueAt(x int) float64 {
	return ticks.OffsetToValue(float64(x), t.Range, float64(t.Width-1))
}
