package render

import (
	"math"
	"sort"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"fieldtimer/internal/dial"
)

const (
	minBadgeRadius = 0.3
	badgeShrink    = 0.8

	handColor       = "#FFFFFF"
	dividerColor    = "#1E1E1E"
	tickColor       = "#FFFFFF"
	tickPassedColor = "#7A7A7A"
	badgeTextColor  = "#000000"
	dimTarget       = "#2A2A2A"
)

// Dial sizes the ring in terminal rows. A cell is taken to be twice as tall as it is wide, so
// one row of radius spans two columns.
type Dial struct {
	Radius        int
	RingThickness float64
	BadgeRadius   float64
	GapAngle      float64
}

// Segment is one timed phase on the ring.
type Segment struct {
	Duration float64
	Color    string
	Label    string
}

// Scene is everything drawn for one frame.
type Scene struct {
	Segments []Segment
	// Active is the segment holding the hand, or -1 before the first frame.
	Active  int
	Elapsed float64
	Ticks   []float64
	// Passed marks the ticks whose haptic cue already fired.
	Passed  map[float64]bool
	Badges  bool
	Caption string
}

// Badge is a label placed on the outer edge of the ring.
type Badge struct {
	Angle float64
	Label string
	Color string
	Tick  bool
}

// Layout is the geometry of a scene, in degrees.
type Layout struct {
	Total       float64
	Sweeps      []float64
	Dividers    []float64
	Hand        float64
	TickAngles  []float64
	Badges      []Badge
	BadgeRadius float64
	Overflow    bool
}

// Layout computes the angles of everything on the dial. When the badges overlap, their radius is
// shrunk until they fit or reach the minimum size.
func (d Dial) Layout(s Scene) (Layout, error) {
	durations := make([]float64, len(s.Segments))
	var total float64
	for i, seg := range s.Segments {
		durations[i] = seg.Duration
		total += seg.Duration
	}
	sweeps, err := dial.SweepAngles(durations, d.GapAngle)
	if err != nil {
		return Layout{}, err
	}

	l := Layout{
		Total:       total,
		Sweeps:      sweeps,
		Dividers:    dial.DividerAngles(sweeps, d.GapAngle),
		Hand:        dial.HandAngle(s.Elapsed, total, d.GapAngle),
		BadgeRadius: d.BadgeRadius,
	}
	for _, v := range s.Ticks {
		l.TickAngles = append(l.TickAngles, dial.TickToAngle(v, 0, total, d.GapAngle))
	}
	if s.Badges {
		l.Badges, l.BadgeRadius, l.Overflow = d.placeBadges(s, l)
	}
	return l, nil
}

func (d Dial) placeBadges(s Scene, l Layout) ([]Badge, float64, bool) {
	mids := dial.SegmentMidpointAngles(l.Sweeps, d.GapAngle)
	var badges []Badge
	for i, seg := range s.Segments {
		if seg.Label == "" {
			continue
		}
		badges = append(badges, Badge{Angle: mids[i], Label: seg.Label, Color: seg.Color})
	}
	for i, v := range s.Ticks {
		color := tickColor
		if s.Passed[v] {
			color = tickPassedColor
		}
		badges = append(badges, Badge{Angle: l.TickAngles[i], Label: formatSeconds(v), Color: color, Tick: true})
	}
	if len(badges) == 0 {
		return nil, d.BadgeRadius, false
	}
	sort.SliceStable(badges, func(i, j int) bool {
		return dial.Normalize(badges[i].Angle) < dial.Normalize(badges[j].Angle)
	})

	candidates := make([]float64, len(badges))
	for i, b := range badges {
		candidates[i] = b.Angle
	}

	radius := d.BadgeRadius
	for {
		angles, overflow := dial.AdjustedMarkerAngles(candidates, radius, float64(d.Radius))
		if !overflow || radius <= minBadgeRadius {
			for i := range badges {
				badges[i].Angle = angles[i]
			}
			return badges, radius, overflow
		}
		radius = math.Max(minBadgeRadius, radius*badgeShrink)
	}
}

// Size returns the canvas size Render draws into, in columns and rows.
func (d Dial) Size() (width, height int) {
	margin := int(math.Ceil(d.BadgeRadius)) + 1
	height = 2*(d.Radius+margin) + 1
	return 2 * height, height
}

// Render rasterizes the scene.
func (d Dial) Render(s Scene) (*Canvas, Layout, error) {
	l, err := d.Layout(s)
	if err != nil {
		return nil, Layout{}, err
	}

	w, h := d.Size()
	c := NewCanvas(w, h)
	cx, cy := float64(w-1)/2, float64(h-1)/2
	outer := float64(d.Radius)
	inner := outer - d.RingThickness
	start := dial.StartAngle(d.GapAngle)
	available := dial.AvailableAngle(d.GapAngle)

	colors := segmentColors(s)

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x := (float64(col) - cx) / 2
			y := float64(row) - cy
			r := math.Hypot(x, y)
			if r > outer+0.25 {
				continue
			}
			angle := dial.Normalize(math.Atan2(y, x) * 180 / math.Pi)
			// half the angular width of a cell at this radius
			halfWidth := 180 / math.Pi * math.Atan2(0.5, math.Max(r, 0.5))

			if r >= inner-0.25 {
				offset := dial.Normalize(angle - start)
				if offset > available {
					continue
				}
				bg := colors[segmentAt(offset, l.Sweeps)]
				for _, a := range l.Dividers {
					if angularDistance(angle, a) < halfWidth {
						bg = dividerColor
					}
				}
				for i, a := range l.TickAngles {
					if r >= inner+d.RingThickness/2 && angularDistance(angle, a) < halfWidth {
						bg = tickColor
						if s.Passed[s.Ticks[i]] {
							bg = tickPassedColor
						}
					}
				}
				if angularDistance(angle, l.Hand) < halfWidth {
					bg = handColor
				}
				c.Paint(col, row, bg)
				continue
			}

			if r > 0.75 && angularDistance(angle, l.Hand) < halfWidth {
				c.Set(col, row, Cell{Rune: '•', FG: handColor, Bold: true})
			}
		}
	}

	c.Set(int(math.Round(cx)), int(math.Round(cy)), Cell{Rune: '●', FG: handColor, Bold: true})
	if s.Caption != "" {
		cw := runewidth.StringWidth(s.Caption)
		c.Text(int(math.Round(cx))-cw/2, int(math.Round(cy))+2, s.Caption, handColor, "")
	}

	for _, b := range l.Badges {
		bx, by := dial.Polar(0, 0, outer, b.Angle)
		col := int(math.Round(cx + 2*bx))
		row := int(math.Round(cy + by))
		label := " " + b.Label + " "
		lw := runewidth.StringWidth(label)
		c.Text(col-lw/2, row, label, badgeTextColor, b.Color)
	}

	return c, l, nil
}

// segmentColors dims the passed segments and softens the ones still ahead of the hand.
func segmentColors(s Scene) []string {
	target, _ := colorful.Hex(dimTarget)
	colors := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		base, err := colorful.Hex(seg.Color)
		if err != nil {
			colors[i] = seg.Color
			continue
		}
		switch {
		case s.Active < 0 || i == s.Active:
			colors[i] = base.Hex()
		case i < s.Active:
			colors[i] = base.BlendLab(target, 0.6).Clamped().Hex()
		default:
			colors[i] = base.BlendLab(target, 0.25).Clamped().Hex()
		}
	}
	return colors
}

func segmentAt(offset float64, sweeps []float64) int {
	var acc float64
	for i, sweep := range sweeps {
		acc += sweep
		if offset < acc {
			return i
		}
	}
	return len(sweeps) - 1
}

func angularDistance(a, b float64) float64 {
	d := dial.Normalize(a - b)
	return math.Min(d, 360-d)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
