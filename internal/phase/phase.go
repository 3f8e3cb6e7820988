package phase

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when a plan cannot produce a positive total duration.
var ErrInvalidConfiguration = errors.New("invalid phase configuration")

// Kind tells how a phase's duration is decided.
type Kind int

const (
	// Untimed phases are listed for the operator but take no time on the dial.
	Untimed Kind = iota
	Fixed
	// Variable is filled from the configured fire duration.
	Variable
)

// CueID identifies an audio cue. CueNone marks a phase without one.
type CueID string

const (
	CueNone           CueID = ""
	CueTenSecondsLeft CueID = "ten_seconds_left"
	CueReady          CueID = "ready"
	CueFire           CueID = "fire"
	CueCeaseFire      CueID = "cease_fire"
	CueUnload         CueID = "unload"
	CueInspection     CueID = "inspection"
)

// Phase is one command of the drill.
type Phase struct {
	Name     string
	Kind     Kind
	Duration float64
	Cue      CueID
	Color    string
}

// Timed reports whether the phase occupies a segment on the dial.
func (p Phase) Timed() bool {
	return p.Kind != Untimed
}

// ScheduleEntry is a cue due at a cumulative start time, in seconds.
type ScheduleEntry struct {
	Time float64
	Cue  CueID
}

// Commands is the fixed command sequence of a field shooting drill.
var Commands = []Phase{
	{Name: "Load", Kind: Untimed, Color: "#D3D3D3"},
	{Name: "All ready", Kind: Untimed, Color: "#D3D3D3"},
	{Name: "Ten seconds left", Kind: Fixed, Duration: 7, Cue: CueTenSecondsLeft, Color: "#D3D3D3"},
	{Name: "Ready", Kind: Fixed, Duration: 3, Cue: CueReady, Color: "#D3D3D3"},
	{Name: "Fire", Kind: Variable, Cue: CueFire, Color: "#90EE90"},
	{Name: "Cease fire", Kind: Fixed, Duration: 3, Cue: CueCeaseFire, Color: "#E6D67A"},
	{Name: "Unload weapon", Kind: Fixed, Duration: 4, Cue: CueUnload, Color: "#F25C54"},
	{Name: "Inspection", Kind: Fixed, Duration: 2, Cue: CueInspection, Color: "#D3D3D3"},
	{Name: "Mark", Kind: Untimed, Color: "#D3D3D3"},
}

// Plan is an ordered, immutable list of phases.
type Plan struct {
	phases []Phase
}

// NewPlan validates the phases and returns a plan over a private copy of them.
func NewPlan(phases []Phase) (*Plan, error) {
	variable := 0
	for i, p := range phases {
		switch p.Kind {
		case Variable:
			variable++
		case Fixed:
			if p.Duration < 0 {
				return nil, fmt.Errorf("phase %d %q has negative duration %v: %w", i, p.Name, p.Duration, ErrInvalidConfiguration)
			}
		}
	}
	if variable != 1 {
		return nil, fmt.Errorf("want exactly one variable phase, got %d: %w", variable, ErrInvalidConfiguration)
	}
	return &Plan{phases: append([]Phase(nil), phases...)}, nil
}

// Default returns the plan over Commands.
func Default() *Plan {
	p, err := NewPlan(Commands)
	if err != nil {
		panic(err)
	}
	return p
}

// Phases returns a copy of every phase, timed or not.
func (p *Plan) Phases() []Phase {
	return append([]Phase(nil), p.phases...)
}

// Timed returns the phases that occupy a dial segment, in order.
func (p *Plan) Timed() []Phase {
	var timed []Phase
	for _, ph := range p.phases {
		if ph.Timed() {
			timed = append(timed, ph)
		}
	}
	return timed
}

// Build substitutes fireDuration for the variable phase and returns the segment durations together
// with the cue schedule. cues[i].Time is the sum of the durations before the cue's phase.
func (p *Plan) Build(fireDuration float64) ([]float64, []ScheduleEntry, error) {
	if fireDuration < 0 {
		return nil, nil, fmt.Errorf("fire duration %v: %w", fireDuration, ErrInvalidConfiguration)
	}

	var (
		durations []float64
		schedule  []ScheduleEntry
		elapsed   float64
	)
	for _, ph := range p.phases {
		if !ph.Timed() {
			continue
		}
		d := ph.Duration
		if ph.Kind == Variable {
			d = fireDuration
		}
		if ph.Cue != CueNone {
			schedule = append(schedule, ScheduleEntry{Time: elapsed, Cue: ph.Cue})
		}
		durations = append(durations, d)
		elapsed += d
	}

	if elapsed <= 0 {
		return nil, nil, fmt.Errorf("total duration %v: %w", elapsed, ErrInvalidConfiguration)
	}
	return durations, schedule, nil
}

// HighlightedPhaseIndex returns the index, in the full phase list, of the phase containing elapsed.
// Past the end it returns the last timed phase.
func (p *Plan) HighlightedPhaseIndex(elapsed float64, durations []float64) int {
	offset, last := p.timedBounds()
	var acc float64
	for i, d := range durations {
		acc += d
		if elapsed < acc {
			return i + offset
		}
	}
	return last
}

func (p *Plan) timedBounds() (first, last int) {
	first, last = -1, -1
	for i, ph := range p.phases {
		if !ph.Timed() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}

// TickRange is the span of whole seconds where tick marks may be placed: from one second into the
// fire phase to one second before cease fire ends.
func (p *Plan) TickRange(fireDuration float64) (low, high int) {
	var before, after float64
	seenFire, seenAfter := false, false
	for _, ph := range p.phases {
		if !ph.Timed() {
			continue
		}
		if ph.Kind == Variable {
			seenFire = true
			continue
		}
		if !seenFire {
			before += ph.Duration
		} else if !seenAfter {
			after = ph.Duration
			seenAfter = true
		}
	}
	low = int(before) + 1
	high = int(before+fireDuration+after) - 1
	return low, high
}
