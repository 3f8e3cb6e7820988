package timer

import (
	"errors"
	"fmt"
	"math"

	"fieldtimer/internal/phase"
)

// ErrInvalidState is returned for a transition the current state does not allow.
// The timer is left unchanged.
var ErrInvalidState = errors.New("invalid timer state transition")

type State int

const (
	NotStarted State = iota
	Running
	Stopped
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Frame is the result of one Advance call.
type Frame struct {
	Elapsed float64
	// Due holds the schedule indices that became due in this frame, in schedule order.
	Due      []int
	Finished bool
}

// Timer accumulates elapsed time from per-frame timestamps and reports each scheduled cue once
// per run. It is driven from a single goroutine and does no locking.
type Timer struct {
	state    State
	elapsed  float64
	total    float64
	schedule []phase.ScheduleEntry
	played   map[int]bool

	lastMillis int64
	hasLast    bool
}

// New returns a timer in NotStarted over total seconds and the given cue schedule.
func New(total float64, schedule []phase.ScheduleEntry) *Timer {
	return &Timer{
		total:    total,
		schedule: append([]phase.ScheduleEntry(nil), schedule...),
		played:   make(map[int]bool),
	}
}

// SetSchedule replaces the total duration and the schedule. Only allowed before a run starts.
func (t *Timer) SetSchedule(total float64, schedule []phase.ScheduleEntry) error {
	if t.state != NotStarted {
		return fmt.Errorf("set schedule while %s: %w", t.state, ErrInvalidState)
	}
	t.total = total
	t.schedule = append([]phase.ScheduleEntry(nil), schedule...)
	return nil
}

// Start begins a fresh run. A stopped or finished timer is reset first.
func (t *Timer) Start() error {
	switch t.state {
	case Running:
		return fmt.Errorf("start while %s: %w", t.state, ErrInvalidState)
	case Stopped, Finished:
		t.reset()
	}
	t.state = Running
	t.played = make(map[int]bool)
	t.hasLast = false
	return nil
}

// Stop freezes elapsed time.
func (t *Timer) Stop() error {
	if t.state != Running {
		return fmt.Errorf("stop while %s: %w", t.state, ErrInvalidState)
	}
	t.state = Stopped
	return nil
}

// Reset returns a stopped or finished timer to NotStarted with no elapsed time.
func (t *Timer) Reset() error {
	if t.state != Stopped && t.state != Finished {
		return fmt.Errorf("reset while %s: %w", t.state, ErrInvalidState)
	}
	t.reset()
	return nil
}

// Toggle is the single play button: start, stop, then reset.
func (t *Timer) Toggle() State {
	switch t.state {
	case NotStarted:
		_ = t.Start()
	case Running:
		_ = t.Stop()
	case Stopped, Finished:
		t.reset()
	}
	return t.state
}

func (t *Timer) reset() {
	t.state = NotStarted
	t.elapsed = 0
	t.played = make(map[int]bool)
	t.hasLast = false
}

// Advance moves the timer to nowMillis, a monotonic timestamp in milliseconds. The first call of a
// run only records the timestamp. Outside Running it changes nothing.
func (t *Timer) Advance(nowMillis int64) Frame {
	if t.state != Running {
		return Frame{Elapsed: t.elapsed, Finished: t.state == Finished}
	}

	if !t.hasLast {
		t.lastMillis = nowMillis
		t.hasLast = true
	}
	delta := float64(nowMillis-t.lastMillis) / 1000
	if delta < 0 {
		delta = 0
	}
	t.lastMillis = nowMillis
	t.elapsed = math.Min(t.elapsed+delta, t.total)

	frame := Frame{Elapsed: t.elapsed}
	for i, entry := range t.schedule {
		if t.played[i] || t.elapsed < entry.Time {
			continue
		}
		t.played[i] = true
		frame.Due = append(frame.Due, i)
	}

	if t.elapsed >= t.total {
		t.state = Finished
		frame.Finished = true
	}
	return frame
}

// State returns the current state.
func (t *Timer) State() State {
	return t.state
}

func (t *Timer) Running() bool {
	return t.state == Running
}

// Elapsed returns the elapsed seconds of the current run.
func (t *Timer) Elapsed() float64 {
	return t.elapsed
}

func (t *Timer) Total() float64 {
	return t.total
}

// Schedule returns a copy of the cue schedule.
func (t *Timer) Schedule() []phase.ScheduleEntry {
	return append([]phase.ScheduleEntry(nil), t.schedule...)
}

// PlayedCount returns how many cues have fired in the current run.
func (t *Timer) PlayedCount() int {
	return len(t.played)
}
