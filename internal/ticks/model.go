package ticks

// Model owns the marks and their range. It is not safe for concurrent use.
type Model struct {
	rng      Range
	marks    []float64
	dragging int
}

// NewModel returns a model over r holding the given marks, minus any outside r.
func NewModel(r Range, marks []float64) *Model {
	m := &Model{rng: r, dragging: -1}
	m.marks = PruneOutOfRange(marks, r)
	if len(m.marks) > r.Slots() {
		m.marks = m.marks[:r.Slots()]
	}
	return m
}

// Range returns the current range.
func (m *Model) Range() Range {
	return m.rng
}

// Values returns a copy of the marks in the order they were added.
func (m *Model) Values() []float64 {
	return append([]float64(nil), m.marks...)
}

// Len returns the number of marks.
func (m *Model) Len() int {
	return len(m.marks)
}

// CanAdd reports whether another mark fits.
func (m *Model) CanAdd() bool {
	return len(m.marks) < m.rng.Slots()
}

// Add places a mark in the next free slot.
func (m *Model) Add() (float64, bool) {
	if !m.CanAdd() {
		return 0, false
	}
	v, ok := AddTick(m.marks, m.rng)
	if ok {
		m.marks = append(m.marks, v)
	}
	return v, ok
}

// RemoveLast drops the most recently added mark.
func (m *Model) RemoveLast() {
	m.marks = RemoveLast(m.marks)
	if m.dragging >= len(m.marks) {
		m.dragging = -1
	}
}

// Drag moves mark index to value without snapping.
func (m *Model) Drag(index int, value float64) {
	if index < 0 || index >= len(m.marks) {
		return
	}
	m.dragging = index
	m.marks = DragUpdate(m.marks, index, value, m.rng)
}

// DragBy moves mark index by delta seconds.
func (m *Model) DragBy(index int, delta float64) {
	if index < 0 || index >= len(m.marks) {
		return
	}
	m.Drag(index, m.marks[index]+delta)
}

// Dragging returns the index of the mark being dragged, or -1.
func (m *Model) Dragging() int {
	return m.dragging
}

// EndDrag snaps all marks to whole seconds.
func (m *Model) EndDrag() {
	m.dragging = -1
	m.marks = CommitRound(m.marks)
}

// SetRange replaces the range and drops the marks that fall outside it.
func (m *Model) SetRange(r Range) {
	m.rng = r
	m.marks = PruneOutOfRange(m.marks, r)
	if len(m.marks) > r.Slots() {
		m.marks = m.marks[:r.Slots()]
	}
	m.dragging = -1
}

// Offsets maps the marks onto a track trackWidth pixels wide.
func (m *Model) Offsets(trackWidth float64) []float64 {
	return ToOffsets(m.marks, m.rng, trackWidth)
}
