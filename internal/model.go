package internal

import (
	"fmt"
	"log"
	"math"
	"time"

	"fieldtimer/internal/config"
	"fieldtimer/internal/drill"
	"fieldtimer/internal/phase"
	"fieldtimer/internal/render"
	"fieldtimer/internal/runlog"
	"fieldtimer/internal/ticks"
	"fieldtimer/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgFrame is sent once per rendered frame by the host loop.
type MsgFrame struct {
	At time.Time
}

type msgDragEnd struct {
	seq int
}

const (
	dragSettle  = 400 * time.Millisecond
	dragStep    = 0.25
	runLogLimit = 100
)

// CuePlayer plays audio and haptic cues without blocking.
type CuePlayer interface {
	Play(id phase.CueID)
	// Vibrate reports false when the cue was not played, as in silent mode.
	Vibrate(d time.Duration) bool
	SetSilent(silent bool)
	Silent() bool
}

// Store persists the drill setup and the run log.
type Store interface {
	LoadSetup() (*drill.Setup, bool, error)
	SaveSetup(s *drill.Setup) error
	CreateRun(run *runlog.Run) error
	GetRuns(limit int) ([]runlog.Run, error)
	Close() error
}

type Deps struct {
	Store  Store
	Player CuePlayer
	Clock  timer.Clock
	Logger *log.Logger
}

type Model struct {
	cfg    config.Config
	plan   *phase.Plan
	timer  *timer.Timer
	ticks  *ticks.Model
	player CuePlayer
	repo   Store
	clock  timer.Clock
	logger *log.Logger
	keys   keyMap
	help   help.Model

	origin       time.Time
	fireDuration int
	durations    []float64
	schedule     []phase.ScheduleEntry
	// passed holds the tick values whose haptic cue fired during the current run
	passed       map[float64]bool
	selectedTick int
	badges       bool
	dragSeq      int

	run       *runlog.Run
	cuesFired int

	// Run log viewer state
	ShowLogView   bool
	LogViewScroll int
	Runs          []runlog.Run

	Status string
	Err    error
}

func NewModel(cfg config.Config, deps Deps) (*Model, error) {
	if deps.Store == nil || deps.Player == nil {
		return nil, fmt.Errorf("model needs a store and a cue player")
	}
	if deps.Clock == nil {
		deps.Clock = timer.SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	setup := drill.NewSetup(cfg.Drill.FireDuration)
	setup.BadgesVisible = cfg.Dial.BadgesVisible
	saved, ok, err := deps.Store.LoadSetup()
	if err != nil {
		return nil, fmt.Errorf("failed to load drill setup: %w", err)
	}
	if ok {
		setup = saved
	}
	setup.Clamp(cfg.Drill.FireDurationMin, cfg.Drill.FireDurationMax)

	plan := phase.Default()
	durations, schedule, err := plan.Build(float64(setup.FireDuration))
	if err != nil {
		return nil, fmt.Errorf("failed to build phase plan: %w", err)
	}
	low, high := plan.TickRange(float64(setup.FireDuration))

	m := &Model{
		cfg:          cfg,
		plan:         plan,
		timer:        timer.New(sum(durations), schedule),
		ticks:        ticks.NewModel(ticks.Range{Low: low, High: high}, setup.Ticks),
		player:       deps.Player,
		repo:         deps.Store,
		clock:        deps.Clock,
		logger:       deps.Logger,
		keys:         defaultKeyMap(),
		help:         help.New(),
		origin:       deps.Clock.Now(),
		fireDuration: setup.FireDuration,
		durations:    durations,
		schedule:     schedule,
		passed:       make(map[float64]bool),
		badges:       setup.BadgesVisible,
	}
	m.player.SetSilent(cfg.Cues.Silent)
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgFrame:
		m.frame(msg.At)
		return m, nil
	case msgDragEnd:
		if msg.seq == m.dragSeq && m.ticks.Dragging() >= 0 {
			m.ticks.EndDrag()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowLogView {
		return m.runLogView()
	}
	return m.mainView()
}

func (m *Model) State() timer.State {
	return m.timer.State()
}

func (m *Model) FireDuration() int {
	return m.fireDuration
}

func (m *Model) Ticks() []float64 {
	return m.ticks.Values()
}

// frame advances the timer to at and plays whatever became due.
func (m *Model) frame(at time.Time) {
	if !m.timer.Running() {
		return
	}
	f := m.timer.Advance(timer.Millis(m.origin, at))
	for _, i := range f.Due {
		m.player.Play(m.schedule[i].Cue)
		m.cuesFired++
	}
	m.fireTickCues(f.Elapsed)
	if f.Finished {
		m.Status = "drill finished"
		m.closeRun()
	}
}

func (m *Model) fireTickCues(elapsed float64) {
	for _, v := range m.ticks.Values() {
		if m.passed[v] || elapsed < v {
			continue
		}
		if m.player.Vibrate(m.cfg.Vibration()) {
			m.passed[v] = true
		}
	}
}

func (m *Model) toggle() {
	m.transitioned(m.timer.Toggle())
}

func (m *Model) start() {
	if err := m.timer.Start(); err != nil {
		m.warn(err)
		return
	}
	m.transitioned(timer.Running)
}

func (m *Model) stop() {
	if err := m.timer.Stop(); err != nil {
		m.warn(err)
		return
	}
	m.transitioned(timer.Stopped)
}

func (m *Model) reset() {
	if err := m.timer.Reset(); err != nil {
		m.warn(err)
		return
	}
	m.transitioned(timer.NotStarted)
}

func (m *Model) transitioned(state timer.State) {
	switch state {
	case timer.Running:
		if m.ticks.Dragging() >= 0 {
			m.ticks.EndDrag()
		}
		m.passed = make(map[float64]bool)
		m.cuesFired = 0
		m.run = runlog.Begin(m.clock.Now(), m.fireDuration)
		m.Status = "running"
	case timer.Stopped:
		m.Status = "stopped"
		m.closeRun()
	case timer.NotStarted:
		m.passed = make(map[float64]bool)
		m.Status = "ready"
	}
}

// closeRun records the current run once it has left Running.
func (m *Model) closeRun() {
	if m.run == nil {
		return
	}
	r := m.run
	m.run = nil

	r.StoppedAt = m.clock.Now()
	r.Elapsed = seconds(m.timer.Elapsed())
	r.Total = seconds(m.timer.Total())
	r.FinalState = m.timer.State().String()
	r.CuesFired = m.cuesFired
	r.TicksPassed = len(m.passed)
	if err := m.repo.CreateRun(r); err != nil {
		m.logger.Printf("runlog: save run %s: %v", r.ID, err)
		m.Err = err
	}
}

func (m *Model) warn(err error) {
	m.logger.Printf("warn: %v", err)
	m.Status = err.Error()
}

// editable reports whether the drill setup may change, which is only before a run.
func (m *Model) editable() bool {
	if m.timer.State() != timer.NotStarted {
		m.Status = "settings are locked until reset"
		return false
	}
	return true
}

func (m *Model) setFireDuration(v int) {
	if !m.editable() {
		return
	}
	v = min(max(v, m.cfg.Drill.FireDurationMin), m.cfg.Drill.FireDurationMax)
	if v == m.fireDuration {
		return
	}

	durations, schedule, err := m.plan.Build(float64(v))
	if err != nil {
		m.warn(err)
		return
	}
	if err := m.timer.SetSchedule(sum(durations), schedule); err != nil {
		m.warn(err)
		return
	}
	m.fireDuration = v
	m.durations = durations
	m.schedule = schedule

	low, high := m.plan.TickRange(float64(v))
	m.ticks.SetRange(ticks.Range{Low: low, High: high})
	m.clampSelection()
	m.Status = fmt.Sprintf("fire duration %ds", v)
}

func (m *Model) addTick() {
	if !m.editable() {
		return
	}
	v, ok := m.ticks.Add()
	if !ok {
		m.Status = "no free tick slot"
		return
	}
	m.selectedTick = m.ticks.Len() - 1
	m.Status = fmt.Sprintf("tick at %gs", v)
}

func (m *Model) removeTick() {
	if !m.editable() {
		return
	}
	m.ticks.RemoveLast()
	m.clampSelection()
}

func (m *Model) selectTick(delta int) {
	n := m.ticks.Len()
	if n == 0 {
		return
	}
	m.selectedTick = ((m.selectedTick+delta)%n + n) % n
}

// dragTick nudges the selected tick and schedules the drag to end once the keys go quiet.
func (m *Model) dragTick(delta float64) tea.Cmd {
	if !m.editable() || m.ticks.Len() == 0 {
		return nil
	}
	m.ticks.DragBy(m.selectedTick, delta)
	m.dragSeq++
	seq := m.dragSeq
	return tea.Tick(dragSettle, func(time.Time) tea.Msg {
		return msgDragEnd{seq: seq}
	})
}

func (m *Model) clampSelection() {
	if m.selectedTick >= m.ticks.Len() {
		m.selectedTick = m.ticks.Len() - 1
	}
	if m.selectedTick < 0 {
		m.selectedTick = 0
	}
}

func (m *Model) openRunLog() {
	runs, err := m.repo.GetRuns(runLogLimit)
	if err != nil {
		m.logger.Printf("runlog: load runs: %v", err)
		m.Err = err
		runs = nil
	}
	m.Runs = runs
	m.ShowLogView = true
	m.LogViewScroll = 0
}

// Close records a run still in progress, saves the setup and closes the store.
func (m *Model) Close() error {
	if m.timer.Running() {
		if err := m.timer.Stop(); err == nil {
			m.closeRun()
		}
	}
	if m.ticks.Dragging() >= 0 {
		m.ticks.EndDrag()
	}
	setup := &drill.Setup{
		FireDuration:  m.fireDuration,
		Ticks:         m.ticks.Values(),
		BadgesVisible: m.badges,
	}
	if err := m.repo.SaveSetup(setup); err != nil {
		m.logger.Printf("drill: save setup: %v", err)
	}
	return m.repo.Close()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowLogView {
		return m.handleLogViewInput(msg)
	}

	m.Err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Start):
		m.start()
	case key.Matches(msg, m.keys.Stop):
		m.stop()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.FireDown):
		m.setFireDuration(m.fireDuration - 1)
	case key.Matches(msg, m.keys.FireUp):
		m.setFireDuration(m.fireDuration + 1)
	case key.Matches(msg, m.keys.AddTick):
		m.addTick()
	case key.Matches(msg, m.keys.RemoveTick):
		m.removeTick()
	case key.Matches(msg, m.keys.NextTick):
		m.selectTick(1)
	case key.Matches(msg, m.keys.PrevTick):
		m.selectTick(-1)
	case key.Matches(msg, m.keys.DragLeft):
		return m, m.dragTick(-dragStep)
	case key.Matches(msg, m.keys.DragRight):
		return m, m.dragTick(dragStep)
	case key.Matches(msg, m.keys.Badges):
		m.badges = !m.badges
	case key.Matches(msg, m.keys.Silent):
		m.player.SetSilent(!m.player.Silent())
	case key.Matches(msg, m.keys.Log):
		m.openRunLog()
	}
	return m, nil
}

func (m *Model) handleLogViewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "L":
		m.ShowLogView = false
		m.Runs = nil
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		maxScroll := len(m.Runs) - 1
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.LogViewScroll < maxScroll {
			m.LogViewScroll++
		}
	}
	return m, nil
}

// handleMouseMsg drags the tick nearest to a press on the tick track.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ShowLogView {
		return m, nil
	}
	_, layout := m.panel()
	track := m.tickTrack()
	x := msg.X - layout.left

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != layout.tickTrack || x < 0 || x >= track.Width {
			return m, nil
		}
		if !m.editable() || m.ticks.Len() == 0 {
			return m, nil
		}
		v := track.ValueAt(x)
		m.selectedTick = nearest(m.ticks.Values(), v)
		m.ticks.Drag(m.selectedTick, v)
	case tea.MouseActionMotion:
		if i := m.ticks.Dragging(); i >= 0 {
			m.ticks.Drag(i, track.ValueAt(x))
		}
	case tea.MouseActionRelease:
		if m.ticks.Dragging() >= 0 {
			m.ticks.EndDrag()
		}
	}
	return m, nil
}

func (m *Model) dial() render.Dial {
	return render.Dial{
		Radius:        m.cfg.Dial.Radius,
		RingThickness: m.cfg.Dial.RingThickness,
		BadgeRadius:   m.cfg.Dial.BadgeRadius,
		GapAngle:      m.cfg.Dial.GapAngle,
	}
}

func (m *Model) tickTrack() render.Track {
	return render.Track{
		Range:  m.ticks.Range(),
		Width:  trackWidth,
		Locked: m.timer.State() != timer.NotStarted,
	}
}

// highlighted returns the index, in the full command list, of the phase to highlight.
func (m *Model) highlighted() int {
	return m.plan.HighlightedPhaseIndex(m.timer.Elapsed(), m.durations)
}

// activeSegment converts a command index into a dial segment index, or -1 for untimed phases.
func (m *Model) activeSegment(phaseIndex int) int {
	segment := -1
	for i, ph := range m.plan.Phases() {
		if ph.Timed() {
			segment++
		}
		if i == phaseIndex {
			if !ph.Timed() {
				return -1
			}
			return segment
		}
	}
	return -1
}

func nearest(values []float64, v float64) int {
	best := 0
	for i := range values {
		if math.Abs(values[i]-v) < math.Abs(values[best]-v) {
			best = i
		}
	}
	return best
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
