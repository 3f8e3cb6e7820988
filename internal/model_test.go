package internal

import (
	"bytes"
	"log"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldtimer/internal/config"
	"fieldtimer/internal/drill"
	"fieldtimer/internal/phase"
	"fieldtimer/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakePlayer struct {
	played     []phase.CueID
	vibrations []time.Duration
	silent     bool
}

func (p *fakePlayer) Play(id phase.CueID) {
	p.played = append(p.played, id)
}

func (p *fakePlayer) Vibrate(d time.Duration) bool {
	if p.silent {
		return false
	}
	p.vibrations = append(p.vibrations, d)
	return true
}

func (p *fakePlayer) SetSilent(silent bool) { p.silent = silent }
func (p *fakePlayer) Silent() bool          { return p.silent }

type harness struct {
	m      *Model
	player *fakePlayer
	clock  *fakeClock
	repo   *drill.Repository
	logs   *bytes.Buffer
	start  time.Time
}

func newHarness(t *testing.T, dbPath string) *harness {
	t.Helper()
	repo, err := drill.NewRepository(dbPath)
	require.NoError(t, err)

	h := &harness{
		player: &fakePlayer{},
		clock:  &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		repo:   repo,
		logs:   &bytes.Buffer{},
	}
	h.start = h.clock.now
	h.m, err = NewModel(config.Default(), Deps{
		Store:  repo,
		Player: h.player,
		Clock:  h.clock,
		Logger: log.New(h.logs, "", 0),
	})
	require.NoError(t, err)
	return h
}

func newMemoryHarness(t *testing.T) *harness {
	h := newHarness(t, ":memory:")
	t.Cleanup(func() { h.repo.Close() })
	return h
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = h.m.Update(msg)
	}
	return cmd
}

// frames sends one frame every step from fromMS to toMS inclusive, moving the clock along.
func (h *harness) frames(fromMS, toMS, step int) {
	for ms := fromMS; ms <= toMS; ms += step {
		h.clock.now = h.start.Add(time.Duration(ms) * time.Millisecond)
		h.m.Update(MsgFrame{At: h.clock.now})
	}
}

func TestDrill_PlaysEveryCueOnceAndLogsRun(t *testing.T) {
	h := newMemoryHarness(t)

	h.press(" ")
	require.Equal(t, timer.Running, h.m.State())
	h.frames(0, 25_000, 100)

	assert.Equal(t, []phase.CueID{
		phase.CueTenSecondsLeft,
		phase.CueReady,
		phase.CueFire,
		phase.CueCeaseFire,
		phase.CueUnload,
		phase.CueInspection,
	}, h.player.played)
	assert.Equal(t, timer.Finished, h.m.State())

	runs, err := h.repo.GetRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "finished", runs[0].FinalState)
	assert.Equal(t, 6, runs[0].CuesFired)
	assert.Equal(t, 24*time.Second, runs[0].Elapsed)
	assert.Equal(t, 5, runs[0].FireDuration)
	assert.True(t, runs[0].Complete())
}

func TestDrill_TickCueFiresOncePerRun(t *testing.T) {
	h := newMemoryHarness(t)

	h.press("+")
	require.Equal(t, []float64{14}, h.m.Ticks())

	h.press(" ")
	h.frames(0, 13_900, 100)
	assert.Empty(t, h.player.vibrations)

	h.frames(14_000, 20_000, 100)
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, h.player.vibrations)

	h.press("x")
	runs, err := h.repo.GetRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "stopped", runs[0].FinalState)
	assert.Equal(t, 1, runs[0].TicksPassed)

	// a fresh run clears the passed set
	h.press(" ", " ")
	h.start = h.clock.now
	h.frames(0, 15_000, 500)
	assert.Len(t, h.player.vibrations, 2)
}

func TestDrill_SilentModeSkipsTickCues(t *testing.T) {
	h := newMemoryHarness(t)

	h.press("m", "+", " ")
	assert.True(t, h.player.Silent())
	h.frames(0, 20_000, 100)

	assert.Empty(t, h.player.vibrations)
	assert.Empty(t, h.m.passed)
	assert.Len(t, h.player.played, 5)
}

func TestSettingsLockedOutsideNotStarted(t *testing.T) {
	h := newMemoryHarness(t)

	h.press(" ", "right", "+")
	assert.Equal(t, 5, h.m.FireDuration())
	assert.Empty(t, h.m.Ticks())
	assert.Equal(t, "settings are locked until reset", h.m.Status)

	h.press(" ", " ", "right")
	assert.Equal(t, timer.NotStarted, h.m.State())
	assert.Equal(t, 6, h.m.FireDuration())
}

func TestFireDurationChangePrunesTicks(t *testing.T) {
	h := newMemoryHarness(t)

	h.press("+", "+", "+", "+", "+", "+")
	assert.Equal(t, []float64{14, 15, 13, 16, 12, 17}, h.m.Ticks())
	h.press("+")
	assert.Equal(t, "no free tick slot", h.m.Status)
	assert.Len(t, h.m.Ticks(), 6)

	h.press("left", "left", "left", "left", "left")
	assert.Equal(t, 1, h.m.FireDuration())
	assert.Equal(t, []float64{13, 12}, h.m.Ticks())
	assert.Equal(t, 20.0, h.m.timer.Total())

	h.press("-")
	assert.Equal(t, []float64{13}, h.m.Ticks())
}

func TestInvalidTransitionLogsWarning(t *testing.T) {
	h := newMemoryHarness(t)

	h.press("x")
	assert.Contains(t, h.logs.String(), "warn: stop while not started")
	assert.Equal(t, timer.NotStarted, h.m.State())

	h.press("s", "s")
	assert.Contains(t, h.logs.String(), "warn: start while running")
	assert.Equal(t, timer.Running, h.m.State())
}

func TestKeyboardDragCommitsAfterSettle(t *testing.T) {
	h := newMemoryHarness(t)

	h.press("+")
	cmd := h.press("]", "]", "]")
	require.NotNil(t, cmd)
	assert.Equal(t, []float64{14.75}, h.m.Ticks())

	h.m.Update(msgDragEnd{seq: 1})
	assert.Equal(t, []float64{14.75}, h.m.Ticks())

	h.m.Update(msgDragEnd{seq: 3})
	assert.Equal(t, []float64{15}, h.m.Ticks())
}

func TestMouseDragOnTickTrack(t *testing.T) {
	h := newMemoryHarness(t)
	h.press("+", "+")
	require.Equal(t, []float64{14, 15}, h.m.Ticks())

	_, layout := h.m.panel()
	h.m.Update(tea.MouseMsg{X: layout.left, Y: layout.tickTrack, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, []float64{11, 15}, h.m.Ticks())

	h.m.Update(tea.MouseMsg{X: layout.left + 9, Y: layout.tickTrack, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	h.m.Update(tea.MouseMsg{X: layout.left + 9, Y: layout.tickTrack, Action: tea.MouseActionRelease})
	assert.Equal(t, []float64{13, 15}, h.m.Ticks())

	// presses off the track are ignored
	h.m.Update(tea.MouseMsg{X: layout.left, Y: layout.fireTrack, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, []float64{13, 15}, h.m.Ticks())
}

func TestTickSelectionWraps(t *testing.T) {
	h := newMemoryHarness(t)
	h.press("+", "+", "+")
	assert.Equal(t, 2, h.m.selectedTick)
	h.press("tab")
	assert.Equal(t, 0, h.m.selectedTick)
	h.m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, h.m.selectedTick)
}

func TestHighlightFollowsElapsed(t *testing.T) {
	h := newMemoryHarness(t)
	assert.Equal(t, "Ten seconds left", h.m.plan.Phases()[h.m.highlighted()].Name)

	h.press(" ")
	h.frames(0, 12_000, 1000)
	idx := h.m.highlighted()
	assert.Equal(t, "Fire", h.m.plan.Phases()[idx].Name)
	assert.Equal(t, 2, h.m.activeSegment(idx))
	assert.Equal(t, -1, h.m.activeSegment(0))
}

func TestRunLogView(t *testing.T) {
	h := newMemoryHarness(t)

	h.press(" ")
	h.frames(0, 3_000, 100)
	h.press("x")
	h.clock.now = h.clock.now.Add(2 * time.Minute)

	h.press("L")
	require.True(t, h.m.ShowLogView)
	require.Len(t, h.m.Runs, 1)
	view := h.m.View()
	assert.Contains(t, view, "Run log")
	assert.Contains(t, view, "stopped")
	assert.Contains(t, view, "2 minutes ago")

	h.press("esc")
	assert.False(t, h.m.ShowLogView)
}

func TestMainView(t *testing.T) {
	h := newMemoryHarness(t)
	h.press("+")

	view := h.m.View()
	assert.Contains(t, view, "Field Timer")
	assert.Contains(t, view, "Cease fire")
	assert.Contains(t, view, "Fire duration  5s")
	assert.Contains(t, view, "Ticks  1/6")

	h.press("b", "m")
	view = h.m.View()
	assert.Contains(t, view, "badges hidden")
	assert.Contains(t, view, "silent")
}

func TestCloseSavesSetupAndRunningRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill.db")
	h := newHarness(t, path)

	h.press("right", "right", "+", "b", " ")
	h.frames(0, 2_000, 1000)
	require.NoError(t, h.m.Close())

	h2 := newHarness(t, path)
	t.Cleanup(func() { h2.m.Close() })
	assert.Equal(t, 7, h2.m.FireDuration())
	assert.Equal(t, []float64{15}, h2.m.Ticks())
	assert.False(t, h2.m.badges)

	runs, err := h2.repo.GetRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "stopped", runs[0].FinalState)
	assert.Equal(t, 2*time.Second, runs[0].Elapsed)
}

func TestNewModelRequiresCollaborators(t *testing.T) {
	_, err := NewModel(config.Default(), Deps{})
	assert.Error(t, err)
}
