package internal

import (
	"fmt"
	"strconv"
	"strings"

	"fieldtimer/internal/render"
	"fieldtimer/internal/ticks"
	"fieldtimer/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

const (
	trackWidth   = 28
	gutter       = "  "
	runsPageSize = 15
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Padding(0, 1)

	commandActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Bold(true).
				Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// panelLayout locates the slider tracks on screen for mouse input.
type panelLayout struct {
	left      int
	fireTrack int
	tickTrack int
}

func (m *Model) mainView() string {
	panel, _ := m.panel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.dialView(), gutter, panel)

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *Model) dialView() string {
	timed := m.plan.Timed()
	segments := make([]render.Segment, len(m.durations))
	for i, d := range m.durations {
		segments[i] = render.Segment{
			Duration: d,
			Color:    timed[i].Color,
			Label:    strconv.FormatFloat(d, 'f', -1, 64),
		}
	}

	active := -1
	if m.timer.State() != timer.NotStarted {
		active = m.activeSegment(m.highlighted())
	}

	canvas, _, err := m.dial().Render(render.Scene{
		Segments: segments,
		Active:   active,
		Elapsed:  m.timer.Elapsed(),
		Ticks:    m.ticks.Values(),
		Passed:   m.passed,
		Badges:   m.badges,
		Caption:  fmt.Sprintf("%.1fs", m.timer.Elapsed()),
	})
	if err != nil {
		return errStyle.Render(err.Error())
	}
	return canvas.String()
}

// panel renders the side panel. The layout it returns is in screen cells.
func (m *Model) panel() (string, panelLayout) {
	dialWidth, _ := m.dial().Size()
	// the border and padding of boxStyle shift the content by one row and two columns
	layout := panelLayout{left: dialWidth + len(gutter) + 2}

	var lines []string
	lines = append(lines, titleStyle.Render("Field Timer"), "")
	lines = append(lines, m.stateLine(), m.elapsedLine(), "")

	highlighted := m.highlighted()
	for i, ph := range m.plan.Phases() {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(ph.Color)).Render("●")
		if i == highlighted {
			lines = append(lines, dot+commandActiveStyle.Render(ph.Name))
		} else {
			lines = append(lines, dot+commandStyle.Render(inactiveStyle.Render(ph.Name)))
		}
	}
	lines = append(lines, "")

	lines = append(lines, labelStyle.Render(fmt.Sprintf("Fire duration  %ds", m.fireDuration)))
	layout.fireTrack = len(lines) + 1
	fire := render.Track{
		Range:  ticks.Range{Low: m.cfg.Drill.FireDurationMin, High: m.cfg.Drill.FireDurationMax},
		Width:  trackWidth,
		Locked: m.timer.State() != timer.NotStarted,
	}
	lines = append(lines, strings.Split(fire.Render([]float64{float64(m.fireDuration)}, -1).String(), "\n")...)
	lines = append(lines, "")

	rng := m.ticks.Range()
	lines = append(lines, labelStyle.Render(fmt.Sprintf("Ticks  %d/%d  (%d-%ds)", m.ticks.Len(), rng.Slots(), rng.Low, rng.High)))
	layout.tickTrack = len(lines) + 1
	selected := -1
	if m.ticks.Len() > 0 {
		selected = m.selectedTick
	}
	lines = append(lines, strings.Split(m.tickTrack().Render(m.ticks.Values(), selected).String(), "\n")...)
	lines = append(lines, "")

	flags := []string{}
	if m.player.Silent() {
		flags = append(flags, "silent")
	}
	if !m.badges {
		flags = append(flags, "badges hidden")
	}
	lines = append(lines, helpStyle.Render(strings.Join(flags, " · ")))
	if m.Err != nil {
		lines = append(lines, errStyle.Render(m.Err.Error()))
	} else {
		lines = append(lines, helpStyle.Render(m.Status))
	}

	return boxStyle.Width(trackWidth + 4).Render(strings.Join(lines, "\n")), layout
}

func (m *Model) stateLine() string {
	state := m.timer.State()
	if state == timer.Running {
		return timerRunningStyle.Render(strings.ToUpper(state.String()))
	}
	return timerDisplayStyle.Render(strings.ToUpper(state.String()))
}

func (m *Model) elapsedLine() string {
	remaining := m.timer.Total() - m.timer.Elapsed()
	return fmt.Sprintf("%5.1fs elapsed  %5.1fs left", m.timer.Elapsed(), max(remaining, 0))
}

func (m *Model) runLogView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Run log"))
	sb.WriteString("\n\n")

	if len(m.Runs) == 0 {
		sb.WriteString(inactiveStyle.Render("No runs recorded yet."))
	} else {
		sb.WriteString(logHeaderStyle.Render(fmt.Sprintf("%d runs, newest first", len(m.Runs))))
		sb.WriteString("\n")
		now := m.clock.Now()
		end := min(m.LogViewScroll+runsPageSize, len(m.Runs))
		for i := m.LogViewScroll; i < end; i++ {
			line := m.Runs[i].Summary(now)
			if i == m.LogViewScroll {
				line = logSelectedStyle.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Back: Esc/L"))
	return boxStyle.Render(sb.String())
}
