// Package render draws the dial and slider tracks onto a grid of terminal cells.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal character. Colors are hex strings; empty means the terminal default.
type Cell struct {
	Rune rune
	FG   string
	BG   string
	Bold bool
}

type cellStyle struct {
	fg, bg string
	bold   bool
}

// Canvas is a fixed-size grid of cells. A zero Rune marks the right half of a wide character.
type Canvas struct {
	width, height int
	cells         []Cell
}

func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{width: width, height: height, cells: make([]Cell, width*height)}
	for i := range c.cells {
		c.cells[i].Rune = ' '
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *Canvas) At(x, y int) Cell {
	if !c.In(x, y) {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

// Set replaces the cell at (x, y). Points outside the canvas are ignored.
func (c *Canvas) Set(x, y int, cell Cell) {
	if !c.In(x, y) {
		return
	}
	c.cells[y*c.width+x] = cell
}

// Paint changes only the background of the cell at (x, y).
func (c *Canvas) Paint(x, y int, bg string) {
	if !c.In(x, y) {
		return
	}
	c.cells[y*c.width+x].BG = bg
}

// Text writes s starting at (x, y) and returns the number of columns used. Wide runes take two
// columns; text running off the right edge is cut.
func (c *Canvas) Text(x, y int, s string, fg, bg string) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > c.width {
			break
		}
		c.Set(col, y, Cell{Rune: r, FG: fg, BG: bg})
		for i := 1; i < w; i++ {
			c.Set(col+i, y, Cell{Rune: 0, FG: fg, BG: bg})
		}
		col += w
	}
	return col - x
}

// String renders the canvas row by row, styling runs of equal cells together.
func (c *Canvas) String() string {
	styles := make(map[cellStyle]lipgloss.Style)
	styleFor := func(k cellStyle) lipgloss.Style {
		if s, ok := styles[k]; ok {
			return s
		}
		s := lipgloss.NewStyle().Bold(k.bold)
		if k.fg != "" {
			s = s.Foreground(lipgloss.Color(k.fg))
		}
		if k.bg != "" {
			s = s.Background(lipgloss.Color(k.bg))
		}
		styles[k] = s
		return s
	}

	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var current cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == (cellStyle{}) {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(styleFor(current).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			cell := c.cells[y*c.width+x]
			if cell.Rune == 0 {
				continue
			}
			k := cellStyle{fg: cell.FG, bg: cell.BG, bold: cell.Bold}
			if k != current {
				flush()
				current = k
			}
			run.WriteRune(cell.Rune)
		}
		flush()
	}
	return sb.String()
}
