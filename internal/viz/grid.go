package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/trace"
)

const (
	glyphEmpty    = "·"
	glyphWall     = "█"
	glyphPathCell = "▒"
	glyphMarker   = "●"
	glyphPath     = "◆"
)

// cellStyles caches one style per glyph colour.
type cellStyles struct {
	empty, wall, pathCell, path lipgloss.Style
	marks                       map[trace.Kind]lipgloss.Style
}

func newCellStyles(th Theme) cellStyles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return cellStyles{
		empty:    fg(th.Empty),
		wall:     fg(th.Wall),
		pathCell: fg(th.PathCell),
		path:     fg(th.Path).Bold(true),
		marks: map[trace.Kind]lipgloss.Style{
			trace.Visited:   fg(th.Visited),
			trace.Successor: fg(th.Successor),
			trace.Goal:      fg(th.Goal),
		},
	}
}

// LaneGrid draws a lane as one character per cell, stacked the way frames
// are: board, then markers, then the current path.
func LaneGrid(l *reel.Lane, m *maze.Maze, th Theme) string {
	st := newCellStyles(th)

	onPath := make(map[trace.Pos]bool)
	for _, p := range l.Path() {
		onPath[p] = true
	}

	var sb strings.Builder
	for row := 0; row < m.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < m.Cols; col++ {
			if onPath[trace.Pos{Col: col, Row: row}] {
				sb.WriteString(st.path.Render(glyphPath))
				continue
			}
			if kind, ok := l.Mark(col, row); ok {
				sb.WriteString(st.marks[kind].Render(glyphMarker))
				continue
			}
			switch m.At(col, row) {
			case maze.Wall:
				sb.WriteString(st.wall.Render(glyphWall))
			case maze.Path:
				sb.WriteString(st.pathCell.Render(glyphPathCell))
			default:
				sb.WriteString(st.empty.Render(glyphEmpty))
			}
		}
	}
	return sb.String()
}

// Lanes joins every lane grid left to right under its label.
func Lanes(lanes []*reel.Lane, m *maze.Maze, th Theme) string {
	views := make([]string, len(lanes))
	for i, l := range lanes {
		title := titleStyle.Foreground(th.Text).Render(l.Name())
		if l.Finished() {
			title += " " + lipgloss.NewStyle().Foreground(th.Muted).Render("done")
		}
		views[i] = laneStyle.Render(title + "\n" + LaneGrid(l, m, th))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}
