package export

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/reel"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LanesToSVG draws the current state of each lane laid out like a
// rendered frame: one group per lane with the board, a circle per marked
// cell and the current path on top.
func LanesToSVG(m *maze.Maze, lanes []*reel.Lane, cellSize, spacing int) string {
	if m == nil || len(lanes) == 0 || cellSize <= 0 {
		return ""
	}

	layout := reel.Layout{
		Board:   image.Pt(m.Cols*cellSize, m.Rows*cellSize),
		Spacing: spacing,
		Lanes:   len(lanes),
	}
	size := layout.Size()
	half := float64(cellSize) / 2
	radius := float64(cellSize/2) * 0.7

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size.X, size.Y, size.X, size.Y, hex(reel.FrameBackground)))

	for i, l := range lanes {
		o := layout.Origin(i)
		sb.WriteString(fmt.Sprintf(`<g id="%s" transform="translate(%d,%d)">
`, l.Algorithm().Key(), o.X, o.Y))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-family="monospace" font-size="12">%s</text>
`, layout.Board.X/2, -spacing/4, l.Name()))

		// board
		sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s" stroke="%s"/>
`, layout.Board.X, layout.Board.Y, hex(maze.Background), hex(maze.GridColor)))
		for row := 0; row < m.Rows; row++ {
			for col := 0; col < m.Cols; col++ {
				fill := ""
				switch m.At(col, row) {
				case maze.Wall:
					fill = hex(maze.WallColor)
				case maze.Path:
					fill = hex(maze.PathColor)
				}
				if fill == "" {
					continue
				}
				sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, col*cellSize, row*cellSize, cellSize, cellSize, fill))
			}
		}

		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1">
`, hex(reel.OutlineColor)))
		for row := 0; row < m.Rows; row++ {
			for col := 0; col < m.Cols; col++ {
				kind, ok := l.Mark(col, row)
				if !ok {
					continue
				}
				c, _ := reel.MarkerColor(kind)
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(col*cellSize)+half, float64(row*cellSize)+half, radius, hex(c)))
			}
		}
		for _, p := range l.Path() {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(p.Col*cellSize)+half, float64(p.Row*cellSize)+half, radius, hex(reel.PathColor)))
		}
		sb.WriteString("</g>\n</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
