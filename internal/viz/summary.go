package viz

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/astarviz/internal/reel"
)

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// Summary renders per-lane statistics of a finished render.
func Summary(res *reel.Result) string {
	if res == nil {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		}).
		Headers("LANE", "EVENTS", "VISITED", "SUCCESSORS", "GOALS", "PATH", "FINISHED")

	for _, l := range res.Lanes {
		finished := "-"
		if l.Finished {
			finished = fmt.Sprintf("%.2fs", l.FinishedAt)
		}
		t.Row(
			l.Algorithm.String(),
			strconv.Itoa(l.Events),
			strconv.Itoa(l.Visited),
			strconv.Itoa(l.Successors),
			strconv.Itoa(l.Goals),
			strconv.Itoa(l.PathLength),
			finished,
		)
	}

	head := fmt.Sprintf("%d frames, %dx%d, %.2fs", res.Frames, res.Size.X, res.Size.Y, res.Duration)
	return headerStyle.Render(head) + "\n" + t.String()
}
