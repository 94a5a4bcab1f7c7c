package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/trace"
)

// ProgressRecorder is a frame observer that samples every lane's
// cumulative marker count once per frame.
type ProgressRecorder struct {
	Names  []string
	Series [][]float64
	Times  []float64
}

func NewProgressRecorder() *ProgressRecorder {
	return &ProgressRecorder{}
}

func (p *ProgressRecorder) OnFrame(f reel.FrameInfo) {
	if p.Series == nil {
		p.Names = make([]string, len(f.Lanes))
		p.Series = make([][]float64, len(f.Lanes))
		for i, l := range f.Lanes {
			p.Names[i] = l.Name()
		}
	}
	p.Times = append(p.Times, f.Time)
	for i, l := range f.Lanes {
		if i < len(p.Series) {
			p.Series[i] = append(p.Series[i], float64(l.Stats().Markers()))
		}
	}
}

var laneColors = map[string]asciigraph.AnsiColor{
	trace.Sequential.String():         asciigraph.Red,
	trace.ParallelExhaustive.String(): asciigraph.Blue,
	trace.ParallelFirst.String():      asciigraph.Green,
}

// Plot draws one line per lane. It returns "" until two frames have been
// recorded.
func Plot(p *ProgressRecorder, width, height int) string {
	if p == nil || len(p.Times) < 2 {
		return ""
	}

	colors := make([]asciigraph.AnsiColor, len(p.Names))
	legend := make([]string, len(p.Names))
	for i, name := range p.Names {
		colors[i] = laneColors[name]
		legend[i] = name
	}
	caption := fmt.Sprintf("markers per frame (%s), %.2fs", strings.Join(legend, ", "), p.Times[len(p.Times)-1])

	return asciigraph.PlotMany(p.Series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}
