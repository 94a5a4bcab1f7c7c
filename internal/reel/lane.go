package reel

import (
	"image"
	"math"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/trace"
)

const noMark = -1

// Lane replays one algorithm's trace. Its canvas only ever gains markers;
// the path overlay is replaced whenever an event carries a path.
type Lane struct {
	algo     trace.Algorithm
	events   []trace.Event
	modifier float64
	duration float64

	cursor   int
	finished bool

	cols     int
	cellSize int
	radius   int
	canvas   *image.RGBA
	overlay  *image.RGBA
	marks    []int8
	path     []trace.Pos

	stats LaneStats
}

// NewLane validates tr against m and prepares an empty canvas. Every event
// is checked up front so playback never meets a malformed one.
func NewLane(algo trace.Algorithm, tr *trace.Trace, m *maze.Maze, cfg Config) (*Lane, error) {
	for i, ev := range tr.Events {
		if err := checkEvent(ev, m); err != nil {
			return nil, &EventError{Lane: algo, Index: i, Wrapped: err}
		}
	}

	modifier := cfg.Modifier()
	bounds := image.Rect(0, 0, m.Cols*cfg.CellSize, m.Rows*cfg.CellSize)
	l := &Lane{
		algo:     algo,
		events:   tr.Sorted(),
		modifier: modifier,
		duration: tr.ExecutionTime * modifier,
		cols:     m.Cols,
		cellSize: cfg.CellSize,
		radius:   markerRadius(cfg.CellSize),
		canvas:   image.NewRGBA(bounds),
		overlay:  image.NewRGBA(bounds),
		marks:    make([]int8, m.Cols*m.Rows),
		stats:    LaneStats{Algorithm: algo},
	}
	for i := range l.marks {
		l.marks[i] = noMark
	}
	return l, nil
}

func checkEvent(ev trace.Event, m *maze.Maze) error {
	if math.IsNaN(ev.Time) || math.IsInf(ev.Time, 0) {
		return ErrInvalidTimestamp
	}
	switch ev.Kind {
	case trace.Visited, trace.Successor, trace.Goal:
		if !ev.HasPos {
			return ErrMissingPosition
		}
		if !m.InBounds(ev.Pos.Col, ev.Pos.Row) {
			return ErrPositionOutside
		}
	case trace.End:
	default:
		return ErrUnknownKind
	}
	for _, p := range ev.Path {
		if !m.InBounds(p.Col, p.Row) {
			return ErrPositionOutside
		}
	}
	return nil
}

// Advance applies every pending event whose scaled time is at or before
// target and returns how many were applied. A finished lane never changes.
func (l *Lane) Advance(target float64) int {
	applied := 0
	for !l.finished {
		if l.cursor >= len(l.events) {
			l.finish(l.lastTime())
			break
		}
		ev := l.events[l.cursor]
		if l.scaled(ev) > target {
			break
		}
		l.cursor++
		l.apply(ev)
		applied++
	}
	if !l.finished && l.cursor >= len(l.events) {
		l.finish(l.lastTime())
	}
	return applied
}

func (l *Lane) apply(ev trace.Event) {
	l.stats.Events++

	switch ev.Kind {
	case trace.End:
		l.finish(l.scaled(ev))
		return
	case trace.Visited:
		l.stats.Visited++
	case trace.Successor:
		l.stats.Successors++
	case trace.Goal:
		l.stats.Goals++
	}

	fill, _ := MarkerColor(ev.Kind)
	drawMarker(l.canvas, cellCenter(ev.Pos, l.cellSize), l.radius, fill)
	l.marks[ev.Pos.Row*l.cols+ev.Pos.Col] = int8(ev.Kind)

	if ev.Path != nil {
		l.setPath(ev.Path)
	}
}

func (l *Lane) setPath(path []trace.Pos) {
	l.path = append(l.path[:0], path...)
	l.stats.PathLength = len(l.path)

	clearImage(l.overlay)
	for _, p := range l.path {
		drawMarker(l.overlay, cellCenter(p, l.cellSize), l.radius, PathColor)
	}
}

func (l *Lane) finish(at float64) {
	l.finished = true
	l.stats.Finished = true
	l.stats.FinishedAt = at
}

func (l *Lane) scaled(ev trace.Event) float64 {
	return ev.Time * l.modifier
}

func (l *Lane) lastTime() float64 {
	if l.cursor == 0 {
		return 0
	}
	return l.scaled(l.events[l.cursor-1])
}

func (l *Lane) Algorithm() trace.Algorithm { return l.algo }
func (l *Lane) Name() string               { return l.algo.String() }
func (l *Lane) Finished() bool             { return l.finished }
func (l *Lane) Cursor() int                { return l.cursor }
func (l *Lane) Len() int                   { return len(l.events) }

// Duration is the lane's execution time in simulated seconds.
func (l *Lane) Duration() float64 { return l.duration }

// Canvas is the cumulative marker layer; unmarked pixels are transparent.
func (l *Lane) Canvas() *image.RGBA { return l.canvas }

// Overlay is the current path layer; unmarked pixels are transparent.
func (l *Lane) Overlay() *image.RGBA { return l.overlay }

func (l *Lane) Stats() LaneStats { return l.stats }

// Path returns a copy of the current path.
func (l *Lane) Path() []trace.Pos {
	out := make([]trace.Pos, len(l.path))
	copy(out, l.path)
	return out
}

// Mark reports the kind of the most recent marker drawn on a cell.
func (l *Lane) Mark(col, row int) (trace.Kind, bool) {
	if col < 0 || col >= l.cols || row < 0 || row >= len(l.marks)/l.cols {
		return 0, false
	}
	m := l.marks[row*l.cols+col]
	if m == noMark {
		return 0, false
	}
	return trace.Kind(m), true
}
