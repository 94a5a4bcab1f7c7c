package reel

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/trace"
)

// Renderer owns the simulated clock and the lanes of one animation.
type Renderer struct {
	cfg       Config
	maze      *maze.Maze
	traces    trace.Set
	lanes     []*Lane
	comp      *Compositor
	observers []Observer
	duration  float64
	clock     float64
}

func New(cfg Config, m *maze.Maze, traces trace.Set) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if traces.Len() == 0 {
		return nil, ErrNoLanes
	}

	r := &Renderer{
		cfg:       cfg,
		maze:      m,
		traces:    traces,
		observers: make([]Observer, 0),
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}

	board := maze.Rasterize(m, cfg.CellSize)
	labels := make([]string, len(r.lanes))
	for i, l := range r.lanes {
		labels[i] = l.Name()
	}
	r.comp = NewCompositor(board, labels, cfg.Spacing)

	return r, nil
}

// Reset rebuilds every lane from its trace and rewinds the clock.
func (r *Renderer) Reset() error {
	lanes := make([]*Lane, 0, r.traces.Len())
	duration := 0.0
	for _, algo := range r.traces.Present() {
		l, err := NewLane(algo, r.traces[algo], r.maze, r.cfg)
		if err != nil {
			return err
		}
		if l.Duration() > duration {
			duration = l.Duration()
		}
		lanes = append(lanes, l)
	}
	r.lanes = lanes
	r.duration = duration
	r.clock = 0
	return nil
}

func (r *Renderer) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Renderer) Config() Config    { return r.cfg }
func (r *Renderer) Maze() *maze.Maze  { return r.maze }
func (r *Renderer) Lanes() []*Lane    { return r.lanes }
func (r *Renderer) Layout() Layout    { return r.comp.Layout() }
func (r *Renderer) Size() image.Point { return r.comp.Layout().Size() }

// Duration is the longest lane execution time in simulated seconds.
func (r *Renderer) Duration() float64 { return r.duration }

// FrameCount is ceil((Duration+EndDelay) * FrameRate).
func (r *Renderer) FrameCount() int {
	return int(math.Ceil((r.duration + r.cfg.EndDelay) * float64(r.cfg.FrameRate)))
}

// FrameTime is the simulated time of frame i. It is computed from the
// index rather than accumulated, so long renders do not drift.
func (r *Renderer) FrameTime(i int) float64 {
	return float64(i) / float64(r.cfg.FrameRate)
}

// Step advances every lane to t without compositing.
func (r *Renderer) Step(t float64) error {
	if t < r.clock {
		return fmt.Errorf("%w: %.6f after %.6f", ErrClockBackwards, t, r.clock)
	}
	r.clock = t
	for _, l := range r.lanes {
		l.Advance(t)
	}
	return nil
}

// Frame advances every lane to t and composites the result.
func (r *Renderer) Frame(t float64) (*image.RGBA, error) {
	if err := r.Step(t); err != nil {
		return nil, err
	}
	return r.comp.Compose(r.lanes), nil
}

// Run rewinds, then drives the clock from zero to the end of the trailing
// hold, writing one frame per tick to s in order. The context is checked
// between frames.
func (r *Renderer) Run(ctx context.Context, s Sink) (*Result, error) {
	if r.clock > 0 {
		if err := r.Reset(); err != nil {
			return nil, err
		}
	}
	n := r.FrameCount()
	result := &Result{
		Duration: r.duration,
		Size:     r.Size(),
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			result.Lanes = r.Stats()
			return result, ctx.Err()
		default:
		}

		t := r.FrameTime(i)
		frame, err := r.Frame(t)
		if err != nil {
			return result, err
		}
		if err := s.WriteFrame(frame); err != nil {
			return result, fmt.Errorf("reel: write frame %d: %w", i, err)
		}
		result.Frames++

		info := FrameInfo{Index: i, Time: t, Lanes: r.lanes}
		for _, obs := range r.observers {
			obs.OnFrame(info)
		}
	}

	result.Lanes = r.Stats()
	return result, nil
}

func (r *Renderer) Stats() []LaneStats {
	stats := make([]LaneStats, len(r.lanes))
	for i, l := range r.lanes {
		stats[i] = l.Stats()
	}
	return stats
}
