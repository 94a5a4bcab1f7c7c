package reel

import (
	"fmt"
	"image"

	"github.com/san-kum/astarviz/internal/trace"
)

const (
	DefaultFrameRate = 30
	DefaultCellSize  = 10
	DefaultSpacing   = 20
	DefaultTimeScale = 100000
	DefaultSpeed     = 1.0
	DefaultEndDelay  = 2.0
)

type Config struct {
	FrameRate int
	CellSize  int
	Spacing   int
	TimeScale float64
	// Speed is the playback multiplier; 2 plays twice as fast.
	Speed float64
	// EndDelay is how many seconds the final state stays on screen.
	EndDelay float64
}

func DefaultConfig() Config {
	return Config{
		FrameRate: DefaultFrameRate,
		CellSize:  DefaultCellSize,
		Spacing:   DefaultSpacing,
		TimeScale: DefaultTimeScale,
		Speed:     DefaultSpeed,
		EndDelay:  DefaultEndDelay,
	}
}

func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, c.CellSize)
	}
	if c.Spacing < 0 {
		return fmt.Errorf("%w: spacing must not be negative, got %d", ErrInvalidConfig, c.Spacing)
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("%w: time scale must be positive, got %f", ErrInvalidConfig, c.TimeScale)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %f", ErrInvalidConfig, c.Speed)
	}
	if c.EndDelay < 0 {
		return fmt.Errorf("%w: end delay must not be negative, got %f", ErrInvalidConfig, c.EndDelay)
	}
	return nil
}

// Modifier converts raw trace seconds into simulated seconds.
func (c Config) Modifier() float64 {
	return c.TimeScale / c.Speed
}

// Sink receives composited frames in clock order.
type Sink interface {
	WriteFrame(img image.Image) error
}

// FrameInfo describes a frame that has just been written.
type FrameInfo struct {
	Index int
	Time  float64
	Lanes []*Lane
}

type Observer interface {
	OnFrame(f FrameInfo)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(f FrameInfo)

func (fn ObserverFunc) OnFrame(f FrameInfo) { fn(f) }

// LaneStats summarizes what a lane has drawn.
type LaneStats struct {
	Algorithm  trace.Algorithm
	Events     int
	Visited    int
	Successors int
	Goals      int
	Finished   bool
	// FinishedAt is the simulated time of the last consumed event once the
	// lane has finished.
	FinishedAt float64
	PathLength int
}

func (s LaneStats) Markers() int {
	return s.Visited + s.Successors + s.Goals
}

type Result struct {
	Frames   int
	Duration float64
	Size     image.Point
	Lanes    []LaneStats
}
