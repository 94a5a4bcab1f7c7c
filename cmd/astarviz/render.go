package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/astarviz/internal/config"
	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/sink"
	"github.com/san-kum/astarviz/internal/trace"
)

func newRenderer(cfg *config.Config, m *maze.Maze, set trace.Set) (*reel.Renderer, error) {
	r, err := reel.New(cfg.RenderParams(), m, set)
	if err != nil {
		return nil, err
	}
	for _, a := range trace.Algorithms() {
		if set[a] == nil {
			logger.Debug("lane omitted, no trace", "algo", a)
		}
	}
	return r, nil
}

// progressLogger logs the clock once per simulated second.
func progressLogger(total, fps int) reel.Observer {
	return reel.ObserverFunc(func(f reel.FrameInfo) {
		if f.Index%fps != 0 && f.Index != total-1 {
			return
		}
		finished := 0
		for _, l := range f.Lanes {
			if l.Finished() {
				finished++
			}
		}
		logger.Debug("frame", "index", f.Index, "of", total, "time", fmt.Sprintf("%.2fs", f.Time), "finished", finished)
	})
}

// renderToFile runs the frame clock into the sink chosen by path's
// extension. Partial output is removed when anything fails.
func renderToFile(ctx context.Context, cfg *config.Config, m *maze.Maze, set trace.Set, path string) (*reel.Result, error) {
	r, err := newRenderer(cfg, m, set)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	fps := cfg.Render.FrameRate
	s, err := sink.Open(path, r.Size(), fps)
	if err != nil {
		return nil, err
	}

	total := r.FrameCount()
	r.AddObserver(progressLogger(total, fps))

	logger.Info("rendering", "lanes", len(r.Lanes()), "frames", total, "size", fmt.Sprintf("%dx%d", r.Size().X, r.Size().Y), "output", path)
	start := time.Now()

	res, err := r.Run(ctx, s)
	if err != nil {
		if abortErr := s.Abort(); abortErr != nil {
			logger.Warn("could not remove partial output", "path", path, "err", abortErr)
		}
		return nil, err
	}
	if err := s.Close(); err != nil {
		return nil, err
	}

	logger.Info("rendered", "frames", res.Frames, "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}
