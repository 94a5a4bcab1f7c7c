package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/solver"
)

const (
	DefaultAlgo        = "all"
	DefaultThreads     = 8
	DefaultRuns        = 50
	DefaultMaxFailures = 20
	DefaultDataDir     = ".astarviz"
	DefaultReportsDir  = "reports"
	DefaultExtension   = ".mp4"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Problem  string       `yaml:"problem,omitempty"`
	Instance string       `yaml:"instance,omitempty"`
	Algo     string       `yaml:"algo"`
	Threads  int          `yaml:"threads"`
	Runs     int          `yaml:"runs"`
	Output   string       `yaml:"output,omitempty"`
	DataDir  string       `yaml:"data_dir"`
	Render   RenderConfig `yaml:"render"`
	Retry    RetryConfig  `yaml:"retry"`
}

type RenderConfig struct {
	FrameRate     int     `yaml:"frame_rate"`
	CellPixelSize int     `yaml:"cell_pixel_size"`
	LaneSpacing   int     `yaml:"lane_spacing"`
	TimeScale     float64 `yaml:"time_scale"`
	PlaybackSpeed float64 `yaml:"playback_speed"`
	EndDelay      float64 `yaml:"end_delay"`
}

type RetryConfig struct {
	MaxFailures int     `yaml:"max_failures"`
	PerSecond   float64 `yaml:"per_second"`
}

func DefaultConfig() *Config {
	return &Config{
		Algo:    DefaultAlgo,
		Threads: DefaultThreads,
		Runs:    DefaultRuns,
		DataDir: DefaultDataDir,
		Render: RenderConfig{
			FrameRate:     reel.DefaultFrameRate,
			CellPixelSize: reel.DefaultCellSize,
			LaneSpacing:   reel.DefaultSpacing,
			TimeScale:     reel.DefaultTimeScale,
			PlaybackSpeed: reel.DefaultSpeed,
			EndDelay:      reel.DefaultEndDelay,
		},
		Retry: RetryConfig{MaxFailures: DefaultMaxFailures},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base: keys missing from the file
// keep the base value.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := solver.ParseSelection(c.Algo); err != nil {
		return fmt.Errorf("%w: algo: %v", ErrInvalid, err)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must not be negative, got %d", ErrInvalid, c.Threads)
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalid, c.Runs)
	}
	if c.Retry.MaxFailures < 0 {
		return fmt.Errorf("%w: retry.max_failures must not be negative, got %d", ErrInvalid, c.Retry.MaxFailures)
	}
	if c.Retry.PerSecond < 0 {
		return fmt.Errorf("%w: retry.per_second must not be negative, got %f", ErrInvalid, c.Retry.PerSecond)
	}
	return c.RenderParams().Validate()
}

func (c *Config) RenderParams() reel.Config {
	return reel.Config{
		FrameRate: c.Render.FrameRate,
		CellSize:  c.Render.CellPixelSize,
		Spacing:   c.Render.LaneSpacing,
		TimeScale: c.Render.TimeScale,
		Speed:     c.Render.PlaybackSpeed,
		EndDelay:  c.Render.EndDelay,
	}
}

func (c *Config) RetryPolicy() solver.RetryPolicy {
	return solver.RetryPolicy{MaxFailures: c.Retry.MaxFailures, PerSecond: c.Retry.PerSecond}
}

// OutputPath is Output when set, otherwise reports/<problem>-<instance>.mp4.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(DefaultReportsDir, c.Problem+"-"+c.Instance+DefaultExtension)
}
