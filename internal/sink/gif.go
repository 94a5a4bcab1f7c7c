package sink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
)

// Palette holds every colour the renderer draws plus a grey ramp for
// anything in between.
var Palette = func() color.Palette {
	p := color.Palette{
		color.RGBA{255, 255, 255, 255},
		color.RGBA{0, 0, 0, 255},
		color.RGBA{255, 128, 0, 255},
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 0, 255, 255},
		color.RGBA{255, 255, 0, 255},
		color.RGBA{144, 238, 144, 255},
	}
	for v := 32; v < 255; v += 32 {
		p = append(p, color.RGBA{uint8(v), uint8(v), uint8(v), 255})
	}
	return p
}()

// MaxGIFFrameRate is the highest rate a GIF can play back faithfully.
// Delays are whole centiseconds and most decoders slow anything under
// 2cs down to 10cs.
const MaxGIFFrameRate = 50

// GIF buffers paletted frames and encodes them on Close.
type GIF struct {
	path   string
	size   image.Point
	fps    int
	frames []*image.Paletted
	closed bool
}

// NewGIF returns a sink that writes an animated GIF to path.
//
// image/gif can only encode a whole animation at once, so every frame is
// held in memory as a paletted copy (one byte per pixel) until Close. Long
// renders should use a video sink instead.
func NewGIF(path string, size image.Point, fps int) (*GIF, error) {
	if fps <= 0 || fps > MaxGIFFrameRate {
		return nil, fmt.Errorf("sink: gif frame rate must be in 1..%d, got %d", MaxGIFFrameRate, fps)
	}
	return &GIF{path: path, size: size, fps: fps}, nil
}

// frameDelay is the delay of frame i in centiseconds. Delays alternate so
// that the first n frames always last n/fps seconds, rounded.
func frameDelay(i, fps int) int {
	at := func(n int) int { return (n*200 + fps) / (2 * fps) }
	return at(i+1) - at(i)
}

func (g *GIF) WriteFrame(img image.Image) error {
	if g.closed {
		return ErrClosed
	}
	if err := checkSize(img, g.size); err != nil {
		return err
	}
	p := image.NewPaletted(image.Rectangle{Max: g.size}, Palette)
	draw.Draw(p, p.Bounds(), img, img.Bounds().Min, draw.Src)
	g.frames = append(g.frames, p)
	return nil
}

func (g *GIF) Frames() int { return len(g.frames) }

func (g *GIF) Close() error {
	if g.closed {
		return ErrClosed
	}
	g.closed = true

	anim := gif.GIF{LoopCount: 0}
	for i, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay(i, g.fps))
	}
	g.frames = nil

	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		os.Remove(g.path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(g.path)
		return err
	}
	return nil
}

// Abort drops buffered frames; nothing has been written yet.
func (g *GIF) Abort() error {
	g.closed = true
	g.frames = nil
	return nil
}
