package sink

import (
	"image"
	"image/draw"
)

// Memory keeps a copy of every frame. Meant for tests and previews of
// short renders.
type Memory struct {
	Frames []*image.RGBA
}

func (m *Memory) WriteFrame(img image.Image) error {
	b := img.Bounds()
	c := image.NewRGBA(image.Rectangle{Max: b.Size()})
	draw.Draw(c, c.Bounds(), img, b.Min, draw.Src)
	m.Frames = append(m.Frames, c)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Abort() error {
	m.Frames = nil
	return nil
}

// Discard counts frames and drops them.
type Discard struct {
	Count int
}

func (d *Discard) WriteFrame(image.Image) error {
	d.Count++
	return nil
}

func (d *Discard) Close() error { return nil }
func (d *Discard) Abort() error { return nil }
