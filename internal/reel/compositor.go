package reel

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	FrameBackground = color.RGBA{255, 255, 255, 255}
	LabelColor      = color.RGBA{0, 0, 0, 255}
)

// Layout places lanes left to right with Spacing pixels around each board.
type Layout struct {
	Board   image.Point
	Spacing int
	Lanes   int
}

// Size is (lanes*board_w + spacing*(lanes+1)) x (board_h + 2*spacing).
func (l Layout) Size() image.Point {
	return image.Point{
		X: l.Lanes*l.Board.X + l.Spacing*(l.Lanes+1),
		Y: l.Board.Y + 2*l.Spacing,
	}
}

// Origin is the top-left pixel of lane i's board.
func (l Layout) Origin(i int) image.Point {
	return image.Point{X: l.Spacing + i*(l.Board.X+l.Spacing), Y: l.Spacing}
}

func (l Layout) BoardRect(i int) image.Rectangle {
	return image.Rectangle{Min: l.Origin(i), Max: l.Origin(i).Add(l.Board)}
}

// Compositor merges lanes into frames on top of a fixed base image.
type Compositor struct {
	layout Layout
	base   *image.RGBA
}

// NewCompositor draws the base image once: background, one board per
// lane and a label centred above each board.
func NewCompositor(board image.Image, labels []string, spacing int) *Compositor {
	layout := Layout{Board: board.Bounds().Size(), Spacing: spacing, Lanes: len(labels)}
	size := layout.Size()

	base := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(base, base.Bounds(), image.NewUniform(FrameBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	baseline := (spacing + face.Metrics().Ascent.Ceil()) / 2
	for i, label := range labels {
		r := layout.BoardRect(i)
		draw.Draw(base, r, board, board.Bounds().Min, draw.Src)

		d := &font.Drawer{Dst: base, Src: image.NewUniform(LabelColor), Face: face}
		tw := d.MeasureString(label).Ceil()
		x := r.Min.X + layout.Board.X/2 - tw/2
		d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(baseline)}
		d.DrawString(label)
	}

	return &Compositor{layout: layout, base: base}
}

func (c *Compositor) Layout() Layout { return c.layout }

// Base returns the frame before any markers are drawn.
func (c *Compositor) Base() *image.RGBA { return c.base }

// Compose returns a new frame: base, then every lane's cumulative canvas,
// then every lane's path overlay. Transparent pixels leave what is below.
func (c *Compositor) Compose(lanes []*Lane) *image.RGBA {
	frame := image.NewRGBA(c.base.Bounds())
	copy(frame.Pix, c.base.Pix)

	for i, l := range lanes {
		draw.Draw(frame, c.layout.BoardRect(i), l.Canvas(), image.Point{}, draw.Over)
	}
	for i, l := range lanes {
		draw.Draw(frame, c.layout.BoardRect(i), l.Overlay(), image.Point{}, draw.Over)
	}
	return frame
}
