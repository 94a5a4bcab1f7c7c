package reel

import (
	"image"
	"image/color"

	"github.com/san-kum/astarviz/internal/trace"
)

var (
	VisitedColor   = color.RGBA{255, 0, 0, 255}
	SuccessorColor = color.RGBA{0, 0, 255, 255}
	GoalColor      = color.RGBA{255, 255, 0, 255}
	PathColor      = color.RGBA{144, 238, 144, 255}
	OutlineColor   = color.RGBA{0, 0, 0, 255}
)

// MarkerColor returns the fill for a drawable kind.
func MarkerColor(k trace.Kind) (color.RGBA, bool) {
	switch k {
	case trace.Visited:
		return VisitedColor, true
	case trace.Successor:
		return SuccessorColor, true
	case trace.Goal:
		return GoalColor, true
	case trace.End:
		return color.RGBA{}, false
	}
	return color.RGBA{}, false
}

// markerRadius is 70% of half a cell, truncated.
func markerRadius(cellSize int) int {
	return int(float64(cellSize/2) * 0.7)
}

// cellCenter returns the pixel center of a grid cell.
func cellCenter(p trace.Pos, cellSize int) image.Point {
	half := cellSize / 2
	return image.Point{X: p.Col*cellSize + half, Y: p.Row*cellSize + half}
}

// drawMarker fills a disc of radius r around c with a one-pixel outline.
// Edges are not antialiased so every pixel stays an exact palette colour.
func drawMarker(img *image.RGBA, c image.Point, r int, fill color.RGBA) {
	outer := (2*r + 1) * (2*r + 1)
	inner := (2*r - 1) * (2*r - 1)
	bounds := img.Bounds()

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := 4 * (dx*dx + dy*dy)
			if d > outer {
				continue
			}
			p := image.Point{X: c.X + dx, Y: c.Y + dy}
			if !p.In(bounds) {
				continue
			}
			if r > 0 && d > inner {
				img.SetRGBA(p.X, p.Y, OutlineColor)
			} else {
				img.SetRGBA(p.X, p.Y, fill)
			}
		}
	}
}

func clearImage(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
