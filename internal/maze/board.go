package maze

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	Background = color.RGBA{255, 255, 255, 255}
	GridColor  = color.RGBA{0, 0, 0, 255}
	WallColor  = color.RGBA{0, 0, 0, 255}
	PathColor  = color.RGBA{255, 128, 0, 255}
)

// Rasterize draws the board: a one-pixel grid, filled walls and path
// cells, blank empty cells. The image is cols*cellSize by rows*cellSize.
func Rasterize(m *Maze, cellSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Cols*cellSize, m.Rows*cellSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			x, y := col*cellSize, row*cellSize
			cell := image.Rect(x, y, x+cellSize+1, y+cellSize+1)

			switch m.At(col, row) {
			case Wall:
				fillRect(img, cell, WallColor)
			case Path:
				fillRect(img, cell, PathColor)
			}
			strokeRect(img, cell, GridColor)
		}
	}
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect outlines r's outer pixels; r.Max is exclusive, so adjacent
// cells share their border line.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setIn(img, x, r.Min.Y, c)
		setIn(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setIn(img, r.Min.X, y, c)
		setIn(img, r.Max.X-1, y, c)
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
