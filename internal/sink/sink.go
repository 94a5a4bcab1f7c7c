// Package sink encodes composited frames into output files.
package sink

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

var (
	ErrClosed    = errors.New("sink: already closed")
	ErrFrameSize = errors.New("sink: frame size does not match")
)

// Sink receives frames in order. Close finishes the output; Abort
// discards it, removing anything already written.
type Sink interface {
	WriteFrame(img image.Image) error
	Close() error
	Abort() error
}

// Open picks an encoder from the file extension: ".gif" encodes an
// animated GIF, video extensions are piped through ffmpeg, anything else
// is treated as a directory of numbered PNG files.
func Open(path string, size image.Point, fps int) (Sink, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrFrameSize, size)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("sink: frame rate must be positive, got %d", fps)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return NewGIF(path, size, fps)
	case ".mp4", ".mkv", ".webm", ".avi", ".mov":
		return NewFFmpeg(path, size, fps)
	default:
		return NewPNGDir(path, size)
	}
}

func checkSize(img image.Image, size image.Point) error {
	if got := img.Bounds().Size(); got != size {
		return fmt.Errorf("%w: got %v, want %v", ErrFrameSize, got, size)
	}
	return nil
}

// toRGBA returns img as an *image.RGBA anchored at the origin, copying
// only when it has to.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return rgba
}
