package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGDir writes frame_000000.png, frame_000001.png, ... into a directory.
type PNGDir struct {
	dir     string
	size    image.Point
	created bool
	written []string
	closed  bool
	enc     png.Encoder
}

func NewPNGDir(dir string, size image.Point) (*PNGDir, error) {
	created := false
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		created = true
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGDir{
		dir:     dir,
		size:    size,
		created: created,
		enc:     png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}

func (p *PNGDir) WriteFrame(img image.Image) error {
	if p.closed {
		return ErrClosed
	}
	if err := checkSize(img, p.size); err != nil {
		return err
	}

	path := filepath.Join(p.dir, fmt.Sprintf("frame_%06d.png", len(p.written)))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	p.written = append(p.written, path)

	if err := p.enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *PNGDir) Frames() int { return len(p.written) }

func (p *PNGDir) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	return nil
}

// Abort removes the frames written so far, and the directory when this
// sink created it.
func (p *PNGDir) Abort() error {
	p.closed = true
	if p.created {
		return os.RemoveAll(p.dir)
	}
	var firstErr error
	for _, path := range p.written {
		if err := os.Remove(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
