package sink

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func solid(size image.Point, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestOpenChoosesEncoder(t *testing.T) {
	dir := t.TempDir()
	size := image.Pt(4, 4)

	s, err := Open(filepath.Join(dir, "out.gif"), size, 30)
	if err != nil {
		t.Fatalf("open gif: %v", err)
	}
	if _, ok := s.(*GIF); !ok {
		t.Errorf("expected *GIF, got %T", s)
	}

	s, err = Open(filepath.Join(dir, "frames"), size, 30)
	if err != nil {
		t.Fatalf("open png dir: %v", err)
	}
	if _, ok := s.(*PNGDir); !ok {
		t.Errorf("expected *PNGDir, got %T", s)
	}
}

func TestOpenRejectsBadParameters(t *testing.T) {
	if _, err := Open("x.gif", image.Pt(0, 4), 30); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
	if _, err := Open("x.gif", image.Pt(4, 4), 0); err == nil {
		t.Error("expected error for zero frame rate")
	}
	if _, err := Open("x.gif", image.Pt(4, 4), MaxGIFFrameRate+1); err == nil {
		t.Error("expected error for a gif frame rate above the centisecond limit")
	}
}

func TestGIFEncodesAllFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	size := image.Pt(8, 6)
	g, err := NewGIF(path, size, 30)
	if err != nil {
		t.Fatal(err)
	}

	colors := []color.RGBA{{255, 0, 0, 255}, {0, 0, 255, 255}, {144, 238, 144, 255}}
	for _, c := range colors {
		if err := g.WriteFrame(solid(size, c)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(anim.Image))
	}
	if want := []int{3, 4, 3}; anim.Delay[0] != want[0] || anim.Delay[1] != want[1] || anim.Delay[2] != want[2] {
		t.Errorf("expected delays %v, got %v", want, anim.Delay)
	}
	for i, c := range colors {
		r, g, b, _ := anim.Image[i].At(1, 1).RGBA()
		if uint8(r>>8) != c.R || uint8(g>>8) != c.G || uint8(b>>8) != c.B {
			t.Errorf("frame %d: colour not preserved", i)
		}
	}

	if err := g.WriteFrame(solid(size, colors[0])); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}

func TestGIFPlaybackMatchesFrameRate(t *testing.T) {
	tests := []struct {
		fps, frames int
	}{
		{30, 30},
		{30, 95},
		{24, 48},
		{50, 10},
		{7, 21},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dfps", tt.fps), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.gif")
			size := image.Pt(2, 2)
			g, err := NewGIF(path, size, tt.fps)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < tt.frames; i++ {
				if err := g.WriteFrame(solid(size, color.RGBA{A: 255})); err != nil {
					t.Fatal(err)
				}
			}
			if err := g.Close(); err != nil {
				t.Fatal(err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			anim, err := gif.DecodeAll(f)
			if err != nil {
				t.Fatal(err)
			}

			total := 0
			for _, d := range anim.Delay {
				if d < 2 {
					t.Errorf("delay %dcs is below what decoders honour", d)
				}
				total += d
			}
			want := int(math.Round(float64(tt.frames) * 100 / float64(tt.fps)))
			if total != want {
				t.Errorf("%d frames at %dfps play for %dcs, want %dcs", tt.frames, tt.fps, total, want)
			}
		})
	}
}

func TestGIFRejectsWrongSize(t *testing.T) {
	g, err := NewGIF(filepath.Join(t.TempDir(), "out.gif"), image.Pt(8, 6), 30)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.WriteFrame(solid(image.Pt(6, 6), color.RGBA{})); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

func TestGIFAbortWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	g, err := NewGIF(path, image.Pt(2, 2), 30)
	if err != nil {
		t.Fatal(err)
	}
	g.WriteFrame(solid(image.Pt(2, 2), color.RGBA{A: 255}))

	if err := g.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("aborted gif left a file behind")
	}
}

func TestPNGDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	size := image.Pt(3, 3)

	p, err := NewPNGDir(dir, size)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := p.WriteFrame(solid(size, color.RGBA{uint8(i), 0, 0, 255})); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 files, got %d", len(entries))
	}
	if entries[0].Name() != "frame_000000.png" {
		t.Errorf("unexpected first file %s", entries[0].Name())
	}
}

func TestPNGDirAbortRemovesOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	p, err := NewPNGDir(dir, image.Pt(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	p.WriteFrame(solid(image.Pt(2, 2), color.RGBA{A: 255}))

	if err := p.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("aborted sink left its directory behind")
	}
}

func TestMemoryCopiesFrames(t *testing.T) {
	m := &Memory{}
	img := solid(image.Pt(2, 2), color.RGBA{255, 0, 0, 255})
	m.WriteFrame(img)
	img.SetRGBA(0, 0, color.RGBA{})

	if got := m.Frames[0].RGBAAt(0, 0); got.R != 255 {
		t.Error("memory sink aliased the caller's frame")
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("out.mp4", image.Pt(120, 70), 30)
	want := map[string]string{"-s": "120x70", "-r": "30", "-pix_fmt": "rgba", "-i": "-"}
	for i := 0; i < len(args)-1; i++ {
		if v, ok := want[args[i]]; ok && args[i+1] == v {
			delete(want, args[i])
		}
	}
	if len(want) != 0 {
		t.Errorf("missing arguments: %v", want)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output path should come last, got %q", args[len(args)-1])
	}
}
