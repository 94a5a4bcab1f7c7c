package sink

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// FFmpegBinary is the encoder executable looked up on PATH.
var FFmpegBinary = "ffmpeg"

// FFmpeg streams raw RGBA frames into an ffmpeg process.
type FFmpeg struct {
	path   string
	size   image.Point
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	closed bool
}

func NewFFmpeg(path string, size image.Point, fps int) (*FFmpeg, error) {
	f := &FFmpeg{path: path, size: size}
	f.cmd = exec.Command(FFmpegBinary, ffmpegArgs(path, size, fps)...)
	f.cmd.Stderr = &f.stderr

	stdin, err := f.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	f.stdin = stdin

	if err := f.cmd.Start(); err != nil {
		return nil, fmt.Errorf("sink: start %s: %w", FFmpegBinary, err)
	}
	return f, nil
}

func ffmpegArgs(path string, size image.Point, fps int) []string {
	return []string{
		"-y", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", size.X, size.Y),
		"-r", strconv.Itoa(fps),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2:color=white",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		path,
	}
}

func (f *FFmpeg) WriteFrame(img image.Image) error {
	if f.closed {
		return ErrClosed
	}
	if err := checkSize(img, f.size); err != nil {
		return err
	}

	rgba := toRGBA(img)
	rowLen := f.size.X * 4
	for y := 0; y < f.size.Y; y++ {
		start := y * rgba.Stride
		if _, err := f.stdin.Write(rgba.Pix[start : start+rowLen]); err != nil {
			return fmt.Errorf("sink: ffmpeg: %w", err)
		}
	}
	return nil
}

func (f *FFmpeg) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true

	f.stdin.Close()
	if err := f.cmd.Wait(); err != nil {
		os.Remove(f.path)
		return fmt.Errorf("sink: ffmpeg: %w: %s", err, bytes.TrimSpace(f.stderr.Bytes()))
	}
	return nil
}

func (f *FFmpeg) Abort() error {
	if f.closed {
		return nil
	}
	f.closed = true

	f.stdin.Close()
	if f.cmd.Process != nil {
		f.cmd.Process.Kill()
	}
	f.cmd.Wait()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
