// Package capture provides random-access frame reads over a video file.
package capture

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/vidsift/internal/ffmpeg"
	"github.com/five82/vidsift/internal/ffprobe"
)

// ErrClosed is returned by reads on a closed source.
var ErrClosed = errors.New("capture: source closed")

// Source is an open video that frames can be read from by index.
type Source interface {
	Width() int
	Height() int
	// FrameCount is the reported frame count, 0 when unknown.
	FrameCount() int
	Read(ctx context.Context, index int) (*image.Gray, error)
	Close() error
}

// Opener opens video sources. An error means the decoder could not open the
// file at all.
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// FrameDecoder decodes one frame. Satisfied by *ffmpeg.Decoder.
type FrameDecoder interface {
	ReadFrame(ctx context.Context, req ffmpeg.FrameRequest) (*image.Gray, error)
}

// Capture is a Source backed by ffprobe metadata and ffmpeg frame decodes.
type Capture struct {
	path    string
	props   ffprobe.VideoProperties
	decoder FrameDecoder

	mu     sync.Mutex
	closed bool
}

// Open probes path and returns a Capture ready for reads.
func Open(ctx context.Context, path string, decoder FrameDecoder) (*Capture, error) {
	props, err := ffprobe.GetVideoProperties(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Capture{path: path, props: *props, decoder: decoder}, nil
}

// Path returns the file path the capture was opened from.
func (c *Capture) Path() string { return c.path }

// Width returns the frame width in pixels.
func (c *Capture) Width() int { return c.props.Width }

// Height returns the frame height in pixels.
func (c *Capture) Height() int { return c.props.Height }

// FrameCount returns the probed total frame count, 0 when unknown.
func (c *Capture) FrameCount() int { return c.props.TotalFrames }

// FrameRate returns the probed frame rate, 0 when unknown.
func (c *Capture) FrameRate() float64 { return c.props.FrameRate }

// Read decodes the frame at index.
func (c *Capture) Read(ctx context.Context, index int) (*image.Gray, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	return c.decoder.ReadFrame(ctx, ffmpeg.FrameRequest{
		Path:      c.path,
		Index:     index,
		FrameRate: c.props.FrameRate,
		Width:     c.props.Width,
		Height:    c.props.Height,
	})
}

// Close releases the capture. Calling Close more than once is a no-op.
func (c *Capture) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// FFmpegOpener opens files through ffprobe and decodes frames through ffmpeg.
type FFmpegOpener struct {
	decoder FrameDecoder
}

// NewFFmpegOpener creates an opener using the ffmpeg and ffprobe binaries on PATH.
func NewFFmpegOpener(logger zerolog.Logger) *FFmpegOpener {
	return &FFmpegOpener{decoder: ffmpeg.NewDecoder(logger)}
}

// Open implements Opener.
func (o *FFmpegOpener) Open(ctx context.Context, path string) (Source, error) {
	c, err := Open(ctx, path, o.decoder)
	if err != nil {
		return nil, err
	}
	return c, nil
}
