package capture

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vidsift/internal/ffmpeg"
	"github.com/five82/vidsift/internal/ffprobe"
)

type recordingDecoder struct {
	requests []ffmpeg.FrameRequest
}

func (d *recordingDecoder) ReadFrame(_ context.Context, req ffmpeg.FrameRequest) (*image.Gray, error) {
	d.requests = append(d.requests, req)
	return image.NewGray(image.Rect(0, 0, req.Width, req.Height)), nil
}

func newTestCapture(dec FrameDecoder) *Capture {
	return &Capture{
		path:    "/data/squat/a.mp4",
		props:   ffprobe.VideoProperties{Width: 64, Height: 48, FrameRate: 25, TotalFrames: 250},
		decoder: dec,
	}
}

func TestCaptureRead(t *testing.T) {
	dec := &recordingDecoder{}
	c := newTestCapture(dec)

	assert.Equal(t, 64, c.Width())
	assert.Equal(t, 48, c.Height())
	assert.Equal(t, 250, c.FrameCount())
	assert.Equal(t, 25.0, c.FrameRate())

	img, err := c.Read(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	require.Len(t, dec.requests, 1)
	assert.Equal(t, ffmpeg.FrameRequest{
		Path:      "/data/squat/a.mp4",
		Index:     30,
		FrameRate: 25,
		Width:     64,
		Height:    48,
	}, dec.requests[0])
}

func TestCaptureClose(t *testing.T) {
	dec := &recordingDecoder{}
	c := newTestCapture(dec)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Read(context.Background(), 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, dec.requests)
}
