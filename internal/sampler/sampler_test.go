package sampler

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vidsift/internal/capture"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/validation"
)

// fakeSource serves gray frames whose pixel value is the frame index modulo 256.
type fakeSource struct {
	width, height int
	reported      int // frame count reported to the sampler
	actual        int // frames that can really be decoded
	failAt        map[int]bool
	onRead        func(index int)

	reads  []int
	closed int
}

func (f *fakeSource) Width() int      { return f.width }
func (f *fakeSource) Height() int     { return f.height }
func (f *fakeSource) FrameCount() int { return f.reported }

func (f *fakeSource) Read(_ context.Context, index int) (*image.Gray, error) {
	f.reads = append(f.reads, index)
	if f.onRead != nil {
		f.onRead(index)
	}
	if index >= f.actual || f.failAt[index] {
		return nil, errors.New("decode failed")
	}
	img := image.NewGray(image.Rect(0, 0, f.width, f.height))
	for i := range img.Pix {
		img.Pix[i] = uint8(index % 256)
	}
	return img, nil
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

type fakeOpener struct {
	src *fakeSource
	err error
}

func (o *fakeOpener) Open(context.Context, string) (capture.Source, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.src, nil
}

func indices(s Samples) []int {
	out := make([]int, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Index
	}
	return out
}

func TestSample_LongVideo(t *testing.T) {
	src := &fakeSource{width: 8, height: 6, reported: 1000, actual: 1000}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "a.mp4")
	require.NoError(t, err)

	assert.False(t, res.Corrupted())
	require.Len(t, res.Samples.Frames, 20)
	assert.Equal(t, 0, res.Samples.Frames[0].Index)
	assert.Equal(t, 285, res.Samples.Frames[19].Index)
	assert.Equal(t, 8, res.Samples.Width)
	assert.Equal(t, 6, res.Samples.Height)
	assert.Equal(t, 1, src.closed)
	assert.Len(t, res.Samples.Images(), 20)
}

func TestSample_ShortVideoUsesSafetyBound(t *testing.T) {
	src := &fakeSource{width: 4, height: 4, reported: 50, actual: 50}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "short.mp4")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 15, 30, 45}, indices(res.Samples))
	assert.Equal(t, 17, res.Samples.Skipped)
	// budget is max(50, 20*15+1) = 301, so index 300 is the last attempted
	assert.Equal(t, 300, src.reads[len(src.reads)-1])
	assert.False(t, res.Corrupted())
}

func TestSample_UnknownFrameCount(t *testing.T) {
	src := &fakeSource{width: 4, height: 4, reported: 0, actual: 10000}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "nocount.avi")
	require.NoError(t, err)
	assert.Len(t, res.Samples.Frames, 20)
}

func TestSample_FailedReadSkipsIndex(t *testing.T) {
	src := &fakeSource{width: 4, height: 4, reported: 1000, actual: 1000, failAt: map[int]bool{15: true}}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "a.mp4")
	require.NoError(t, err)

	got := indices(res.Samples)
	require.Len(t, got, 20)
	assert.Equal(t, 0, got[0])
	assert.Equal(t, 30, got[1])
	assert.Equal(t, 300, got[19])
	assert.Equal(t, 1, res.Samples.Skipped)
}

func TestSample_SingleFrame(t *testing.T) {
	src := &fakeSource{width: 4, height: 4, reported: 100, actual: 100}
	s := New(&fakeOpener{src: src}, config.Sampling{NumFrames: 1, Stride: 1}, zerolog.Nop())

	res, err := s.Sample(context.Background(), "a.mp4")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices(res.Samples))
	assert.Equal(t, []int{0}, src.reads)
}

func TestSample_ZeroFramesIsCorrupted(t *testing.T) {
	src := &fakeSource{width: 1280, height: 720, reported: 300, actual: 0}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "broken.mp4")
	require.NoError(t, err)

	assert.True(t, res.Corrupted())
	assert.Equal(t, []validation.Reason{validation.ReasonCorruptedFile}, res.Issues)
	assert.Empty(t, res.Samples.Frames)
	assert.True(t, res.Opened)
	assert.Equal(t, 1, src.closed)
}

func TestSample_OpenFailureIsCorrupted(t *testing.T) {
	s := New(&fakeOpener{err: errors.New("moov atom not found")}, config.DefaultSampling(), zerolog.Nop())

	res, err := s.Sample(context.Background(), "trunc.mp4")
	require.NoError(t, err)

	assert.Equal(t, []validation.Reason{validation.ReasonCorruptedFile}, res.Issues)
	assert.Zero(t, res.Samples.Width)
	assert.Zero(t, res.Samples.Height)
	assert.False(t, res.Opened)
}

func TestSample_CancelledReleasesSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{width: 4, height: 4, reported: 1000, actual: 1000}
	src.onRead = func(index int) {
		if index == 30 {
			cancel()
		}
	}
	s := New(&fakeOpener{src: src}, config.DefaultSampling(), zerolog.Nop())

	_, err := s.Sample(ctx, "a.mp4")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, src.closed)
}
