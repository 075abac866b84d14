// Package sampler reads a fixed number of evenly strided frames from a video.
package sampler

import (
	"context"
	"image"

	"github.com/rs/zerolog"

	"github.com/five82/vidsift/internal/capture"
	"github.com/five82/vidsift/internal/config"
	"github.com/five82/vidsift/internal/validation"
)

// Frame is one decoded sample.
type Frame struct {
	Index int
	Image *image.Gray
}

// Samples holds the frames read from one video plus the probed geometry.
type Samples struct {
	Frames     []Frame
	Width      int
	Height     int
	FrameCount int
	// Skipped counts indices whose read failed.
	Skipped int
}

// Images returns the sampled frames in index order.
func (s Samples) Images() []*image.Gray {
	out := make([]*image.Gray, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Image
	}
	return out
}

// Result is the outcome of sampling one video.
type Result struct {
	Samples Samples
	Issues  []validation.Reason
	// Opened is false when the file could not be opened at all.
	Opened bool
}

// Corrupted reports whether sampling flagged the file as unreadable.
func (r *Result) Corrupted() bool {
	return len(r.Issues) > 0
}

// Sampler draws frames through an Opener.
type Sampler struct {
	opener   capture.Opener
	sampling config.Sampling
	logger   zerolog.Logger
}

// New creates a sampler.
func New(opener capture.Opener, sampling config.Sampling, logger zerolog.Logger) *Sampler {
	return &Sampler{
		opener:   opener,
		sampling: sampling,
		logger:   logger.With().Str("component", "sampler").Logger(),
	}
}

// Sample reads up to NumFrames frames at indices 0, Stride, 2*Stride, ...
// A file that cannot be opened, or that yields no frames, comes back with a
// corrupted_file issue and a nil error. Only context cancellation is returned
// as an error.
func (s *Sampler) Sample(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := s.logger.With().Str("video", path).Logger()

	src, err := s.opener.Open(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Msg("could not open video")
		return &Result{Issues: []validation.Reason{validation.ReasonCorruptedFile}}, nil
	}
	defer func() { _ = src.Close() }()

	res := &Result{
		Opened: true,
		Samples: Samples{
			Width:      src.Width(),
			Height:     src.Height(),
			FrameCount: src.FrameCount(),
		},
	}

	budget := s.sampling.Budget(src.FrameCount())
	frames := make([]Frame, 0, s.sampling.NumFrames)

	for idx := 0; len(frames) < s.sampling.NumFrames && idx < budget; idx += s.sampling.Stride {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := src.Read(ctx, idx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug().Err(err).Int("index", idx).Msg("frame read failed, skipping")
			res.Samples.Skipped++
			continue
		}
		frames = append(frames, Frame{Index: idx, Image: img})
	}

	res.Samples.Frames = frames
	if len(frames) == 0 {
		log.Warn().Int("skipped", res.Samples.Skipped).Msg("no frames decoded")
		res.Issues = []validation.Reason{validation.ReasonCorruptedFile}
	}

	return res, nil
}
