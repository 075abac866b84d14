package analysis

import (
	"image"
	"image/draw"

	"github.com/corona10/goimagehash"
	"github.com/nfnt/resize"

	"github.com/five82/vidsift/internal/config"
)

// Input is the sampled material for one video.
type Input struct {
	Width  int
	Height int
	Frames []*image.Gray
}

// Options controls metric extraction.
type Options struct {
	Motion config.Motion
	// MaxWidth downscales wider frames before measuring. 0 keeps full size.
	MaxWidth int
	// FrameHash computes a perceptual hash of the first frame.
	FrameHash bool
}

// DefaultOptions returns extraction options matching the default config.
func DefaultOptions() Options {
	return Options{Motion: config.DefaultMotion()}
}

// OptionsFromConfig builds extraction options from a run configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Motion:    cfg.Motion,
		MaxWidth:  cfg.Analysis.MaxWidth,
		FrameHash: cfg.Analysis.FrameHash,
	}
}

// Extract computes VideoMetrics from sampled frames. Width and height are
// always the probed geometry, even when frames are downscaled for analysis.
// With no frames brightness and sharpness stay undefined. Motion is measured
// only when motionEnabled is set.
func Extract(in Input, motionEnabled bool, opts Options) VideoMetrics {
	m := VideoMetrics{
		Width:      in.Width,
		Height:     in.Height,
		MotionFlag: motionEnabled,
	}

	if len(in.Frames) == 0 {
		return m
	}

	frames := in.Frames
	if opts.MaxWidth > 0 {
		frames = downscaleAll(frames, opts.MaxWidth)
	}

	var brightness, sharpness float64
	for _, f := range frames {
		brightness += meanIntensity(f)
		sharpness += laplacianVariance(f)
	}
	n := float64(len(frames))
	m.Brightness = Float(brightness / n)
	m.Sharpness = Float(sharpness / n)

	if motionEnabled {
		m.applyMotion(measureMotion(frames, opts.Motion))
	}

	if opts.FrameHash {
		m.FrameHash = PerceptualHash(in.Frames[0])
	}

	return m
}

// PerceptualHash returns the goimagehash perception hash of img as a string,
// or an empty string when it cannot be computed.
func PerceptualHash(img image.Image) string {
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return ""
	}
	return h.ToString()
}

func downscaleAll(frames []*image.Gray, maxWidth int) []*image.Gray {
	out := make([]*image.Gray, len(frames))
	for i, f := range frames {
		out[i] = downscale(f, maxWidth)
	}
	return out
}

// downscale shrinks img to maxWidth keeping the aspect ratio. Narrower
// frames are returned unchanged.
func downscale(img *image.Gray, maxWidth int) *image.Gray {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	scaled := resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
	if g, ok := scaled.(*image.Gray); ok {
		return g
	}
	g := image.NewGray(scaled.Bounds())
	draw.Draw(g, g.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return g
}
