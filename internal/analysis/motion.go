package analysis

import (
	"image"

	"github.com/five82/vidsift/internal/config"
)

// measureMotion compares consecutive sampled frames after smoothing. Frames
// are strided samples, so each ratio measures change over one stride
// interval rather than between adjacent video frames.
func measureMotion(frames []*image.Gray, params config.Motion) MotionMetrics {
	if len(frames) < 2 {
		return MotionMetrics{}
	}

	blurred := make([]*image.Gray, len(frames))
	for i, f := range frames {
		blurred[i] = gaussianBlur5(f)
	}

	var mm MotionMetrics
	var ratioSum, ratioMax float64
	for i := 1; i < len(blurred); i++ {
		r := changeRatio(blurred[i-1], blurred[i], params.DiffThreshold)
		mm.Pairs++
		ratioSum += r
		if r > ratioMax {
			ratioMax = r
		}
		if r >= params.MinChangeRatio {
			mm.ActivePairs++
		}
	}

	frac := float64(mm.ActivePairs) / float64(mm.Pairs)
	mm.ActiveFraction = Float(frac)
	mm.MeanChangeRatio = Float(ratioSum / float64(mm.Pairs))
	mm.MaxChangeRatio = Float(ratioMax)
	mm.Detected = frac >= params.MinActiveFraction
	return mm
}
