package validation

import (
	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/config"
)

// Evaluate applies the acceptance rules to one video's metrics.
//
// Any sampler issue, or an undefined brightness or sharpness, rejects the
// video as corrupted_file and nothing else is checked. Otherwise every
// check runs and each failure adds its reason. Too dark and too bright are
// mutually exclusive. Evaluate does not modify its arguments.
func Evaluate(m analysis.VideoMetrics, issues []Reason, th config.Thresholds) Result {
	res := Result{metrics: m, thresholds: th}

	if len(issues) > 0 || !m.Brightness.Valid || !m.Sharpness.Valid {
		res.corrupted = true
		res.Reasons = []Reason{ReasonCorruptedFile}
		return res
	}

	var reasons []Reason

	if m.Width < th.MinWidth || m.Height < th.MinHeight {
		reasons = append(reasons, ReasonLowResolution)
	}

	switch {
	case m.Brightness.Float64 < th.MinBrightness:
		reasons = append(reasons, ReasonTooDark)
	case m.Brightness.Float64 > th.MaxBrightness:
		reasons = append(reasons, ReasonTooBright)
	}

	if m.Sharpness.Float64 < th.MinSharpness {
		reasons = append(reasons, ReasonBlurry)
	}

	if m.MotionFlag && !m.MotionDetected {
		reasons = append(reasons, ReasonInsufficientMotion)
	}

	res.Reasons = reasons
	res.Accepted = len(reasons) == 0
	return res
}
