package validation

import (
	"fmt"
	"slices"

	"github.com/five82/vidsift/internal/analysis"
	"github.com/five82/vidsift/internal/config"
)

// Result contains the acceptance decision for one video.
type Result struct {
	Accepted bool
	Reasons  []Reason

	metrics    analysis.VideoMetrics
	thresholds config.Thresholds
	corrupted  bool
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// Decision returns "accepted" or "rejected".
func (r Result) Decision() string {
	if r.Accepted {
		return "accepted"
	}
	return "rejected"
}

// Has reports whether reason was returned.
func (r Result) Has(reason Reason) bool {
	return slices.Contains(r.Reasons, reason)
}

// ReasonsString renders the reasons cell for reports.
func (r Result) ReasonsString() string {
	return JoinReasons(r.Reasons)
}

// Steps returns all validation steps with results. A corrupted video yields
// a single failed step.
func (r Result) Steps() []ValidationStep {
	if r.corrupted {
		return []ValidationStep{{
			Name:    "Decodable",
			Passed:  false,
			Details: "No frames could be decoded",
		}}
	}

	m, th := r.metrics, r.thresholds
	steps := []ValidationStep{
		{
			Name:    "Decodable",
			Passed:  true,
			Details: "Frames decoded",
		},
		{
			Name:    "Resolution",
			Passed:  !r.Has(ReasonLowResolution),
			Details: fmt.Sprintf("%dx%d (min %dx%d)", m.Width, m.Height, th.MinWidth, th.MinHeight),
		},
		{
			Name:    "Brightness",
			Passed:  !r.Has(ReasonTooDark) && !r.Has(ReasonTooBright),
			Details: formatBrightness(m.Brightness.Float64, th),
		},
		{
			Name:    "Sharpness",
			Passed:  !r.Has(ReasonBlurry),
			Details: fmt.Sprintf("%.2f (min %.2f)", m.Sharpness.Float64, th.MinSharpness),
		},
		{
			Name:    "Motion",
			Passed:  !r.Has(ReasonInsufficientMotion),
			Details: formatMotion(m),
		},
	}
	return steps
}

// GetFailures returns descriptions of failed validation checks.
func (r Result) GetFailures() []string {
	var failures []string
	for _, step := range r.Steps() {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return failures
}

func formatBrightness(v float64, th config.Thresholds) string {
	switch {
	case v < th.MinBrightness:
		return fmt.Sprintf("%.2f is too dark (min %.2f)", v, th.MinBrightness)
	case v > th.MaxBrightness:
		return fmt.Sprintf("%.2f is too bright (max %.2f)", v, th.MaxBrightness)
	default:
		return fmt.Sprintf("%.2f within %.2f-%.2f", v, th.MinBrightness, th.MaxBrightness)
	}
}

func formatMotion(m analysis.VideoMetrics) string {
	if !m.MotionFlag {
		return "Not required for this exercise"
	}
	if m.MotionPairs == 0 {
		return "Not enough frames to compare"
	}
	return fmt.Sprintf("%d/%d active pairs (%.1f%%)",
		m.MotionActivePairs, m.MotionPairs, m.MotionActiveFramePct.Float64*100)
}
