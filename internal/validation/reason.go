// Package validation decides whether a sampled video is accepted.
package validation

import "strings"

// Reason is a rejection tag written to reports.
type Reason string

// Rejection reasons in evaluation order.
const (
	ReasonCorruptedFile      Reason = "corrupted_file"
	ReasonLowResolution      Reason = "low_resolution"
	ReasonTooDark            Reason = "too_dark"
	ReasonTooBright          Reason = "too_bright"
	ReasonBlurry             Reason = "blurry"
	ReasonInsufficientMotion Reason = "insufficient_motion"
)

// PassedAllChecks is the reasons cell written for accepted videos.
const PassedAllChecks = "passed_all_checks"

// AllReasons lists every reason in evaluation order.
var AllReasons = []Reason{
	ReasonCorruptedFile,
	ReasonLowResolution,
	ReasonTooDark,
	ReasonTooBright,
	ReasonBlurry,
	ReasonInsufficientMotion,
}

func (r Reason) String() string {
	return string(r)
}

// JoinReasons renders reasons as a comma separated list, or
// passed_all_checks when there are none.
func JoinReasons(reasons []Reason) string {
	if len(reasons) == 0 {
		return PassedAllChecks
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
