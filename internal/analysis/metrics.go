// Package analysis computes per-video quality metrics from sampled frames.
package analysis

import (
	"strconv"

	"github.com/goccy/go-json"
)

// NullFloat is a float64 that may be undefined. Undefined values encode as
// JSON null.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a defined NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// MarshalJSON implements json.Marshaler.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.Float64, 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// VideoMetrics holds everything measured for one video.
type VideoMetrics struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Brightness NullFloat `json:"brightness"`
	Sharpness  NullFloat `json:"sharpness"`

	MotionFlag     bool `json:"motion_flag"`
	MotionDetected bool `json:"motion_detected"`
	MotionPairs    int  `json:"motion_pairs"`
	// MotionActivePairs counts pairs whose change ratio reached the minimum.
	MotionActivePairs     int       `json:"motion_active_pairs"`
	MotionActiveFramePct  NullFloat `json:"motion_active_frame_pct"`
	MotionMeanChangeRatio NullFloat `json:"motion_mean_change_ratio"`
	MotionMaxChangeRatio  NullFloat `json:"motion_max_change_ratio"`

	// FrameHash is the perceptual hash of the first sampled frame, empty
	// when hashing is off or no frame was sampled.
	FrameHash string `json:"frame_hash,omitempty"`
}

// MotionMetrics is the motion portion of VideoMetrics.
type MotionMetrics struct {
	Pairs           int
	ActivePairs     int
	ActiveFraction  NullFloat
	MeanChangeRatio NullFloat
	MaxChangeRatio  NullFloat
	Detected        bool
}

func (m *VideoMetrics) applyMotion(mm MotionMetrics) {
	m.MotionPairs = mm.Pairs
	m.MotionActivePairs = mm.ActivePairs
	m.MotionActiveFramePct = mm.ActiveFraction
	m.MotionMeanChangeRatio = mm.MeanChangeRatio
	m.MotionMaxChangeRatio = mm.MaxChangeRatio
	m.MotionDetected = mm.Detected
}
