// Package ffmpeg decodes single frames from video files with ffmpeg.
package ffmpeg

import (
	"strconv"
)

// FrameRequest describes one frame to decode.
type FrameRequest struct {
	Path      string
	Index     int
	FrameRate float64 // 0 selects by frame number instead of seeking
	Width     int
	Height    int
}

// FrameSize returns the expected rgb24 payload size in bytes.
func (r FrameRequest) FrameSize() int {
	return r.Width * r.Height * 3
}

// BuildFrameArgs builds the ffmpeg arguments that write exactly one rgb24
// frame to stdout.
func BuildFrameArgs(req FrameRequest) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin", "-noautorotate"}

	filters := NewVideoFilterChain()
	if req.FrameRate > 0 {
		ts := float64(req.Index) / req.FrameRate
		args = append(args, "-ss", strconv.FormatFloat(ts, 'f', 6, 64))
	} else {
		filters.AddSelectFrame(req.Index)
	}

	args = append(args, "-i", req.Path)

	if !filters.IsEmpty() {
		args = append(args, "-vf", filters.Build())
	}

	args = append(args,
		"-an", "-sn",
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	return args
}
