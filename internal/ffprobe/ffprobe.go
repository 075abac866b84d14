// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/five82/vidsift/internal/errors"
)

// VideoProperties contains the properties of the first video stream.
type VideoProperties struct {
	Width        int
	Height       int
	FrameRate    float64 // 0 when unknown
	DurationSecs float64
	TotalFrames  int // 0 when unknown
	CodecName    string
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// Binary is the ffprobe executable name or path.
var Binary = "ffprobe"

// runFFprobe executes ffprobe and returns the parsed output.
func runFFprobe(ctx context.Context, inputPath string) (*ffprobeOutput, error) {
	cmd := exec.CommandContext(ctx, Binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapExecError(Binary, err, strings.TrimSpace(stderr.String()))
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput decodes raw ffprobe JSON.
func parseFFprobeOutput(data []byte) (*ffprobeOutput, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.NewFFprobeParseError("failed to parse ffprobe output", err)
	}
	return &result, nil
}

// GetVideoProperties returns the first video stream's geometry, frame rate
// and frame count. Files without a decodable video stream return an error.
func GetVideoProperties(ctx context.Context, inputPath string) (*VideoProperties, error) {
	probe, err := runFFprobe(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	return probe.videoProperties(inputPath)
}

func (p *ffprobeOutput) videoProperties(inputPath string) (*VideoProperties, error) {
	var videoStream *ffprobeStream
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			videoStream = &p.Streams[i]
			break
		}
	}

	if videoStream == nil {
		return nil, errors.NewVideoInfoError(fmt.Sprintf("no video stream found in %s", inputPath))
	}

	if videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, errors.NewVideoInfoError(fmt.Sprintf("invalid dimensions in %s: %dx%d",
			inputPath, videoStream.Width, videoStream.Height))
	}

	// Stream duration first, container duration as fallback
	duration := parseFloat(videoStream.Duration)
	if duration <= 0 {
		duration = parseFloat(p.Format.Duration)
	}

	fps := parseFrameRate(videoStream.AvgFrameRate)
	if fps <= 0 {
		fps = parseFrameRate(videoStream.RFrameRate)
	}

	return &VideoProperties{
		Width:        videoStream.Width,
		Height:       videoStream.Height,
		FrameRate:    fps,
		DurationSecs: duration,
		TotalFrames:  totalFrames(videoStream.NbFrames, duration, fps),
		CodecName:    videoStream.CodecName,
	}, nil
}

// totalFrames prefers the container's nb_frames and falls back to
// duration*fps. Unknown counts are 0.
func totalFrames(nbFrames string, duration, fps float64) int {
	if n, err := strconv.Atoi(nbFrames); err == nil && n > 0 {
		return n
	}
	if duration > 0 && fps > 0 {
		return int(math.Round(duration * fps))
	}
	return 0
}

// parseFrameRate parses ffprobe rationals such as "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
