package ffprobe

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/vidsift/internal/errors"
)

// loadTestData loads a JSON fixture from the testdata directory.
func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", filename, err)
	}
	return data
}

func TestParseFFprobeOutput_Valid720p(t *testing.T) {
	probe, err := parseFFprobeOutput(loadTestData(t, "video_720p_h264.json"))
	if err != nil {
		t.Fatalf("parseFFprobeOutput() error = %v", err)
	}

	if len(probe.Streams) != 2 {
		t.Fatalf("len(Streams) = %d, want 2", len(probe.Streams))
	}

	props, err := probe.videoProperties("squat_01.mp4")
	if err != nil {
		t.Fatalf("videoProperties() error = %v", err)
	}

	if props.Width != 1280 || props.Height != 720 {
		t.Errorf("dimensions = %dx%d, want 1280x720", props.Width, props.Height)
	}
	if props.FrameRate != 30 {
		t.Errorf("FrameRate = %v, want 30", props.FrameRate)
	}
	if props.TotalFrames != 300 {
		t.Errorf("TotalFrames = %d, want 300", props.TotalFrames)
	}
	if props.DurationSecs != 10 {
		t.Errorf("DurationSecs = %v, want stream duration 10", props.DurationSecs)
	}
	if props.CodecName != "h264" {
		t.Errorf("CodecName = %q, want h264", props.CodecName)
	}
}

func TestParseFFprobeOutput_FrameCountFromDuration(t *testing.T) {
	probe, err := parseFFprobeOutput(loadTestData(t, "video_avi_no_nb_frames.json"))
	if err != nil {
		t.Fatalf("parseFFprobeOutput() error = %v", err)
	}

	props, err := probe.videoProperties("lunge_02.avi")
	if err != nil {
		t.Fatalf("videoProperties() error = %v", err)
	}

	if math.Abs(props.FrameRate-29.97) > 0.01 {
		t.Errorf("FrameRate = %v, want ~29.97", props.FrameRate)
	}
	if props.TotalFrames != 120 {
		t.Errorf("TotalFrames = %d, want 120", props.TotalFrames)
	}
}

func TestParseFFprobeOutput_NoVideoStream(t *testing.T) {
	probe, err := parseFFprobeOutput(loadTestData(t, "audio_only.json"))
	if err != nil {
		t.Fatalf("parseFFprobeOutput() error = %v", err)
	}

	_, err = probe.videoProperties("track.mp4")
	if !errors.IsKind(err, errors.KindVideoInfo) {
		t.Errorf("expected video info error, got %v", err)
	}
}

func TestParseFFprobeOutput_InvalidDimensions(t *testing.T) {
	probe, err := parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"video","width":0,"height":0}],"format":{}}`))
	if err != nil {
		t.Fatalf("parseFFprobeOutput() error = %v", err)
	}

	if _, err := probe.videoProperties("broken.mp4"); err == nil {
		t.Error("expected error for zero dimensions")
	}
}

func TestParseFFprobeOutput_Malformed(t *testing.T) {
	_, err := parseFFprobeOutput([]byte(`{"streams": [`))
	if !errors.IsKind(err, errors.KindFFprobeParse) {
		t.Errorf("expected ffprobe parse error, got %v", err)
	}
}

func TestTotalFrames(t *testing.T) {
	tests := []struct {
		name     string
		nbFrames string
		duration float64
		fps      float64
		want     int
	}{
		{"nb_frames wins", "450", 10, 30, 450},
		{"duration fallback", "", 2.5, 24, 60},
		{"N/A nb_frames", "N/A", 1, 25, 25},
		{"zero nb_frames falls back", "0", 1, 25, 25},
		{"unknown fps", "", 10, 0, 0},
		{"unknown everything", "", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalFrames(tt.nbFrames, tt.duration, tt.fps); got != tt.want {
				t.Errorf("totalFrames() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"abc/1", 0},
	}

	for _, tt := range tests {
		if got := parseFrameRate(tt.in); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
