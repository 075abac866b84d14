package ffmpeg

import (
	"slices"
	"testing"
)

func TestVideoFilterChain(t *testing.T) {
	tests := []struct {
		name  string
		build func() string
		want  string
	}{
		{
			name: "empty chain",
			build: func() string {
				return NewVideoFilterChain().Build()
			},
			want: "",
		},
		{
			name: "select frame",
			build: func() string {
				return NewVideoFilterChain().AddSelectFrame(45).Build()
			},
			want: `select=eq(n\,45)`,
		},
		{
			name: "negative index ignored",
			build: func() string {
				return NewVideoFilterChain().AddSelectFrame(-1).Build()
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFrameArgs_SeekByTimestamp(t *testing.T) {
	args := BuildFrameArgs(FrameRequest{Path: "in.mp4", Index: 15, FrameRate: 30, Width: 640, Height: 360})

	ss := slices.Index(args, "-ss")
	in := slices.Index(args, "-i")
	if ss < 0 || in < 0 || ss > in {
		t.Fatalf("-ss must precede -i: %v", args)
	}
	if args[ss+1] != "0.500000" {
		t.Errorf("seek = %q, want 0.500000", args[ss+1])
	}
	if slices.Contains(args, "-vf") {
		t.Errorf("unexpected filter when seeking: %v", args)
	}
	if args[len(args)-1] != "pipe:1" {
		t.Errorf("last arg = %q, want pipe:1", args[len(args)-1])
	}
	if slices.Index(args, "-noautorotate") > in {
		t.Errorf("-noautorotate must be an input option: %v", args)
	}
}

func TestBuildFrameArgs_SelectWithoutFrameRate(t *testing.T) {
	args := BuildFrameArgs(FrameRequest{Path: "in.avi", Index: 30, Width: 640, Height: 360})

	if slices.Contains(args, "-ss") {
		t.Errorf("unexpected seek without frame rate: %v", args)
	}
	vf := slices.Index(args, "-vf")
	if vf < 0 || args[vf+1] != `select=eq(n\,30)` {
		t.Errorf("expected select filter, got %v", args)
	}
}

func TestRGBToGray(t *testing.T) {
	rgb := []byte{
		255, 255, 255, // white
		0, 0, 0, // black
		255, 0, 0, // red
		0, 255, 0, // green
		0, 0, 255, // blue
		128, 128, 128, // mid gray
	}

	img, err := RGBToGray(rgb, 3, 2)
	if err != nil {
		t.Fatalf("RGBToGray() error = %v", err)
	}

	want := []uint8{255, 0, 76, 150, 29, 128}
	for i, w := range want {
		if img.Pix[i] != w {
			t.Errorf("pixel %d = %d, want %d", i, img.Pix[i], w)
		}
	}
}

func TestRGBToGray_ShortFrame(t *testing.T) {
	if _, err := RGBToGray(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected error for short frame")
	}
	if _, err := RGBToGray(nil, 0, 2); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestFrameRequestFrameSize(t *testing.T) {
	req := FrameRequest{Width: 640, Height: 360}
	if got := req.FrameSize(); got != 640*360*3 {
		t.Errorf("FrameSize() = %d", got)
	}
}
