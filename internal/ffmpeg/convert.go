package ffmpeg

import (
	"fmt"
	"image"
)

// BT.601 luma weights in 14-bit fixed point.
const (
	grayShift = 14
	weightR   = 4899
	weightG   = 9617
	weightB   = 1868
	grayRound = 1 << (grayShift - 1)
)

// RGBToGray converts packed rgb24 pixels into an 8-bit grayscale image.
func RGBToGray(rgb []byte, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	need := width * height * 3
	if len(rgb) < need {
		return nil, fmt.Errorf("short frame: got %d bytes, want %d", len(rgb), need)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, j := 0, 0; j < width*height; i, j = i+3, j+1 {
		r := uint32(rgb[i])
		g := uint32(rgb[i+1])
		b := uint32(rgb[i+2])
		img.Pix[j] = uint8((r*weightR + g*weightG + b*weightB + grayRound) >> grayShift)
	}
	return img, nil
}
